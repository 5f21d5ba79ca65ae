package determinism

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"solar-proposal/core/types"
)

func sampleInput() types.CustomerInput {
	return types.CustomerInput{
		RegionID:              "cordoba",
		MonthlyConsumptionKwh: 450,
		Class:                 types.ClassResidential,
		Roof:                  types.RoofTile,
		Orientation:           types.OrientationNorth,
		Tier:                  types.TierStandard,
	}
}

func TestInputHashStable(t *testing.T) {
	a, err := InputHash(sampleInput())
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	b, err := InputHash(sampleInput())
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if a != b {
		t.Errorf("hash changed between calls: %s vs %s", a.Hex(), b.Hex())
	}
	if a.IsZero() {
		t.Error("hash should not be zero")
	}
	if len(a.Hex()) != 64 {
		t.Errorf("hex length = %d, want 64", len(a.Hex()))
	}
}

func TestInputHashCanonical(t *testing.T) {
	base, _ := InputHash(sampleInput())

	tests := []struct {
		name   string
		mutate func(*types.CustomerInput)
		same   bool
	}{
		{"region case", func(in *types.CustomerInput) { in.RegionID = " Cordoba " }, true},
		{"consumption", func(in *types.CustomerInput) { in.MonthlyConsumptionKwh = 451 }, false},
		{"tier", func(in *types.CustomerInput) { in.Tier = types.TierPremium }, false},
		{"orientation", func(in *types.CustomerInput) { in.Orientation = types.OrientationEast }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := sampleInput()
			tt.mutate(&in)
			got, err := InputHash(in)
			if err != nil {
				t.Fatalf("hash: %v", err)
			}
			if (got == base) != tt.same {
				t.Errorf("same hash = %v, want %v", got == base, tt.same)
			}
		})
	}
}

func TestProposalID(t *testing.T) {
	hash, _ := InputHash(sampleInput())
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	id := ProposalID(hash, at)
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("not a uuid: %q", id)
	}
	if again := ProposalID(hash, at); again != id {
		t.Errorf("id not deterministic: %s vs %s", id, again)
	}
	if later := ProposalID(hash, at.Add(time.Second)); later == id {
		t.Error("different creation times should give different ids")
	}
	local := at.In(time.FixedZone("ART", -3*60*60))
	if ProposalID(hash, local) != id {
		t.Error("id should not depend on the clock's zone")
	}
}
