package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"solar-proposal/core/engine"
	"solar-proposal/core/reference"
	"solar-proposal/core/types"
	"solar-proposal/internal/config"
	apperrors "solar-proposal/internal/errors"
)

func referenceProposal(t *testing.T) *types.Proposal {
	t.Helper()
	provider, err := reference.Default()
	if err != nil {
		t.Fatal(err)
	}
	clock := func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) }
	e, err := engine.New(provider, config.DefaultEngine(), engine.WithClock(clock))
	if err != nil {
		t.Fatal(err)
	}
	p, err := e.Generate(types.CustomerInput{
		RegionID:              "cordoba",
		City:                  "Villa Carlos Paz",
		CustomerName:          "Ana Pérez",
		MonthlyConsumptionKwh: 450,
		Class:                 types.ClassResidential,
		Roof:                  types.RoofTile,
		Orientation:           types.OrientationNorth,
		Tier:                  types.TierStandard,
	})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	return p
}

func TestRound(t *testing.T) {
	tests := []struct {
		v      float64
		places int32
		want   float64
	}{
		{2.345, 2, 2.35},
		{1.005, 2, 1.01},
		{-1.5, 0, -2},
		{3.849999, 2, 3.85},
		{5845.83, 0, 5846},
	}
	for _, tt := range tests {
		if got := Round(tt.v, tt.places); got != tt.want {
			t.Errorf("Round(%g, %d) = %g, want %g", tt.v, tt.places, got, tt.want)
		}
	}
}

func TestLocaleFormatting(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"usd", USD(4997.5), "US$ 4,997.50"},
		{"usd rounding", USD(912.345), "US$ 912.35"},
		{"ars", ARS(7196400), "$ 7.196.400"},
		{"number", Number(5845.8, 0), "5,846"},
		{"number decimals", Number(3.85, 2), "3.85"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestNewView(t *testing.T) {
	p := referenceProposal(t)
	v := NewView(p)

	if v.System.SizeKwp != 3.85 {
		t.Errorf("size = %g, want 3.85", v.System.SizeKwp)
	}
	if len(v.Financial.Costs) != 8 {
		t.Errorf("cost lines = %d, want 8", len(v.Financial.Costs))
	}
	if v.Financial.TotalInvestmentUSD != 4997.5 {
		t.Errorf("total = %g, want 4997.5", v.Financial.TotalInvestmentUSD)
	}
	if v.Financial.PaybackYears == nil || v.Financial.IRRPercent == nil {
		t.Fatal("payback and IRR should be present")
	}
	if v.Production.CoveragePercent > 100 {
		t.Errorf("coverage %g above 100", v.Production.CoveragePercent)
	}
	if v.Production.CoverageRatio <= 1 {
		t.Errorf("uncapped ratio %g should exceed 1", v.Production.CoverageRatio)
	}
	if v.CreatedAt != "2025-03-01T12:00:00Z" {
		t.Errorf("created at = %s", v.CreatedAt)
	}
}

func TestNewViewOmitsUndefinedMetrics(t *testing.T) {
	p := referenceProposal(t)
	p.Financial.PaybackReached = false
	p.Financial.IRRDefined = false

	v := NewView(p)
	if v.Financial.PaybackYears != nil {
		t.Error("payback should be nil when not reached")
	}
	if v.Financial.IRRPercent != nil {
		t.Error("IRR should be nil when undefined")
	}

	var buf bytes.Buffer
	if err := NewTextFormatter(Options{}).Render(&buf, p); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "not reached") || !strings.Contains(buf.String(), "undefined") {
		t.Errorf("text report should explain missing metrics:\n%s", buf.String())
	}
}

func TestRenderers(t *testing.T) {
	p := referenceProposal(t)
	registry := NewRegistry(Options{ShowMonthly: true, ShowProjection: true})

	tests := []struct {
		format string
		want   []string
	}{
		{"text", []string{"Solar proposal for Ana Pérez", "7 × ", "Villa Carlos Paz, Córdoba", "Dec", "ASSUMPTIONS"}},
		{"markdown", []string{"# Solar proposal: Ana Pérez", "## Investment", "| **Total** | **US$ 4,997.50** |", "| 25 |"}},
		{"json", []string{`"system_size_kwp": 3.85`, `"panel_id": "trina-550"`}},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			f, err := registry.Get(tt.format)
			if err != nil {
				t.Fatal(err)
			}
			var buf bytes.Buffer
			if err := f.Render(&buf, p); err != nil {
				t.Fatalf("Render failed: %v", err)
			}
			for _, want := range tt.want {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("output missing %q", want)
				}
			}
		})
	}
}

func TestJSONIsValid(t *testing.T) {
	var buf bytes.Buffer
	if err := NewJSONFormatter().Render(&buf, referenceProposal(t)); err != nil {
		t.Fatal(err)
	}
	var v View
	if err := json.Unmarshal(buf.Bytes(), &v); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(v.Financial.Projection) != 25 {
		t.Errorf("projection years = %d", len(v.Financial.Projection))
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry(Options{})

	if _, err := r.Get("html"); !apperrors.IsType(err, apperrors.TypeInvalidInput) {
		t.Errorf("expected INVALID_INPUT, got %v", err)
	}
	if err := r.Register(NewJSONFormatter()); err == nil {
		t.Error("duplicate registration should fail")
	}

	formats := r.Formats()
	want := []Format{FormatJSON, FormatMarkdown, FormatText}
	if len(formats) != len(want) {
		t.Fatalf("formats = %v", formats)
	}
	for i := range want {
		if formats[i] != want[i] {
			t.Errorf("formats[%d] = %s, want %s", i, formats[i], want[i])
		}
	}
}
