package assumptions

import (
	"testing"

	"solar-proposal/core/types"
)

func TestTrackerRecordsInOrder(t *testing.T) {
	tr := NewTracker()
	tr.RecordDefault(StageDesign, "overbuild factor %.2f", 1.05)
	tr.RecordLimit(StageDesign, "capped at %d panels", 54)
	tr.RecordDerived(StageConsumption, "estimated %.0f kWh from bill", 450.0)

	all := tr.All()
	if len(all) != 3 {
		t.Fatalf("expected 3 assumptions, got %d", len(all))
	}
	if all[0].Description != "overbuild factor 1.05" {
		t.Errorf("unexpected description %q", all[0].Description)
	}
	if all[1].Source != types.AssumptionLimit {
		t.Errorf("expected limit source, got %s", all[1].Source)
	}

	design := tr.ForStage(StageDesign)
	if len(design) != 2 {
		t.Errorf("expected 2 design assumptions, got %d", len(design))
	}
	if tr.Count() != 3 {
		t.Errorf("Count = %d, want 3", tr.Count())
	}
}

func TestNilTrackerIsNoop(t *testing.T) {
	var tr *Tracker
	tr.RecordDefault(StageFinance, "discount rate %g", 0.1)

	if tr.Count() != 0 {
		t.Error("nil tracker should not count")
	}
	if tr.All() != nil {
		t.Error("nil tracker should return nil")
	}
}

func TestAllReturnsCopy(t *testing.T) {
	tr := NewTracker()
	tr.RecordDefault(StageEngine, "validity %d days", 30)

	all := tr.All()
	all[0].Description = "changed"

	if tr.All()[0].Description != "validity 30 days" {
		t.Error("All() exposed internal state")
	}
}
