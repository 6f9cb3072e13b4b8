package regime

import (
	"testing"
	"time"

	"github.com/Alias1177/RegimeEngine/internal/model"
)

func TestTrackerObserve(t *testing.T) {
	tr := NewTracker(10)
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	// First observation moves off the UNCERTAIN default.
	change := tr.Observe(model.RegimeTrend, base)
	if change == nil {
		t.Fatal("expected a change on first observation")
	}
	if change.From != model.RegimeUncertain || change.To != model.RegimeTrend {
		t.Errorf("change = %v -> %v, want UNCERTAIN -> TREND", change.From, change.To)
	}

	// Same label again: no change.
	if change := tr.Observe(model.RegimeTrend, base.Add(time.Minute)); change != nil {
		t.Errorf("unexpected change: %+v", change)
	}

	// New label: change recorded.
	if change := tr.Observe(model.RegimeVolatile, base.Add(2*time.Minute)); change == nil {
		t.Fatal("expected a change to VOLATILE")
	}

	history := tr.History()
	if len(history) != 2 {
		t.Fatalf("expected 2 transitions, got %d", len(history))
	}
}

func TestTrackerStableFor(t *testing.T) {
	tr := NewTracker(10)
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	if tr.StableFor(time.Hour, base) {
		t.Error("tracker with no observations should not be stable")
	}

	tr.Observe(model.RegimeRange, base)
	if tr.StableFor(time.Hour, base.Add(30*time.Minute)) {
		t.Error("regime 30m old should not count as 1h stable")
	}
	if !tr.StableFor(time.Hour, base.Add(2*time.Hour)) {
		t.Error("regime 2h old should count as 1h stable")
	}
}

func TestTrackerHistoryBounded(t *testing.T) {
	tr := NewTracker(3)
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	labels := []model.RegimeLabel{
		model.RegimeTrend, model.RegimeRange, model.RegimeTrend,
		model.RegimeVolatile, model.RegimeRange,
	}
	for i, label := range labels {
		tr.Observe(label, base.Add(time.Duration(i)*time.Minute))
	}

	if got := len(tr.History()); got != 3 {
		t.Errorf("history length = %d, want 3 (bounded)", got)
	}
}
