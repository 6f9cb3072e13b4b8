package regime

import (
	"sync"
	"time"

	"github.com/Alias1177/RegimeEngine/internal/model"
)

// Tracker records regime transitions across evaluations. It is used to decide
// when to alert and whether the current regime has been stable for a while.
type Tracker struct {
	mu      sync.Mutex
	current model.RegimeLabel
	since   time.Time
	history []model.RegimeChange
	maxKeep int
}

// NewTracker creates a tracker that keeps at most maxKeep transitions.
func NewTracker(maxKeep int) *Tracker {
	if maxKeep <= 0 {
		maxKeep = 100
	}
	return &Tracker{
		current: model.RegimeUncertain,
		maxKeep: maxKeep,
	}
}

// Observe records the label from the latest evaluation. It returns the
// transition when the regime changed, or nil when it stayed the same.
func (t *Tracker) Observe(label model.RegimeLabel, at time.Time) *model.RegimeChange {
	t.mu.Lock()
	defer t.mu.Unlock()

	if label == t.current {
		return nil
	}

	change := model.RegimeChange{
		Timestamp: at,
		From:      t.current,
		To:        label,
	}
	t.current = label
	t.since = at
	t.history = append(t.history, change)
	if len(t.history) > t.maxKeep {
		t.history = t.history[len(t.history)-t.maxKeep:]
	}
	return &change
}

// Current returns the last observed regime and when it began.
func (t *Tracker) Current() (model.RegimeLabel, time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current, t.since
}

// StableFor reports whether the current regime has been unchanged for at
// least the given duration.
func (t *Tracker) StableFor(d time.Duration, now time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.since.IsZero() {
		return false
	}
	return now.Sub(t.since) >= d
}

// History returns a copy of the recorded transitions, oldest first.
func (t *Tracker) History() []model.RegimeChange {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]model.RegimeChange, len(t.history))
	copy(out, t.history)
	return out
}
