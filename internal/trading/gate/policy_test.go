package gate

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Alias1177/RegimeEngine/internal/model"
)

func writePolicyFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "policy.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadPolicy_MergesOverDefaults(t *testing.T) {
	path := writePolicyFile(t, `
regimes:
  RANGE:
    allow: true
    size_factor: 0.25
    note: "quarter size in ranges"
max_candle_age: 15m
`)

	policy, err := LoadPolicy(path)
	if err != nil {
		t.Fatal(err)
	}

	if got := policy.Regimes[model.RegimeRange].SizeFactor; got != 0.25 {
		t.Errorf("RANGE size_factor = %v, want 0.25", got)
	}
	// TREND keeps its built-in rule.
	if got := policy.Regimes[model.RegimeTrend].SizeFactor; got != 1.0 {
		t.Errorf("TREND size_factor = %v, want default 1.0", got)
	}
	if policy.MaxCandleAge != 15*time.Minute {
		t.Errorf("MaxCandleAge = %v, want 15m", policy.MaxCandleAge)
	}
}

func TestLoadPolicy_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name: "uncertain cannot be configured",
			content: `
regimes:
  UNCERTAIN:
    allow: true
    size_factor: 1.0
`,
		},
		{
			name: "unknown regime",
			content: `
regimes:
  SIDEWAYS:
    allow: true
    size_factor: 0.5
`,
		},
		{
			name: "size factor out of range",
			content: `
regimes:
  TREND:
    allow: true
    size_factor: 1.5
`,
		},
		{
			name: "blocked rule with nonzero size",
			content: `
regimes:
  VOLATILE:
    allow: false
    size_factor: 0.3
`,
		},
		{
			name:    "bad duration",
			content: `max_candle_age: soon`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writePolicyFile(t, tt.content)
			if _, err := LoadPolicy(path); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestLoadPolicy_MissingFile(t *testing.T) {
	if _, err := LoadPolicy("/nonexistent/policy.yaml"); err == nil {
		t.Error("expected an error for a missing file")
	}
}
