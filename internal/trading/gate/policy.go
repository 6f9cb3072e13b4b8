package gate

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Alias1177/RegimeEngine/internal/model"
)

// RegimeRule defines what the gate does in one regime.
type RegimeRule struct {
	Allow      bool    `yaml:"allow"`
	SizeFactor float64 `yaml:"size_factor"`
	Note       string  `yaml:"note"`
}

// Policy maps regimes to entry permissions. UNCERTAIN always blocks and
// cannot be overridden by a policy file.
type Policy struct {
	Regimes      map[model.RegimeLabel]RegimeRule
	MaxCandleAge time.Duration
}

// DefaultPolicy returns the built-in regime rules: full size in a trend,
// half size in a range, no trading when volatile.
func DefaultPolicy() Policy {
	return Policy{
		Regimes: map[model.RegimeLabel]RegimeRule{
			model.RegimeTrend: {
				Allow:      true,
				SizeFactor: 1.0,
				Note:       "Trend regime: full risk allowed",
			},
			model.RegimeRange: {
				Allow:      true,
				SizeFactor: 0.5,
				Note:       "Range regime: reduced size",
			},
			model.RegimeVolatile: {
				Allow:      false,
				SizeFactor: 0.0,
				Note:       "Volatile regime: trading disabled",
			},
		},
		MaxCandleAge: 30 * time.Minute,
	}
}

// policyFile is the on-disk shape. Durations are written as strings ("30m").
type policyFile struct {
	Regimes      map[model.RegimeLabel]RegimeRule `yaml:"regimes"`
	MaxCandleAge string                           `yaml:"max_candle_age"`
}

// LoadPolicy reads a policy file and merges it over the defaults: regimes not
// present in the file keep their built-in rule.
func LoadPolicy(path string) (Policy, error) {
	policy := DefaultPolicy()

	data, err := os.ReadFile(path)
	if err != nil {
		return policy, fmt.Errorf("reading policy file: %w", err)
	}

	var file policyFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return policy, fmt.Errorf("parsing policy file: %w", err)
	}

	for label, rule := range file.Regimes {
		if err := validateRule(label, rule); err != nil {
			return policy, err
		}
		policy.Regimes[label] = rule
	}
	if file.MaxCandleAge != "" {
		age, err := time.ParseDuration(file.MaxCandleAge)
		if err != nil {
			return policy, fmt.Errorf("parsing max_candle_age: %w", err)
		}
		policy.MaxCandleAge = age
	}

	return policy, nil
}

func validateRule(label model.RegimeLabel, rule RegimeRule) error {
	switch label {
	case model.RegimeTrend, model.RegimeRange, model.RegimeVolatile:
	case model.RegimeUncertain:
		return fmt.Errorf("policy file cannot define a rule for %s", label)
	default:
		return fmt.Errorf("unknown regime %q in policy file", label)
	}
	if rule.SizeFactor < 0 || rule.SizeFactor > 1 {
		return fmt.Errorf("regime %s: size_factor %.2f out of range [0,1]", label, rule.SizeFactor)
	}
	if !rule.Allow && rule.SizeFactor != 0 {
		return fmt.Errorf("regime %s: blocked rule must have size_factor 0", label)
	}
	return nil
}
