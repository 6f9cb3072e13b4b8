package notifier

import (
	"fmt"
	"strings"

	"github.com/Alias1177/RegimeEngine/internal/model"
)

var regimeEmoji = map[model.RegimeLabel]string{
	model.RegimeTrend:     "☀️",
	model.RegimeRange:     "☁️",
	model.RegimeVolatile:  "⛈",
	model.RegimeUncertain: "🌫",
}

// FormatRegimeChange builds the alert sent when the regime transitions.
func FormatRegimeChange(symbol string, change *model.RegimeChange, snapshot *model.RegimeSnapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s <b>Regime change</b> | %s\n\n", regimeEmoji[change.To], symbol)
	fmt.Fprintf(&b, "%s → <b>%s</b> (%s)\n", change.From, change.To, snapshot.Direction)
	if snapshot.VolRatio > 0 {
		fmt.Fprintf(&b, "Vol ratio: %.2f\n", snapshot.VolRatio)
	}
	fmt.Fprintf(&b, "Slope: %+.6f (threshold %.6f)\n", snapshot.Slope, snapshot.SlopeThreshold)
	fmt.Fprintf(&b, "Bar: %s", snapshot.BarDatetime)
	return b.String()
}

// FormatDecision builds the per-evaluation summary of the gate decision and plan.
func FormatDecision(symbol string, decision *model.GateDecision, plan *model.RiskPlan) string {
	var b strings.Builder
	if decision.Allow {
		fmt.Fprintf(&b, "✅ <b>Entry allowed</b> | %s\n\n", symbol)
		fmt.Fprintf(&b, "Regime: %s\n", decision.Regime)
		fmt.Fprintf(&b, "Size factor: %.2f\n", decision.SizeFactor)
		if plan != nil && plan.Allow {
			fmt.Fprintf(&b, "Position: %.4f %s\n", plan.PositionSize, plan.Direction)
			fmt.Fprintf(&b, "Stop: %.5f | Target: %.5f (RR %.1f)", plan.StopLoss, plan.TakeProfit, plan.RiskRewardRatio)
		}
	} else {
		fmt.Fprintf(&b, "🚫 <b>Entry blocked</b> | %s\n\n", symbol)
		fmt.Fprintf(&b, "Regime: %s\n", decision.Regime)
		for _, reason := range decision.Reasons {
			fmt.Fprintf(&b, "• %s\n", reason)
		}
	}
	return b.String()
}
