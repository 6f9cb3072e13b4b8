package model

// GateDecision is the outcome of running the entry gate for one evaluation.
type GateDecision struct {
	Allow      bool        `json:"allow"`
	SizeFactor float64     `json:"size_factor"` // 0.0-1.0 fraction of normal size
	Regime     RegimeLabel `json:"regime"`
	Reasons    []string    `json:"reasons,omitempty"` // Failed checks, empty when allowed
	Note       string      `json:"note"`
}

// RiskPlan is the concrete sizing output for an allowed entry.
// A blocked gate produces a zero plan.
type RiskPlan struct {
	Allow           bool    `json:"allow"`
	PositionSize    float64 `json:"position_size"`
	SizeFactor      float64 `json:"size_factor"`
	StopLoss        float64 `json:"stop_loss"`
	TakeProfit      float64 `json:"take_profit"`
	RiskRewardRatio float64 `json:"risk_reward_ratio"`
	AccountRisk     float64 `json:"account_risk"`
	EntryPrice      float64 `json:"entry_price"`
	Direction       string  `json:"direction"`
}
