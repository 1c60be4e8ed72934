package risk

// Policy holds the limits a planned trade is checked against. Percent
// fields are in 0..100.
type Policy struct {
	DefaultRiskPercent float64 `json:"default_risk_percent" yaml:"default_risk_percent"`
	MaxRiskPercent     float64 `json:"max_risk_percent" yaml:"max_risk_percent"`
	MinRR              float64 `json:"min_rr" yaml:"min_rr"`
	MaxLots            float64 `json:"max_lots" yaml:"max_lots"`
}

// DefaultPolicy returns conservative discretionary-trading limits.
func DefaultPolicy() Policy {
	return Policy{
		DefaultRiskPercent: 1,
		MaxRiskPercent:     2,
		MinRR:              1.5,
		MaxLots:            50,
	}
}

// TradePlan is a trade the user is about to place.
type TradePlan struct {
	Symbol      string  `json:"symbol"`
	Balance     float64 `json:"balance"`
	RiskPercent float64 `json:"riskPercent"`
	Entry       float64 `json:"entry"`
	StopLoss    float64 `json:"stopLoss"`
	TakeProfit  float64 `json:"takeProfit"`
}
