package risk

import (
	"fmt"
)

type Violation struct {
	Code string `json:"code"`
	Msg  string `json:"message"`
}

// Decision is the sizing result for a TradePlan plus anything that
// breaks the Policy.
type Decision struct {
	Allowed    bool        `json:"allowed"`
	Violations []Violation `json:"violations,omitempty"`

	StopPips         float64 `json:"stopPips"`
	Lots             float64 `json:"lots"`
	RiskAmount       float64 `json:"riskAmount"`
	RR               float64 `json:"rr"`
	BreakevenWinRate float64 `json:"breakevenWinRate"`
}

func (d *Decision) add(code, msg string) {
	d.Violations = append(d.Violations, Violation{Code: code, Msg: msg})
	d.Allowed = false
}

// Evaluate sizes plan and checks it against p.
func Evaluate(p Policy, plan TradePlan) Decision {
	d := Decision{Allowed: true}

	if plan.Entry == 0 || plan.StopLoss == 0 {
		d.add("NO_STOP_OR_ENTRY", "entry/stop must be set")
		return d
	}
	if plan.Balance <= 0 {
		d.add("NO_BALANCE", "balance must be positive")
		return d
	}

	d.StopPips = StopPips(plan.Entry, plan.StopLoss, plan.Symbol)
	d.Lots = PositionSize(plan.Balance, plan.RiskPercent, d.StopPips, plan.Symbol)
	d.RiskAmount = RiskAmount(plan.Balance, plan.RiskPercent)
	if plan.TakeProfit != 0 {
		d.RR = RiskRewardRatio(plan.Entry, plan.StopLoss, plan.TakeProfit)
	}
	d.BreakevenWinRate = BreakevenWinRate(d.RR)

	if d.StopPips == 0 {
		d.add("ZERO_STOP", "stop equals entry")
	}
	if p.MaxRiskPercent > 0 && plan.RiskPercent > p.MaxRiskPercent {
		d.add("RISK_TOO_HIGH",
			fmt.Sprintf("planned risk %.2f%% exceeds max %.2f%%", plan.RiskPercent, p.MaxRiskPercent))
	}
	if p.DefaultRiskPercent > 0 && plan.RiskPercent > p.DefaultRiskPercent {
		// Allowed up to MaxRiskPercent, but the caller has to override explicitly.
		d.add("RISK_OVER_DEFAULT",
			fmt.Sprintf("planned risk %.2f%% exceeds default %.2f%% (requires override)",
				plan.RiskPercent, p.DefaultRiskPercent))
	}
	if plan.TakeProfit != 0 && d.RR < p.MinRR {
		d.add("RR_TOO_LOW", fmt.Sprintf("RR %.2f below minimum %.2f", d.RR, p.MinRR))
	}
	if p.MaxLots > 0 && d.Lots > p.MaxLots {
		d.add("LOTS_TOO_LARGE", fmt.Sprintf("size %.2f lots exceeds max %.2f", d.Lots, p.MaxLots))
	}

	return d
}
