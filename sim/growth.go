package sim

import (
	"fmt"
	"strings"
)

// Model selects how much is risked on each projected trade.
type Model string

const (
	// Fixed risks a fixed percent of the current balance.
	Fixed Model = "FIXED"
	// Kelly risks the Kelly percent of the current balance.
	Kelly Model = "KELLY"
	// Lot risks a constant cash amount derived from a fixed lot size.
	Lot Model = "LOT"
)

const (
	// GrowthSteps is the number of trades a projection covers.
	GrowthSteps = 50

	// LotRiskPerUnit converts a lot size into cash risked per trade.
	LotRiskPerUnit = 100.0

	DefaultFixedLot = 0.1
)

func ParseModel(s string) (Model, error) {
	switch m := Model(strings.ToUpper(strings.TrimSpace(s))); m {
	case Fixed, Kelly, Lot:
		return m, nil
	}
	return "", fmt.Errorf("unknown risk model %q (want FIXED, KELLY or LOT)", s)
}

type GrowthParams struct {
	WinRatePercent float64 `json:"winRate"`
	RiskReward     float64 `json:"rr"`
	RiskPercent    float64 `json:"risk"`
	KellyPercent   float64 `json:"kelly"`
	FixedLot       float64 `json:"fixedLot"`
}

func DefaultGrowthParams() GrowthParams {
	return GrowthParams{
		WinRatePercent: DefaultWinRate,
		RiskReward:     DefaultRiskReward,
		RiskPercent:    DefaultRiskPerTrade,
		FixedLot:       DefaultFixedLot,
	}
}

type GrowthPoint struct {
	Trade   int     `json:"trade"`
	Balance float64 `json:"balance"`
}

// Project walks one random path of GrowthSteps trades under model and
// returns GrowthSteps+1 points starting at startBalance. Non-finite
// parameters take their defaults and an unknown model is treated as
// Fixed. The balance never goes below zero.
func Project(startBalance float64, model Model, p GrowthParams, rng Source) []GrowthPoint {
	balance := orDefault(startBalance, DefaultStartBalance)
	wr := orDefault(p.WinRatePercent, DefaultWinRate) / 100
	rr := orDefault(p.RiskReward, DefaultRiskReward)
	riskPct := orDefault(p.RiskPercent, DefaultRiskPerTrade) / 100
	kellyPct := orDefault(p.KellyPercent, 0) / 100
	lot := orDefault(p.FixedLot, DefaultFixedLot)

	out := make([]GrowthPoint, 0, GrowthSteps+1)
	for i := 0; i <= GrowthSteps; i++ {
		out = append(out, GrowthPoint{Trade: i, Balance: balance})
		if i == GrowthSteps {
			break
		}

		var amount float64
		switch model {
		case Kelly:
			amount = balance * kellyPct
		case Lot:
			amount = lot * LotRiskPerUnit
		default:
			amount = balance * riskPct
		}
		if rng.Float64() < wr {
			balance += amount * rr
		} else {
			balance -= amount
		}
		balance = orDefault(balance, 0)
		if balance < 0 {
			balance = 0
		}
	}
	return out
}
