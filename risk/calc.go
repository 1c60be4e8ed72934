package risk

import "math"

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

func finite(xs ...float64) bool {
	for _, x := range xs {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// RiskRewardRatio is the absolute reward distance over the absolute
// risk distance. A zero risk distance yields 0.
func RiskRewardRatio(entry, stopLoss, takeProfit float64) float64 {
	if !finite(entry, stopLoss, takeProfit) {
		return 0
	}
	risk := abs(entry - stopLoss)
	reward := abs(takeProfit - entry)
	if risk == 0 {
		return 0
	}
	return reward / risk
}

// BreakevenWinRate is the win rate (percent) at which a strategy with
// the given reward:risk ratio neither gains nor loses.
func BreakevenWinRate(riskRewardRatio float64) float64 {
	if !finite(riskRewardRatio) || riskRewardRatio <= 0 {
		return 100
	}
	return 100 / (1 + riskRewardRatio)
}

// KellyFraction returns the Kelly optimal fraction of capital in [0,1].
func KellyFraction(winRatePercent, avgWin, avgLoss float64) float64 {
	if !finite(winRatePercent, avgWin, avgLoss) || avgLoss <= 0 || winRatePercent <= 0 {
		return 0
	}
	b := avgWin / avgLoss
	if b <= 0 {
		return 0
	}
	p := clamp(winRatePercent, 0, 100) / 100
	f := p - (1-p)/b
	return clamp(f, 0, 1)
}

// KellyPercent is KellyFraction expressed in percent, taking the
// reward:risk ratio directly instead of average win/loss amounts.
func KellyPercent(winRatePercent, riskReward float64) float64 {
	return KellyFraction(winRatePercent, riskReward, 1) * 100
}
