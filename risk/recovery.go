package risk

// RecoveryRR is the reward:risk assumed for drawdown recovery.
const RecoveryRR = 2.0

// Recovery describes what it takes to climb out of a drawdown.
type Recovery struct {
	TargetGainPercent float64 `json:"targetGain"`
	RequiredWinRate   float64 `json:"requiredWinRate"`
}

// RecoveryStats returns the gain needed to recover from
// currentDrawdownPercent and the win rate that delivers it evenly over
// tradeWindow trades at RecoveryRR.
//
// The win rate is a simplified heuristic:
//
//	((targetGain / window) + 1) / (RecoveryRR + 1) * 100
//
// clamped to [0,100].
func RecoveryStats(currentDrawdownPercent float64, tradeWindow int) Recovery {
	dd := currentDrawdownPercent
	if !finite(dd) || dd <= 0 || dd >= 100 {
		return Recovery{}
	}
	target := (1/(1-dd/100) - 1) * 100
	window := tradeWindow
	if window < 1 {
		window = 1
	}
	wr := ((target / float64(window)) + 1) / (RecoveryRR + 1) * 100
	return Recovery{
		TargetGainPercent: target,
		RequiredWinRate:   clamp(wr, 0, 100),
	}
}
