// Package metrics replays closed trades into an equity curve and derives
// the account level performance ratios.
package metrics

import (
	"math"
	"sort"

	"github.com/rustyeddy/edge/journal"
)

// ProfitFactorSentinel stands in for an undefined profit factor when
// there are profits but no losses.
const ProfitFactorSentinel = 99.9

// EquityPoint is the account value right after a closed trade.
type EquityPoint struct {
	TradeID         string  `json:"tradeId"`
	Time            int64   `json:"time"`
	Equity          float64 `json:"equity"`
	DrawdownPercent float64 `json:"drawdownPercent"`
}

// Summary is the result of replaying a set of closed trades.
type Summary struct {
	StartingBalance float64 `json:"startingBalance"`
	Equity          float64 `json:"equity"`

	ClosedTrades int `json:"closedTrades"`
	Wins         int `json:"wins"`
	Losses       int `json:"losses"`

	GrossProfit        float64 `json:"grossProfit"`
	GrossLoss          float64 `json:"grossLoss"`
	WinRate            float64 `json:"winRate"`
	ProfitFactor       float64 `json:"profitFactor"`
	Expectancy         float64 `json:"expectancy"`
	MaxDrawdownPercent float64 `json:"maxDrawdownPercent"`

	Curve []EquityPoint `json:"curve"`
}

// Closed returns the closed records ordered by exit time. Ties fall back
// to entry time, then ID, so the replay is deterministic.
func Closed(records []journal.Record) []journal.Record {
	out := make([]journal.Record, 0, len(records))
	for _, r := range records {
		if r.Closed {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.ExitTime != b.ExitTime {
			return a.ExitTime < b.ExitTime
		}
		if a.EntryTime != b.EntryTime {
			return a.EntryTime < b.EntryTime
		}
		return a.ID < b.ID
	})
	return out
}

// Compute replays the closed records in records starting from
// startingBalance.
func Compute(records []journal.Record, startingBalance float64) Summary {
	closed := Closed(records)
	s := Summary{
		StartingBalance: startingBalance,
		Equity:          startingBalance,
		ClosedTrades:    len(closed),
		Curve:           make([]EquityPoint, 0, len(closed)),
	}

	peak := startingBalance
	for _, r := range closed {
		s.Equity += r.PnL
		if s.Equity > peak {
			peak = s.Equity
		}
		dd := Drawdown(peak, s.Equity)
		if dd > s.MaxDrawdownPercent {
			s.MaxDrawdownPercent = dd
		}
		switch {
		case r.PnL > 0:
			s.Wins++
			s.GrossProfit += r.PnL
		case r.PnL < 0:
			s.Losses++
			s.GrossLoss += -r.PnL
		}
		s.Curve = append(s.Curve, EquityPoint{
			TradeID:         r.ID,
			Time:            r.ExitTime,
			Equity:          s.Equity,
			DrawdownPercent: dd,
		})
	}

	s.WinRate = WinRate(s.Wins, s.ClosedTrades)
	s.ProfitFactor = ProfitFactor(s.GrossProfit, s.GrossLoss)
	if s.ClosedTrades > 0 {
		s.Expectancy = finite((s.Equity - startingBalance) / float64(s.ClosedTrades))
	}
	return s
}

// Drawdown is the percent decline of equity from peak, in [0,100].
// The denominator is floored at 1 so a tiny or negative peak cannot
// blow up the ratio.
func Drawdown(peak, equity float64) float64 {
	dd := (peak - equity) / math.Max(1, peak) * 100
	switch {
	case math.IsNaN(dd) || dd < 0:
		return 0
	case dd > 100:
		return 100
	}
	return dd
}

// WinRate is 100 * wins / total, 0 without trades.
func WinRate(wins, total int) float64 {
	if total <= 0 {
		return 0
	}
	return 100 * float64(wins) / float64(total)
}

// ProfitFactor is grossProfit / grossLoss. With no losses it returns
// ProfitFactorSentinel when there is profit and 0 otherwise.
func ProfitFactor(grossProfit, grossLoss float64) float64 {
	if grossLoss <= 0 {
		if grossProfit > 0 {
			return ProfitFactorSentinel
		}
		return 0
	}
	return finite(grossProfit / grossLoss)
}

func finite(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return x
}
