// Package analytics is the entry point to the engine. It accepts raw
// journal trades, normalizes them once and runs the metrics, audit,
// scoring and insight passes over the result.
package analytics

import (
	"sort"
	"time"

	"github.com/rustyeddy/edge/audit"
	"github.com/rustyeddy/edge/insights"
	"github.com/rustyeddy/edge/journal"
	"github.com/rustyeddy/edge/metrics"
	"github.com/rustyeddy/edge/scoring"
)

// DefaultRecentLimit is how many trades a snapshot lists when
// Options.RecentLimit is unset.
const DefaultRecentLimit = 10

type Options struct {
	// Now anchors the time windowed audit rules. Zero means time.Now.
	Now time.Time
	// Audit thresholds. The zero value means audit.DefaultConfig.
	Audit       audit.Config
	RecentLimit int
	// Strategies enables the checklist data quality report.
	Strategies []journal.Strategy
}

type PerformanceSnapshot struct {
	Equity             float64               `json:"equity"`
	StartingBalance    float64               `json:"startingBalance"`
	WinRate            float64               `json:"winRate"`
	ProfitFactor       float64               `json:"profitFactor"`
	Expectancy         float64               `json:"expectancy"`
	TotalTrades        int                   `json:"totalTrades"`
	ClosedTrades       int                   `json:"closedTrades"`
	MaxDrawdownPercent float64               `json:"maxDrawdownPercent"`
	Alerts             []string              `json:"alerts"`
	PsychologyScore    float64               `json:"psychologyScore"`
	RecentTrades       []journal.Trade       `json:"recentTrades"`
	EquityCurve        []metrics.EquityPoint `json:"equityCurve"`
	DataQuality        []string              `json:"dataQuality,omitempty"`
}

// ComputeSnapshot summarizes an account whose baseline balance is
// balance. trades may hold any status in any order and is not
// modified.
func ComputeSnapshot(trades []journal.Trade, balance float64, opts Options) PerformanceSnapshot {
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	if opts.Audit == (audit.Config{}) {
		opts.Audit = audit.DefaultConfig()
	}
	if opts.RecentLimit <= 0 {
		opts.RecentLimit = DefaultRecentLimit
	}

	records := journal.Normalize(trades)
	sum := metrics.Compute(records, balance)
	rep := audit.Audit(records, balance, sum.Equity, opts.Now, opts.Audit, opts.Strategies)

	return PerformanceSnapshot{
		Equity:             sum.Equity,
		StartingBalance:    balance,
		WinRate:            sum.WinRate,
		ProfitFactor:       sum.ProfitFactor,
		Expectancy:         sum.Expectancy,
		TotalTrades:        len(trades),
		ClosedTrades:       sum.ClosedTrades,
		MaxDrawdownPercent: sum.MaxDrawdownPercent,
		Alerts:             rep.Messages(),
		PsychologyScore:    rep.PsychologyScore,
		RecentTrades:       Recent(trades, opts.RecentLimit),
		EquityCurve:        sum.Curve,
		DataQuality:        rep.DataQuality,
	}
}

// Recent returns up to limit trades, newest entry first.
func Recent(trades []journal.Trade, limit int) []journal.Trade {
	out := make([]journal.Trade, len(trades))
	copy(out, trades)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].EntryTime != out[j].EntryTime {
			return out[i].EntryTime > out[j].EntryTime
		}
		return out[i].ID > out[j].ID
	})
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func ComputeInsights(trades []journal.Trade, cfg insights.Config, loc *time.Location) []insights.Insight {
	return insights.Compute(journal.Normalize(trades), cfg, loc)
}

func ComputeStrategyPerformance(trades []journal.Trade, strategies []journal.Strategy, balance float64, w scoring.Weights) []scoring.StrategyPerformance {
	return scoring.Score(journal.Normalize(trades), strategies, balance, w)
}
