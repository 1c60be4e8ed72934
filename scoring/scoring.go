// Package scoring rates strategies by replaying each one's closed
// trades on its own and folding the ratios into a survivability score.
package scoring

import (
	"math"

	"github.com/rustyeddy/edge/journal"
	"github.com/rustyeddy/edge/metrics"
)

// Weights parameterize the survivability score:
//
//	Base + WinRate*WinRateWeight + min(PF, ProfitFactorCap)*ProfitFactorWeight
//	+ Discipline*DisciplineWeight + (Expectancy > 0 ? ExpectancyBonus : 0)
//	- MaxDrawdown*DrawdownPenalty
//
// clamped to [0,100].
type Weights struct {
	Base               float64 `json:"base" yaml:"base"`
	WinRateWeight      float64 `json:"win_rate_weight" yaml:"win_rate_weight"`
	ProfitFactorCap    float64 `json:"profit_factor_cap" yaml:"profit_factor_cap"`
	ProfitFactorWeight float64 `json:"profit_factor_weight" yaml:"profit_factor_weight"`
	DisciplineWeight   float64 `json:"discipline_weight" yaml:"discipline_weight"`
	ExpectancyBonus    float64 `json:"expectancy_bonus" yaml:"expectancy_bonus"`
	DrawdownPenalty    float64 `json:"drawdown_penalty" yaml:"drawdown_penalty"`
}

func DefaultWeights() Weights {
	return Weights{
		Base:               10,
		WinRateWeight:      0.4,
		ProfitFactorCap:    3,
		ProfitFactorWeight: 10,
		DisciplineWeight:   0.2,
		ExpectancyBonus:    10,
		DrawdownPenalty:    0.5,
	}
}

const (
	GradeRobust   = "robust"
	GradeFragile  = "fragile"
	GradeDecaying = "decaying"
)

type StrategyPerformance struct {
	StrategyID         string  `json:"strategyId"`
	Name               string  `json:"name"`
	TotalTrades        int     `json:"totalTrades"`
	WinRate            float64 `json:"winRate"`
	ProfitFactor       float64 `json:"profitFactor"`
	Expectancy         float64 `json:"expectancy"`
	MaxDrawdownPercent float64 `json:"maxDrawdownPercent"`
	NetPnL             float64 `json:"netPnl"`
	DisciplineScore    float64 `json:"disciplineScore"`
	SurvivabilityScore float64 `json:"survivabilityScore"`
	Grade              string  `json:"grade"`
}

// Score returns one entry per strategy, in the order given.
func Score(records []journal.Record, strategies []journal.Strategy, startingBalance float64, w Weights) []StrategyPerformance {
	byStrategy := make(map[string][]journal.Record)
	for _, r := range records {
		if r.Closed && r.StrategyID != "" {
			byStrategy[r.StrategyID] = append(byStrategy[r.StrategyID], r)
		}
	}

	out := make([]StrategyPerformance, 0, len(strategies))
	for _, s := range strategies {
		subset := byStrategy[s.ID]
		m := metrics.Compute(subset, startingBalance)
		p := StrategyPerformance{
			StrategyID:         s.ID,
			Name:               s.Name,
			TotalTrades:        m.ClosedTrades,
			WinRate:            m.WinRate,
			ProfitFactor:       m.ProfitFactor,
			Expectancy:         m.Expectancy,
			MaxDrawdownPercent: m.MaxDrawdownPercent,
			NetPnL:             m.Equity - startingBalance,
			DisciplineScore:    Discipline(subset),
		}
		p.SurvivabilityScore = Survivability(p, w)
		p.Grade = Grade(p.SurvivabilityScore)
		out = append(out, p)
	}
	return out
}

// Discipline is the percent of records with a checklist that had every
// item ticked. Records without a checklist are not counted; with none
// at all the score is 100.
func Discipline(records []journal.Record) float64 {
	with, done := 0, 0
	for _, r := range records {
		if len(r.Checklist) == 0 {
			continue
		}
		with++
		if r.ChecklistDone() {
			done++
		}
	}
	if with == 0 {
		return 100
	}
	return 100 * float64(done) / float64(with)
}

func Survivability(p StrategyPerformance, w Weights) float64 {
	score := w.Base +
		p.WinRate*w.WinRateWeight +
		math.Min(p.ProfitFactor, w.ProfitFactorCap)*w.ProfitFactorWeight +
		p.DisciplineScore*w.DisciplineWeight -
		p.MaxDrawdownPercent*w.DrawdownPenalty
	if p.Expectancy > 0 {
		score += w.ExpectancyBonus
	}
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return 0
	}
	return math.Max(0, math.Min(100, score))
}

func Grade(score float64) string {
	switch {
	case score > 70:
		return GradeRobust
	case score > 40:
		return GradeFragile
	}
	return GradeDecaying
}
