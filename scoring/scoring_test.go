package scoring

import (
	"math"
	"testing"

	"github.com/rustyeddy/edge/journal"
	"github.com/rustyeddy/edge/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func trade(id, strategy string, exit int64, pnl float64, checklist ...bool) journal.Trade {
	return journal.Trade{
		ID:                id,
		Symbol:            "GBPUSD",
		Direction:         journal.Short,
		Status:            journal.Closed,
		Lots:              0.5,
		PnL:               journal.Float(pnl),
		StrategyID:        strategy,
		ChecklistComplete: checklist,
		EntryTime:         exit - 60_000,
		ExitTime:          journal.Int64(exit),
	}
}

func TestDisciplineFullChecklist(t *testing.T) {
	t.Parallel()

	var trades []journal.Trade
	for i := 0; i < 5; i++ {
		trades = append(trades, trade(string(rune('a'+i)), "s1", int64(i+1)*1_000_000, 10, true, true, true))
	}
	perf := Score(journal.Normalize(trades), []journal.Strategy{{ID: "s1", Name: "London Open"}}, 10000, DefaultWeights())
	require.Len(t, perf, 1)
	assert.Equal(t, 100.0, perf[0].DisciplineScore)
	assert.Equal(t, 5, perf[0].TotalTrades)
	assert.Equal(t, "London Open", perf[0].Name)
}

func TestDiscipline(t *testing.T) {
	t.Parallel()

	recs := journal.Normalize([]journal.Trade{
		trade("a", "s", 1, 1, true, true),
		trade("b", "s", 2, 1, true, false),
		trade("c", "s", 3, 1),
	})
	assert.InDelta(t, 50.0, Discipline(recs), 1e-9)
	assert.Equal(t, 100.0, Discipline(recs[2:]))
	assert.Equal(t, 100.0, Discipline(nil))
}

func TestScorePartitionsByStrategy(t *testing.T) {
	t.Parallel()

	trades := []journal.Trade{
		trade("a", "s1", 1000, 200),
		trade("b", "s1", 2000, -100),
		trade("c", "s2", 1500, -300),
		trade("d", "", 2500, 1000),
		{ID: "e", StrategyID: "s1", Status: journal.Open, EntryTime: 3000},
	}
	strategies := []journal.Strategy{{ID: "s2", Name: "Fade"}, {ID: "s1", Name: "Trend"}, {ID: "s3", Name: "Unused"}}

	perf := Score(journal.Normalize(trades), strategies, 10000, DefaultWeights())
	require.Len(t, perf, 3)

	assert.Equal(t, "s2", perf[0].StrategyID)
	assert.Equal(t, 1, perf[0].TotalTrades)
	assert.Equal(t, 0.0, perf[0].WinRate)
	assert.InDelta(t, -300.0, perf[0].NetPnL, 1e-9)

	assert.Equal(t, "s1", perf[1].StrategyID)
	assert.Equal(t, 2, perf[1].TotalTrades)
	assert.InDelta(t, 50.0, perf[1].WinRate, 1e-9)
	assert.InDelta(t, 2.0, perf[1].ProfitFactor, 1e-9)
	assert.InDelta(t, 50.0, perf[1].Expectancy, 1e-9)

	assert.Equal(t, 0, perf[2].TotalTrades)
	assert.Equal(t, 100.0, perf[2].DisciplineScore)
	// 10 + 0 + 0 + 100*0.2
	assert.InDelta(t, 30.0, perf[2].SurvivabilityScore, 1e-9)
	assert.Equal(t, GradeDecaying, perf[2].Grade)
}

func TestSurvivability(t *testing.T) {
	t.Parallel()

	w := DefaultWeights()
	tests := []struct {
		name string
		p    StrategyPerformance
		want float64
	}{
		{"composite", StrategyPerformance{WinRate: 60, ProfitFactor: 1.5, DisciplineScore: 80, Expectancy: 20, MaxDrawdownPercent: 10}, 10 + 24 + 15 + 16 + 10 - 5},
		{"profit factor capped", StrategyPerformance{WinRate: 50, ProfitFactor: metrics.ProfitFactorSentinel, DisciplineScore: 100, Expectancy: 5}, 10 + 20 + 30 + 20 + 10},
		{"clamped high", StrategyPerformance{WinRate: 100, ProfitFactor: 3, DisciplineScore: 100, Expectancy: 1}, 100},
		{"clamped low", StrategyPerformance{MaxDrawdownPercent: 100}, 0},
		{"nan", StrategyPerformance{WinRate: math.NaN()}, 0},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.want, Survivability(tt.p, w), 1e-9)
		})
	}
}

func TestGrade(t *testing.T) {
	t.Parallel()

	assert.Equal(t, GradeRobust, Grade(70.1))
	assert.Equal(t, GradeFragile, Grade(70))
	assert.Equal(t, GradeFragile, Grade(40.5))
	assert.Equal(t, GradeDecaying, Grade(40))
	assert.Equal(t, GradeDecaying, Grade(0))
}
