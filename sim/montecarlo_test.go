package sim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seqSource replays a fixed cycle of draws.
type seqSource struct {
	vals []float64
	i    int
}

func (s *seqSource) Float64() float64 {
	v := s.vals[s.i%len(s.vals)]
	s.i++
	return v
}

func TestClamp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   Params
		want Params
	}{
		{
			name: "zero value takes minimums",
			in:   Params{},
			want: Params{StartBalance: 1000, WinRatePercent: 0, RiskReward: 0.1, RiskPerTradePercent: 0.1, TradeCount: 10, Iterations: 100},
		},
		{
			name: "non-finite takes defaults",
			in:   Params{StartBalance: math.NaN(), WinRatePercent: math.Inf(1), RiskReward: math.NaN(), RiskPerTradePercent: math.Inf(-1), TradeCount: 50, Iterations: 200},
			want: Params{StartBalance: 10000, WinRatePercent: 50, RiskReward: 2, RiskPerTradePercent: 1, TradeCount: 50, Iterations: 200},
		},
		{
			name: "upper bounds",
			in:   Params{StartBalance: 1e6, WinRatePercent: 150, RiskReward: 10, RiskPerTradePercent: 50, TradeCount: 1e6, Iterations: 1e6},
			want: Params{StartBalance: 1e6, WinRatePercent: 100, RiskReward: 10, RiskPerTradePercent: 10, TradeCount: 10000, Iterations: 5000},
		},
		{
			name: "lower bounds",
			in:   Params{StartBalance: 10, WinRatePercent: -5, RiskReward: 0.01, RiskPerTradePercent: 0.01, TradeCount: 3, Iterations: -4},
			want: Params{StartBalance: 1000, WinRatePercent: 0, RiskReward: 0.1, RiskPerTradePercent: 0.1, TradeCount: 10, Iterations: 100},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.in.Clamp())
		})
	}
}

func TestBound(t *testing.T) {
	t.Parallel()

	p := Params{StartBalance: 10000, WinRatePercent: 50, RiskReward: 2, RiskPerTradePercent: 1, TradeCount: 10000, Iterations: 5000}
	assert.Equal(t, 500, p.Bound(5_000_000).Iterations)
	assert.Equal(t, 100, p.Bound(1000).Iterations, "never below the minimum")
	assert.Equal(t, 5000, p.Bound(0).Iterations)
	assert.Equal(t, 1000, DefaultParams().Bound(5_000_000).Iterations)
}

func TestRunAllWinners(t *testing.T) {
	t.Parallel()

	res := Run(Params{StartBalance: 10000, WinRatePercent: 100, RiskReward: 2, RiskPerTradePercent: 1, TradeCount: 50, Iterations: 100}, NewSource(7))

	assert.Equal(t, 0.0, res.RiskOfRuinPercent)
	require.Len(t, res.Paths, SamplePaths)
	for _, path := range res.Paths {
		require.Len(t, path, 51)
		assert.Equal(t, 10000.0, path[0])
		for i := 1; i < len(path); i++ {
			assert.Greater(t, path[i], path[i-1])
		}
	}
	// every path is identical, 2% growth a trade
	assert.InDelta(t, 10000*math.Pow(1.02, 50), res.Median[50], 1e-6)
}

func TestRunBandsOrdered(t *testing.T) {
	t.Parallel()

	res := Run(Params{StartBalance: 5000, WinRatePercent: 45, RiskReward: 1.5, RiskPerTradePercent: 2, TradeCount: 200, Iterations: 500}, NewSource(42))

	require.Len(t, res.Worst, 201)
	require.Len(t, res.Median, 201)
	require.Len(t, res.Best, 201)
	for i := range res.Worst {
		assert.LessOrEqual(t, res.Worst[i], res.Median[i])
		assert.LessOrEqual(t, res.Median[i], res.Best[i])
	}
	assert.Equal(t, 5000.0, res.Worst[0])
	assert.Equal(t, 5000.0, res.Best[0])
	assert.GreaterOrEqual(t, res.RiskOfRuinPercent, 0.0)
	assert.LessOrEqual(t, res.RiskOfRuinPercent, 100.0)
}

func TestRunAllLosersRuin(t *testing.T) {
	t.Parallel()

	// 10% risk and no wins halves the account within 7 trades.
	res := Run(Params{StartBalance: 10000, WinRatePercent: 0, RiskReward: 2, RiskPerTradePercent: 10, TradeCount: 10, Iterations: 100}, NewSource(1))
	assert.Equal(t, 100.0, res.RiskOfRuinPercent)
	for _, b := range res.Best {
		assert.GreaterOrEqual(t, b, 0.0)
	}
}

func TestRunDeterministic(t *testing.T) {
	t.Parallel()

	p := Params{StartBalance: 10000, WinRatePercent: 55, RiskReward: 1, RiskPerTradePercent: 1, TradeCount: 30, Iterations: 150}
	a := Run(p, NewSource(99))
	b := Run(p, NewSource(99))
	assert.Equal(t, a, b)
}

func TestRunWithScriptedDraws(t *testing.T) {
	t.Parallel()

	// A constant draw below the win rate makes every trade a winner.
	src := &seqSource{vals: []float64{0.1}}
	p := Params{StartBalance: 10000, WinRatePercent: 50, RiskReward: 2, RiskPerTradePercent: 1, TradeCount: 10, Iterations: 100}
	res := Run(p, src)

	assert.Equal(t, 100*10, src.i, "one draw per path per step")
	assert.InDelta(t, 10000*math.Pow(1.02, 10), res.Best[10], 1e-6)
	assert.Equal(t, res.Worst[10], res.Best[10])
	assert.Equal(t, p, res.Params)
}

func TestNearestRank(t *testing.T) {
	t.Parallel()

	sorted := make([]float64, 100)
	for i := range sorted {
		sorted[i] = float64(i)
	}
	assert.Equal(t, 5.0, nearestRank(sorted, WorstPercentile))
	assert.Equal(t, 50.0, nearestRank(sorted, MedianPercentile))
	assert.Equal(t, 95.0, nearestRank(sorted, BestPercentile))
	assert.Equal(t, 7.0, nearestRank([]float64{7}, BestPercentile))
}
