// Package sim projects account growth forward: a Monte Carlo ensemble
// of equity paths with percentile bands and risk of ruin, and a single
// path growth projection per risk model.
package sim

import (
	"math"
	"sort"
)

const (
	DefaultStartBalance = 10000.0
	DefaultWinRate      = 50.0
	DefaultRiskReward   = 2.0
	DefaultRiskPerTrade = 1.0
	DefaultTradeCount   = 100
	DefaultIterations   = 1000

	MinStartBalance = 1000.0
	MinRiskReward   = 0.1
	MinRiskPerTrade = 0.1
	MaxRiskPerTrade = 10.0
	MinTradeCount   = 10
	MaxTradeCount   = 10000
	MinIterations   = 100
	MaxIterations   = 5000

	// SamplePaths is how many full paths a Result carries.
	SamplePaths = 10

	// RuinFraction of the start balance marks a path as ruined.
	RuinFraction = 0.5
)

// Percentiles used for the worst, median and best bands.
const (
	WorstPercentile  = 0.05
	MedianPercentile = 0.5
	BestPercentile   = 0.95
)

type Params struct {
	StartBalance        float64 `json:"startBalance"`
	WinRatePercent      float64 `json:"winRate"`
	RiskReward          float64 `json:"riskReward"`
	RiskPerTradePercent float64 `json:"riskPerTrade"`
	TradeCount          int     `json:"tradeCount"`
	Iterations          int     `json:"iterations"`
}

func DefaultParams() Params {
	return Params{
		StartBalance:        DefaultStartBalance,
		WinRatePercent:      DefaultWinRate,
		RiskReward:          DefaultRiskReward,
		RiskPerTradePercent: DefaultRiskPerTrade,
		TradeCount:          DefaultTradeCount,
		Iterations:          DefaultIterations,
	}
}

// Clamp returns p with every field forced into its supported range.
// Non-finite values take the default; counts, zero included, are only
// clamped. Callers wanting defaults for omitted fields start from
// DefaultParams.
func (p Params) Clamp() Params {
	return Params{
		StartBalance:        math.Max(MinStartBalance, orDefault(p.StartBalance, DefaultStartBalance)),
		WinRatePercent:      clamp(orDefault(p.WinRatePercent, DefaultWinRate), 0, 100),
		RiskReward:          math.Max(MinRiskReward, orDefault(p.RiskReward, DefaultRiskReward)),
		RiskPerTradePercent: clamp(orDefault(p.RiskPerTradePercent, DefaultRiskPerTrade), MinRiskPerTrade, MaxRiskPerTrade),
		TradeCount:          clampInt(p.TradeCount, MinTradeCount, MaxTradeCount),
		Iterations:          clampInt(p.Iterations, MinIterations, MaxIterations),
	}
}

// Bound clamps p and then lowers Iterations so that
// Iterations*TradeCount stays within maxOps. Iterations never drops
// below MinIterations. maxOps <= 0 means no bound.
func (p Params) Bound(maxOps int) Params {
	p = p.Clamp()
	if maxOps <= 0 || p.Iterations*p.TradeCount <= maxOps {
		return p
	}
	p.Iterations = max(MinIterations, maxOps/p.TradeCount)
	return p
}

// Result holds TradeCount+1 band values, index 0 being the start.
type Result struct {
	Params            Params      `json:"params"`
	Worst             []float64   `json:"worstCase"`
	Median            []float64   `json:"median"`
	Best              []float64   `json:"bestCase"`
	RiskOfRuinPercent float64     `json:"riskOfRuin"`
	Paths             [][]float64 `json:"paths"`
}

// Run simulates p.Clamp() with draws from rng. All paths advance one
// trade at a time so only the current balances and the sample paths
// are held in memory.
func Run(p Params, rng Source) Result {
	p = p.Clamp()
	n, steps := p.Iterations, p.TradeCount
	risk := p.RiskPerTradePercent / 100
	ruinLevel := p.StartBalance * RuinFraction

	balances := make([]float64, n)
	for i := range balances {
		balances[i] = p.StartBalance
	}
	ruined := make([]bool, n)

	samples := make([][]float64, min(SamplePaths, n))
	for i := range samples {
		samples[i] = make([]float64, 1, steps+1)
		samples[i][0] = p.StartBalance
	}

	res := Result{
		Params: p,
		Worst:  make([]float64, 0, steps+1),
		Median: make([]float64, 0, steps+1),
		Best:   make([]float64, 0, steps+1),
	}
	scratch := make([]float64, n)
	res.addBands(balances, scratch)

	for t := 0; t < steps; t++ {
		for i, b := range balances {
			amount := b * risk
			if rng.Float64()*100 < p.WinRatePercent {
				b += amount * p.RiskReward
			} else {
				b -= amount
			}
			if b < 0 || math.IsNaN(b) {
				b = 0
			}
			if b <= ruinLevel {
				ruined[i] = true
			}
			balances[i] = b
			if i < len(samples) {
				samples[i] = append(samples[i], b)
			}
		}
		res.addBands(balances, scratch)
	}

	count := 0
	for _, r := range ruined {
		if r {
			count++
		}
	}
	res.RiskOfRuinPercent = 100 * float64(count) / float64(n)
	res.Paths = samples
	return res
}

func (r *Result) addBands(balances, scratch []float64) {
	copy(scratch, balances)
	sort.Float64s(scratch)
	r.Worst = append(r.Worst, nearestRank(scratch, WorstPercentile))
	r.Median = append(r.Median, nearestRank(scratch, MedianPercentile))
	r.Best = append(r.Best, nearestRank(scratch, BestPercentile))
}

// nearestRank picks the floor(n*p)-th element of sorted.
func nearestRank(sorted []float64, p float64) float64 {
	idx := int(float64(len(sorted)) * p)
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func orDefault(x, def float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return def
	}
	return x
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}

func clampInt(x, lo, hi int) int {
	return max(lo, min(hi, x))
}
