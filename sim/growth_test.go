package sim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseModel(t *testing.T) {
	t.Parallel()

	m, err := ParseModel(" kelly ")
	require.NoError(t, err)
	assert.Equal(t, Kelly, m)

	_, err = ParseModel("martingale")
	assert.Error(t, err)
}

func TestProjectFixedAllWins(t *testing.T) {
	t.Parallel()

	pts := Project(10000, Fixed, GrowthParams{WinRatePercent: 100, RiskReward: 2, RiskPercent: 1}, NewSource(3))
	require.Len(t, pts, GrowthSteps+1)
	assert.Equal(t, GrowthPoint{Trade: 0, Balance: 10000}, pts[0])
	assert.Equal(t, GrowthSteps, pts[GrowthSteps].Trade)
	assert.InDelta(t, 10000*math.Pow(1.02, GrowthSteps), pts[GrowthSteps].Balance, 1e-6)
}

func TestProjectLotIsLinear(t *testing.T) {
	t.Parallel()

	pts := Project(1000, Lot, GrowthParams{WinRatePercent: 0, RiskReward: 2, RiskPercent: 1, FixedLot: 0.1}, NewSource(3))
	// loses 10 a trade
	assert.InDelta(t, 990.0, pts[1].Balance, 1e-9)
	assert.InDelta(t, 500.0, pts[GrowthSteps].Balance, 1e-9)
}

func TestProjectFloorsAtZero(t *testing.T) {
	t.Parallel()

	pts := Project(100, Lot, GrowthParams{WinRatePercent: 0, RiskReward: 2, FixedLot: 1}, NewSource(3))
	for _, p := range pts {
		assert.GreaterOrEqual(t, p.Balance, 0.0)
	}
	assert.Equal(t, 0.0, pts[GrowthSteps].Balance)
}

func TestProjectKellyZeroIsFlat(t *testing.T) {
	t.Parallel()

	gp := DefaultGrowthParams()
	pts := Project(5000, Kelly, gp, NewSource(11))
	for _, p := range pts {
		assert.Equal(t, 5000.0, p.Balance)
	}
}

func TestProjectNonFiniteDefaults(t *testing.T) {
	t.Parallel()

	gp := GrowthParams{WinRatePercent: math.NaN(), RiskReward: math.Inf(1), RiskPercent: math.NaN(), KellyPercent: math.NaN(), FixedLot: math.NaN()}
	pts := Project(math.NaN(), Fixed, gp, NewSource(5))
	assert.Equal(t, 10000.0, pts[0].Balance)
	for _, p := range pts {
		assert.False(t, math.IsNaN(p.Balance))
	}
}
