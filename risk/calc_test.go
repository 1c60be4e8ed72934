package risk

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRiskRewardRatio(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name            string
		entry, stop, tp float64
		want            float64
	}{
		{"long 2R", 1.1000, 1.0950, 1.1100, 2},
		{"short 3R", 1.1000, 1.1050, 1.0850, 3},
		{"zero risk", 1.1000, 1.1000, 1.1200, 0},
		{"nan", math.NaN(), 1, 2, 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.want, RiskRewardRatio(tt.entry, tt.stop, tt.tp), 1e-9)
		})
	}
}

func TestBreakevenWinRate(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 50.0, BreakevenWinRate(1), 1e-9)
	assert.InDelta(t, 33.3333, BreakevenWinRate(2), 1e-3)
	assert.Equal(t, 100.0, BreakevenWinRate(0))
	assert.Equal(t, 100.0, BreakevenWinRate(-1))
	assert.Equal(t, 100.0, BreakevenWinRate(math.NaN()))
}

func TestKellyFraction(t *testing.T) {
	t.Parallel()

	// p=0.5, b=2 -> 0.5 - 0.5/2 = 0.25
	assert.InDelta(t, 0.25, KellyFraction(50, 200, 100), 1e-9)
	// negative edge clamps to zero
	assert.Equal(t, 0.0, KellyFraction(30, 100, 100))
	assert.Equal(t, 0.0, KellyFraction(60, 100, 0))
	assert.Equal(t, 0.0, KellyFraction(60, 100, -5))
	assert.Equal(t, 0.0, KellyFraction(0, 100, 100))
	assert.Equal(t, 0.0, KellyFraction(60, 0, 100))
	assert.Equal(t, 1.0, KellyFraction(100, 100, 100))
}

func TestKellyFractionBounded(t *testing.T) {
	t.Parallel()

	for wr := -10.0; wr <= 120; wr += 7.5 {
		for _, win := range []float64{-50, 0, 10, 100, 1000} {
			for _, loss := range []float64{-10, 0, 1, 50, 500} {
				f := KellyFraction(wr, win, loss)
				assert.GreaterOrEqual(t, f, 0.0)
				assert.LessOrEqual(t, f, 1.0)
				if loss <= 0 {
					assert.Equal(t, 0.0, f)
				}
			}
		}
	}
}

func TestKellyPercent(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 25.0, KellyPercent(50, 2), 1e-9)
	assert.Equal(t, 0.0, KellyPercent(50, 0))
}
