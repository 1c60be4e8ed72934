package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPositionSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		balance  float64
		riskPct  float64
		stopPips float64
		want     float64
	}{
		{"one percent 20 pips", 10000, 1, 20, 0.5},
		{"two percent 50 pips", 25000, 2, 50, 1.0},
		{"zero balance", 0, 1, 20, 0},
		{"negative balance", -100, 1, 20, 0},
		{"zero stop", 10000, 1, 0, 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := PositionSize(tt.balance, tt.riskPct, tt.stopPips, "EURUSD")
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestPositionSizeMonotonicInRisk(t *testing.T) {
	t.Parallel()

	prev := 0.0
	for r := 0.25; r <= 10; r += 0.25 {
		got := PositionSize(10000, r, 25, "GBPUSD")
		assert.Greater(t, got, prev, "risk %.2f", r)
		prev = got
	}
}

func TestStopPips(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 50.0, StopPips(1.1000, 1.0950, "EURUSD"), 1e-6)
	assert.InDelta(t, 50.0, StopPips(150.00, 150.50, "USDJPY"), 1e-6)
}

func TestRiskAmount(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 150.0, RiskAmount(10000, 1.5), 1e-9)
	assert.Equal(t, 0.0, RiskAmount(0, 1.5))
}

func TestPositionSizeSameForEverySymbol(t *testing.T) {
	t.Parallel()

	want := PositionSize(10000, 1, 20, "EURUSD")
	for _, sym := range []string{"USDJPY", "XAUUSD", "US30", ""} {
		assert.Equal(t, want, PositionSize(10000, 1, 20, sym), sym)
	}
}
