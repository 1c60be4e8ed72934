package risk

import (
	"github.com/rustyeddy/edge/market"
)

// PipValuePerStandardLot is the account-currency value of one pip on a
// 100k lot. It is a fixed USD-quote approximation, not broker accurate.
const PipValuePerStandardLot = 10.0

// PositionSize returns the lot size that risks riskPercent of balance
// when the stop is stopLossPips away. The pip value is the same
// PipValuePerStandardLot for every symbol, so the symbol argument does
// not change the result.
func PositionSize(balance, riskPercent, stopLossPips float64, _ string) float64 {
	if !finite(balance, riskPercent, stopLossPips) || balance <= 0 || stopLossPips <= 0 {
		return 0
	}
	riskAmount := balance * (riskPercent / 100)
	lots := riskAmount / (stopLossPips * PipValuePerStandardLot)
	if !finite(lots) {
		return 0
	}
	return lots
}

// RiskAmount is the cash amount put at risk by riskPercent of balance.
func RiskAmount(balance, riskPercent float64) float64 {
	if !finite(balance, riskPercent) || balance <= 0 {
		return 0
	}
	return balance * riskPercent / 100
}

// StopPips is the distance between entry and stop expressed in pips of
// symbol.
func StopPips(entry, stop float64, symbol string) float64 {
	return market.PriceDeltaToPips(abs(entry-stop), symbol)
}
