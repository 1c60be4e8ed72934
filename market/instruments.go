// market/instruments.go
package market

import (
	"math"
	"strings"
)

// Pip sizes by instrument class.
const (
	FXPipSize        = 0.0001
	JPYPipSize       = 0.01
	IndexPipSize     = 0.1
	DefaultPipSize   = FXPipSize
	CommodityPipSize = JPYPipSize
)

// Keyword tables are matched as substrings of the upper-cased symbol.
// Order matters: two-decimal quotes are checked before indices so that
// something like "XAU100" is still treated as a metal.
var (
	twoDecimalKeywords = []string{"JPY", "XAU", "XAG", "OIL", "GOLD"}
	indexKeywords      = []string{"30", "100", "500", "GER", "SPX"}
)

// InstrumentClass is a coarse bucket used for pip size lookup.
type InstrumentClass string

const (
	ClassFX       InstrumentClass = "fx"
	ClassTwoDigit InstrumentClass = "two_decimal"
	ClassIndex    InstrumentClass = "index"
)

// Classify returns the instrument class for symbol. Unknown symbols
// fall back to FX.
func Classify(symbol string) InstrumentClass {
	s := NormalizeSymbol(symbol)
	if s == "" {
		return ClassFX
	}
	if containsAny(s, twoDecimalKeywords) {
		return ClassTwoDigit
	}
	if containsAny(s, indexKeywords) {
		return ClassIndex
	}
	return ClassFX
}

// PipSize returns the price increment of one pip for symbol.
func PipSize(symbol string) float64 {
	switch Classify(symbol) {
	case ClassTwoDigit:
		return CommodityPipSize
	case ClassIndex:
		return IndexPipSize
	default:
		return DefaultPipSize
	}
}

// PriceDeltaToPips converts a raw price difference into pips.
func PriceDeltaToPips(delta float64, symbol string) float64 {
	if math.IsNaN(delta) || math.IsInf(delta, 0) {
		return 0
	}
	pip := PipSize(symbol)
	if pip == 0 {
		return 0
	}
	return delta / pip
}

// PipsToPriceDelta is the inverse of PriceDeltaToPips.
func PipsToPriceDelta(pips float64, symbol string) float64 {
	if math.IsNaN(pips) || math.IsInf(pips, 0) {
		return 0
	}
	return pips * PipSize(symbol)
}

// NormalizeSymbol upper-cases and trims a symbol. Separators such as
// "EUR/USD" or "EUR_USD" are kept; matching is substring based.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

func containsAny(s string, keys []string) bool {
	for _, k := range keys {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
