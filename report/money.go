package report

import (
	"strings"

	"github.com/shopspring/decimal"
)

var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
}

// FormatCurrency renders x rounded to cents with thousands separators,
// e.g. "-$1,234.50". Unknown currency codes are appended instead.
func FormatCurrency(x float64, currency string) string {
	d := decimal.NewFromFloat(x).Round(2)
	neg := d.IsNegative()
	s := groupThousands(d.Abs().StringFixed(2))

	code := strings.ToUpper(currency)
	sign := ""
	if neg {
		sign = "-"
	}
	if sym, ok := currencySymbols[code]; ok {
		return sign + sym + s
	}
	if code == "" {
		return sign + s
	}
	return sign + s + " " + code
}

func groupThousands(s string) string {
	whole, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	for i, c := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	if frac != "" {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return b.String()
}

// Percent formats a percentage with two decimals.
func Percent(x float64) string {
	return decimal.NewFromFloat(x).StringFixed(2) + "%"
}
