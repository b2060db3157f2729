// Package money parses and formats Colombian peso amounts. COP is
// treated as a zero-decimal currency: display strings carry no decimal
// part and use dots as thousands separators ("$89.000").
package money

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ParsePrice turns a display string into a numeric amount. Currency
// symbols, spaces and thousands separators are stripped. Unparseable
// input yields 0 rather than an error; the storefront treats garbage
// prices as free items instead of failing the page.
func ParsePrice(value string) float64 {
	var b strings.Builder
	for _, r := range value {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' && b.Len() == 0:
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0
	}
	n, err := strconv.ParseInt(b.String(), 10, 64)
	if err != nil {
		return 0
	}
	return float64(n)
}

// FormatPrice renders an amount as a COP display string. The value is
// rounded to whole pesos first, so ParsePrice(FormatPrice(x)) == round(x).
func FormatPrice(value float64) string {
	d := decimal.NewFromFloat(value).Round(0)
	neg := d.IsNegative()
	digits := d.Abs().String()

	var b strings.Builder
	b.WriteString("$")
	if neg {
		b.WriteString("-")
	}
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
		if len(digits) > lead {
			b.WriteString(".")
		}
	}
	for i := lead; i < len(digits); i += 3 {
		b.WriteString(digits[i : i+3])
		if i+3 < len(digits) {
			b.WriteString(".")
		}
	}
	return b.String()
}

// ToMinorUnits converts whole-peso amounts to the cent amounts gateway
// APIs expect.
func ToMinorUnits(value float64) int64 {
	return decimal.NewFromFloat(value).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// Subtotal sums price*quantity over order lines without accumulating
// float error.
func Subtotal(prices []float64, quantities []int) float64 {
	sum := decimal.Zero
	for i, p := range prices {
		q := 1
		if i < len(quantities) {
			q = quantities[i]
		}
		sum = sum.Add(decimal.NewFromFloat(p).Mul(decimal.NewFromInt(int64(q))))
	}
	f, _ := sum.Float64()
	return f
}

// Tax applies a rate to a subtotal, rounded to whole pesos.
func Tax(subtotal, rate float64) float64 {
	f, _ := decimal.NewFromFloat(subtotal).
		Mul(decimal.NewFromFloat(rate)).
		Round(0).
		Float64()
	return f
}
