package money

import (
	"math/rand"
	"testing"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{"display string", "$12.345", 12345},
		{"plain digits", "89000", 89000},
		{"with spaces", "$ 1.200.000", 1200000},
		{"currency suffix", "15.000 COP", 15000},
		{"negative", "-500", -500},
		{"garbage", "gratis", 0},
		{"empty", "", 0},
		{"symbols only", "$.", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParsePrice(tt.input); got != tt.want {
				t.Errorf("ParsePrice(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		name  string
		input float64
		want  string
	}{
		{"zero", 0, "$0"},
		{"hundreds", 500, "$500"},
		{"thousands", 89000, "$89.000"},
		{"millions", 1200000, "$1.200.000"},
		{"rounds fractions", 16909.6, "$16.910"},
		{"negative", -15000, "$-15.000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatPrice(tt.input); got != tt.want {
				t.Errorf("FormatPrice(%v) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestPriceRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for i := 0; i < 1000; i++ {
		n := float64(r.Intn(100_000_000))
		if got := ParsePrice(FormatPrice(n)); got != n {
			t.Fatalf("round trip failed for %v: got %v", n, got)
		}
	}
}

func TestToMinorUnits(t *testing.T) {
	if got := ToMinorUnits(89000); got != 8900000 {
		t.Errorf("ToMinorUnits(89000) = %d, want 8900000", got)
	}
	if got := ToMinorUnits(120910); got != 12091000 {
		t.Errorf("ToMinorUnits(120910) = %d, want 12091000", got)
	}
}

func TestSubtotalAndTax(t *testing.T) {
	sub := Subtotal([]float64{89000, 25000}, []int{1, 2})
	if sub != 139000 {
		t.Errorf("Subtotal = %v, want 139000", sub)
	}
	if got := Tax(89000, 0.19); got != 16910 {
		t.Errorf("Tax(89000, 0.19) = %v, want 16910", got)
	}
}
