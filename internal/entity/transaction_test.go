package entity

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("decimal %q: %v", s, err)
	}
	return d
}

func TestNormalizeDescription(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"trims and collapses spaces", "  TST*  COFFEE   SHOP ", "TST* COFFEE SHOP"},
		{"tabs and newlines collapse", "AMAZON\t\nMARKETPLACE", "AMAZON MARKETPLACE"},
		{"already clean", "SAFEWAY #123", "SAFEWAY #123"},
		{"empty", "   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeDescription(tt.in); got != tt.want {
				t.Errorf("NormalizeDescription(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDedupKey(t *testing.T) {
	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	base := RawTransaction{Date: date, Description: "Safeway #123", Amount: mustDecimal(t, "42.50")}

	tests := []struct {
		name  string
		other RawTransaction
		equal bool
	}{
		{
			"case and surrounding space are ignored",
			RawTransaction{Date: date, Description: "  SAFEWAY #123 ", Amount: mustDecimal(t, "42.50")},
			true,
		},
		{
			"amounts equal after rounding to cents",
			RawTransaction{Date: date, Description: "Safeway #123", Amount: mustDecimal(t, "42.504")},
			true,
		},
		{
			"different date",
			RawTransaction{Date: date.AddDate(0, 0, 1), Description: "Safeway #123", Amount: mustDecimal(t, "42.50")},
			false,
		},
		{
			"different amount",
			RawTransaction{Date: date, Description: "Safeway #123", Amount: mustDecimal(t, "42.51")},
			false,
		},
		{
			"different description",
			RawTransaction{Date: date, Description: "Safeway #124", Amount: mustDecimal(t, "42.50")},
			false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := base.DedupKey() == tt.other.DedupKey(); got != tt.equal {
				t.Errorf("keys equal = %v, want %v (%q vs %q)", got, tt.equal, base.DedupKey(), tt.other.DedupKey())
			}
		})
	}
}
