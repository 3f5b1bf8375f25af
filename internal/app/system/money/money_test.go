package money

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestDailyProfit(t *testing.T) {
	tests := []struct {
		name      string
		principal float64
		rate      float64
		want      string
	}{
		{"growth plan on 100", 100, 0.85, "0.85"},
		{"starter plan", 500, 0.5, "2.5"},
		{"premium plan", 10000, 1.5, "150"},
		{"compounded principal", 100.85, 0.85, "0.857225"},
		{"zero principal", 0, 0.85, "0"},
		{"zero rate", 100, 0, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DailyProfit(tt.principal, tt.rate)
			want, err := decimal.NewFromString(tt.want)
			if err != nil {
				t.Fatalf("bad want value %q: %v", tt.want, err)
			}
			if !got.Equal(want) {
				t.Errorf("DailyProfit(%v, %v) = %s, want %s", tt.principal, tt.rate, got, want)
			}
		})
	}
}

func TestCommission(t *testing.T) {
	profit := DailyProfit(100, 0.85) // 0.85

	tests := []struct {
		rate float64
		want string
	}{
		{0.02, "0.017"},
		{0.01, "0.0085"},
		{0.001, "0.00085"},
	}
	for _, tt := range tests {
		got := Commission(profit, tt.rate)
		want := decimal.RequireFromString(tt.want)
		if !got.Equal(want) {
			t.Errorf("Commission(0.85, %v) = %s, want %s", tt.rate, got, want)
		}
	}
}

func TestPersist_RoundsHalfUp(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"0.000000005", 0.00000001},
		{"0.000000004", 0.0},
		{"0.85", 0.85},
		{"0.123456789", 0.12345679},
	}
	for _, tt := range tests {
		got := Persist(decimal.RequireFromString(tt.in))
		if got != tt.want {
			t.Errorf("Persist(%s) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestPositive(t *testing.T) {
	if Positive(decimal.Zero) {
		t.Error("zero should not be positive")
	}
	if Positive(decimal.RequireFromString("-0.5")) {
		t.Error("negative should not be positive")
	}
	if Positive(decimal.RequireFromString("0.000000001")) {
		t.Error("below-scale amount rounds to zero and should not be positive")
	}
	if !Positive(decimal.RequireFromString("0.00085")) {
		t.Error("0.00085 should be positive")
	}
}
