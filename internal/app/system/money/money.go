// Package money centralizes monetary arithmetic for the platform.
//
// Balances and principals are stored as numbers in Mongo, but all
// derivation (daily profit, referral commissions) goes through
// shopspring/decimal so repeated compounding does not accumulate binary
// float drift. Amounts are rounded half-up to a fixed scale at the point
// of persistence; intermediate values keep full precision.
package money

import "github.com/shopspring/decimal"

// Scale is the number of decimal places guaranteed on persisted amounts.
// Deep referral levels pay tiny fractions of already-small profits
// (level 5 is 0.1% of the day's profit), so the scale is finer than
// display currency precision.
const Scale = 8

// DailyProfit computes principal * rate/100 at full precision.
// rate is a percentage (0.85 means 0.85% per day).
func DailyProfit(principal, rate float64) decimal.Decimal {
	p := decimal.NewFromFloat(principal)
	r := decimal.NewFromFloat(rate)
	return p.Mul(r).Div(decimal.NewFromInt(100))
}

// Commission computes sourceProfit * rate at full precision.
// rate is a fraction (0.02 means 2%).
func Commission(sourceProfit decimal.Decimal, rate float64) decimal.Decimal {
	return sourceProfit.Mul(decimal.NewFromFloat(rate))
}

// Persist rounds an amount half-up to Scale places and returns the
// float64 written to the store.
func Persist(d decimal.Decimal) float64 {
	f, _ := d.Round(Scale).Float64()
	return f
}

// Positive reports whether the amount is strictly greater than zero
// after rounding to the persisted scale. Zero and negative amounts are
// not credited and produce no audit records.
func Positive(d decimal.Decimal) bool {
	return d.Round(Scale).IsPositive()
}
