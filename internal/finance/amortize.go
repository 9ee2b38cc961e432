// Package finance computes loan capacity and per-property affordability
// verdicts. All inputs are treated as already-validated numbers; degenerate
// configurations (zero rate, zero or 100%+ LTV, multi-home ownership) take
// dedicated branches instead of failing.
package finance

import "math"

// MonthlyPayment is the fixed-rate annuity payment for a principal repaid
// over the given term. A zero rate degenerates to straight division.
func MonthlyPayment(principal, annualRate float64, years int) float64 {
	if principal <= 0 {
		return 0
	}
	mr := annualRate / 100 / 12
	n := float64(years * 12)
	if mr == 0 {
		return principal / n
	}
	pow := math.Pow(1+mr, n)
	return principal * mr * pow / (pow - 1)
}

// MaxLoanFromMonthly inverts MonthlyPayment: the largest principal whose
// amortized payment stays within the given monthly amount.
func MaxLoanFromMonthly(monthly, annualRate float64, years int) float64 {
	mr := annualRate / 100 / 12
	n := float64(years * 12)
	if mr == 0 {
		return monthly * n
	}
	pow := math.Pow(1+mr, n)
	return monthly * (pow - 1) / (mr * pow)
}
