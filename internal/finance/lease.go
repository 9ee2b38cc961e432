package finance

import (
	"math"

	"github.com/HAAN6892/real-estate-monitor/internal/models"
)

// LeaseSummary is the household-level lease budget for the configured loan
// product. Lease loans are interest-only, so the monthly figure is interest
// on the full loan amount.
type LeaseSummary struct {
	TotalIncome     int    `json:"total_income"`
	Equity          int    `json:"equity"`
	Loan            int    `json:"loan"`
	TotalBudget     int    `json:"total_budget"`
	MonthlyInterest int    `json:"monthly_interest"`
	LoanType        string `json:"loan_type"`
}

// EvaluatedLease is a lease property with its financing split and verdict.
type EvaluatedLease struct {
	models.LeaseProperty
	Loan            int    `json:"loan"`
	EquityNeeded    int    `json:"equity_needed"`
	MonthlyInterest int    `json:"monthly_interest"`
	Verdict         string `json:"verdict"`
}

// HouseholdLease computes the maximum deposit budget: equity stretched by
// the loan-to-deposit ratio, with the loan capped at the product limit. A
// ratio of 100% or more degenerates to equity plus the full limit.
func HouseholdLease(f models.LeaseFinancing) LeaseSummary {
	equity := f.Cash
	if equity < 0 {
		equity = 0
	}
	ratio := f.LoanRatio / 100

	var budget float64
	if ratio < 1 {
		budget = float64(equity) / (1 - ratio)
	} else {
		budget = float64(equity + f.LoanLimit)
	}
	loan := int(math.Floor(budget * ratio))
	if loan > f.LoanLimit {
		loan = f.LoanLimit
	}
	total := equity + loan

	return LeaseSummary{
		TotalIncome:     f.Income1 + f.Income2,
		Equity:          equity,
		Loan:            loan,
		TotalBudget:     total,
		MonthlyInterest: int(math.Round(float64(loan) * f.Rate / 100 / 12)),
		LoanType:        f.LoanType,
	}
}

// EvaluateLease splits the deposit into loan and own funds within the
// household budget and assigns a verdict: over budget, tight above 90% of
// budget, otherwise affordable.
func EvaluateLease(p models.LeaseProperty, f models.LeaseFinancing, s LeaseSummary) EvaluatedLease {
	equityNeeded := p.Deposit - s.TotalBudget + s.Equity
	if equityNeeded < 0 {
		equityNeeded = 0
	}
	loan := p.Deposit - equityNeeded

	var verdict string
	switch {
	case p.Deposit > s.TotalBudget:
		verdict = VerdictOverBudget
	case float64(p.Deposit) > float64(s.TotalBudget)*0.9:
		verdict = VerdictTight
	default:
		verdict = VerdictAffordable
	}

	return EvaluatedLease{
		LeaseProperty:   p,
		Loan:            loan,
		EquityNeeded:    equityNeeded,
		MonthlyInterest: int(math.Round(float64(loan) * f.Rate / 100 / 12)),
		Verdict:         verdict,
	}
}
