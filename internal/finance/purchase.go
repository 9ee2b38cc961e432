package finance

import (
	"math"

	"github.com/HAAN6892/real-estate-monitor/internal/models"
	"github.com/HAAN6892/real-estate-monitor/internal/regulation"
)

// PurchaseSummary is the household-level purchase capacity: the three
// independent loan caps, the binding minimum, and the resulting budget.
// Amounts are 만원.
type PurchaseSummary struct {
	TotalIncome     int     `json:"total_income"`
	Equity          int     `json:"equity"`
	MonthlyCapacity int     `json:"monthly_capacity"`
	SummaryLTV      float64 `json:"summary_ltv"`
	LTVCap          int     `json:"ltv_cap"`
	DSRCap          int     `json:"dsr_cap"`
	MonthlyCap      int     `json:"monthly_cap"`
	MaxLoan         int     `json:"max_loan"`
	MaxPrice        int     `json:"max_price"`
	MonthlyPayment  int     `json:"monthly_payment"`
	Bottleneck      string  `json:"bottleneck"`
}

// EvaluatedSale is a sale property with its per-property loan figures and
// verdict attached. Recomputed on every call, never persisted.
type EvaluatedSale struct {
	models.SaleProperty
	Zone         regulation.Zone `json:"zone"`
	AppliedLTV   float64         `json:"applied_ltv"`
	Loan         int             `json:"loan"`
	EquityNeeded int             `json:"equity_needed"`
	Monthly      int             `json:"monthly"`
	Verdict      string          `json:"verdict"`
}

// HouseholdPurchase computes the household budget under the three financing
// caps: debt-service ratio, monthly repayment capacity, and equity at the
// summary LTV. Owning two or more houses zeroes the LTV cap. The summary
// uses the unregulated 70% ceiling when automatic zone LTV is on; individual
// properties still get their zone's ceiling in EvaluateSale.
func HouseholdPurchase(f models.PurchaseFinancing) PurchaseSummary {
	totalIncome := f.Income1 + f.Income2
	equity := f.Cash - f.Interior
	if equity < 0 {
		equity = 0
	}
	capacity := f.MonthlyLimit - f.MgmtFee

	dsrMonthly := float64(totalIncome) * f.DSR / 100 / 12
	dsrCap := int(math.Floor(MaxLoanFromMonthly(dsrMonthly, f.Rate, f.TermYears)))
	monthlyCap := int(math.Floor(MaxLoanFromMonthly(float64(capacity), f.Rate, f.TermYears)))

	summaryLTV := f.LTV
	if f.AutoLTV {
		summaryLTV = 70
	}
	ltvCap := 0
	if f.HouseCount >= 2 {
		summaryLTV = 0
	} else if summaryLTV < 100 && summaryLTV > 0 {
		ltvCap = int(math.Floor(float64(equity) / (1 - summaryLTV/100) * summaryLTV / 100))
	}

	maxLoan := ltvCap
	bottleneck := BottleneckLTV
	if dsrCap < maxLoan {
		maxLoan = dsrCap
	}
	if monthlyCap < maxLoan {
		maxLoan = monthlyCap
	}
	if maxLoan == dsrCap {
		bottleneck = BottleneckDSR
	}
	if maxLoan == monthlyCap {
		bottleneck = BottleneckMonthly
	}

	return PurchaseSummary{
		TotalIncome:     totalIncome,
		Equity:          equity,
		MonthlyCapacity: capacity,
		SummaryLTV:      summaryLTV,
		LTVCap:          ltvCap,
		DSRCap:          dsrCap,
		MonthlyCap:      monthlyCap,
		MaxLoan:         maxLoan,
		MaxPrice:        maxLoan + equity,
		MonthlyPayment:  int(math.Floor(MonthlyPayment(float64(maxLoan), f.Rate, f.TermYears))),
		Bottleneck:      bottleneck,
	}
}

// EvaluateSale resolves the property's effective LTV, caps its loan by the
// household maximum, and assigns a verdict in priority order: insufficient
// funds, repayment over capacity, tight (above 85% of capacity), affordable.
func EvaluateSale(p models.SaleProperty, f models.PurchaseFinancing, s PurchaseSummary) EvaluatedSale {
	reg := regulation.Resolve(p.Region)

	ltv := s.SummaryLTV
	if f.AutoLTV {
		ltv = float64(reg.LTV)
	} else if p.Regulated {
		ltv = math.Min(ltv, 50)
	}

	loan := int(math.Floor(float64(p.Price) * ltv / 100))
	if s.MaxLoan < loan {
		loan = s.MaxLoan
	}
	equityNeeded := p.Price - loan
	monthly := int(math.Floor(MonthlyPayment(float64(loan), f.Rate, f.TermYears)))

	var verdict string
	switch {
	case equityNeeded > s.Equity:
		verdict = VerdictInsufficientFunds
	case monthly > s.MonthlyCapacity:
		verdict = VerdictOverCapacity
	case float64(monthly) > float64(s.MonthlyCapacity)*0.85:
		verdict = VerdictTight
	default:
		verdict = VerdictAffordable
	}

	return EvaluatedSale{
		SaleProperty: p,
		Zone:         reg.Zone,
		AppliedLTV:   ltv,
		Loan:         loan,
		EquityNeeded: equityNeeded,
		Monthly:      monthly,
		Verdict:      verdict,
	}
}
