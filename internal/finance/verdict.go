package finance

// Purchase verdicts, ordered by severity.
const (
	VerdictAffordable        = "affordable"
	VerdictTight             = "tight"
	VerdictOverCapacity      = "repayment-exceeds-capacity"
	VerdictInsufficientFunds = "insufficient-funds"
	// Lease-only worst case.
	VerdictOverBudget = "over-budget"
)

// Bottleneck labels for the binding household loan cap.
const (
	BottleneckLTV     = "ltv"
	BottleneckDSR     = "dsr"
	BottleneckMonthly = "monthly"
)

var severity = map[string]int{
	VerdictAffordable:        0,
	VerdictTight:             1,
	VerdictOverCapacity:      2,
	VerdictInsufficientFunds: 2,
	VerdictOverBudget:        2,
}

// Severity orders verdicts for value sorting; unknown labels sort last.
func Severity(verdict string) int {
	if s, ok := severity[verdict]; ok {
		return s
	}
	return 9
}
