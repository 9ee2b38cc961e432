package models

// Lease loan presets selectable by the caller.
const (
	LoanPolicy = "policy"
	LoanBank   = "bank"
)

// PurchaseFinancing is the household financing configuration for purchase
// mode. It is supplied wholesale on every recompute; the engine keeps no
// state between calls. Amounts are 만원, rates are annual percentages.
type PurchaseFinancing struct {
	Income1      int     `json:"income1" form:"income1"`
	Income2      int     `json:"income2" form:"income2"`
	Cash         int     `json:"cash" form:"cash"`
	Interior     int     `json:"interior" form:"interior"`
	Rate         float64 `json:"rate" form:"rate"`
	TermYears    int     `json:"term" form:"term"`
	MonthlyLimit int     `json:"monthly_limit" form:"monthlyLimit"`
	MgmtFee      int     `json:"mgmt" form:"mgmt"`
	LTV          float64 `json:"ltv" form:"ltv"`
	DSR          float64 `json:"dsr" form:"dsr"`
	HouseCount   int     `json:"house_count" form:"houseCount"`
	AutoLTV      bool    `json:"auto_ltv" form:"autoLtv"`
	Married      bool    `json:"married" form:"married"`
}

// LeaseFinancing is the financing configuration for lease mode.
// LoanRatio is the loan-to-deposit percentage and LoanLimit the absolute
// ceiling of the selected loan product.
type LeaseFinancing struct {
	Income1   int     `json:"income1" form:"income1"`
	Income2   int     `json:"income2" form:"income2"`
	Cash      int     `json:"cash" form:"cash"`
	Rate      float64 `json:"rate" form:"rentRate"`
	LoanRatio float64 `json:"loan_ratio" form:"loanRatio"`
	LoanLimit int     `json:"loan_limit" form:"loanLimit"`
	LoanType  string  `json:"loan_type" form:"loanType"`
	Married   bool    `json:"married" form:"married"`
}

// TelegramConfig holds the bot credentials for wishlist alerting.
type TelegramConfig struct {
	BotToken  string `json:"bot_token"`
	ChatID    string `json:"chat_id"`
	IsEnabled bool   `json:"is_enabled"`
}
