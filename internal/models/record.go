package models

import "time"

// Record kinds stored in the transaction_records table.
const (
	KindSale  = "sale"
	KindLease = "lease"
)

// Lease contract types. Jeonse is a lump-sum deposit with no periodic rent;
// monthly carries a smaller deposit plus a monthly rent amount.
const (
	LeaseJeonse  = "jeonse"
	LeaseMonthly = "monthly"
)

// TransactionRecord is one raw trade row as collected from the ministry API.
// Amounts are in units of 10,000 KRW (만원). Sale records carry Price; lease
// records carry Deposit/MonthlyRent/LeaseType.
type TransactionRecord struct {
	ID          int64   `json:"id" gorm:"primaryKey;autoIncrement"`
	Kind        string  `json:"kind" gorm:"index;uniqueIndex:idx_record_identity"`
	Region      string  `json:"region" gorm:"uniqueIndex:idx_record_identity"`
	Name        string  `json:"name" gorm:"uniqueIndex:idx_record_identity"`
	Dong        string  `json:"dong"`
	AreaM2      float64 `json:"area_m2" gorm:"uniqueIndex:idx_record_identity"`
	AreaPy      float64 `json:"area_py"`
	BuiltYear   int     `json:"built_year"`
	Households  int     `json:"households"`
	StationName string  `json:"station"`
	Line        string  `json:"line"`
	WalkMin     int     `json:"walk_min"`
	Latitude    *float64 `json:"lat"`
	Longitude   *float64 `json:"lon"`

	TradeDate string `json:"trade_date" gorm:"uniqueIndex:idx_record_identity"`
	Floor     int    `json:"floor" gorm:"uniqueIndex:idx_record_identity"`

	Price       int    `json:"price" gorm:"uniqueIndex:idx_record_identity"`
	Deposit     int    `json:"deposit" gorm:"uniqueIndex:idx_record_identity"`
	MonthlyRent int    `json:"monthly_rent"`
	LeaseType   string `json:"lease_type" gorm:"uniqueIndex:idx_record_identity"`

	Regulated bool `json:"regulated"`

	CreatedAt time.Time `json:"created_at"`
}

func (TransactionRecord) TableName() string {
	return "transaction_records"
}

// CommuteEntry is one row of the commute-time table keyed by
// "region neighborhood". Minutes are door-to-door to the configured workplace.
type CommuteEntry struct {
	ID             int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	Key            string `json:"key" gorm:"uniqueIndex"`
	SubwayMinutes  int    `json:"subway"`
	TransitMinutes int    `json:"transit"`

	UpdatedAt time.Time `json:"updated_at"`
}

func (CommuteEntry) TableName() string {
	return "commute_entries"
}
