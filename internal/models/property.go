package models

// Trade is one historical transaction attached to a grouped property.
// Price holds the sale price for sale entities and the deposit for lease
// entities; MonthlyRent is only set on lease trades.
type Trade struct {
	Price       int    `json:"price"`
	MonthlyRent int    `json:"monthly_rent,omitempty"`
	Floor       int    `json:"floor"`
	Date        string `json:"date"`
}

// SaleProperty is a deduplicated sale listing: one complex + floor area,
// aggregated over every raw trade in the dataset.
type SaleProperty struct {
	Name        string   `json:"name"`
	Region      string   `json:"region"`
	Dong        string   `json:"dong"`
	AreaM2      int      `json:"area_m2"`
	AreaPy      float64  `json:"area_py"`
	BuiltYear   int      `json:"built_year"`
	Households  int      `json:"households"`
	StationName string   `json:"station"`
	Line        string   `json:"line"`
	WalkMin     int      `json:"walk_min"`
	Latitude    *float64 `json:"lat"`
	Longitude   *float64 `json:"lon"`
	Regulated   bool     `json:"regulated"`

	Price      int     `json:"price"`
	MinPrice   int     `json:"min_price"`
	MaxPrice   int     `json:"max_price"`
	PricePerPy int     `json:"price_per_py"`
	TradeCount int     `json:"trade_count"`
	LatestDate string  `json:"latest_date"`
	Trades     []Trade `json:"trades"`

	CommuteSubway  *int `json:"commute_subway"`
	CommuteTransit *int `json:"commute_transit"`
}

// LeaseProperty is a deduplicated lease listing, additionally partitioned by
// lease type so jeonse and monthly contracts for the same unit never merge.
type LeaseProperty struct {
	Name        string   `json:"name"`
	Region      string   `json:"region"`
	Dong        string   `json:"dong"`
	AreaM2      int      `json:"area_m2"`
	AreaPy      float64  `json:"area_py"`
	BuiltYear   int      `json:"built_year"`
	Households  int      `json:"households"`
	StationName string   `json:"station"`
	Line        string   `json:"line"`
	WalkMin     int      `json:"walk_min"`
	Latitude    *float64 `json:"lat"`
	Longitude   *float64 `json:"lon"`

	LeaseType   string  `json:"lease_type"`
	Deposit     int     `json:"deposit"`
	MonthlyRent int     `json:"monthly_rent"`
	MinDeposit  int     `json:"min_deposit"`
	MaxDeposit  int     `json:"max_deposit"`
	TradeCount  int     `json:"trade_count"`
	LatestDate  string  `json:"latest_date"`
	Trades      []Trade `json:"trades"`

	CommuteSubway  *int `json:"commute_subway"`
	CommuteTransit *int `json:"commute_transit"`

	// Set by the snapshot enrichment passes, never per recompute.
	PriceAnomaly bool `json:"price_anomaly"`
	JeonseRate   *int `json:"jeonse_rate"`
}
