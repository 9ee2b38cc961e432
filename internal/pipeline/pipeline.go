// Package pipeline applies the search/region/size/age/commute/verdict
// filters, sorts by the chosen key, and paginates evaluated property lists.
// All filters are optional and AND-combined.
package pipeline

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/paulmach/orb"

	"github.com/HAAN6892/real-estate-monitor/internal/finance"
)

// Area band thresholds in pyeong.
const (
	AreaSmall = "small" // <= 18
	AreaMid   = "mid"   // 18 < py <= 25
	AreaLarge = "large" // > 25
)

// Commute filter presets.
const (
	CommuteTransit60 = "transit60"
	CommuteSubway60  = "subway60"
	CommuteTransit45 = "transit45"
)

// Sort keys.
const (
	SortValue     = "value"
	SortPriceAsc  = "price-asc"
	SortPriceDesc = "price-desc"
	SortAreaDesc  = "area-desc"
	SortWalk      = "walk"
	SortCommute   = "commute"
	SortLatest    = "latest"
)

const DefaultPageSize = 20

// Query is one filter/sort/page selection set from the caller.
type Query struct {
	Search    string `form:"search"`
	Region    string `form:"region"`
	AreaBand  string `form:"area"`
	BuiltYear string `form:"builtYear"` // "old" or a maximum age in years
	Commute   string `form:"commute"`
	Verdict   string `form:"verdict"`

	// Lease only.
	LeaseType     string `form:"leaseType"`
	ShowAnomalies bool   `form:"showAnomalies"`

	Sort     string `form:"sort"`
	Page     int    `form:"page"`
	PageSize int    `form:"pageSize"`

	Bounds *orb.Bound `form:"-"`
}

// SaleResult is one page of evaluated sale properties.
type SaleResult struct {
	Items      []finance.EvaluatedSale `json:"items"`
	Total      int                     `json:"total"`
	TotalAll   int                     `json:"total_all"`
	Page       int                     `json:"page"`
	TotalPages int                     `json:"total_pages"`
}

// LeaseResult is one page of evaluated lease properties. Anomalous listings
// are hidden unless requested and reported separately.
type LeaseResult struct {
	Items         []finance.EvaluatedLease `json:"items"`
	Total         int                      `json:"total"`
	TotalAll      int                      `json:"total_all"`
	Page          int                      `json:"page"`
	TotalPages    int                      `json:"total_pages"`
	AnomalyHidden int                      `json:"anomaly_hidden"`
}

// Sales filters, sorts and paginates evaluated sale properties.
func Sales(evaluated []finance.EvaluatedSale, q Query) SaleResult {
	filtered := make([]finance.EvaluatedSale, 0, len(evaluated))
	for _, p := range evaluated {
		if !saleMatches(p, q) {
			continue
		}
		filtered = append(filtered, p)
	}

	sortSales(filtered, q.Sort)

	page, totalPages, start, end := paginate(len(filtered), q.Page, q.PageSize)
	return SaleResult{
		Items:      filtered[start:end],
		Total:      len(filtered),
		TotalAll:   len(evaluated),
		Page:       page,
		TotalPages: totalPages,
	}
}

// Leases filters, sorts and paginates evaluated lease properties.
func Leases(evaluated []finance.EvaluatedLease, q Query) LeaseResult {
	hidden := 0
	filtered := make([]finance.EvaluatedLease, 0, len(evaluated))
	for _, p := range evaluated {
		if !q.ShowAnomalies && p.PriceAnomaly {
			hidden++
			continue
		}
		if !leaseMatches(p, q) {
			continue
		}
		filtered = append(filtered, p)
	}

	sortLeases(filtered, q.Sort)

	page, totalPages, start, end := paginate(len(filtered), q.Page, q.PageSize)
	return LeaseResult{
		Items:         filtered[start:end],
		Total:         len(filtered),
		TotalAll:      len(evaluated),
		Page:          page,
		TotalPages:    totalPages,
		AnomalyHidden: hidden,
	}
}

func saleMatches(p finance.EvaluatedSale, q Query) bool {
	if !textMatch(q.Search, p.Name, p.Region, p.Dong) {
		return false
	}
	if q.Region != "" && p.Region != q.Region {
		return false
	}
	if !areaMatch(p.AreaPy, q.AreaBand) {
		return false
	}
	if !builtYearMatch(p.BuiltYear, q.BuiltYear) {
		return false
	}
	if !commuteMatch(p.CommuteSubway, p.CommuteTransit, q.Commute) {
		return false
	}
	if q.Verdict != "" && p.Verdict != q.Verdict {
		return false
	}
	if !inBounds(q.Bounds, p.Latitude, p.Longitude) {
		return false
	}
	return true
}

func leaseMatches(p finance.EvaluatedLease, q Query) bool {
	if !textMatch(q.Search, p.Name, p.Region, p.Dong) {
		return false
	}
	if q.Region != "" && p.Region != q.Region {
		return false
	}
	if q.LeaseType != "" && p.LeaseType != q.LeaseType {
		return false
	}
	if !areaMatch(p.AreaPy, q.AreaBand) {
		return false
	}
	if !builtYearMatch(p.BuiltYear, q.BuiltYear) {
		return false
	}
	if !commuteMatch(p.CommuteSubway, p.CommuteTransit, q.Commute) {
		return false
	}
	if q.Verdict != "" && p.Verdict != q.Verdict {
		return false
	}
	if !inBounds(q.Bounds, p.Latitude, p.Longitude) {
		return false
	}
	return true
}

func textMatch(search, name, region, dong string) bool {
	if search == "" {
		return true
	}
	haystack := strings.ToLower(name + " " + region + " " + dong)
	return strings.Contains(haystack, strings.ToLower(search))
}

func areaMatch(areaPy float64, band string) bool {
	switch band {
	case AreaSmall:
		return areaPy <= 18
	case AreaMid:
		return areaPy > 18 && areaPy <= 25
	case AreaLarge:
		return areaPy > 25
	default:
		return true
	}
}

func builtYearMatch(builtYear int, filter string) bool {
	if filter == "" {
		return true
	}
	if builtYear == 0 {
		return false
	}
	age := time.Now().Year() - builtYear
	if filter == "old" {
		return age >= 20
	}
	maxAge, err := strconv.Atoi(filter)
	if err != nil {
		return true
	}
	return age <= maxAge
}

func commuteMatch(subway, transit *int, filter string) bool {
	switch filter {
	case CommuteTransit60:
		return transit != nil && *transit <= 60
	case CommuteSubway60:
		return subway != nil && *subway <= 60
	case CommuteTransit45:
		return transit != nil && *transit <= 45
	default:
		return true
	}
}

func inBounds(bounds *orb.Bound, lat, lon *float64) bool {
	if bounds == nil {
		return true
	}
	if lat == nil || lon == nil {
		return false
	}
	return bounds.Contains(orb.Point{*lon, *lat})
}

func sortSales(items []finance.EvaluatedSale, key string) {
	switch key {
	case SortPriceAsc:
		sort.SliceStable(items, func(i, j int) bool { return items[i].Price < items[j].Price })
	case SortPriceDesc:
		sort.SliceStable(items, func(i, j int) bool { return items[i].Price > items[j].Price })
	case SortAreaDesc:
		sort.SliceStable(items, func(i, j int) bool { return items[i].AreaPy > items[j].AreaPy })
	case SortWalk:
		sort.SliceStable(items, func(i, j int) bool { return missingLast(items[i].WalkMin) < missingLast(items[j].WalkMin) })
	case SortCommute:
		sort.SliceStable(items, func(i, j int) bool {
			return missingLastPtr(items[i].CommuteTransit) < missingLastPtr(items[j].CommuteTransit)
		})
	case SortLatest:
		sort.SliceStable(items, func(i, j int) bool { return items[i].LatestDate > items[j].LatestDate })
	default: // SortValue
		sort.SliceStable(items, func(i, j int) bool {
			si, sj := finance.Severity(items[i].Verdict), finance.Severity(items[j].Verdict)
			if si != sj {
				return si < sj
			}
			return items[i].AreaPy > items[j].AreaPy
		})
	}
}

func sortLeases(items []finance.EvaluatedLease, key string) {
	switch key {
	case SortPriceAsc:
		sort.SliceStable(items, func(i, j int) bool { return items[i].Deposit < items[j].Deposit })
	case SortPriceDesc:
		sort.SliceStable(items, func(i, j int) bool { return items[i].Deposit > items[j].Deposit })
	case SortAreaDesc:
		sort.SliceStable(items, func(i, j int) bool { return items[i].AreaPy > items[j].AreaPy })
	case SortWalk:
		sort.SliceStable(items, func(i, j int) bool { return missingLast(items[i].WalkMin) < missingLast(items[j].WalkMin) })
	case SortCommute:
		sort.SliceStable(items, func(i, j int) bool {
			return missingLastPtr(items[i].CommuteTransit) < missingLastPtr(items[j].CommuteTransit)
		})
	case SortLatest:
		sort.SliceStable(items, func(i, j int) bool { return items[i].LatestDate > items[j].LatestDate })
	default: // SortValue
		sort.SliceStable(items, func(i, j int) bool {
			si, sj := finance.Severity(items[i].Verdict), finance.Severity(items[j].Verdict)
			if si != sj {
				return si < sj
			}
			return items[i].AreaPy > items[j].AreaPy
		})
	}
}

// missingLast maps an unknown (zero) minute figure past any real one.
func missingLast(minutes int) int {
	if minutes == 0 {
		return 999
	}
	return minutes
}

func missingLastPtr(minutes *int) int {
	if minutes == nil {
		return 999
	}
	return missingLast(*minutes)
}

// paginate clamps a 1-indexed page to the valid range and returns the slice
// bounds. An empty list still has one page.
func paginate(total, page, pageSize int) (int, int, int, int) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	totalPages := int(math.Ceil(float64(total) / float64(pageSize)))
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}
	start := (page - 1) * pageSize
	end := start + pageSize
	if end > total {
		end = total
	}
	if start > total {
		start = total
	}
	return page, totalPages, start, end
}
