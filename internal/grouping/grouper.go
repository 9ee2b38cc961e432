// Package grouping collapses raw transaction records into unique property
// entities with aggregated trade history. Entities are rebuilt from scratch
// on every dataset load and never mutated transaction by transaction.
package grouping

import (
	"math"
	"sort"

	"github.com/HAAN6892/real-estate-monitor/internal/models"
)

// saleKey identifies one sale entity. Area is rounded to the nearest whole
// square meter, so two slightly different raw areas may merge; that
// approximate grouping is intentional.
type saleKey struct {
	Region string
	Name   string
	AreaM2 int
}

// leaseKey additionally partitions by lease type so jeonse and monthly
// contracts for the same unit never merge.
type leaseKey struct {
	Region    string
	Name      string
	AreaM2    int
	LeaseType string
}

// GroupSales collapses sale records into entities keyed by
// region + complex name + rounded area. Descriptive fields come from the
// first record of each group; trades are sorted newest first and the entity
// list ascending by average price.
func GroupSales(records []models.TransactionRecord) []models.SaleProperty {
	groups := make(map[saleKey]*models.SaleProperty)
	var order []saleKey

	for _, r := range records {
		key := saleKey{Region: r.Region, Name: r.Name, AreaM2: int(math.Round(r.AreaM2))}
		p, ok := groups[key]
		if !ok {
			p = &models.SaleProperty{
				Name:        r.Name,
				Region:      r.Region,
				Dong:        r.Dong,
				AreaM2:      key.AreaM2,
				AreaPy:      r.AreaPy,
				BuiltYear:   r.BuiltYear,
				Households:  r.Households,
				StationName: r.StationName,
				Line:        r.Line,
				WalkMin:     r.WalkMin,
				Latitude:    r.Latitude,
				Longitude:   r.Longitude,
				Regulated:   r.Regulated,
			}
			groups[key] = p
			order = append(order, key)
		}
		p.Trades = append(p.Trades, models.Trade{Price: r.Price, Floor: r.Floor, Date: r.TradeDate})
	}

	properties := make([]models.SaleProperty, 0, len(order))
	for _, key := range order {
		p := groups[key]

		sum, minPrice, maxPrice := 0, p.Trades[0].Price, p.Trades[0].Price
		latest := ""
		for _, t := range p.Trades {
			sum += t.Price
			if t.Price < minPrice {
				minPrice = t.Price
			}
			if t.Price > maxPrice {
				maxPrice = t.Price
			}
			if t.Date > latest {
				latest = t.Date
			}
		}

		p.TradeCount = len(p.Trades)
		p.Price = int(math.Round(float64(sum) / float64(len(p.Trades))))
		p.MinPrice = minPrice
		p.MaxPrice = maxPrice
		p.LatestDate = latest
		if p.AreaPy > 0 {
			p.PricePerPy = int(math.Round(float64(p.Price) / p.AreaPy))
		}
		sortTradesByDateDesc(p.Trades)

		properties = append(properties, *p)
	}

	sort.SliceStable(properties, func(i, j int) bool {
		return properties[i].Price < properties[j].Price
	})
	return properties
}

// GroupLeases collapses lease records the same way as GroupSales, with the
// lease type as an extra key component. Records with no lease type are
// treated as jeonse.
func GroupLeases(records []models.TransactionRecord) []models.LeaseProperty {
	groups := make(map[leaseKey]*models.LeaseProperty)
	var order []leaseKey

	for _, r := range records {
		leaseType := r.LeaseType
		if leaseType == "" {
			leaseType = models.LeaseJeonse
		}
		key := leaseKey{Region: r.Region, Name: r.Name, AreaM2: int(math.Round(r.AreaM2)), LeaseType: leaseType}
		p, ok := groups[key]
		if !ok {
			p = &models.LeaseProperty{
				Name:        r.Name,
				Region:      r.Region,
				Dong:        r.Dong,
				AreaM2:      key.AreaM2,
				AreaPy:      r.AreaPy,
				BuiltYear:   r.BuiltYear,
				Households:  r.Households,
				StationName: r.StationName,
				Line:        r.Line,
				WalkMin:     r.WalkMin,
				Latitude:    r.Latitude,
				Longitude:   r.Longitude,
				LeaseType:   leaseType,
			}
			groups[key] = p
			order = append(order, key)
		}
		p.Trades = append(p.Trades, models.Trade{Price: r.Deposit, MonthlyRent: r.MonthlyRent, Floor: r.Floor, Date: r.TradeDate})
	}

	properties := make([]models.LeaseProperty, 0, len(order))
	for _, key := range order {
		p := groups[key]

		depositSum, monthlySum := 0, 0
		minDeposit, maxDeposit := p.Trades[0].Price, p.Trades[0].Price
		latest := ""
		for _, t := range p.Trades {
			depositSum += t.Price
			monthlySum += t.MonthlyRent
			if t.Price < minDeposit {
				minDeposit = t.Price
			}
			if t.Price > maxDeposit {
				maxDeposit = t.Price
			}
			if t.Date > latest {
				latest = t.Date
			}
		}

		p.TradeCount = len(p.Trades)
		p.Deposit = int(math.Round(float64(depositSum) / float64(len(p.Trades))))
		p.MonthlyRent = int(math.Round(float64(monthlySum) / float64(len(p.Trades))))
		p.MinDeposit = minDeposit
		p.MaxDeposit = maxDeposit
		p.LatestDate = latest
		sortTradesByDateDesc(p.Trades)

		properties = append(properties, *p)
	}

	sort.SliceStable(properties, func(i, j int) bool {
		return properties[i].Deposit < properties[j].Deposit
	})
	return properties
}

// sortTradesByDateDesc orders trades newest first; missing dates compare as
// empty strings and therefore sort last.
func sortTradesByDateDesc(trades []models.Trade) {
	sort.SliceStable(trades, func(i, j int) bool {
		return trades[i].Date > trades[j].Date
	})
}
