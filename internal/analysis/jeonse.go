package analysis

import (
	"math"

	"github.com/HAAN6892/real-estate-monitor/internal/models"
)

type saleGroup struct {
	Name   string
	AreaPy float64
}

// ComputeJeonseRates sets each jeonse entity's deposit-to-sale-price ratio
// (percent) against the matching sale group: exact complex name + area
// first, then the first sale group (in sale-list order) with the same name
// and an area within areaTolerance pyeong. Monthly-rent entities and
// unmatched entities get nil. A missing sale dataset leaves every rate nil.
// Returns the number of matched entities.
func ComputeJeonseRates(leases []models.LeaseProperty, sales []models.SaleProperty, areaTolerance float64) int {
	if len(sales) == 0 {
		for i := range leases {
			leases[i].JeonseRate = nil
		}
		return 0
	}

	prices := make(map[saleGroup][]int)
	var order []saleGroup
	for _, s := range sales {
		key := saleGroup{Name: s.Name, AreaPy: s.AreaPy}
		if _, ok := prices[key]; !ok {
			order = append(order, key)
		}
		prices[key] = append(prices[key], s.Price)
	}

	matched := 0
	for i := range leases {
		p := &leases[i]
		if p.LeaseType != models.LeaseJeonse {
			p.JeonseRate = nil
			continue
		}

		if group, ok := prices[saleGroup{Name: p.Name, AreaPy: p.AreaPy}]; ok {
			p.JeonseRate = rate(p.Deposit, group)
			matched++
			continue
		}

		// Fallback: first group in insertion order with the same name and a
		// close enough area. First found, not closest.
		p.JeonseRate = nil
		for _, key := range order {
			if key.Name != p.Name {
				continue
			}
			if math.Abs(key.AreaPy-p.AreaPy) <= areaTolerance {
				p.JeonseRate = rate(p.Deposit, prices[key])
				matched++
				break
			}
		}
	}
	return matched
}

func rate(deposit int, prices []int) *int {
	sum := 0
	for _, p := range prices {
		sum += p
	}
	avg := math.Round(float64(sum) / float64(len(prices)))
	r := int(math.Round(float64(deposit) / avg * 100))
	return &r
}
