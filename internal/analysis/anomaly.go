// Package analysis holds the one-time enrichment heuristics run after a
// dataset load: lease price-anomaly flagging and jeonse-rate matching
// against the sale market. Both annotate entities in place and never drop
// records; consumers decide what to display.
package analysis

import (
	"math"
	"sort"

	"github.com/HAAN6892/real-estate-monitor/internal/models"
)

// AnomalyParams tunes the regional-median heuristic. The defaults are
// heuristic constants, not derived values.
type AnomalyParams struct {
	AreaBand  int     // area bucket width in pyeong
	MinBucket int     // minimum listings per bucket before a median is judged
	Threshold float64 // flag when deposit < median * Threshold
}

func DefaultAnomalyParams() AnomalyParams {
	return AnomalyParams{AreaBand: 5, MinBucket: 3, Threshold: 0.5}
}

type anomalyBucket struct {
	Region string
	Band   int
}

// FlagAnomalies marks jeonse listings priced far below the regional median
// for their size band. Buckets smaller than MinBucket are skipped: too few
// samples to judge an outlier. Returns the number of flagged listings.
func FlagAnomalies(leases []models.LeaseProperty, params AnomalyParams) int {
	if params.AreaBand <= 0 {
		params.AreaBand = 1
	}
	buckets := make(map[anomalyBucket][]int)
	for i := range leases {
		if leases[i].LeaseType != models.LeaseJeonse {
			continue
		}
		key := bucketFor(&leases[i], params.AreaBand)
		buckets[key] = append(buckets[key], leases[i].Deposit)
	}

	medians := make(map[anomalyBucket]int)
	for key, deposits := range buckets {
		if len(deposits) < params.MinBucket {
			continue
		}
		medians[key] = median(deposits)
	}

	flagged := 0
	for i := range leases {
		if leases[i].LeaseType != models.LeaseJeonse {
			leases[i].PriceAnomaly = false
			continue
		}
		med, ok := medians[bucketFor(&leases[i], params.AreaBand)]
		leases[i].PriceAnomaly = ok && float64(leases[i].Deposit) < float64(med)*params.Threshold
		if leases[i].PriceAnomaly {
			flagged++
		}
	}
	return flagged
}

func bucketFor(p *models.LeaseProperty, band int) anomalyBucket {
	return anomalyBucket{
		Region: p.Region,
		Band:   int(math.Round(p.AreaPy/float64(band))) * band,
	}
}

// median of ints; the even case averages the two middle values, rounded.
func median(values []int) int {
	s := append([]int(nil), values...)
	sort.Ints(s)
	m := len(s) / 2
	if len(s)%2 != 0 {
		return s[m]
	}
	return int(math.Round(float64(s[m-1]+s[m]) / 2))
}
