// Package engine ties the matching core together: it builds an immutable
// snapshot from raw transaction records (grouping plus the one-time
// enrichment passes) and evaluates that snapshot as a pure function of the
// financing configuration and query. Recomputation never mutates a snapshot.
package engine

import (
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/HAAN6892/real-estate-monitor/internal/analysis"
	"github.com/HAAN6892/real-estate-monitor/internal/commute"
	"github.com/HAAN6892/real-estate-monitor/internal/finance"
	"github.com/HAAN6892/real-estate-monitor/internal/grouping"
	"github.com/HAAN6892/real-estate-monitor/internal/models"
	"github.com/HAAN6892/real-estate-monitor/internal/pipeline"
)

// Params are the enrichment knobs; zero values fall back to the package
// defaults.
type Params struct {
	Anomaly             analysis.AnomalyParams
	JeonseAreaTolerance float64
}

func DefaultParams() Params {
	return Params{
		Anomaly:             analysis.DefaultAnomalyParams(),
		JeonseAreaTolerance: 3,
	}
}

// Snapshot is one fully grouped and enriched dataset. It is rebuilt
// wholesale on every load and treated as read-only afterwards.
type Snapshot struct {
	Sales  []models.SaleProperty
	Leases []models.LeaseProperty

	BuiltAt       time.Time
	AnomalyCount  int
	JeonseMatched int
}

// BuildSnapshot groups raw records into entities and runs the enrichment
// passes: commute attachment, lease anomaly flagging, jeonse-rate matching.
func BuildSnapshot(saleRecords, leaseRecords []models.TransactionRecord, commutes *commute.Table, params Params, logger *logrus.Logger) *Snapshot {
	if params.Anomaly.MinBucket == 0 {
		params.Anomaly = analysis.DefaultAnomalyParams()
	}
	if params.JeonseAreaTolerance == 0 {
		params.JeonseAreaTolerance = 3
	}

	snap := &Snapshot{
		Sales:   grouping.GroupSales(saleRecords),
		Leases:  grouping.GroupLeases(leaseRecords),
		BuiltAt: time.Now(),
	}

	for i := range snap.Sales {
		if c := commutes.Match(snap.Sales[i].Region, snap.Sales[i].Dong); c != nil {
			snap.Sales[i].CommuteSubway = &c.Subway
			snap.Sales[i].CommuteTransit = &c.Transit
		}
	}
	for i := range snap.Leases {
		if c := commutes.Match(snap.Leases[i].Region, snap.Leases[i].Dong); c != nil {
			snap.Leases[i].CommuteSubway = &c.Subway
			snap.Leases[i].CommuteTransit = &c.Transit
		}
	}

	snap.AnomalyCount = analysis.FlagAnomalies(snap.Leases, params.Anomaly)
	snap.JeonseMatched = analysis.ComputeJeonseRates(snap.Leases, snap.Sales, params.JeonseAreaTolerance)

	if logger != nil {
		logger.WithFields(logrus.Fields{
			"sale_records":   len(saleRecords),
			"lease_records":  len(leaseRecords),
			"sale_entities":  len(snap.Sales),
			"lease_entities": len(snap.Leases),
			"anomalies":      snap.AnomalyCount,
			"jeonse_matched": snap.JeonseMatched,
		}).Info("Built dataset snapshot")
	}
	return snap
}

// PurchaseResult is one purchase-mode recompute: the household summary plus
// the filtered, sorted, paged property slice.
type PurchaseResult struct {
	Summary    finance.PurchaseSummary `json:"summary"`
	Properties pipeline.SaleResult     `json:"properties"`
}

// LeaseResult is the lease-mode counterpart.
type LeaseResult struct {
	Summary    finance.LeaseSummary `json:"summary"`
	Properties pipeline.LeaseResult `json:"properties"`
}

// EvaluatePurchase computes household capacity and per-property verdicts
// for every sale entity, then applies the query pipeline.
func (s *Snapshot) EvaluatePurchase(f models.PurchaseFinancing, q pipeline.Query) PurchaseResult {
	summary := finance.HouseholdPurchase(f)
	evaluated := make([]finance.EvaluatedSale, len(s.Sales))
	for i, p := range s.Sales {
		evaluated[i] = finance.EvaluateSale(p, f, summary)
	}
	return PurchaseResult{Summary: summary, Properties: pipeline.Sales(evaluated, q)}
}

// EvaluateLease computes the lease budget and per-property verdicts for
// every lease entity, then applies the query pipeline.
func (s *Snapshot) EvaluateLease(f models.LeaseFinancing, q pipeline.Query) LeaseResult {
	summary := finance.HouseholdLease(f)
	evaluated := make([]finance.EvaluatedLease, len(s.Leases))
	for i, p := range s.Leases {
		evaluated[i] = finance.EvaluateLease(p, f, summary)
	}
	return LeaseResult{Summary: summary, Properties: pipeline.Leases(evaluated, q)}
}

// Regions returns the sorted distinct regions across both markets, for
// filter dropdowns.
func (s *Snapshot) Regions() []string {
	seen := make(map[string]struct{})
	var regions []string
	for _, p := range s.Sales {
		if _, ok := seen[p.Region]; !ok {
			seen[p.Region] = struct{}{}
			regions = append(regions, p.Region)
		}
	}
	for _, p := range s.Leases {
		if _, ok := seen[p.Region]; !ok {
			seen[p.Region] = struct{}{}
			regions = append(regions, p.Region)
		}
	}
	sort.Strings(regions)
	return regions
}
