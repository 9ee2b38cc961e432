package api

import (
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/paulmach/orb"
	"github.com/sirupsen/logrus"

	"github.com/HAAN6892/real-estate-monitor/config"
	"github.com/HAAN6892/real-estate-monitor/internal/commute"
	"github.com/HAAN6892/real-estate-monitor/internal/database"
	"github.com/HAAN6892/real-estate-monitor/internal/engine"
	"github.com/HAAN6892/real-estate-monitor/internal/models"
	"github.com/HAAN6892/real-estate-monitor/internal/pipeline"
	"github.com/HAAN6892/real-estate-monitor/internal/regulation"
	"github.com/HAAN6892/real-estate-monitor/internal/telegram"
)

// Handler serves the matching API. All read endpoints evaluate against an
// immutable snapshot swapped atomically under the lock, so requests never
// observe a half-built dataset.
type Handler struct {
	db              *database.Database
	logger          *logrus.Logger
	config          *config.Config
	telegramService *telegram.Service

	mu       sync.RWMutex
	snapshot *engine.Snapshot

	financingMu   sync.Mutex
	lastFinancing models.PurchaseFinancing
	hasFinancing  bool
}

func NewHandler(db *database.Database, cfg *config.Config, telegramService *telegram.Service, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}

	return &Handler{
		db:              db,
		logger:          logger,
		config:          cfg,
		telegramService: telegramService,
		snapshot:        engine.BuildSnapshot(nil, nil, nil, engine.DefaultParams(), nil),
	}
}

// RebuildSnapshot loads all stored records, rebuilds the serving snapshot
// and swaps it in. Safe to call concurrently with reads.
func (h *Handler) RebuildSnapshot() error {
	sales, err := h.db.GetRecordsByKind(models.KindSale)
	if err != nil {
		return err
	}
	leases, err := h.db.GetRecordsByKind(models.KindLease)
	if err != nil {
		return err
	}
	entries, err := h.db.GetCommuteEntries()
	if err != nil {
		return err
	}

	commutes := commute.NewTable()
	for _, e := range entries {
		commutes.Add(e.Key, commute.Time{Subway: e.SubwayMinutes, Transit: e.TransitMinutes})
	}

	snap := engine.BuildSnapshot(sales, leases, commutes, h.engineParams(), h.logger)

	h.mu.Lock()
	h.snapshot = snap
	h.mu.Unlock()

	h.notifyRebuild(snap)
	return nil
}

func (h *Handler) engineParams() engine.Params {
	params := engine.DefaultParams()
	if h.config == nil {
		return params
	}
	m := h.config.Matching
	if m.AnomalyAreaBand > 0 {
		params.Anomaly.AreaBand = m.AnomalyAreaBand
	}
	if m.AnomalyMinBucket > 0 {
		params.Anomaly.MinBucket = m.AnomalyMinBucket
	}
	if m.AnomalyThreshold > 0 {
		params.Anomaly.Threshold = m.AnomalyThreshold
	}
	if m.JeonseAreaTolerance > 0 {
		params.JeonseAreaTolerance = m.JeonseAreaTolerance
	}
	return params
}

// notifyRebuild pushes telegram alerts after a snapshot swap. Wishlist
// affordability is judged with the household's last submitted financing.
func (h *Handler) notifyRebuild(snap *engine.Snapshot) {
	if h.telegramService == nil {
		return
	}

	if err := h.telegramService.NotifySnapshot(snap); err != nil {
		h.logger.WithError(err).Warn("Failed to send snapshot notification")
	}

	h.financingMu.Lock()
	financing, ok := h.lastFinancing, h.hasFinancing
	h.financingMu.Unlock()
	if !ok {
		return
	}
	if err := h.telegramService.NotifyAffordable(snap, financing); err != nil {
		h.logger.WithError(err).Warn("Failed to send affordability alert")
	}
}

func (h *Handler) current() *engine.Snapshot {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.snapshot
}

// GetSales evaluates purchase affordability for every sale entity under the
// supplied financing and returns one result page.
func (h *Handler) GetSales(c *gin.Context) {
	financing := h.bindPurchaseFinancing(c)
	query := h.bindQuery(c)

	h.financingMu.Lock()
	h.lastFinancing = financing
	h.hasFinancing = true
	h.financingMu.Unlock()

	result := h.current().EvaluatePurchase(financing, query)
	c.JSON(http.StatusOK, result)
}

// GetLeases is the lease-mode counterpart of GetSales.
func (h *Handler) GetLeases(c *gin.Context) {
	financing := h.bindLeaseFinancing(c)
	query := h.bindQuery(c)

	result := h.current().EvaluateLease(financing, query)
	c.JSON(http.StatusOK, result)
}

// GetRegulation resolves the regulation zone for a region name.
func (h *Handler) GetRegulation(c *gin.Context) {
	region := c.Query("region")
	if region == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "region parameter is required"})
		return
	}

	reg := regulation.Resolve(region)
	c.JSON(http.StatusOK, gin.H{
		"region": region,
		"zone":   reg.Zone,
		"ltv":    reg.LTV,
	})
}

// GetRegions lists the distinct regions available in the snapshot.
func (h *Handler) GetRegions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"regions": h.current().Regions()})
}

// GetStatus reports the snapshot vintage and entity counts.
func (h *Handler) GetStatus(c *gin.Context) {
	snap := h.current()
	c.JSON(http.StatusOK, gin.H{
		"built_at":       snap.BuiltAt,
		"sale_entities":  len(snap.Sales),
		"lease_entities": len(snap.Leases),
		"anomalies":      snap.AnomalyCount,
		"jeonse_matched": snap.JeonseMatched,
	})
}

// Refresh rebuilds the snapshot from the database on demand.
func (h *Handler) Refresh(c *gin.Context) {
	if err := h.RebuildSnapshot(); err != nil {
		h.logger.WithError(err).Error("Failed to rebuild snapshot")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to rebuild snapshot"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "snapshot rebuilt"})
}

// bindPurchaseFinancing reads the purchase financing parameters. Missing or
// malformed numbers coerce to zero instead of failing the request; the
// dashboard sends partial parameter sets while the user is still typing.
func (h *Handler) bindPurchaseFinancing(c *gin.Context) models.PurchaseFinancing {
	return models.PurchaseFinancing{
		Income1:      intQuery(c, "income1"),
		Income2:      intQuery(c, "income2"),
		Cash:         intQuery(c, "cash"),
		Interior:     intQuery(c, "interior"),
		Rate:         floatQuery(c, "rate"),
		TermYears:    intQuery(c, "term"),
		MonthlyLimit: intQuery(c, "monthlyLimit"),
		MgmtFee:      intQuery(c, "mgmt"),
		LTV:          floatQuery(c, "ltv"),
		DSR:          floatQuery(c, "dsr"),
		HouseCount:   intQuery(c, "houseCount"),
		AutoLTV:      boolQuery(c, "autoLtv"),
		Married:      boolQuery(c, "married"),
	}
}

func (h *Handler) bindLeaseFinancing(c *gin.Context) models.LeaseFinancing {
	return models.LeaseFinancing{
		Income1:   intQuery(c, "income1"),
		Income2:   intQuery(c, "income2"),
		Cash:      intQuery(c, "cash"),
		Rate:      floatQuery(c, "rentRate"),
		LoanRatio: floatQuery(c, "loanRatio"),
		LoanLimit: intQuery(c, "loanLimit"),
		LoanType:  c.Query("loanType"),
		Married:   boolQuery(c, "married"),
	}
}

func (h *Handler) bindQuery(c *gin.Context) pipeline.Query {
	q := pipeline.Query{
		Search:        c.Query("search"),
		Region:        c.Query("region"),
		AreaBand:      c.Query("area"),
		BuiltYear:     c.Query("builtYear"),
		Commute:       c.Query("commute"),
		Verdict:       c.Query("verdict"),
		LeaseType:     c.Query("leaseType"),
		ShowAnomalies: boolQuery(c, "showAnomalies"),
		Sort:          c.Query("sort"),
		Page:          intQuery(c, "page"),
		PageSize:      intQuery(c, "pageSize"),
		Bounds:        parseBounds(c.Query("bounds")),
	}
	if q.PageSize <= 0 && h.config != nil && h.config.Matching.PageSize > 0 {
		q.PageSize = h.config.Matching.PageSize
	}
	return q
}

// parseBounds parses a "swLat,swLon,neLat,neLon" viewport string.
func parseBounds(s string) *orb.Bound {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return nil
	}

	vals := make([]float64, 4)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil
		}
		vals[i] = v
	}

	bound := orb.Bound{
		Min: orb.Point{vals[1], vals[0]},
		Max: orb.Point{vals[3], vals[2]},
	}
	if bound.Min[0] > bound.Max[0] || bound.Min[1] > bound.Max[1] {
		return nil
	}
	return &bound
}

func intQuery(c *gin.Context, name string) int {
	v, err := strconv.Atoi(strings.TrimSpace(c.Query(name)))
	if err != nil {
		return 0
	}
	return v
}

func floatQuery(c *gin.Context, name string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(c.Query(name)), 64)
	if err != nil {
		return 0
	}
	return v
}

func boolQuery(c *gin.Context, name string) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(c.Query(name)))
	if err != nil {
		return false
	}
	return v
}
