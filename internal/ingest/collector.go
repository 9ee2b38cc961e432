package ingest

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/HAAN6892/real-estate-monitor/config"
	"github.com/HAAN6892/real-estate-monitor/internal/database"
	"github.com/HAAN6892/real-estate-monitor/internal/models"
	"github.com/HAAN6892/real-estate-monitor/internal/queue"
	"github.com/HAAN6892/real-estate-monitor/internal/regulation"
)

// Region is one monitored district: the ministry's LAWD code plus the
// display name the rest of the system keys on.
type Region struct {
	Code string
	Name string
}

// ParseRegions parses "code=name" pairs from configuration. Malformed
// entries are skipped.
func ParseRegions(entries []string) []Region {
	regions := make([]Region, 0, len(entries))
	for _, entry := range entries {
		code, name, ok := strings.Cut(strings.TrimSpace(entry), "=")
		if !ok || code == "" || name == "" {
			continue
		}
		regions = append(regions, Region{Code: code, Name: name})
	}
	return regions
}

// Collector pulls trade data from the ministry API and pushes record
// batches onto the processing queue.
type Collector struct {
	molit   *MolitClient
	odsay   *OdsayClient
	kakao   *KakaoClient
	queue   *queue.RecordQueue
	db      *database.Database
	config  *config.Config
	logger  *logrus.Logger
	regions []Region
}

func NewCollector(db *database.Database, q *queue.RecordQueue, cfg *config.Config, logger *logrus.Logger) *Collector {
	timeout := time.Duration(cfg.Ingest.RequestTimeout) * time.Second

	c := &Collector{
		molit:   NewMolitClient(cfg.Ingest.MolitBaseURL, cfg.Ingest.MolitKey, timeout, logger),
		odsay:   NewOdsayClient(cfg.Ingest.OdsayBaseURL, cfg.Ingest.OdsayKey, cfg.Ingest.WorkplaceLat, cfg.Ingest.WorkplaceLon, timeout, logger),
		queue:   q,
		db:      db,
		config:  cfg,
		logger:  logger,
		regions: ParseRegions(cfg.Ingest.RegionCodes),
	}
	if cfg.Ingest.KakaoKey != "" {
		c.kakao = NewKakaoClient(cfg.Ingest.KakaoKey, timeout, logger)
	}
	return c
}

// CollectSales fetches sale trades for every configured region over the
// configured month window and enqueues them.
func (c *Collector) CollectSales(ctx context.Context) error {
	return c.collect(ctx, models.KindSale, c.molit.FetchSales)
}

// CollectLeases fetches lease contracts the same way.
func (c *Collector) CollectLeases(ctx context.Context) error {
	return c.collect(ctx, models.KindLease, c.molit.FetchLeases)
}

func (c *Collector) collect(ctx context.Context, kind string, fetch func(context.Context, string, string) ([]RawTrade, error)) error {
	if len(c.regions) == 0 {
		c.logger.Warn("No regions configured, skipping collection")
		return nil
	}

	months := monthWindow(time.Now(), c.config.Ingest.MonthsBack)
	total := 0
	var firstErr error

	for _, region := range c.regions {
		for _, month := range months {
			trades, err := fetch(ctx, region.Code, month)
			if err != nil {
				c.logger.WithError(err).WithFields(logrus.Fields{
					"region": region.Name,
					"month":  month,
				}).Error("Failed to fetch trades")
				if firstErr == nil {
					firstErr = err
				}
				continue
			}

			records := c.recordsFromTrades(ctx, kind, region, trades)
			total += len(records)
			if err := c.enqueue(records); err != nil {
				return err
			}
		}
	}

	c.logger.WithFields(logrus.Fields{
		"kind":    kind,
		"records": total,
		"regions": len(c.regions),
		"months":  len(months),
	}).Info("Collection finished")
	return firstErr
}

func (c *Collector) recordsFromTrades(ctx context.Context, kind string, region Region, trades []RawTrade) []*models.TransactionRecord {
	regulated := regulation.Resolve(region.Name).Zone == regulation.ZoneRegulated

	records := make([]*models.TransactionRecord, 0, len(trades))
	for _, t := range trades {
		record := &models.TransactionRecord{
			Kind:      kind,
			Region:    region.Name,
			Name:      t.AptName,
			Dong:      t.Dong,
			AreaM2:    t.AreaM2,
			AreaPy:    toPyeong(t.AreaM2),
			BuiltYear: t.BuiltYear,
			TradeDate: t.TradeDate,
			Floor:     t.Floor,
			Regulated: regulated,
		}

		switch kind {
		case models.KindSale:
			if t.Price <= 0 {
				continue
			}
			record.Price = t.Price
		case models.KindLease:
			if t.Deposit <= 0 {
				continue
			}
			record.Deposit = t.Deposit
			record.MonthlyRent = t.MonthlyRent
			if t.MonthlyRent > 0 {
				record.LeaseType = models.LeaseMonthly
			} else {
				record.LeaseType = models.LeaseJeonse
			}
		}

		c.attachLocation(ctx, region, record)
		records = append(records, record)
	}
	return records
}

// attachLocation geocodes the complex and derives the nearest station.
// Records stay usable without coordinates; map and commute features simply
// skip them.
func (c *Collector) attachLocation(ctx context.Context, region Region, record *models.TransactionRecord) {
	if c.kakao == nil {
		return
	}

	query := fmt.Sprintf("%s %s %s", region.Name, record.Dong, record.Name)
	pt, ok := c.kakao.Coordinates(ctx, query)
	if !ok {
		return
	}

	lat, lon := pt.Lat(), pt.Lon()
	record.Latitude = &lat
	record.Longitude = &lon

	station, walkMin := NearestStation(lat, lon)
	record.StationName = station.Name
	record.Line = station.Line
	record.WalkMin = walkMin
}

func (c *Collector) enqueue(records []*models.TransactionRecord) error {
	maxBatch := c.config.BatchProcessing.MaxBatchSize
	if maxBatch <= 0 {
		maxBatch = 100
	}

	for start := 0; start < len(records); start += maxBatch {
		end := start + maxBatch
		if end > len(records) {
			end = len(records)
		}
		if err := c.queue.Push(records[start:end]); err != nil {
			return fmt.Errorf("failed to enqueue batch: %w", err)
		}
	}
	return nil
}

// UpdateCommutes refreshes the commute table for every neighborhood that
// has at least one geocoded record. Neighborhoods without coordinates keep
// their previous entry.
func (c *Collector) UpdateCommutes(ctx context.Context) error {
	records, err := c.db.GetRecordsByKind(models.KindSale)
	if err != nil {
		return err
	}
	leases, err := c.db.GetRecordsByKind(models.KindLease)
	if err != nil {
		return err
	}
	records = append(records, leases...)

	existing, err := c.db.GetCommuteEntries()
	if err != nil {
		return err
	}
	entryByKey := make(map[string]models.CommuteEntry, len(existing))
	keys := make([]string, 0, len(existing))
	for _, e := range existing {
		entryByKey[e.Key] = e
		keys = append(keys, e.Key)
	}

	coords := make(map[string][2]float64)
	for _, r := range records {
		if r.Dong == "" || r.Latitude == nil || r.Longitude == nil {
			continue
		}
		key := fmt.Sprintf("%s %s", r.Region, r.Dong)
		if _, ok := coords[key]; !ok {
			coords[key] = [2]float64{*r.Latitude, *r.Longitude}
			if _, known := entryByKey[key]; !known {
				keys = append(keys, key)
			}
		}
	}

	updated := 0
	for key, c2 := range coords {
		subway, transit, err := c.odsay.CommuteMinutes(ctx, c2[0], c2[1])
		if err != nil {
			c.logger.WithError(err).WithField("key", key).Warn("Commute lookup failed, keeping previous entry")
			continue
		}
		entryByKey[key] = models.CommuteEntry{
			Key:            key,
			SubwayMinutes:  subway,
			TransitMinutes: transit,
		}
		updated++
	}

	entries := make([]models.CommuteEntry, 0, len(entryByKey))
	for _, key := range keys {
		if e, ok := entryByKey[key]; ok {
			entries = append(entries, e)
		}
	}

	if err := c.db.ReplaceCommuteEntries(entries); err != nil {
		return err
	}

	c.logger.WithFields(logrus.Fields{
		"neighborhoods": len(entries),
		"updated":       updated,
	}).Info("Commute table refreshed")
	return nil
}

// monthWindow lists YYYYMM strings from the current month backwards.
func monthWindow(now time.Time, monthsBack int) []string {
	if monthsBack < 1 {
		monthsBack = 1
	}
	months := make([]string, 0, monthsBack)
	for i := 0; i < monthsBack; i++ {
		months = append(months, now.AddDate(0, -i, 0).Format("200601"))
	}
	return months
}

func toPyeong(m2 float64) float64 {
	return math.Round(m2/3.3058*10) / 10
}
