package grouping

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/HAAN6892/real-estate-monitor/internal/models"
)

func saleRecord(region, name string, areaM2 float64, price int, floor int, date string) models.TransactionRecord {
	return models.TransactionRecord{
		Kind:      models.KindSale,
		Region:    region,
		Name:      name,
		AreaM2:    areaM2,
		AreaPy:    areaM2 / 3.3058,
		Price:     price,
		Floor:     floor,
		TradeDate: date,
	}
}

func leaseRecord(region, name string, areaM2 float64, deposit, monthly int, leaseType, date string) models.TransactionRecord {
	return models.TransactionRecord{
		Kind:        models.KindLease,
		Region:      region,
		Name:        name,
		AreaM2:      areaM2,
		AreaPy:      areaM2 / 3.3058,
		Deposit:     deposit,
		MonthlyRent: monthly,
		LeaseType:   leaseType,
		TradeDate:   date,
	}
}

func TestGroupSales(t *testing.T) {
	records := []models.TransactionRecord{
		saleRecord("경기 광주시", "한빛마을", 84.9, 50000, 10, "2025-07-01"),
		saleRecord("경기 광주시", "한빛마을", 84.9, 54000, 3, "2025-08-15"),
		saleRecord("경기 광주시", "동신2단지", 59.8, 32000, 7, "2025-06-20"),
	}

	properties := GroupSales(records)
	assert.Len(t, properties, 2)

	// List is sorted ascending by average price.
	assert.Equal(t, "동신2단지", properties[0].Name)
	assert.Equal(t, "한빛마을", properties[1].Name)

	hanbit := properties[1]
	assert.Equal(t, 85, hanbit.AreaM2)
	assert.Equal(t, 52000, hanbit.Price)
	assert.Equal(t, 50000, hanbit.MinPrice)
	assert.Equal(t, 54000, hanbit.MaxPrice)
	assert.Equal(t, 2, hanbit.TradeCount)
	assert.Equal(t, "2025-08-15", hanbit.LatestDate)

	// Trades newest first.
	assert.Equal(t, "2025-08-15", hanbit.Trades[0].Date)
	assert.Equal(t, 54000, hanbit.Trades[0].Price)
}

func TestGroupSalesApproximateAreaMerge(t *testing.T) {
	// 84.9 and 85.1 both round to 85 and must merge into one entity.
	records := []models.TransactionRecord{
		saleRecord("서울 강남구", "래미안", 84.9, 180000, 5, "2025-01-10"),
		saleRecord("서울 강남구", "래미안", 85.1, 190000, 12, "2025-02-10"),
	}

	properties := GroupSales(records)
	assert.Len(t, properties, 1)
	assert.Equal(t, 2, properties[0].TradeCount)
	assert.Equal(t, 185000, properties[0].Price)
}

func TestGroupSalesIdempotence(t *testing.T) {
	records := []models.TransactionRecord{
		saleRecord("경기 구리시", "금호", 59.9, 41000, 2, "2025-03-01"),
		saleRecord("경기 구리시", "금호", 59.9, 43000, 9, ""),
		saleRecord("인천 서구", "청라푸르지오", 101.8, 62000, 20, "2025-05-11"),
	}

	first := GroupSales(records)
	second := GroupSales(records)
	assert.Equal(t, first, second)

	// Missing dates sort last in the trade history.
	assert.Equal(t, "", first[0].Trades[1].Date)
}

func TestGroupSalesTotality(t *testing.T) {
	records := []models.TransactionRecord{
		saleRecord("a", "x", 60, 100, 1, "2025-01-01"),
		saleRecord("a", "x", 60, 110, 2, "2025-01-02"),
		saleRecord("a", "y", 60, 120, 3, "2025-01-03"),
		saleRecord("b", "x", 60, 130, 4, "2025-01-04"),
	}

	total := 0
	for _, p := range GroupSales(records) {
		total += p.TradeCount
	}
	assert.Equal(t, len(records), total)
}

func TestGroupLeasesPartitionsByLeaseType(t *testing.T) {
	records := []models.TransactionRecord{
		leaseRecord("경기 군포시", "세종3단지", 58.5, 28000, 0, models.LeaseJeonse, "2025-04-01"),
		leaseRecord("경기 군포시", "세종3단지", 58.5, 30000, 0, models.LeaseJeonse, "2025-05-01"),
		leaseRecord("경기 군포시", "세종3단지", 58.5, 5000, 90, models.LeaseMonthly, "2025-05-20"),
	}

	properties := GroupLeases(records)
	assert.Len(t, properties, 2)

	// Sorted by average deposit ascending: monthly entity first.
	assert.Equal(t, models.LeaseMonthly, properties[0].LeaseType)
	assert.Equal(t, 90, properties[0].MonthlyRent)
	assert.Equal(t, models.LeaseJeonse, properties[1].LeaseType)
	assert.Equal(t, 29000, properties[1].Deposit)
	assert.Equal(t, 28000, properties[1].MinDeposit)
	assert.Equal(t, 30000, properties[1].MaxDeposit)
}

func TestGroupLeasesEmptyTypeDefaultsToJeonse(t *testing.T) {
	records := []models.TransactionRecord{
		leaseRecord("인천 남동구", "논현힐스", 74.2, 21000, 0, "", "2025-02-01"),
		leaseRecord("인천 남동구", "논현힐스", 74.2, 22000, 0, models.LeaseJeonse, "2025-03-01"),
	}

	properties := GroupLeases(records)
	assert.Len(t, properties, 1)
	assert.Equal(t, models.LeaseJeonse, properties[0].LeaseType)
	assert.Equal(t, 2, properties[0].TradeCount)
}
