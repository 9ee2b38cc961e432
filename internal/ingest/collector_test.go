package ingest

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/HAAN6892/real-estate-monitor/config"
	"github.com/HAAN6892/real-estate-monitor/internal/models"
)

func TestParseRegions(t *testing.T) {
	regions := ParseRegions([]string{
		"41135=성남시분당구",
		" 41465=용인시수지구 ",
		"broken",
		"=noname",
	})

	assert.Equal(t, []Region{
		{Code: "41135", Name: "성남시분당구"},
		{Code: "41465", Name: "용인시수지구"},
	}, regions)
}

func TestMonthWindow(t *testing.T) {
	now := time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, []string{"202507", "202506", "202505"}, monthWindow(now, 3))
	assert.Equal(t, []string{"202507"}, monthWindow(now, 0))

	// Year boundary
	jan := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, []string{"202501", "202412"}, monthWindow(jan, 2))
}

func TestToPyeong(t *testing.T) {
	assert.InDelta(t, 25.7, toPyeong(84.9), 0.001)
	assert.InDelta(t, 18.1, toPyeong(59.8), 0.001)
}

func TestRecordsFromTrades_Sales(t *testing.T) {
	c := &Collector{logger: logrus.New(), config: &config.Config{}}
	region := Region{Code: "41135", Name: "성남시분당구"}

	trades := []RawTrade{
		{AptName: "한빛마을", AreaM2: 84.9, Price: 54000, Floor: 12, BuiltYear: 1995, TradeDate: "2025-06-10", Dong: "구미동"},
		{AptName: "무가격", AreaM2: 59.8, Price: 0, TradeDate: "2025-06-11"},
	}

	records := c.recordsFromTrades(context.Background(), models.KindSale, region, trades)

	assert.Len(t, records, 1)
	r := records[0]
	assert.Equal(t, models.KindSale, r.Kind)
	assert.Equal(t, "성남시분당구", r.Region)
	assert.Equal(t, 54000, r.Price)
	assert.InDelta(t, 25.7, r.AreaPy, 0.001)
	assert.False(t, r.Regulated)
}

func TestRecordsFromTrades_LeaseTypeClassification(t *testing.T) {
	c := &Collector{logger: logrus.New(), config: &config.Config{}}
	region := Region{Code: "11680", Name: "서울 강남구"}

	trades := []RawTrade{
		{AptName: "은마", AreaM2: 76.8, Deposit: 90000, MonthlyRent: 0, TradeDate: "2025-06-01"},
		{AptName: "은마", AreaM2: 76.8, Deposit: 20000, MonthlyRent: 150, TradeDate: "2025-06-02"},
		{AptName: "무보증", AreaM2: 59.8, Deposit: 0, TradeDate: "2025-06-03"},
	}

	records := c.recordsFromTrades(context.Background(), models.KindLease, region, trades)

	assert.Len(t, records, 2)
	assert.Equal(t, models.LeaseJeonse, records[0].LeaseType)
	assert.Equal(t, models.LeaseMonthly, records[1].LeaseType)

	// 강남구 sits inside the regulated zone table
	assert.True(t, records[0].Regulated)
}

func TestNearestStation(t *testing.T) {
	// Right next to 정자역
	station, walkMin := NearestStation(37.3669, 127.1085)
	assert.Equal(t, "정자", station.Name)
	assert.Equal(t, "신분당선", station.Line)
	assert.Equal(t, 0, walkMin)

	// Roughly 1km north of 정자역: about 15 walking minutes
	_, walkMin = NearestStation(37.3759, 127.1085)
	assert.Greater(t, walkMin, 10)
	assert.Less(t, walkMin, 20)
}

func TestMolitItemToRawTrade(t *testing.T) {
	item := molitItem{
		AptName:    " 한빛마을 ",
		ExcluUseAr: "84.93",
		DealAmount: " 54,000 ",
		Floor:      "12",
		BuildYear:  "1995",
		DealYear:   "2025",
		DealMonth:  "6",
		DealDay:    "9",
		Dong:       "구미동",
	}

	trade, ok := item.toRawTrade()
	assert.True(t, ok)
	assert.Equal(t, "한빛마을", trade.AptName)
	assert.Equal(t, 54000, trade.Price)
	assert.Equal(t, "2025-06-09", trade.TradeDate)
	assert.InDelta(t, 84.93, trade.AreaM2, 0.001)

	// Missing deal date is rejected
	item.DealDay = ""
	_, ok = item.toRawTrade()
	assert.False(t, ok)

	// Missing area is rejected
	item.DealDay = "9"
	item.ExcluUseAr = ""
	_, ok = item.toRawTrade()
	assert.False(t, ok)
}

func TestParseAmount(t *testing.T) {
	assert.Equal(t, 54000, parseAmount("54,000"))
	assert.Equal(t, 54000, parseAmount(" 54000 "))
	assert.Equal(t, 0, parseAmount(""))
	assert.Equal(t, 0, parseAmount("abc"))
}
