package ingest

import (
	"context"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

// MolitClient talks to the ministry of land real-trade-price API. Both the
// sale and the lease services answer XML with the same envelope.
type MolitClient struct {
	httpClient *resty.Client
	serviceKey string
	logger     *logrus.Logger
}

func NewMolitClient(baseURL, serviceKey string, timeout time.Duration, logger *logrus.Logger) *MolitClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(3).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(5 * time.Second)

	return &MolitClient{
		httpClient: client,
		serviceKey: serviceKey,
		logger:     logger,
	}
}

// molitResponse is the shared XML envelope of the trade services.
type molitResponse struct {
	XMLName xml.Name `xml:"response"`
	Header  struct {
		ResultCode string `xml:"resultCode"`
		ResultMsg  string `xml:"resultMsg"`
	} `xml:"header"`
	Body struct {
		Items struct {
			Item []molitItem `xml:"item"`
		} `xml:"items"`
		TotalCount int `xml:"totalCount"`
	} `xml:"body"`
}

// molitItem covers both the sale and lease item shapes. The trade service
// fills dealAmount; the rent service fills deposit and monthlyRent.
type molitItem struct {
	AptName     string `xml:"aptNm"`
	ExcluUseAr  string `xml:"excluUseAr"`
	DealAmount  string `xml:"dealAmount"`
	Deposit     string `xml:"deposit"`
	MonthlyRent string `xml:"monthlyRent"`
	Floor       string `xml:"floor"`
	BuildYear   string `xml:"buildYear"`
	DealYear    string `xml:"dealYear"`
	DealMonth   string `xml:"dealMonth"`
	DealDay     string `xml:"dealDay"`
	Dong        string `xml:"umdNm"`
}

// RawTrade is one parsed row from either trade service. Amounts are in
// units of 10,000 KRW; Deposit and MonthlyRent are zero for sales.
type RawTrade struct {
	AptName     string
	AreaM2      float64
	Price       int
	Deposit     int
	MonthlyRent int
	Floor       int
	BuiltYear   int
	TradeDate   string
	Dong        string
}

// FetchSales retrieves apartment sale trades for one region and month
// (dealYM in YYYYMM form).
func (c *MolitClient) FetchSales(ctx context.Context, regionCode, dealYM string) ([]RawTrade, error) {
	return c.fetch(ctx, "/RTMSDataSvcAptTradeDev/getRTMSDataSvcAptTradeDev", regionCode, dealYM)
}

// FetchLeases retrieves apartment lease contracts for one region and month.
func (c *MolitClient) FetchLeases(ctx context.Context, regionCode, dealYM string) ([]RawTrade, error) {
	return c.fetch(ctx, "/RTMSDataSvcAptRent/getRTMSDataSvcAptRent", regionCode, dealYM)
}

func (c *MolitClient) fetch(ctx context.Context, path, regionCode, dealYM string) ([]RawTrade, error) {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"serviceKey": c.serviceKey,
			"LAWD_CD":    regionCode,
			"DEAL_YMD":   dealYM,
			"pageNo":     "1",
			"numOfRows":  "9999",
		}).
		Get(path)
	if err != nil {
		return nil, fmt.Errorf("failed to call trade API for %s/%s: %w", regionCode, dealYM, err)
	}

	var parsed molitResponse
	if err := xml.Unmarshal(resp.Body(), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse trade API response for %s/%s: %w", regionCode, dealYM, err)
	}

	code := parsed.Header.ResultCode
	if code != "" && code != "00" && code != "000" {
		return nil, fmt.Errorf("trade API error for %s/%s: %s (%s)", regionCode, dealYM, parsed.Header.ResultMsg, code)
	}

	trades := make([]RawTrade, 0, len(parsed.Body.Items.Item))
	for _, item := range parsed.Body.Items.Item {
		trade, ok := item.toRawTrade()
		if !ok {
			c.logger.WithField("apt", item.AptName).Debug("Skipping malformed trade item")
			continue
		}
		trades = append(trades, trade)
	}
	return trades, nil
}

func (i molitItem) toRawTrade() (RawTrade, bool) {
	name := strings.TrimSpace(i.AptName)
	if name == "" {
		return RawTrade{}, false
	}

	area, err := strconv.ParseFloat(strings.TrimSpace(i.ExcluUseAr), 64)
	if err != nil || area <= 0 {
		return RawTrade{}, false
	}

	year := parseIntField(i.DealYear)
	month := parseIntField(i.DealMonth)
	day := parseIntField(i.DealDay)
	if year == 0 || month == 0 || day == 0 {
		return RawTrade{}, false
	}

	return RawTrade{
		AptName:     name,
		AreaM2:      area,
		Price:       parseAmount(i.DealAmount),
		Deposit:     parseAmount(i.Deposit),
		MonthlyRent: parseAmount(i.MonthlyRent),
		Floor:       parseIntField(i.Floor),
		BuiltYear:   parseIntField(i.BuildYear),
		TradeDate:   fmt.Sprintf("%04d-%02d-%02d", year, month, day),
		Dong:        strings.TrimSpace(i.Dong),
	}, true
}

// parseAmount handles the API's comma-grouped amounts, e.g. "54,000".
func parseAmount(s string) int {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

func parseIntField(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

func parseFloatField(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}
