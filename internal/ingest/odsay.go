package ingest

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

// Path search modes of the ODsay public transit API.
const (
	pathTypeAll    = 0
	pathTypeSubway = 1
)

// OdsayClient resolves door-to-door public transit times to the configured
// workplace.
type OdsayClient struct {
	httpClient *resty.Client
	apiKey     string
	destLat    float64
	destLon    float64
	logger     *logrus.Logger
}

func NewOdsayClient(baseURL, apiKey string, destLat, destLon float64, timeout time.Duration, logger *logrus.Logger) *OdsayClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(1 * time.Second)

	return &OdsayClient{
		httpClient: client,
		apiKey:     apiKey,
		destLat:    destLat,
		destLon:    destLon,
		logger:     logger,
	}
}

type odsayResponse struct {
	Result struct {
		Path []struct {
			Info struct {
				TotalTime int `json:"totalTime"`
			} `json:"info"`
		} `json:"path"`
	} `json:"result"`
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// CommuteMinutes returns the fastest subway-only and mixed-transit travel
// times in minutes from the given coordinates. A zero minute value means no
// route of that mode was found.
func (c *OdsayClient) CommuteMinutes(ctx context.Context, lat, lon float64) (subway, transit int, err error) {
	transit, err = c.searchPath(ctx, lat, lon, pathTypeAll)
	if err != nil {
		return 0, 0, err
	}
	subway, err = c.searchPath(ctx, lat, lon, pathTypeSubway)
	if err != nil {
		return 0, 0, err
	}
	return subway, transit, nil
}

func (c *OdsayClient) searchPath(ctx context.Context, lat, lon float64, pathType int) (int, error) {
	var parsed odsayResponse
	_, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"apiKey":         c.apiKey,
			"SX":             strconv.FormatFloat(lon, 'f', -1, 64),
			"SY":             strconv.FormatFloat(lat, 'f', -1, 64),
			"EX":             strconv.FormatFloat(c.destLon, 'f', -1, 64),
			"EY":             strconv.FormatFloat(c.destLat, 'f', -1, 64),
			"SearchType":     "0",
			"SearchPathType": strconv.Itoa(pathType),
		}).
		SetResult(&parsed).
		Get("/searchPubTransPathT")
	if err != nil {
		return 0, fmt.Errorf("failed to call transit API: %w", err)
	}

	if parsed.Error.Code != "" {
		return 0, fmt.Errorf("transit API error: %s (%s)", parsed.Error.Message, parsed.Error.Code)
	}

	best := 0
	for _, path := range parsed.Result.Path {
		t := path.Info.TotalTime
		if t > 0 && (best == 0 || t < best) {
			best = t
		}
	}
	return best, nil
}
