package ingest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/paulmach/orb"
	"github.com/sirupsen/logrus"
)

// KakaoClient geocodes addresses through the Kakao local search API.
// Results are cached for the lifetime of the process; apartment addresses
// do not move.
type KakaoClient struct {
	httpClient *resty.Client
	apiKey     string
	logger     *logrus.Logger

	mu    sync.Mutex
	cache map[string]orb.Point
	miss  map[string]bool
}

func NewKakaoClient(apiKey string, timeout time.Duration, logger *logrus.Logger) *KakaoClient {
	client := resty.New().
		SetBaseURL("https://dapi.kakao.com").
		SetTimeout(timeout).
		SetHeader("Authorization", fmt.Sprintf("KakaoAK %s", apiKey))

	return &KakaoClient{
		httpClient: client,
		apiKey:     apiKey,
		logger:     logger,
		cache:      make(map[string]orb.Point),
		miss:       make(map[string]bool),
	}
}

type kakaoResponse struct {
	Documents []struct {
		X string `json:"x"` // longitude
		Y string `json:"y"` // latitude
	} `json:"documents"`
}

// Coordinates resolves an address to a lon/lat point. The address search is
// tried first, then the keyword search, matching how apartment names often
// fail strict address parsing.
func (c *KakaoClient) Coordinates(ctx context.Context, query string) (orb.Point, bool) {
	c.mu.Lock()
	if pt, ok := c.cache[query]; ok {
		c.mu.Unlock()
		return pt, true
	}
	if c.miss[query] {
		c.mu.Unlock()
		return orb.Point{}, false
	}
	c.mu.Unlock()

	for _, path := range []string{"/v2/local/search/address.json", "/v2/local/search/keyword.json"} {
		pt, ok := c.search(ctx, path, query)
		if ok {
			c.mu.Lock()
			c.cache[query] = pt
			c.mu.Unlock()
			return pt, true
		}
	}

	c.mu.Lock()
	c.miss[query] = true
	c.mu.Unlock()
	return orb.Point{}, false
}

func (c *KakaoClient) search(ctx context.Context, path, query string) (orb.Point, bool) {
	var parsed kakaoResponse
	_, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParam("query", query).
		SetResult(&parsed).
		Get(path)
	if err != nil {
		c.logger.WithError(err).WithField("query", query).Debug("Geocoding request failed")
		return orb.Point{}, false
	}
	if len(parsed.Documents) == 0 {
		return orb.Point{}, false
	}

	doc := parsed.Documents[0]
	lon := parseFloatField(doc.X)
	lat := parseFloatField(doc.Y)
	if lon == 0 || lat == 0 {
		return orb.Point{}, false
	}
	return orb.Point{lon, lat}, true
}
