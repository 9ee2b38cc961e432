// Package policy watches government press-release feeds for housing policy
// changes that move the affordability inputs: loan regulation (LTV/DSR),
// regulated-zone designations, policy loan products, rates and taxes.
package policy

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/xml"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

// Feed is one monitored RSS source.
type Feed struct {
	Name string
	URL  string
	Icon string
}

// DefaultFeeds are the three ministries whose releases change the numbers
// this system computes with.
func DefaultFeeds() []Feed {
	return []Feed{
		{Name: "국토교통부", URL: "https://www.korea.kr/rss/dept_molit.xml", Icon: "🏗️"},
		{Name: "금융위원회", URL: "https://www.korea.kr/rss/dept_fsc.xml", Icon: "🏦"},
		{Name: "기획재정부", URL: "https://www.korea.kr/rss/dept_moef.xml", Icon: "💰"},
	}
}

// category groups the keywords that flag a release as relevant.
type category struct {
	name     string
	icon     string
	priority string
	keywords []string
}

var categories = []category{
	{
		name: "대출규제", icon: "🏦", priority: "높음",
		keywords: []string{
			"LTV", "DSR", "주택담보대출", "주담대", "대출 한도", "대출 규제",
			"대출규제", "대출 강화", "대출 완화", "스트레스 금리", "가계대출",
			"가계부채", "총부채", "원리금",
		},
	},
	{
		name: "규제지역", icon: "📍", priority: "높음",
		keywords: []string{
			"규제지역", "조정대상", "투기과열", "투기지역", "토지거래허가",
			"규제 지정", "규제 해제", "규제완화", "규제 강화",
		},
	},
	{
		name: "정책대출", icon: "🎯", priority: "높음",
		keywords: []string{
			"디딤돌", "보금자리론", "신생아 특례", "신혼부부 대출",
			"정책대출", "정책 대출", "특례대출", "특례 대출", "구입자금",
			"서민대출", "생애최초",
		},
	},
	{
		name: "금리", icon: "📊", priority: "중간",
		keywords: []string{
			"기준금리", "금리 인하", "금리 인상", "금리 동결",
			"코픽스", "COFIX", "MOR", "금통위",
		},
	},
	{
		name: "세금", icon: "🧾", priority: "중간",
		keywords: []string{
			"양도세", "양도소득세", "취득세", "종부세", "종합부동산세",
			"보유세", "재산세", "공시가격", "세제 개편", "세제개편",
			"증여세", "혼인 증여", "세금 완화", "세금 강화",
		},
	},
	{
		name: "공급정책", icon: "🏠", priority: "낮음",
		keywords: []string{
			"주택공급", "주택 공급", "재건축", "재개발", "신도시",
			"분양", "착공", "공급대책", "공급 대책",
		},
	},
}

// Alert is one matched press release.
type Alert struct {
	Feed     string
	FeedIcon string
	Category string
	Icon     string
	Priority string
	Title    string
	Link     string
	PubDate  string
}

// Monitor fetches the feeds and reports releases not seen before. Seen
// state lives in memory; a restart re-reports at most one feed page.
type Monitor struct {
	httpClient *resty.Client
	feeds      []Feed
	logger     *logrus.Logger

	mu   sync.Mutex
	seen map[string]bool
}

func NewMonitor(feeds []Feed, timeout time.Duration, logger *logrus.Logger) *Monitor {
	if len(feeds) == 0 {
		feeds = DefaultFeeds()
	}
	return &Monitor{
		httpClient: resty.New().SetTimeout(timeout).SetRetryCount(2),
		feeds:      feeds,
		logger:     logger,
		seen:       make(map[string]bool),
	}
}

type rssDocument struct {
	Channel struct {
		Items []rssItem `xml:"item"`
	} `xml:"channel"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	PubDate     string `xml:"pubDate"`
	Description string `xml:"description"`
}

// Check fetches every feed and returns the newly matched releases in feed
// order. Feed failures are logged and skipped; a partial result is better
// than none.
func (m *Monitor) Check(ctx context.Context) []Alert {
	var alerts []Alert
	for _, feed := range m.feeds {
		items, err := m.fetchFeed(ctx, feed.URL)
		if err != nil {
			m.logger.WithError(err).WithField("feed", feed.Name).Warn("Failed to fetch policy feed")
			continue
		}

		for _, item := range items {
			cat, ok := classify(item.Title + " " + item.Description)
			if !ok {
				continue
			}

			id := itemID(item.Link, item.Title)
			m.mu.Lock()
			dup := m.seen[id]
			if !dup {
				m.seen[id] = true
			}
			m.mu.Unlock()
			if dup {
				continue
			}

			alerts = append(alerts, Alert{
				Feed:     feed.Name,
				FeedIcon: feed.Icon,
				Category: cat.name,
				Icon:     cat.icon,
				Priority: cat.priority,
				Title:    strings.TrimSpace(item.Title),
				Link:     strings.TrimSpace(item.Link),
				PubDate:  strings.TrimSpace(item.PubDate),
			})
		}
	}
	return alerts
}

func (m *Monitor) fetchFeed(ctx context.Context, url string) ([]rssItem, error) {
	resp, err := m.httpClient.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}

	var doc rssDocument
	if err := xml.Unmarshal(resp.Body(), &doc); err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}
	return doc.Channel.Items, nil
}

// classify returns the first category with a keyword hit, in the declared
// priority order.
func classify(text string) (category, bool) {
	for _, cat := range categories {
		for _, kw := range cat.keywords {
			if strings.Contains(text, kw) {
				return cat, true
			}
		}
	}
	return category{}, false
}

func itemID(link, title string) string {
	sum := sha1.Sum([]byte(link + "|" + title))
	return hex.EncodeToString(sum[:])
}

// FormatAlerts renders matched releases as one telegram message.
func FormatAlerts(alerts []Alert) string {
	if len(alerts) == 0 {
		return ""
	}

	lines := []string{"📰 *부동산 정책 소식*", ""}
	for _, a := range alerts {
		lines = append(lines,
			fmt.Sprintf("%s [%s] %s", a.Icon, a.Category, a.Title),
			fmt.Sprintf("   %s %s | %s", a.FeedIcon, a.Feed, a.PubDate),
		)
		if a.Link != "" {
			lines = append(lines, fmt.Sprintf("   🔗 %s", a.Link))
		}
		lines = append(lines, "")
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}
