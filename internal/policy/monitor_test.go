package policy

import (
	"encoding/xml"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		text     string
		category string
		match    bool
	}{
		{"가계부채 관리방안 발표, DSR 규제 확대", "대출규제", true},
		{"조정대상지역 추가 지정", "규제지역", true},
		{"디딤돌 대출 금리 조정", "정책대출", true},
		{"기준금리 동결 결정", "금리", true},
		{"종부세 개편안 입법예고", "세금", true},
		{"3기 신도시 착공 일정", "공급정책", true},
		{"해양수산 분야 규제 샌드박스", "", false},
	}

	for _, tt := range tests {
		cat, ok := classify(tt.text)
		assert.Equal(t, tt.match, ok, tt.text)
		if tt.match {
			assert.Equal(t, tt.category, cat.name, tt.text)
		}
	}
}

func TestClassify_FirstCategoryWins(t *testing.T) {
	// Mentions both loan regulation and taxes; loan regulation is declared
	// first and carries the higher priority.
	cat, ok := classify("DSR 완화와 취득세 감면")
	require.True(t, ok)
	assert.Equal(t, "대출규제", cat.name)
}

func TestRSSParsing(t *testing.T) {
	raw := `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>국토교통부</title>
    <item>
      <title>주택담보대출 규제 개편</title>
      <link>https://example.com/1</link>
      <pubDate>Mon, 30 Jun 2025 09:00:00 +0900</pubDate>
      <description>LTV 한도 조정</description>
    </item>
    <item>
      <title>항공 안전 점검</title>
      <link>https://example.com/2</link>
    </item>
  </channel>
</rss>`

	var doc rssDocument
	require.NoError(t, xml.Unmarshal([]byte(raw), &doc))
	require.Len(t, doc.Channel.Items, 2)
	assert.Equal(t, "주택담보대출 규제 개편", doc.Channel.Items[0].Title)
	assert.Equal(t, "https://example.com/1", doc.Channel.Items[0].Link)
}

func TestItemID_Dedupe(t *testing.T) {
	a := itemID("https://example.com/1", "title")
	b := itemID("https://example.com/1", "title")
	c := itemID("https://example.com/2", "title")
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestFormatAlerts(t *testing.T) {
	assert.Empty(t, FormatAlerts(nil))

	msg := FormatAlerts([]Alert{
		{
			Feed: "국토교통부", FeedIcon: "🏗️",
			Category: "대출규제", Icon: "🏦", Priority: "높음",
			Title: "주택담보대출 규제 개편", Link: "https://example.com/1",
			PubDate: "Mon, 30 Jun 2025",
		},
	})
	assert.Contains(t, msg, "부동산 정책 소식")
	assert.Contains(t, msg, "[대출규제] 주택담보대출 규제 개편")
	assert.Contains(t, msg, "https://example.com/1")
}
