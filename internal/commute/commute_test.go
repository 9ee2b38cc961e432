package commute

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchExactKey(t *testing.T) {
	table := NewTable()
	table.Add("경기 광주시 역동", Time{Subway: 72, Transit: 65})

	c := table.Match("경기 광주시", "역동")
	assert.NotNil(t, c)
	assert.Equal(t, 72, c.Subway)
	assert.Equal(t, 65, c.Transit)
}

func TestMatchNormalizedKey(t *testing.T) {
	// Commute data uses the full "수원시 장안구" form, transaction data the
	// short "수원 장안구" form.
	table := NewTable()
	table.Add("경기 수원시 장안구 조원동", Time{Subway: 55, Transit: 48})

	c := table.Match("수원 장안구", "조원동")
	assert.NotNil(t, c)
	assert.Equal(t, 55, c.Subway)
}

func TestMatchFirstFoundWins(t *testing.T) {
	// Two keys normalize identically; the earlier insertion must win.
	table := NewTable()
	table.Add("경기 광명시 철산동", Time{Subway: 40, Transit: 35})
	table.Add("광명 철산동", Time{Subway: 99, Transit: 99})

	c := table.Match("경기 광명", "철산동")
	assert.NotNil(t, c)
	assert.Equal(t, 40, c.Subway)
}

func TestMatchMiss(t *testing.T) {
	table := NewTable()
	table.Add("인천 서구 청라동", Time{Subway: 80, Transit: 75})

	assert.Nil(t, table.Match("경기 하남시", "미사동"))
	assert.Nil(t, (*Table)(nil).Match("경기 하남시", "미사동"))
	assert.Nil(t, NewTable().Match("인천 서구", "청라동"))
}

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"경기 수원시 장안구 조원동", "수원 장안구 조원동"},
		{"수원 장안구 조원동", "수원 장안구 조원동"},
		{"경기  광주시  역동", "광주 역동"},
		{"서울 강남구 대치동", "서울 강남구 대치동"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, normalizeKey(tt.input), tt.input)
	}
}
