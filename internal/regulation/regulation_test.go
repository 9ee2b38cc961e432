package regulation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		region   string
		expected Regulation
	}{
		{
			name:     "Exact table match regulated",
			region:   "서울 강남구",
			expected: Regulation{Zone: ZoneRegulated, LTV: 40},
		},
		{
			name:     "Exact table match unregulated",
			region:   "용인 기흥구",
			expected: Regulation{Zone: ZoneUnregulated, LTV: 70},
		},
		{
			name:     "Gyeonggi regulated city",
			region:   "경기 과천시",
			expected: Regulation{Zone: ZoneRegulated, LTV: 40},
		},
		{
			name:     "Seoul district missing from table falls to prefix rule",
			region:   "서울 마포구",
			expected: Regulation{Zone: ZoneRegulated, LTV: 40},
		},
		{
			name:     "Unknown region defaults to unregulated",
			region:   "부산 해운대구",
			expected: Regulation{Zone: ZoneUnregulated, LTV: 70},
		},
		{
			name:     "Empty region defaults to unregulated",
			region:   "",
			expected: Regulation{Zone: ZoneUnregulated, LTV: 70},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Resolve(tt.region))
		})
	}
}

// Every region string must resolve to exactly one of the two zones.
func TestResolveTotality(t *testing.T) {
	regions := []string{"서울", "서울 어딘가", "경기 수원시", "인천 서구", "제주 서귀포시", "x"}
	for region := range regulationTable {
		regions = append(regions, region)
	}

	for _, region := range regions {
		reg := Resolve(region)
		assert.Contains(t, []Zone{ZoneRegulated, ZoneUnregulated}, reg.Zone, region)
		if reg.Zone == ZoneRegulated {
			assert.Equal(t, 40, reg.LTV, region)
		} else {
			assert.Equal(t, 70, reg.LTV, region)
		}
	}
}
