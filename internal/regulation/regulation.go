package regulation

import "strings"

// Zone is a region's regulatory designation. Regulated zones cap LTV at 40%,
// unregulated zones at 70%.
type Zone string

const (
	ZoneRegulated   Zone = "regulated"
	ZoneUnregulated Zone = "unregulated"
)

// Regulation is the resolved designation plus its LTV ceiling percentage.
type Regulation struct {
	Zone Zone `json:"zone"`
	LTV  int  `json:"ltv"`
}

var (
	regulated   = Regulation{Zone: ZoneRegulated, LTV: 40}
	unregulated = Regulation{Zone: ZoneUnregulated, LTV: 70}
)

// capitalPrefix marks Seoul regions; any region under it that is missing from
// the table still resolves as regulated.
const capitalPrefix = "서울"

// regulationTable maps region names to their designation under the
// 2025-10-15 housing measures. Seoul districts absent here fall through to
// the capital prefix rule.
var regulationTable = map[string]Regulation{
	// Speculation-overheated districts, LTV 40%
	"서울 강남구":    regulated,
	"서울 서초구":    regulated,
	"서울 송파구":    regulated,
	"서울 강동구":    regulated,
	"서울 동작구":    regulated,
	"서울 관악구":    regulated,
	"서울 금천구":    regulated,
	"서울 성북구":    regulated,
	"서울 강서구":    regulated,
	"서울 노원구":    regulated,
	"서울 도봉구":    regulated,
	"서울 영등포구":   regulated,
	"서울 구로구":    regulated,
	"서울 용산구":    regulated,
	"경기 과천시":    regulated,
	"경기 광명시":    regulated,
	"성남 수정구":    regulated,
	"성남 중원구":    regulated,
	"성남 분당구":    regulated,
	"수원 영통구":    regulated,
	"수원 장안구":    regulated,
	"수원 팔달구":    regulated,
	"경기 안양 동안구": regulated,
	"용인 수지구":    regulated,
	"경기 의왕시":    regulated,
	"경기 하남시":    regulated,
	// Unregulated, LTV 70%
	"경기 안양 만안구": unregulated,
	"용인 기흥구":    unregulated,
	"경기 광주시":    unregulated,
	"경기 구리시":    unregulated,
	"경기 군포시":    unregulated,
	"부천 원미구":    unregulated,
	"부천 소사구":    unregulated,
	"부천 오정구":    unregulated,
	"고양 일산동구":   unregulated,
	"수원 권선구":    unregulated,
	"인천 서구":     unregulated,
	"인천 남동구":    unregulated,
}

// Resolve returns the regulation for a region. Resolution is total: exact
// table match first, then the capital prefix rule, then the unregulated
// default. An empty region is unregulated.
func Resolve(region string) Regulation {
	if region == "" {
		return unregulated
	}
	if reg, ok := regulationTable[region]; ok {
		return reg
	}
	if strings.HasPrefix(region, capitalPrefix) {
		return regulated
	}
	return unregulated
}
