package ingest

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// Station is one subway station of the monitored corridor.
type Station struct {
	Name  string
	Line  string
	Point orb.Point // lon, lat
}

// stations covers the 신분당선 corridor plus the major lines serving the
// monitored regions.
var stations = []Station{
	{"강남", "신분당선", orb.Point{127.0276, 37.4979}},
	{"양재", "신분당선", orb.Point{127.0353, 37.4842}},
	{"양재시민의숲", "신분당선", orb.Point{127.0386, 37.4700}},
	{"청계산입구", "신분당선", orb.Point{127.0562, 37.4474}},
	{"판교", "신분당선", orb.Point{127.1112, 37.3948}},
	{"정자", "신분당선", orb.Point{127.1085, 37.3669}},
	{"미금", "신분당선", orb.Point{127.1095, 37.3510}},
	{"동천", "신분당선", orb.Point{127.1085, 37.3383}},
	{"수지구청", "신분당선", orb.Point{127.0960, 37.3220}},
	{"성복", "신분당선", orb.Point{127.0786, 37.3114}},
	{"상현", "신분당선", orb.Point{127.0653, 37.3005}},
	{"광교중앙", "신분당선", orb.Point{127.0492, 37.2886}},
	{"광교", "신분당선", orb.Point{127.0446, 37.2831}},
	{"야탑", "분당선", orb.Point{127.1272, 37.4112}},
	{"이매", "분당선", orb.Point{127.1275, 37.3952}},
	{"서현", "분당선", orb.Point{127.1237, 37.3845}},
	{"수내", "분당선", orb.Point{127.1155, 37.3775}},
	{"오리", "분당선", orb.Point{127.1090, 37.3397}},
	{"죽전", "분당선", orb.Point{127.1076, 37.3249}},
	{"보정", "분당선", orb.Point{127.1084, 37.3127}},
	{"구성", "분당선", orb.Point{127.1085, 37.3005}},
	{"모란", "분당선", orb.Point{127.1293, 37.4321}},
	{"태평", "분당선", orb.Point{127.1268, 37.4431}},
	{"잠실", "2호선", orb.Point{127.1001, 37.5133}},
	{"석촌", "8호선", orb.Point{127.1070, 37.5056}},
	{"송파", "8호선", orb.Point{127.1125, 37.5014}},
	{"가락시장", "8호선", orb.Point{127.1183, 37.4926}},
	{"문정", "8호선", orb.Point{127.1228, 37.4857}},
	{"장지", "8호선", orb.Point{127.1264, 37.4784}},
	{"복정", "8호선", orb.Point{127.1265, 37.4706}},
	{"산성", "8호선", orb.Point{127.1498, 37.4573}},
	{"남한산성입구", "8호선", orb.Point{127.1578, 37.4502}},
	{"단대오거리", "8호선", orb.Point{127.1565, 37.4441}},
	{"강동", "5호선", orb.Point{127.1320, 37.5354}},
	{"둔촌동", "5호선", orb.Point{127.1366, 37.5271}},
	{"올림픽공원", "5호선", orb.Point{127.1312, 37.5165}},
	{"방이", "5호선", orb.Point{127.1268, 37.5084}},
	{"미사", "5호선", orb.Point{127.1900, 37.5608}},
	{"하남풍산", "5호선", orb.Point{127.2048, 37.5519}},
	{"하남시청", "5호선", orb.Point{127.2149, 37.5393}},
	{"하남검단산", "5호선", orb.Point{127.2242, 37.5249}},
	{"과천", "4호선", orb.Point{126.9877, 37.4340}},
	{"정부과천청사", "4호선", orb.Point{126.9899, 37.4265}},
	{"인덕원", "4호선", orb.Point{126.9892, 37.4175}},
	{"평촌", "4호선", orb.Point{126.9635, 37.3947}},
	{"범계", "4호선", orb.Point{126.9515, 37.3898}},
	{"금정", "4호선", orb.Point{126.9416, 37.3717}},
	{"교대", "3호선", orb.Point{127.0146, 37.4937}},
	{"남부터미널", "3호선", orb.Point{127.0148, 37.4856}},
	{"매봉", "3호선", orb.Point{127.0473, 37.4872}},
	{"도곡", "3호선", orb.Point{127.0553, 37.4915}},
	{"대치", "3호선", orb.Point{127.0628, 37.4948}},
	{"학여울", "3호선", orb.Point{127.0713, 37.4969}},
	{"대청", "3호선", orb.Point{127.0818, 37.4921}},
	{"일원", "3호선", orb.Point{127.0876, 37.4837}},
	{"수서", "3호선", orb.Point{127.1018, 37.4870}},
	{"역삼", "2호선", orb.Point{127.0365, 37.5006}},
	{"선릉", "2호선", orb.Point{127.0490, 37.5045}},
	{"삼성", "2호선", orb.Point{127.0631, 37.5088}},
	{"종합운동장", "2호선", orb.Point{127.0735, 37.5108}},
	{"초월", "경강선", orb.Point{127.2810, 37.3702}},
	{"곤지암", "경강선", orb.Point{127.3230, 37.3381}},
	{"신둔도예촌", "경강선", orb.Point{127.3651, 37.3194}},
	{"이천", "경강선", orb.Point{127.4433, 37.2750}},
	{"경기광주", "경강선", orb.Point{127.2540, 37.4090}},
}

// NearestStation returns the closest station to the given coordinates and
// the estimated walking minutes to it (15 min per km).
func NearestStation(lat, lon float64) (Station, int) {
	from := orb.Point{lon, lat}
	nearest := stations[0]
	minDist := math.Inf(1)
	for _, st := range stations {
		dist := geo.DistanceHaversine(from, st.Point)
		if dist < minDist {
			minDist = dist
			nearest = st
		}
	}
	walkMin := int(math.Round(minDist / 1000 * 15))
	return nearest, walkMin
}
