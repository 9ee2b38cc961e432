package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HAAN6892/real-estate-monitor/config"
	"github.com/HAAN6892/real-estate-monitor/internal/database"
	"github.com/HAAN6892/real-estate-monitor/internal/models"
)

func setupTestServer(t *testing.T) (*Handler, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.NewDatabase(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	t.Cleanup(func() { _ = db.Close() })

	records := []*models.TransactionRecord{
		{Kind: models.KindSale, Region: "성남시분당구", Name: "한빛마을", Dong: "구미동", AreaM2: 84.9, AreaPy: 25.7, BuiltYear: 1995, TradeDate: "2025-06-10", Floor: 12, Price: 54000},
		{Kind: models.KindSale, Region: "성남시분당구", Name: "한빛마을", Dong: "구미동", AreaM2: 84.9, AreaPy: 25.7, BuiltYear: 1995, TradeDate: "2025-06-20", Floor: 7, Price: 56000},
		{Kind: models.KindSale, Region: "서울 강남구", Name: "은마", Dong: "대치동", AreaM2: 76.8, AreaPy: 23.2, BuiltYear: 1979, TradeDate: "2025-06-15", Floor: 5, Price: 250000},
		{Kind: models.KindLease, Region: "성남시분당구", Name: "한빛마을", Dong: "구미동", AreaM2: 84.9, AreaPy: 25.7, BuiltYear: 1995, TradeDate: "2025-06-12", Floor: 3, Deposit: 30000, LeaseType: models.LeaseJeonse},
	}
	require.NoError(t, database.UpsertRecords(db.GetDB(), records))

	cfg := &config.Config{}
	cfg.Matching.PageSize = 20

	handler := NewHandler(db, cfg, nil, logrus.New())
	require.NoError(t, handler.RebuildSnapshot())

	router := gin.New()
	SetupRoutes(router, handler, []string{"*"})
	return handler, router
}

func doRequest(t *testing.T, router *gin.Engine, method, path string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	router.ServeHTTP(w, req)

	var body map[string]interface{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	}
	return w, body
}

func TestGetSales(t *testing.T) {
	_, router := setupTestServer(t)

	w, body := doRequest(t, router, http.MethodGet,
		"/api/sales?income1=600&income2=400&cash=20000&rate=4&term=30&monthlyLimit=200&mgmt=10&dsr=40&autoLtv=true")

	assert.Equal(t, http.StatusOK, w.Code)

	summary := body["summary"].(map[string]interface{})
	assert.NotZero(t, summary["max_loan"])

	properties := body["properties"].(map[string]interface{})
	assert.Equal(t, float64(2), properties["total_all"])

	items := properties["items"].([]interface{})
	require.NotEmpty(t, items)
	first := items[0].(map[string]interface{})
	assert.NotEmpty(t, first["verdict"])
}

func TestGetSales_MalformedNumbersCoerceToZero(t *testing.T) {
	_, router := setupTestServer(t)

	w, body := doRequest(t, router, http.MethodGet, "/api/sales?income1=abc&cash=xyz&rate=??")
	assert.Equal(t, http.StatusOK, w.Code)

	// Zero income and cash: nothing is affordable, but the request succeeds
	summary := body["summary"].(map[string]interface{})
	assert.Equal(t, float64(0), summary["max_loan"])
}

func TestGetSales_RegionFilter(t *testing.T) {
	_, router := setupTestServer(t)

	w, body := doRequest(t, router, http.MethodGet,
		"/api/sales?cash=30000&region=%EC%84%B1%EB%82%A8%EC%8B%9C%EB%B6%84%EB%8B%B9%EA%B5%AC")
	assert.Equal(t, http.StatusOK, w.Code)

	properties := body["properties"].(map[string]interface{})
	assert.Equal(t, float64(1), properties["total"])
	assert.Equal(t, float64(2), properties["total_all"])
}

func TestGetLeases(t *testing.T) {
	_, router := setupTestServer(t)

	w, body := doRequest(t, router, http.MethodGet,
		"/api/leases?cash=10000&rentRate=3.5&loanRatio=80&loanLimit=20000")
	assert.Equal(t, http.StatusOK, w.Code)

	summary := body["summary"].(map[string]interface{})
	assert.Equal(t, float64(30000), summary["total_budget"])

	properties := body["properties"].(map[string]interface{})
	assert.Equal(t, float64(1), properties["total"])
}

func TestGetRegulation(t *testing.T) {
	_, router := setupTestServer(t)

	w, body := doRequest(t, router, http.MethodGet,
		"/api/regulation?region=%EC%84%9C%EC%9A%B8%20%EA%B0%95%EB%82%A8%EA%B5%AC")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "regulated", body["zone"])
	assert.Equal(t, float64(40), body["ltv"])

	w, _ = doRequest(t, router, http.MethodGet, "/api/regulation")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetRegions(t *testing.T) {
	_, router := setupTestServer(t)

	w, body := doRequest(t, router, http.MethodGet, "/api/regions")
	assert.Equal(t, http.StatusOK, w.Code)

	regions := body["regions"].([]interface{})
	assert.Equal(t, []interface{}{"서울 강남구", "성남시분당구"}, regions)
}

func TestGetStatus(t *testing.T) {
	_, router := setupTestServer(t)

	w, body := doRequest(t, router, http.MethodGet, "/api/status")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2), body["sale_entities"])
	assert.Equal(t, float64(1), body["lease_entities"])
}

func TestRefresh(t *testing.T) {
	handler, router := setupTestServer(t)

	// Insert another record, then refresh through the API
	record := &models.TransactionRecord{
		Kind: models.KindSale, Region: "용인시수지구", Name: "샛별마을",
		AreaM2: 59.8, AreaPy: 18.1, TradeDate: "2025-06-25", Floor: 2, Price: 41000,
	}
	require.NoError(t, database.UpsertRecords(handler.db.GetDB(), []*models.TransactionRecord{record}))

	w, _ := doRequest(t, router, http.MethodPost, "/api/refresh")
	assert.Equal(t, http.StatusOK, w.Code)

	_, body := doRequest(t, router, http.MethodGet, "/api/status")
	assert.Equal(t, float64(3), body["sale_entities"])
}

func TestParseBounds(t *testing.T) {
	b := parseBounds("37.3,127.0,37.5,127.2")
	require.NotNil(t, b)
	assert.Equal(t, 127.0, b.Min[0])
	assert.Equal(t, 37.3, b.Min[1])
	assert.Equal(t, 127.2, b.Max[0])
	assert.Equal(t, 37.5, b.Max[1])

	assert.Nil(t, parseBounds(""))
	assert.Nil(t, parseBounds("37.3,127.0"))
	assert.Nil(t, parseBounds("a,b,c,d"))
	// Inverted box
	assert.Nil(t, parseBounds("37.5,127.2,37.3,127.0"))
}
