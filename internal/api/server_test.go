package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CropCompass/internal/aggregator"
	"CropCompass/internal/recorder"
	"CropCompass/internal/scorer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testRecords() []aggregator.RawRecord {
	return []aggregator.RawRecord{
		{State: "Kerala", District: "Kottayam", Market: "Kottayam", Commodity: "Rubber", MinPrice: "18000", MaxPrice: "19000", ModalPrice: "18450"},
		{State: "Kerala", District: "Ernakulam", Market: "Kochi", Commodity: "Rubber", MinPrice: "17500", MaxPrice: "19200", ModalPrice: "18600"},
	}
}

func newTestRouter(fetcher aggregator.Fetcher) *gin.Engine {
	agg := aggregator.NewAggregator(fetcher)
	ticker := aggregator.NewTicker(agg, nil)
	sc := scorer.NewScorer(agg, nil)
	srv := NewServer(agg, ticker, sc, recorder.NewNoopRecorder(), []string{"rubber"})
	return srv.Router()
}

func doGET(t *testing.T, router *gin.Engine, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	router.ServeHTTP(w, req)

	var body map[string]any
	if len(w.Body.Bytes()) > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), "body: %s", w.Body.String())
	}
	return w, body
}

func TestHealth(t *testing.T) {
	router := newTestRouter(&aggregator.MockFetcher{})
	w, body := doGET(t, router, "/api/v1/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body["status"])
}

func TestPrice(t *testing.T) {
	router := newTestRouter(&aggregator.MockFetcher{Records: testRecords()})
	w, body := doGET(t, router, "/api/v1/price/rubber")
	require.Equal(t, http.StatusOK, w.Code)

	assert.InDelta(t, 185.25, body["avg_modal"], 1e-9)
	assert.EqualValues(t, 2, body["record_count"])
	assert.Len(t, body["markets"], 2)
}

func TestPrice_InvalidLimit(t *testing.T) {
	router := newTestRouter(&aggregator.MockFetcher{Records: testRecords()})
	w, _ := doGET(t, router, "/api/v1/price/rubber?limit=abc")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPrice_UpstreamFailureDegrades(t *testing.T) {
	router := newTestRouter(&aggregator.MockFetcher{Err: assert.AnError})
	w, body := doGET(t, router, "/api/v1/price/rubber")
	// Data-source failures degrade; they are not server errors.
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 0, body["record_count"])
	assert.NotNil(t, body["markets"])
}

func TestTicker(t *testing.T) {
	router := newTestRouter(&aggregator.MockFetcher{Records: testRecords()})
	w, body := doGET(t, router, "/api/v1/ticker")
	require.Equal(t, http.StatusOK, w.Code)

	entries, ok := body["entries"].([]any)
	require.True(t, ok, "entries: %v", body)
	require.Len(t, entries, 1)
	entry := entries[0].(map[string]any)
	assert.Equal(t, "rubber", entry["crop_id"])
	assert.InDelta(t, 185.25, entry["price_per_kg"], 1e-9)
}

func TestScoreMarkets(t *testing.T) {
	router := newTestRouter(&aggregator.MockFetcher{Records: testRecords()})
	w, body := doGET(t, router, "/api/v1/markets/score?crop=rubber&quantity=500&lat=9.5916&lon=76.5221")
	require.Equal(t, http.StatusOK, w.Code)

	markets, ok := body["markets"].([]any)
	require.True(t, ok, "markets: %v", body)
	assert.Len(t, markets, 5)
}

func TestScoreMarkets_BadRequests(t *testing.T) {
	router := newTestRouter(&aggregator.MockFetcher{Records: testRecords()})
	for _, path := range []string{
		"/api/v1/markets/score?quantity=500&lat=9.5&lon=76.5",          // missing crop
		"/api/v1/markets/score?crop=rubber&quantity=0&lat=9.5&lon=76.5", // zero quantity
		"/api/v1/markets/score?crop=rubber&quantity=x&lat=9.5&lon=76.5", // non-numeric
		"/api/v1/markets/score?crop=rubber&quantity=500&lat=95&lon=76.5", // bad latitude
		"/api/v1/markets/score?crop=rubber&quantity=500&lat=9.5&lon=76.5&baseline=-1",
	} {
		w, _ := doGET(t, router, path)
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
	}
}

func TestDecision(t *testing.T) {
	router := newTestRouter(&aggregator.MockFetcher{})
	w, body := doGET(t, router, "/api/v1/decision?crop=rubber&price=184.50&quantity=100")
	require.Equal(t, http.StatusOK, w.Code)

	assert.InDelta(t, 110.70, body["break_even_price"], 1e-6)
	assert.InDelta(t, 7380.00, body["profit_now"], 1e-6)
	assert.Equal(t, "Medium", body["risk_level"])
	assert.NotEmpty(t, body["recommendation"])
}

func TestDecision_BadRequests(t *testing.T) {
	router := newTestRouter(&aggregator.MockFetcher{})
	for _, path := range []string{
		"/api/v1/decision?quantity=100",          // missing price
		"/api/v1/decision?price=0&quantity=100",  // non-positive price
		"/api/v1/decision?price=10&quantity=100&volatility=x",
	} {
		w, _ := doGET(t, router, path)
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
	}
}

func TestSimulate(t *testing.T) {
	router := newTestRouter(&aggregator.MockFetcher{Records: testRecords()})
	w, body := doGET(t, router, "/api/v1/simulate/rubber?market_price_percent=10&land_size=2")
	require.Equal(t, http.StatusOK, w.Code)

	sim, ok := body["simulation"].(map[string]any)
	require.True(t, ok, "simulation: %v", body)
	assert.InDelta(t, 185.25, sim["base_price"], 1e-9)
	assert.InDelta(t, 203.78, sim["adjusted_price"], 1e-9)
}

func TestSimulate_InvalidSlider(t *testing.T) {
	router := newTestRouter(&aggregator.MockFetcher{})
	w, _ := doGET(t, router, "/api/v1/simulate/rubber?rainfall_percent=150")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
