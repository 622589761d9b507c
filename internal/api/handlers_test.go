package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantpulse/indicator-engine/internal/models"
	"github.com/quantpulse/indicator-engine/internal/service"
	"github.com/quantpulse/indicator-engine/pkg/indicator"
)

var testBase = time.Date(2025, 6, 2, 14, 30, 0, 0, time.UTC)

func testRouter(t *testing.T) (*service.Service, http.Handler) {
	t.Helper()
	svc, err := service.NewService([]indicator.Definition{
		{Kind: indicator.KindSMA, Period: 3},
		{Kind: indicator.KindEMA, Period: 5},
	}, 100)
	require.NoError(t, err)
	t.Cleanup(svc.Stop)

	return svc, NewRouter(svc, NewHub(DefaultHubConfig()), 1000)
}

func seedSymbol(t *testing.T, svc *service.Service, symbol string, prices ...float64) {
	t.Helper()
	for i, price := range prices {
		_, err := svc.ProcessSample(symbol, models.NewSample(testBase.Add(time.Duration(i)*time.Minute), price))
		require.NoError(t, err)
	}
}

func doRequest(router http.Handler, method, path string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	_, router := testRouter(t)

	rec := doRequest(router, "GET", "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
}

func TestListSymbols(t *testing.T) {
	svc, router := testRouter(t)
	seedSymbol(t, svc, "bitcoin", 100, 101)

	rec := doRequest(router, "GET", "/api/v1/symbols", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Symbols []string `json:"symbols"`
		Count   int      `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Count)
	assert.Equal(t, []string{"bitcoin"}, resp.Symbols)
}

func TestGetIndicators(t *testing.T) {
	svc, router := testRouter(t)
	seedSymbol(t, svc, "bitcoin", 10, 12, 14)

	rec := doRequest(router, "GET", "/api/v1/indicators/bitcoin", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Symbol   string              `json:"symbol"`
		Snapshot *indicator.Snapshot `json:"snapshot"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "bitcoin", resp.Symbol)
	assert.Equal(t, 3, resp.Snapshot.Coverage)

	sma := resp.Snapshot.Values["sma_3"]
	assert.True(t, sma.Ready)
	assert.Equal(t, 12.0, sma.Float)
}

func TestGetIndicators_UnknownSymbol(t *testing.T) {
	_, router := testRouter(t)

	rec := doRequest(router, "GET", "/api/v1/indicators/unknown", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetStatus(t *testing.T) {
	svc, router := testRouter(t)
	seedSymbol(t, svc, "bitcoin", 10)

	rec := doRequest(router, "GET", "/api/v1/status/bitcoin", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Indicators map[string]struct {
			State           string `json:"state"`
			WarmupRemaining int    `json:"warmup_remaining"`
		} `json:"indicators"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "warming_up", resp.Indicators["sma_3"].State)
	assert.Equal(t, 2, resp.Indicators["sma_3"].WarmupRemaining)
	assert.Equal(t, "ready", resp.Indicators["ema_5"].State)
}

func TestGetHistory(t *testing.T) {
	svc, router := testRouter(t)
	seedSymbol(t, svc, "bitcoin", 10, 12, 14, 16)

	rec := doRequest(router, "GET", "/api/v1/history/bitcoin", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Rows  int              `json:"rows"`
		Table *indicator.Table `json:"table"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 4, resp.Rows)

	col := resp.Table.Columns["sma_3"]
	require.Len(t, col, 4)
	assert.False(t, col[0].Ready)
	assert.True(t, col[3].Ready)
	assert.Equal(t, 14.0, col[3].Float)
}

func TestIngestSample(t *testing.T) {
	_, router := testRouter(t)

	body, _ := json.Marshal(map[string]interface{}{
		"timestamp": testBase.UnixMilli(),
		"price":     100.5,
	})
	rec := doRequest(router, "POST", "/api/v1/samples/bitcoin", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Snapshot *indicator.Snapshot `json:"snapshot"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Snapshot.Coverage)
}

func TestIngestSample_OutOfOrder(t *testing.T) {
	svc, router := testRouter(t)
	seedSymbol(t, svc, "bitcoin", 100, 101)

	body, _ := json.Marshal(map[string]interface{}{
		"timestamp": testBase.Add(-time.Hour).UnixMilli(),
		"price":     99.0,
	})
	rec := doRequest(router, "POST", "/api/v1/samples/bitcoin", body)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestIngestSample_InvalidBody(t *testing.T) {
	_, router := testRouter(t)

	rec := doRequest(router, "POST", "/api/v1/samples/bitcoin", []byte("{not json"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// A zero timestamp is an invalid sample, not a server fault.
	body, _ := json.Marshal(map[string]interface{}{"price": 100.0})
	rec = doRequest(router, "POST", "/api/v1/samples/bitcoin", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_RateLimitApplied(t *testing.T) {
	svc, err := service.NewService([]indicator.Definition{
		{Kind: indicator.KindSMA, Period: 3},
	}, 100)
	require.NoError(t, err)
	t.Cleanup(svc.Stop)

	router := NewRouter(svc, NewHub(DefaultHubConfig()), 2)

	codes := make([]int, 0, 4)
	for i := 0; i < 4; i++ {
		rec := doRequest(router, "GET", "/health", nil)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests, http.StatusTooManyRequests}, codes)
}

func TestHealthRouter(t *testing.T) {
	svc, err := service.NewService([]indicator.Definition{
		{Kind: indicator.KindSMA, Period: 3},
	}, 100)
	require.NoError(t, err)
	t.Cleanup(svc.Stop)

	router := NewHealthRouter(svc)

	rec := doRequest(router, "GET", "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(router, "GET", "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestListDefinitions(t *testing.T) {
	_, router := testRouter(t)

	rec := doRequest(router, "GET", "/api/v1/definitions", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)
}
