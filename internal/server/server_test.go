package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spektr-org/promodash/dataset"
	"github.com/spektr-org/promodash/internal/apierrors"
	"github.com/spektr-org/promodash/internal/config"
	"github.com/spektr-org/promodash/internal/metrics"
)

type staticSource struct {
	data *dataset.Data
	err  error
}

func (s staticSource) Load() (*dataset.Data, error) { return s.data, s.err }

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Port: 8080, AllowedOrigins: []string{"*"}},
		Dashboard: config.DashboardConfig{
			Title:          "Promotional Action Optimization",
			RankingLimit:   20,
			DeptChartLimit: 15,
			CurrencySymbol: "$",
			ChartWidth:     640,
			ChartHeight:    360,
		},
		RateLimiter: config.RateLimiterConfig{Enabled: false},
	}
}

func testData() *dataset.Data {
	return &dataset.Data{
		Priority: []dataset.PriorityRecord{
			{Store: "1", Dept: "1", AvgSales: 1000, TotalSales: 10000, AvgMarkdown: 50, PriorityScore: 0.1},
			{Store: "2", Dept: "3", AvgSales: 3000, TotalSales: 30000, AvgMarkdown: 150, PriorityScore: 0.3},
		},
		TypeEfficiency: []dataset.TypeEfficiencyRecord{
			{StoreType: "A", PromoEfficiency: 1.1, Uplift: 0.1},
		},
		DeptEfficiency: []dataset.DeptEfficiencyRecord{
			{Dept: "3", PromoEfficiency: 0.7},
		},
	}
}

func newTestServer(t *testing.T, cfg *config.Config, source dataset.Source, m *metrics.Metrics) http.Handler {
	t.Helper()
	s := NewServer(cfg, source, m, zap.NewNop())
	s.SetupRoutes()
	return s.GetHandler()
}

func serve(h http.Handler, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w
}

func TestRoutes(t *testing.T) {
	h := newTestServer(t, testConfig(), dataset.NewCache(staticSource{data: testData()}), nil)

	tests := []struct {
		target      string
		contentType string
	}{
		{"/", "text/html; charset=utf-8"},
		{"/api/v1/dashboard", "application/json"},
		{"/api/v1/filters", "application/json"},
		{"/api/v1/charts/type-efficiency.svg", "image/svg+xml"},
		{"/api/v1/charts/dept-efficiency.svg", "image/svg+xml"},
		{"/api/v1/ranking.csv", "text/csv; charset=utf-8"},
		{"/health", "application/json"},
		{"/ready", "application/json"},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			w := serve(h, http.MethodGet, tt.target)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.contentType, w.Header().Get("Content-Type"))
			assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
		})
	}
}

func TestNotFoundAndMethodNotAllowed(t *testing.T) {
	h := newTestServer(t, testConfig(), staticSource{data: testData()}, nil)

	w := serve(h, http.MethodGet, "/api/v1/nope")
	assert.Equal(t, http.StatusNotFound, w.Code)
	var resp apierrors.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, apierrors.ErrorCodeNotFound, resp.ErrorCode)

	w = serve(h, http.MethodPost, "/api/v1/dashboard")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, apierrors.ErrorCodeInvalidRequest, resp.ErrorCode)
}

func TestReadyWhenDataUnavailable(t *testing.T) {
	m := metrics.NewMetrics()
	cache := dataset.NewCache(staticSource{err: assert.AnError})
	h := newTestServer(t, testConfig(), cache, m)

	assert.Equal(t, http.StatusOK, serve(h, http.MethodGet, "/health").Code)
	assert.Equal(t, http.StatusServiceUnavailable, serve(h, http.MethodGet, "/ready").Code)
	assert.Equal(t, http.StatusServiceUnavailable, serve(h, http.MethodGet, "/api/v1/dashboard").Code)
}

func TestRateLimited(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimiter = config.RateLimiterConfig{Enabled: true, RequestsPerSecond: 0.001, BurstSize: 1}
	h := newTestServer(t, cfg, staticSource{data: testData()}, nil)

	assert.Equal(t, http.StatusOK, serve(h, http.MethodGet, "/health").Code)

	w := serve(h, http.MethodGet, "/health")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), string(apierrors.ErrorCodeRateLimited))
}

func TestMetricsRecorded(t *testing.T) {
	m := metrics.NewMetrics()
	h := newTestServer(t, testConfig(), staticSource{data: testData()}, m)

	require.Equal(t, http.StatusOK, serve(h, http.MethodGet, "/api/v1/dashboard").Code)

	scrape := serve(m.Handler(), http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, scrape.Code)
	assert.Contains(t, scrape.Body.String(),
		`promodash_http_requests_total{method="GET",path="/api/v1/dashboard",status="200"} 1`)

	panels, err := testutil.GatherAndCount(m.Registry(), "promodash_panel_render_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 6, panels)
}

func TestCORSPreflight(t *testing.T) {
	cfg := testConfig()
	cfg.Server.AllowedOrigins = []string{"https://bi.example.com"}
	h := newTestServer(t, cfg, staticSource{data: testData()}, nil)

	for _, target := range []string{"/api/v1/dashboard", "/api/v1/charts/type-efficiency.svg", "/health"} {
		t.Run(target, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodOptions, target, nil)
			req.Header.Set("Origin", "https://bi.example.com")
			req.Header.Set("Access-Control-Request-Method", http.MethodGet)
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			assert.Equal(t, http.StatusNoContent, w.Code)
			assert.Equal(t, "https://bi.example.com", w.Header().Get("Access-Control-Allow-Origin"))
			assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), http.MethodGet)
		})
	}
}
