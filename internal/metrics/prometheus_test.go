package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordHTTPRequest(t *testing.T) {
	m := NewMetrics()

	m.RecordHTTPRequest("GET", "/api/v1/dashboard", 200, 10*time.Millisecond)
	m.RecordHTTPRequest("GET", "/api/v1/dashboard", 200, 20*time.Millisecond)
	m.RecordHTTPRequest("GET", "/api/v1/charts/{chart}.svg", 404, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("GET", "/api/v1/dashboard", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("GET", "/api/v1/charts/{chart}.svg", "404")))
}

func TestRequestsInFlight(t *testing.T) {
	m := NewMetrics()

	m.IncRequestsInFlight()
	m.IncRequestsInFlight()
	m.DecRequestsInFlight()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestsInFlight))
}

func TestObserveDatasetLoad(t *testing.T) {
	m := NewMetrics()

	m.ObserveDatasetLoad("store_dept_priority", 120, 5*time.Millisecond)
	assert.Equal(t, 120.0, testutil.ToFloat64(m.datasetRows.WithLabelValues("store_dept_priority")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.datasetLoad))
}

func TestObservePanelRender(t *testing.T) {
	m := NewMetrics()

	m.ObservePanelRender("priority_ranking", time.Millisecond)
	m.ObservePanelRender("type_efficiency", time.Millisecond)
	assert.Equal(t, 2, testutil.CollectAndCount(m.panelRender))
}

func TestSetHealthStatus(t *testing.T) {
	m := NewMetrics()

	m.SetHealthStatus(true)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.healthStatus))
	m.SetHealthStatus(false)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.healthStatus))
}

func TestInstancesAreIndependent(t *testing.T) {
	a, b := NewMetrics(), NewMetrics()
	a.RecordHTTPRequest("GET", "/", 200, time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(a.requestsTotal.WithLabelValues("GET", "/", "200")))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.requestsTotal.WithLabelValues("GET", "/", "200")))
}

func TestHandler(t *testing.T) {
	m := NewMetrics()
	m.RecordHTTPRequest("GET", "/", 200, time.Millisecond)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "promodash_http_requests_total")
	assert.Contains(t, w.Body.String(), "go_goroutines")
}
