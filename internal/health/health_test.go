package health

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spektr-org/promodash/dataset"
)

type fakeSource struct {
	err   error
	calls int
}

func (f *fakeSource) Load() (*dataset.Data, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &dataset.Data{}, nil
}

type fakeStatus struct {
	last *bool
}

func (f *fakeStatus) SetHealthStatus(healthy bool) { f.last = &healthy }

func TestLivenessHandler(t *testing.T) {
	hc := NewHealthCheck(&fakeSource{}, nil, zap.NewNop())

	w := httptest.NewRecorder()
	hc.LivenessHandler(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var resp LivenessResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
}

func TestReadinessHandler(t *testing.T) {
	t.Run("ready after successful load", func(t *testing.T) {
		src := &fakeSource{}
		status := &fakeStatus{}
		hc := NewHealthCheck(src, status, zap.NewNop())

		for i := 0; i < 2; i++ {
			w := httptest.NewRecorder()
			hc.ReadinessHandler(w, httptest.NewRequest(http.MethodGet, "/ready", nil))

			assert.Equal(t, http.StatusOK, w.Code)
			var resp ReadinessResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, "ready", resp.Status)
			assert.Equal(t, "loaded", resp.Checks["datasets"])
		}

		assert.Equal(t, 1, src.calls)
		require.NotNil(t, status.last)
		assert.True(t, *status.last)
	})

	t.Run("not ready when load fails", func(t *testing.T) {
		status := &fakeStatus{}
		hc := NewHealthCheck(&fakeSource{err: errors.New("/srv/data/x.parquet: missing column")}, status, zap.NewNop())

		w := httptest.NewRecorder()
		hc.ReadinessHandler(w, httptest.NewRequest(http.MethodGet, "/ready", nil))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		var resp ReadinessResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "not_ready", resp.Status)
		assert.Equal(t, "datasets failed to load", resp.Error)
		assert.NotContains(t, w.Body.String(), "/srv/data")
		assert.False(t, hc.IsReady())
		require.NotNil(t, status.last)
		assert.False(t, *status.last)
	})
}
