// Package health provides liveness and readiness endpoints.
package health

import (
	"encoding/json"
	"net/http"
	"sync"

	"go.uber.org/zap"

	"github.com/spektr-org/promodash/dataset"
)

// StatusRecorder publishes the readiness outcome, e.g. as a gauge.
type StatusRecorder interface {
	SetHealthStatus(healthy bool)
}

// HealthCheck reports whether the process is up and the datasets loaded.
type HealthCheck struct {
	source   dataset.Source
	recorder StatusRecorder
	logger   *zap.Logger
	mu       sync.RWMutex
	ready    bool
}

// NewHealthCheck creates a HealthCheck over source. recorder may be nil.
func NewHealthCheck(source dataset.Source, recorder StatusRecorder, logger *zap.Logger) *HealthCheck {
	return &HealthCheck{
		source:   source,
		recorder: recorder,
		logger:   logger,
	}
}

// LivenessResponse represents the response for the liveness check.
type LivenessResponse struct {
	Status string `json:"status"`
}

// ReadinessResponse represents the response for the readiness check.
type ReadinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
	Error  string            `json:"error,omitempty"`
}

// LivenessHandler handles GET /health requests.
// Returns 200 OK if the process is running.
func (hc *HealthCheck) LivenessHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, LivenessResponse{Status: "healthy"})
}

// ReadinessHandler handles GET /ready requests.
// Returns 200 OK once the datasets have loaded. The source is consulted on
// every call until it succeeds; a caching source makes this a lookup.
func (hc *HealthCheck) ReadinessHandler(w http.ResponseWriter, r *http.Request) {
	if hc.IsReady() {
		writeJSON(w, http.StatusOK, ReadinessResponse{
			Status: "ready",
			Checks: map[string]string{"datasets": "loaded"},
		})
		return
	}

	_, err := hc.source.Load()
	hc.SetReady(err == nil)

	if err != nil {
		hc.logger.Warn("readiness check failed", zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, ReadinessResponse{
			Status: "not_ready",
			Checks: map[string]string{"datasets": "unavailable"},
			Error:  "datasets failed to load",
		})
		return
	}

	writeJSON(w, http.StatusOK, ReadinessResponse{
		Status: "ready",
		Checks: map[string]string{"datasets": "loaded"},
	})
}

// IsReady returns the current readiness status.
func (hc *HealthCheck) IsReady() bool {
	hc.mu.RLock()
	defer hc.mu.RUnlock()
	return hc.ready
}

// SetReady sets the readiness status and forwards it to the recorder.
func (hc *HealthCheck) SetReady(ready bool) {
	hc.mu.Lock()
	hc.ready = ready
	hc.mu.Unlock()

	if hc.recorder != nil {
		hc.recorder.SetHealthStatus(ready)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
