package observability

import (
	"encoding/json"
	"net/http"
	"time"
)

// ReadinessProbe reports whether the dictionary data behind the service
// is loaded and servable.
type ReadinessProbe interface {
	Ready() bool
}

// HealthChecker provides health check functionality
type HealthChecker struct {
	store   ReadinessProbe
	version string
}

// NewHealthChecker creates a health checker over the dictionary store.
func NewHealthChecker(store ReadinessProbe, serviceVersion string) *HealthChecker {
	return &HealthChecker{
		store:   store,
		version: serviceVersion,
	}
}

// HealthStatus represents the overall health status
type HealthStatus struct {
	Status       string                      `json:"status"`
	Timestamp    time.Time                   `json:"timestamp"`
	Version      string                      `json:"version,omitempty"`
	Dependencies map[string]DependencyStatus `json:"dependencies,omitempty"`
}

// DependencyStatus represents the health of a single dependency
type DependencyStatus struct {
	Status    string    `json:"status"`
	Message   string    `json:"message,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// Liveness returns a simple liveness probe (always returns 200 if server is running)
func (h *HealthChecker) Liveness(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    StatusHealthy,
		"timestamp": time.Now(),
	})
}

// Readiness reports 200 once the dictionary tables are loaded and 503
// before that, so the service is not routed traffic mid-startup.
func (h *HealthChecker) Readiness(w http.ResponseWriter, r *http.Request) {
	status := h.Check()

	w.Header().Set("Content-Type", "application/json")
	if status.Status == StatusUnhealthy {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}

	json.NewEncoder(w).Encode(status)
}

// Check performs a health check against the dictionary store.
func (h *HealthChecker) Check() HealthStatus {
	status := HealthStatus{
		Status:       StatusHealthy,
		Timestamp:    time.Now(),
		Version:      h.version,
		Dependencies: make(map[string]DependencyStatus),
	}

	dictStatus := DependencyStatus{
		Status:    StatusHealthy,
		Timestamp: time.Now(),
	}
	if h.store == nil || !h.store.Ready() {
		dictStatus.Status = StatusUnhealthy
		dictStatus.Message = "dictionary tables not loaded"
		status.Status = StatusUnhealthy
	}
	status.Dependencies["dictionary"] = dictStatus

	return status
}

// RegisterHealthRoutes registers health check endpoints
func RegisterHealthRoutes(mux *http.ServeMux, checker *HealthChecker) {
	mux.HandleFunc("/health", checker.Readiness)
	mux.HandleFunc("/health/live", checker.Liveness)
	mux.HandleFunc("/health/ready", checker.Readiness)
}
