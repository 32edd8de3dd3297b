package observability

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// HealthChecker probes the only dependency this service has: the data
// directory the collections live in.
type HealthChecker struct {
	dataDir string
}

// NewHealthChecker creates a health checker for the given data directory.
func NewHealthChecker(dataDir string) *HealthChecker {
	return &HealthChecker{dataDir: dataDir}
}

// HealthStatus represents the overall health status
type HealthStatus struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Storage   string    `json:"storage"`
	DataDir   string    `json:"dataDirectory"`
	Message   string    `json:"message,omitempty"`
}

// Liveness always returns 200 while the process is running.
func (h *HealthChecker) Liveness(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    StatusHealthy,
		"timestamp": time.Now().UTC(),
	})
}

// Readiness verifies the data directory is present and writable,
// creating it on first use like the collections do.
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

// Check probes storage health.
func (h *HealthChecker) Check() HealthStatus {
	status := HealthStatus{
		Status:    StatusHealthy,
		Timestamp: time.Now().UTC(),
		Storage:   "json-file",
		DataDir:   h.dataDir,
	}

	if err := os.MkdirAll(h.dataDir, 0755); err != nil {
		status.Status = StatusUnhealthy
		status.Storage = "unavailable"
		status.Message = err.Error()
		return status
	}

	probe := filepath.Join(h.dataDir, ".health")
	if err := os.WriteFile(probe, []byte("ok"), 0644); err != nil {
		status.Status = StatusUnhealthy
		status.Storage = "read-only"
		status.Message = err.Error()
		return status
	}
	os.Remove(probe)

	return status
}
