package handlers

import (
	"net/http"

	"vidvault/internal/monitor"
)

// MonitorHandler serves the performance and error-log endpoints.
type MonitorHandler struct {
	collector *monitor.Collector
}

// NewMonitorHandler creates a MonitorHandler.
func NewMonitorHandler(collector *monitor.Collector) *MonitorHandler {
	return &MonitorHandler{collector: collector}
}

// Performance handles GET /api/monitoring/performance.
func (h *MonitorHandler) Performance(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.collector.Performance())
}

// Errors handles GET /api/monitoring/errors.
func (h *MonitorHandler) Errors(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.collector.Errors())
}

// Reset handles POST /api/monitoring/reset.
func (h *MonitorHandler) Reset(w http.ResponseWriter, r *http.Request) {
	h.collector.Reset()
	w.WriteHeader(http.StatusNoContent)
}
