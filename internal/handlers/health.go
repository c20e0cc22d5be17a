package handlers

import (
	"net/http"

	"gorm.io/gorm"

	"vidvault/internal/storage"
)

// HealthHandler reports service and database health.
type HealthHandler struct {
	db       *gorm.DB
	provider string
}

// NewHealthHandler creates a HealthHandler.
func NewHealthHandler(db *gorm.DB, provider string) *HealthHandler {
	return &HealthHandler{db: db, provider: provider}
}

// Get handles GET /api/health.
func (h *HealthHandler) Get(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	dbStatus := "ok"
	code := http.StatusOK

	if err := storage.Ping(h.db); err != nil {
		status = "degraded"
		dbStatus = err.Error()
		code = http.StatusServiceUnavailable
	}

	writeJSON(w, code, map[string]string{
		"status":   status,
		"database": dbStatus,
		"provider": h.provider,
	})
}
