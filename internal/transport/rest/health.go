package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
)

type HealthStatus string

const (
	HealthHealthy   HealthStatus = "healthy"
	HealthUnhealthy HealthStatus = "unhealthy"
)

type HealthResponse struct {
	Status     HealthStatus          `json:"status"`
	CheckedAt  time.Time             `json:"checked_at"`
	Components map[string]CheckEntry `json:"components"`
}

type CheckEntry struct {
	Status     HealthStatus   `json:"status"`
	Message    string         `json:"message,omitempty"`
	Details    map[string]any `json:"details,omitempty"`
	CheckedAt  time.Time      `json:"checked_at"`
	DurationMs int64          `json:"duration_ms"`
}

type HealthHandler struct {
	db *sqlx.DB
}

func NewHealthHandler(db *sqlx.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// pingHandler only reports that the process is serving.
func (h *HealthHandler) pingHandler(w http.ResponseWriter, r *http.Request) {
	writeHealth(w, http.StatusOK, map[string]string{"status": "OK"})
}

// healthCheckHandler checks the database and the module catalog.
func (h *HealthHandler) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	components := map[string]CheckEntry{
		"postgres": h.checkDatabase(ctx),
		"modules":  h.checkCatalog(ctx),
	}

	overall := HealthHealthy
	for _, entry := range components {
		if entry.Status == HealthUnhealthy {
			overall = HealthUnhealthy
		}
	}

	statusCode := http.StatusOK
	if overall == HealthUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}

	writeHealth(w, statusCode, HealthResponse{
		Status:     overall,
		CheckedAt:  time.Now(),
		Components: components,
	})
}

func (h *HealthHandler) checkDatabase(ctx context.Context) CheckEntry {
	start := time.Now()
	if h.db == nil {
		return unhealthy(start, "database not configured")
	}
	if err := h.db.PingContext(ctx); err != nil {
		return unhealthy(start, err.Error())
	}
	return healthy(start, nil)
}

// checkCatalog reports the number of active modules. An empty catalog is
// still healthy; it only means seeding has not run yet.
func (h *HealthHandler) checkCatalog(ctx context.Context) CheckEntry {
	start := time.Now()
	if h.db == nil {
		return unhealthy(start, "database not configured")
	}

	var count int64
	if err := h.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM modules WHERE is_active = TRUE`); err != nil {
		return unhealthy(start, err.Error())
	}
	return healthy(start, map[string]any{"active": count, "seeded": count > 0})
}

func healthy(start time.Time, details map[string]any) CheckEntry {
	return CheckEntry{
		Status:     HealthHealthy,
		Details:    details,
		CheckedAt:  time.Now(),
		DurationMs: time.Since(start).Milliseconds(),
	}
}

func unhealthy(start time.Time, message string) CheckEntry {
	return CheckEntry{
		Status:     HealthUnhealthy,
		Message:    message,
		CheckedAt:  time.Now(),
		DurationMs: time.Since(start).Milliseconds(),
	}
}

func writeHealth(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
