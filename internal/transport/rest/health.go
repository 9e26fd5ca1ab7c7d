package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/frahmantamala/campus-ops/internal/transport"
	"github.com/go-chi/chi"
	"github.com/jmoiron/sqlx"
)

type HealthStatus string

const (
	HealthHealthy   HealthStatus = "healthy"
	HealthUnhealthy HealthStatus = "unhealthy"
)

const pingTimeout = 2 * time.Second

type HealthResponse struct {
	Status     HealthStatus          `json:"status"`
	CheckedAt  time.Time             `json:"checkedAt"`
	Components map[string]CheckEntry `json:"components"`
}

type CheckEntry struct {
	Status     HealthStatus `json:"status"`
	Message    string       `json:"message,omitempty"`
	DurationMs int64        `json:"durationMs"`
}

type HealthHandler struct {
	*transport.BaseHandler
	db  *sqlx.DB
	now func() time.Time
}

func NewHealthHandler(baseHandler *transport.BaseHandler, db *sqlx.DB) *HealthHandler {
	return &HealthHandler{BaseHandler: baseHandler, db: db, now: time.Now}
}

// Ping handles GET /ping
func (h *HealthHandler) Ping(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}

// Health handles GET /health and reports 503 when postgres does not answer.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
	defer cancel()

	start := h.now()
	entry := CheckEntry{Status: HealthHealthy}
	if err := h.db.PingContext(ctx); err != nil {
		h.Logger.Warn("database ping failed", "error", err)
		entry.Status = HealthUnhealthy
		entry.Message = "database unreachable"
	}
	entry.DurationMs = h.now().Sub(start).Milliseconds()

	status := http.StatusOK
	if entry.Status == HealthUnhealthy {
		status = http.StatusServiceUnavailable
	}
	h.WriteJSON(w, status, HealthResponse{
		Status:     entry.Status,
		CheckedAt:  h.now().UTC(),
		Components: map[string]CheckEntry{"postgres": entry},
	})
}

func (h *HealthHandler) Routes(r chi.Router) {
	r.Get("/health", h.Health)
	r.Get("/ping", h.Ping)
}
