package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/hongminglow/payportal/internal/http/respond"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler returns uptime and store reachability.
type HealthHandler struct {
	startedAt time.Time
	store     Pinger
}

// NewHealthHandler creates a health endpoint handler. store may be nil.
func NewHealthHandler(startedAt time.Time, store Pinger) *HealthHandler {
	return &HealthHandler{startedAt: startedAt, store: store}
}

// Register wires the handler into a ServeMux.
func (h *HealthHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.handle)
}

func (h *HealthHandler) handle(w http.ResponseWriter, r *http.Request) {
	body := map[string]string{
		"status": "ok",
		"uptime": time.Since(h.startedAt).Truncate(time.Second).String(),
	}
	status := http.StatusOK
	if h.store != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.store.Ping(ctx); err != nil {
			body["status"] = "degraded"
			body["store"] = "unreachable"
			status = http.StatusServiceUnavailable
		}
	}
	respond.JSON(w, status, body)
}
