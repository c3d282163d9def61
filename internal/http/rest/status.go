// Package rest exposes the liveness and metrics endpoints of the watcher.
package rest

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jadeaffenjaeger/rdclipper/internal/telemetry"
)

// StatusHandler serves liveness and Prometheus metrics endpoints.
type StatusHandler struct {
	telemetry *telemetry.Telemetry
}

func NewStatusHandler(t *telemetry.Telemetry) *StatusHandler {
	return &StatusHandler{telemetry: t}
}

func (h *StatusHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/healthz", h.handleHealthz)
	r.Handle("/metrics", h.telemetry.Handler())

	return r
}

func (h *StatusHandler) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
