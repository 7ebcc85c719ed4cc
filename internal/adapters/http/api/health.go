package api

import (
	"net/http"

	"github.com/okian/draftboard/internal/adapters/repository"
)

// HealthHandler handles health check requests.
type HealthHandler struct {
	store repository.Store
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(store repository.Store) *HealthHandler {
	return &HealthHandler{store: store}
}

type healthResponse struct {
	Status  string `json:"status"`
	Players int    `json:"players"`
}

// HandleHealth handles GET /healthz. An empty board reports "empty" but stays 200
// so probes do not flap between publications.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	n := h.store.Count(r.Context())
	status := "ok"
	if n == 0 {
		status = "empty"
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: status, Players: n})
}
