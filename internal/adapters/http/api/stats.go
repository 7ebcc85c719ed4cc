package api

import (
	"net/http"

	"github.com/okian/draftboard/internal/adapters/repository"
)

// StatsHandler handles stats requests.
type StatsHandler struct {
	store repository.Store
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(store repository.Store) *StatsHandler {
	return &StatsHandler{store: store}
}

// HandleStats handles GET /stats requests.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.store.Stats(r.Context()))
}
