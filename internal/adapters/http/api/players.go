package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/okian/draftboard/internal/adapters/repository"
	"github.com/okian/draftboard/internal/domain/model"
	"github.com/okian/draftboard/internal/domain/position"
)

// PlayersHandler serves board listings and single players.
type PlayersHandler struct {
	store        repository.Store
	defaultLimit int
}

// NewPlayersHandler creates a players handler.
func NewPlayersHandler(store repository.Store, defaultLimit int) *PlayersHandler {
	return &PlayersHandler{store: store, defaultLimit: defaultLimit}
}

type playersResponse struct {
	Count   int                  `json:"count"`
	Players []model.PlayerRecord `json:"players"`
}

// HandleList handles GET /players?limit=N&position=P&tier=T.
func (h *PlayersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	q := r.URL.Query()

	limit := h.defaultLimit
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", errors.Wrapf(ErrBadRequest, "invalid limit %q", v))
			return
		}
		limit = n
	}

	var f repository.Filter
	if v := q.Get("position"); v != "" {
		f.Position = position.Normalize(v)
	}
	if v := q.Get("tier"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", errors.Wrapf(ErrBadRequest, "invalid tier %q", v))
			return
		}
		f.Tier = n
	}

	players, err := h.store.TopN(r.Context(), limit, f)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidLimit) {
			writeError(w, http.StatusBadRequest, "bad_request", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal", err)
		return
	}
	writeJSON(w, http.StatusOK, playersResponse{Count: len(players), Players: players})
}

// HandleGet handles GET /players/{id}.
func (h *PlayersHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	raw := strings.TrimPrefix(r.URL.Path, "/players/")
	if raw == "" || strings.Contains(raw, "/") {
		http.NotFound(w, r)
		return
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", errors.Wrapf(ErrBadRequest, "invalid player id %q", raw))
		return
	}
	p, err := h.store.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
