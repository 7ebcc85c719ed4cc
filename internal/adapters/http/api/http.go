// Package api serves the published draft board over HTTP.
package api

import (
	"context"
	"net/http"

	"github.com/bytedance/sonic"

	"github.com/okian/draftboard/internal/adapters/repository"
	"github.com/okian/draftboard/pkg/metrics"
)

const defaultLimit = 25

// Server wires HTTP routes for the board API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	playersHandler *PlayersHandler
}

// Option configures a Server.
type Option func(*Server)

// WithDefaultLimit sets the page size used when ?limit is absent.
func WithDefaultLimit(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.playersHandler.defaultLimit = n
		}
	}
}

// limitCapper is implemented by stores that bound page sizes.
type limitCapper interface {
	MaxLimit() int
}

// NewServer creates a new API server reading from store. The default page
// size never exceeds the store's MaxLimit.
func NewServer(store repository.Store, opts ...Option) *Server {
	s := &Server{
		healthHandler:  NewHealthHandler(store),
		statsHandler:   NewStatsHandler(store),
		playersHandler: NewPlayersHandler(store, defaultLimit),
	}
	for _, opt := range opts {
		opt(s)
	}
	if c, ok := store.(limitCapper); ok && c.MaxLimit() > 0 {
		s.playersHandler.defaultLimit = min(s.playersHandler.defaultLimit, c.MaxLimit())
	}
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/players", MetricsMiddleware(s.playersHandler.HandleList, "players"))
	mux.HandleFunc("/players/", MetricsMiddleware(s.playersHandler.HandleGet, "player"))
	mux.Handle("/metrics", metrics.Handler())
}

type errorResponse struct {
	Code    string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = sonic.ConfigDefault.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
