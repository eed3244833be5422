// Package api exposes the cached match data over HTTP.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"matchbot/internal/model"
	"matchbot/internal/query"
	"matchbot/internal/snapshot"
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

// Server answers the REST match queries from the snapshot. Responses
// are always valid JSON lists; a cold snapshot yields an empty list,
// never an error body.
type Server struct {
	engine *query.Engine
	store  *snapshot.Store
	log    *slog.Logger
}

// NewServer creates a Server.
func NewServer(engine *query.Engine, store *snapshot.Store, log *slog.Logger) *Server {
	return &Server{engine: engine, store: store, log: log}
}

// Router builds the HTTP handler with rate limiting applied to the
// data endpoints.
func (s *Server) Router(requestsPerMinute int) http.Handler {
	limiter := newIPRateLimiter(requestsPerMinute, time.Minute)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.health)

		r.Group(func(r chi.Router) {
			r.Use(limiter.middleware)
			r.Get("/matches/upcoming", s.matchesHandler(model.QueryUpcoming))
			r.Get("/matches/live", s.matchesHandler(model.QueryRunning))
			r.Get("/matches/recent", s.matchesHandler(model.QueryPast))
			r.Get("/tournaments", s.tournaments)
		})
	})

	return r
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{"status": "ok"}
	if mtime, ok := s.store.LastModified(snapshot.MatchesName); ok {
		resp["matches_updated_at"] = mtime.Format(time.RFC3339)
	}
	s.writeJSON(w, resp)
}

func (s *Server) matchesHandler(status model.QueryStatus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tierParam := r.URL.Query().Get("tier")
		if tierParam == "" {
			tierParam = "1"
		}
		tier := model.TierGroupFromAPIParam(tierParam)
		limit := parseLimit(r.URL.Query().Get("limit"))

		matches := s.engine.Matches(status, tier, limit)
		if matches == nil {
			matches = []model.Match{}
		}
		s.writeJSON(w, matches)
	}
}

func (s *Server) tournaments(w http.ResponseWriter, r *http.Request) {
	snap := s.store.ReadTournaments(snapshot.TournamentsName)
	tournaments := snap.Tournaments
	if tournaments == nil {
		tournaments = []model.Tournament{}
	}
	s.writeJSON(w, tournaments)
}

func (s *Server) writeJSON(w http.ResponseWriter, body any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.Error("encode response", "error", err)
	}
}

// parseLimit clamps the limit parameter into [1, maxLimit], defaulting
// when absent or invalid.
func parseLimit(raw string) int {
	if raw == "" {
		return defaultLimit
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return defaultLimit
	}
	if n > maxLimit {
		return maxLimit
	}
	return n
}
