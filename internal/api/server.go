// Package api provides the focusd HTTP server: activity ingestion,
// usage summaries, gamification, and leaderboards as a JSON REST API.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/focuai/focusd/internal/app/gamification"
	"github.com/focuai/focusd/internal/app/leaderboard"
	"github.com/focuai/focusd/internal/app/usage"
	"github.com/focuai/focusd/internal/domain"
	"github.com/focuai/focusd/internal/health"
)

// Version is reported by /api/version.
const Version = "0.1.0"

// Server is the focusd HTTP API server.
type Server struct {
	usage          *usage.Service
	engine         *gamification.Engine
	ranker         *leaderboard.Ranker
	health         *health.Checker
	metricsEnabled bool
}

// NewServer creates an API server over the application services.
func NewServer(u *usage.Service, e *gamification.Engine, r *leaderboard.Ranker) *Server {
	return &Server{usage: u, engine: e, ranker: r}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// SetHealth attaches the periodic health checker to /health.
func (s *Server) SetHealth(h *health.Checker) { s.health = h }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(corsMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if s.health == nil {
			writeJSON(w, http.StatusOK, map[string]string{
				"status": "ok",
			})
			return
		}
		status, code := "ok", http.StatusOK
		if !s.health.IsHealthy() {
			status, code = "degraded", http.StatusServiceUnavailable
		}
		writeJSON(w, code, map[string]interface{}{
			"status": status,
			"checks": s.health.Statuses(),
		})
	})

	r.Get("/api/version", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"version": Version,
		})
	})

	r.Route("/api/usage", func(r chi.Router) {
		r.Post("/records", s.handleIngestRecord)
		r.Get("/summary", s.handleSummary)
		r.Get("/trend", s.handleTrend)
		r.Get("/app-vs-web", s.handleAppVsWeb)
	})

	r.Route("/api/gamification", func(r chi.Router) {
		r.Get("/state", s.handleState)
		r.Get("/stats", s.handleStats)
		r.Post("/sessions", s.handleSessionAward)
		r.Get("/badges", s.handleBadgeCatalog)
		r.Get("/challenges", s.handleChallengeCatalog)
		r.Post("/challenges/{id}/join", s.handleChallengeJoin)
		r.Post("/challenges/{id}/progress", s.handleChallengeProgress)
		r.Post("/challenges/{id}/claim", s.handleChallengeClaim)
		r.Get("/notifications", s.handleNotifications)
	})

	r.Route("/api/leaderboard", func(r chi.Router) {
		r.Get("/", s.handleLeaderboard)
		r.Get("/rank", s.handleRank)
	})

	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"message": msg,
			"type":    "error",
		},
	})
}

// writeDomainError maps sentinel errors onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidRecord),
		errors.Is(err, domain.ErrInvalidWindow),
		errors.Is(err, domain.ErrInvalidMetric),
		errors.Is(err, domain.ErrInvalidDate):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrSubjectNotFound),
		errors.Is(err, domain.ErrChallengeNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrChallengeAlreadyJoined),
		errors.Is(err, domain.ErrChallengeClaimed),
		errors.Is(err, domain.ErrChallengeNotCompleted):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrRecordStoreUnavailable):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// corsMiddleware adds CORS headers for local development.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
