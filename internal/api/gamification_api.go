package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/focuai/focusd/internal/domain"
	"github.com/focuai/focusd/internal/infra/metrics"
)

// --- GET /api/gamification/state ---

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	subject := r.URL.Query().Get("subject")
	if subject == "" {
		writeError(w, http.StatusBadRequest, "subject is required")
		return
	}
	st, err := s.engine.State(subject)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// --- GET /api/gamification/stats ---

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	subject := r.URL.Query().Get("subject")
	if subject == "" {
		writeError(w, http.StatusBadRequest, "subject is required")
		return
	}
	stats, err := s.engine.Stats(subject)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// --- POST /api/gamification/sessions ---
// Scores the subject's current daily summary and applies the award.

type sessionRequest struct {
	SubjectID string `json:"subject_id"`
	Window    string `json:"window,omitempty"`
}

func (s *Server) handleSessionAward(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.SubjectID == "" {
		writeError(w, http.StatusBadRequest, "subject_id is required")
		return
	}
	window, err := domain.ParseWindow(req.Window)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	summary, err := s.usage.Summary(req.SubjectID, window, time.Time{})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	res, err := s.engine.AwardForSession(req.SubjectID, summary)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	metrics.PointsAwarded.WithLabelValues("session").Add(float64(res.PointsEarned))
	metrics.BadgesUnlocked.Add(float64(len(res.NewBadges)))
	if res.LeveledUp {
		metrics.LevelUps.Inc()
	}
	writeJSON(w, http.StatusOK, res)
}

// --- Catalogs ---

func (s *Server) handleBadgeCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"badges": s.engine.Badges(),
	})
}

func (s *Server) handleChallengeCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"challenges": s.engine.Challenges(),
	})
}

// --- Challenge lifecycle ---

type challengeRequest struct {
	SubjectID string `json:"subject_id"`
	Progress  int64  `json:"progress,omitempty"`
}

func decodeChallengeRequest(w http.ResponseWriter, r *http.Request) (challengeRequest, bool) {
	var req challengeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return req, false
	}
	if req.SubjectID == "" {
		writeError(w, http.StatusBadRequest, "subject_id is required")
		return req, false
	}
	return req, true
}

func (s *Server) handleChallengeJoin(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeChallengeRequest(w, r)
	if !ok {
		return
	}
	c, err := s.engine.JoinChallenge(req.SubjectID, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (s *Server) handleChallengeProgress(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeChallengeRequest(w, r)
	if !ok {
		return
	}
	c, err := s.engine.RecordProgress(req.SubjectID, chi.URLParam(r, "id"), req.Progress)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleChallengeClaim(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeChallengeRequest(w, r)
	if !ok {
		return
	}
	res, err := s.engine.ClaimReward(req.SubjectID, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	metrics.PointsAwarded.WithLabelValues("claim").Add(float64(res.PointsAwarded))
	metrics.ChallengesClaimed.Inc()
	if res.LeveledUp {
		metrics.LevelUps.Inc()
	}
	writeJSON(w, http.StatusOK, res)
}

// --- GET /api/gamification/notifications ---

func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	subject := r.URL.Query().Get("subject")
	if subject == "" {
		writeError(w, http.StatusBadRequest, "subject is required")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	markShown := r.URL.Query().Get("mark_shown") == "true"

	pending, err := s.engine.Notifications(subject, limit, markShown)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if pending == nil {
		pending = []domain.Notification{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"notifications": pending,
	})
}

// --- GET /api/leaderboard ---

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	metric, err := domain.ParseMetric(r.URL.Query().Get("metric"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	entries, err := s.ranker.Top(metric, limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if entries == nil {
		entries = []domain.LeaderboardEntry{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"metric":  metric,
		"entries": entries,
	})
}

// --- GET /api/leaderboard/rank ---

func (s *Server) handleRank(w http.ResponseWriter, r *http.Request) {
	subject := r.URL.Query().Get("subject")
	if subject == "" {
		writeError(w, http.StatusBadRequest, "subject is required")
		return
	}
	metric, err := domain.ParseMetric(r.URL.Query().Get("metric"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	standing, err := s.ranker.RankOf(subject, metric)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, standing)
}
