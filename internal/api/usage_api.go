package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/focuai/focusd/internal/domain"
	"github.com/focuai/focusd/internal/infra/metrics"
)

// --- POST /api/usage/records ---

type ingestRequest struct {
	SubjectID       string `json:"subject_id"`
	Kind            string `json:"kind"`
	Name            string `json:"name"`
	DurationSeconds int64  `json:"duration_seconds"`
	OccurredAt      string `json:"occurred_at,omitempty"` // RFC 3339, defaults to now
}

func (s *Server) handleIngestRecord(w http.ResponseWriter, r *http.Request) {
	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var occurredAt time.Time
	if req.OccurredAt != "" {
		var err error
		if occurredAt, err = time.Parse(time.RFC3339, req.OccurredAt); err != nil {
			writeError(w, http.StatusBadRequest, "occurred_at must be RFC 3339")
			return
		}
	}

	rec, err := s.usage.Ingest(req.SubjectID, domain.RecordKind(req.Kind), req.Name, req.DurationSeconds, occurredAt)
	if err != nil {
		metrics.RecordsRejected.Inc()
		writeDomainError(w, err)
		return
	}
	metrics.RecordsIngested.WithLabelValues(string(rec.Kind)).Inc()
	writeJSON(w, http.StatusCreated, rec)
}

// --- GET /api/usage/summary ---

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	subject := r.URL.Query().Get("subject")
	if subject == "" {
		writeError(w, http.StatusBadRequest, "subject is required")
		return
	}
	window, err := domain.ParseWindow(r.URL.Query().Get("window"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	asOf, err := parseDate(r.URL.Query().Get("date"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	start := time.Now()
	summary, err := s.usage.Summary(subject, window, asOf)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	metrics.SummaryLatency.Observe(time.Since(start).Seconds())
	metrics.SummariesComputed.WithLabelValues(string(window)).Inc()
	writeJSON(w, http.StatusOK, summary)
}

// --- GET /api/usage/trend ---

func (s *Server) handleTrend(w http.ResponseWriter, r *http.Request) {
	subject := r.URL.Query().Get("subject")
	if subject == "" {
		writeError(w, http.StatusBadRequest, "subject is required")
		return
	}
	window, err := domain.ParseWindow(r.URL.Query().Get("window"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	// Period count: months for the monthly window, days otherwise.
	periods, _ := strconv.Atoi(r.URL.Query().Get("days"))
	if window == domain.WindowMonthly {
		periods, _ = strconv.Atoi(r.URL.Query().Get("months"))
	}
	asOf, err := parseDate(r.URL.Query().Get("date"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	trend, err := s.usage.Trend(subject, window, periods, asOf)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"subject_id": subject,
		"window":     window,
		"periods":    trend,
	})
}

// --- GET /api/usage/app-vs-web ---

func (s *Server) handleAppVsWeb(w http.ResponseWriter, r *http.Request) {
	subject := r.URL.Query().Get("subject")
	if subject == "" {
		writeError(w, http.StatusBadRequest, "subject is required")
		return
	}
	window, err := domain.ParseWindow(r.URL.Query().Get("window"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	split, err := s.usage.AppVsWeb(subject, window, time.Time{})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, split)
}

// parseDate turns an optional YYYY-MM-DD query value into the end of
// that reporting day. Zero time means "now".
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	day, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, domain.ErrInvalidDate
	}
	return day.Add(24*time.Hour - time.Second), nil
}
