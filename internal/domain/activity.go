// Package domain holds the pure types of the focusd core: activity
// telemetry, usage summaries, and gamification state. No infrastructure
// imports — everything here is plain data plus small pure helpers.
package domain

import (
	"strings"
	"time"
)

// RecordKind distinguishes application usage from browser-tab usage.
type RecordKind string

const (
	KindApp RecordKind = "app"
	KindTab RecordKind = "tab"
)

// Valid reports whether the kind is one of the two known kinds.
func (k RecordKind) Valid() bool {
	return k == KindApp || k == KindTab
}

// ActivityRecord is one raw usage interval as captured by the tracker.
// Immutable once ingested; CalendarDate is derived at the boundary so
// downstream code never re-guesses which reporting day a record belongs to.
type ActivityRecord struct {
	ID              string     `json:"id"`
	SubjectID       string     `json:"subject_id"`
	Kind            RecordKind `json:"kind"`
	Name            string     `json:"name"` // app name or site domain, verbatim
	DurationSeconds int64      `json:"duration_seconds"`
	OccurredAt      time.Time  `json:"occurred_at"`
	CalendarDate    string     `json:"calendar_date"` // YYYY-MM-DD
}

// ─── Categories ─────────────────────────────────────────────────────────────

// Category is the productivity classification of an activity name.
type Category string

const (
	CategoryProductive  Category = "productive"
	CategoryDistracting Category = "distracting"
	CategoryNeutral     Category = "neutral"
)

// ─── Windows ────────────────────────────────────────────────────────────────

// Window is a reporting granularity for aggregation.
type Window string

const (
	WindowDaily   Window = "daily"
	WindowWeekly  Window = "weekly"
	WindowMonthly Window = "monthly"
)

// ParseWindow validates a window string. Empty defaults to daily.
func ParseWindow(s string) (Window, error) {
	switch Window(strings.ToLower(s)) {
	case "":
		return WindowDaily, nil
	case WindowDaily:
		return WindowDaily, nil
	case WindowWeekly:
		return WindowWeekly, nil
	case WindowMonthly:
		return WindowMonthly, nil
	}
	return "", ErrInvalidWindow
}

// Range returns the half-open [start, asOf] bounds for the window ending
// at asOf. Daily covers the asOf calendar day, weekly the last 7 calendar
// days inclusive, monthly the last calendar month.
func (w Window) Range(asOf time.Time) (time.Time, time.Time) {
	end := asOf
	switch w {
	case WindowWeekly:
		return end.AddDate(0, 0, -7), end
	case WindowMonthly:
		return end.AddDate(0, -1, 0), end
	default:
		y, m, d := end.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, end.Location()), end
	}
}

// CalendarDate formats t as the YYYY-MM-DD reporting day.
func CalendarDate(t time.Time) string {
	return t.Format("2006-01-02")
}
