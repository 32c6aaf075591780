package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors are pure — no infrastructure dependency. The API layer
// maps them onto HTTP statuses.

var (
	// Validation errors — rejected before touching any state.
	ErrInvalidWindow = errors.New("invalid window: want daily, weekly, or monthly")
	ErrInvalidMetric = errors.New("invalid metric: want total, daily, weekly, or monthly")
	ErrInvalidRecord = errors.New("invalid activity record")
	ErrInvalidDate   = errors.New("invalid date: want YYYY-MM-DD")

	// Not-found errors.
	ErrSubjectNotFound   = errors.New("subject not found")
	ErrChallengeNotFound = errors.New("challenge not found")

	// Conflict errors — 4xx-equivalent, never silently swallowed.
	ErrChallengeAlreadyJoined = errors.New("challenge already joined")
	ErrChallengeNotCompleted  = errors.New("challenge not completed yet")
	ErrChallengeClaimed       = errors.New("challenge reward already claimed")

	// Upstream errors.
	ErrRecordStoreUnavailable = errors.New("activity record store unavailable")
)
