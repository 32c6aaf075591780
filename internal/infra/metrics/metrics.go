// Package metrics provides Prometheus metrics for focusd: ingestion,
// summary computation, and gamification activity.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ─── Ingestion ──────────────────────────────────────────────────────────────

// RecordsIngested counts accepted activity records by kind.
var RecordsIngested = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "focusd",
	Name:      "records_ingested_total",
	Help:      "Total activity records accepted.",
}, []string{"kind"})

// RecordsRejected counts records that failed boundary validation.
var RecordsRejected = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "focusd",
	Name:      "records_rejected_total",
	Help:      "Total activity records rejected at validation.",
})

// ─── Summaries ──────────────────────────────────────────────────────────────

// SummariesComputed counts usage summaries computed by window.
var SummariesComputed = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "focusd",
	Name:      "summaries_computed_total",
	Help:      "Total usage summaries computed.",
}, []string{"window"})

// SummaryLatency tracks summary computation duration in seconds.
var SummaryLatency = promauto.NewHistogram(prometheus.HistogramOpts{
	Namespace: "focusd",
	Name:      "summary_latency_seconds",
	Help:      "Usage summary computation duration in seconds.",
	Buckets:   prometheus.DefBuckets,
})

// ─── Gamification ───────────────────────────────────────────────────────────

// PointsAwarded counts gamification points granted, by source.
var PointsAwarded = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "focusd",
	Name:      "points_awarded_total",
	Help:      "Total gamification points awarded.",
}, []string{"source"})

// BadgesUnlocked counts badge unlocks.
var BadgesUnlocked = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "focusd",
	Name:      "badges_unlocked_total",
	Help:      "Total badges unlocked across all subjects.",
})

// ChallengesClaimed counts claimed challenge rewards.
var ChallengesClaimed = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "focusd",
	Name:      "challenges_claimed_total",
	Help:      "Total challenge rewards claimed.",
})

// LevelUps counts level transitions.
var LevelUps = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "focusd",
	Name:      "level_ups_total",
	Help:      "Total level-up events.",
})
