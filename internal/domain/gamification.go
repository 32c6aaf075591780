package domain

import (
	"math"
	"time"
)

// ─── Points & Level ─────────────────────────────────────────────────────────

// Points holds the four reward buckets. Total is monotonic non-decreasing;
// daily/weekly/monthly reset lazily when their period rolls over.
type Points struct {
	Total   int64 `json:"total"`
	Daily   int64 `json:"daily"`
	Weekly  int64 `json:"weekly"`
	Monthly int64 `json:"monthly"`
}

// LevelForPoints derives the level from total points:
// level = floor(1 + sqrt(total/100)). The level is never stored as
// independent truth — every mutation recomputes it from the total.
func LevelForPoints(total int64) int {
	if total <= 0 {
		return 1
	}
	return int(math.Floor(1 + math.Sqrt(float64(total)/100)))
}

// PointsForLevel returns the minimum total points required for a level.
// Inverse of LevelForPoints: total = 100 * (level-1)^2.
func PointsForLevel(level int) int64 {
	if level <= 1 {
		return 0
	}
	n := int64(level - 1)
	return 100 * n * n
}

// ─── Streak ─────────────────────────────────────────────────────────────────

// Streak counts consecutive qualifying days of activity.
// Current resets to 1 (not 0) on the first qualifying day after a gap.
type Streak struct {
	Current        int    `json:"current"`
	Longest        int    `json:"longest"`
	LastActiveDate string `json:"last_active_date"` // YYYY-MM-DD, "" if never
}

// ─── Badges ─────────────────────────────────────────────────────────────────

// EarnedBadge records a badge on a subject's state. Append-only: badges
// are never removed and a badgeId appears at most once.
type EarnedBadge struct {
	BadgeID    string    `json:"badge_id"`
	EarnedDate time.Time `json:"earned_date"`
}

// BadgeDef defines one badge in the immutable catalog: an id, a point
// reward, and a predicate over the subject's state, the session summary,
// and the session time. Predicates must be pure.
type BadgeDef struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Rarity      string `json:"rarity"`
	Points      int64  `json:"points"`

	Predicate func(GamificationState, UsageSummary, time.Time) bool `json:"-"`
}

// ─── Challenges ─────────────────────────────────────────────────────────────

// ChallengeCadence says how often a challenge definition recurs.
type ChallengeCadence string

const (
	CadenceDaily  ChallengeCadence = "daily"
	CadenceWeekly ChallengeCadence = "weekly"
)

// ChallengeDef is an entry of the immutable challenge catalog, loaded
// once at startup. IDs must stay stable because clients store them.
type ChallengeDef struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Cadence     ChallengeCadence `json:"cadence"`
	Target      int64            `json:"target"`
	Reward      int64            `json:"reward"`
}

// Challenge is a subject's joined instance of a catalog definition,
// scoped to one recurrence period (the reporting day for dailies, the
// ISO week for weeklies). A new period means a new instance; completed
// instances from earlier periods stay behind as history and never block
// the fresh one. Lifecycle: joined → progressing → completed → claimed.
// Claim is a one-way transition and implies completed.
type Challenge struct {
	ChallengeID string           `json:"challenge_id"`
	Period      string           `json:"period"` // YYYY-MM-DD or YYYY-Www
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Cadence     ChallengeCadence `json:"cadence"`
	Target      int64            `json:"target"`
	Progress    int64            `json:"progress"`
	Reward      int64            `json:"reward"`
	Completed   bool             `json:"completed"`
	CompletedAt time.Time        `json:"completed_at,omitzero"`
	Claimed     bool             `json:"claimed"`
	ClaimedAt   time.Time        `json:"claimed_at,omitzero"`
	CreatedAt   time.Time        `json:"created_at"`
	ExpiresAt   time.Time        `json:"expires_at,omitzero"`
}

// ─── Statistics ─────────────────────────────────────────────────────────────

// Statistics is the cumulative tally badge predicates evaluate against.
type Statistics struct {
	TotalProductiveSeconds  int64   `json:"total_productive_seconds"`
	TotalDistractingSeconds int64   `json:"total_distracting_seconds"`
	AverageFocusScore       float64 `json:"average_focus_score"`
	SessionsCompleted       int64   `json:"sessions_completed"`
	BestFocusScore          int     `json:"best_focus_score"`
}

// ─── State ──────────────────────────────────────────────────────────────────

// GamificationState is the one mutable, long-lived record per subject.
// Owned exclusively by the gamification engine; everything else reads it.
type GamificationState struct {
	SubjectID  string        `json:"subject_id"`
	Points     Points        `json:"points"`
	Level      int           `json:"level"`
	Badges     []EarnedBadge `json:"badges"`
	Challenges []Challenge   `json:"challenges"`
	Streak     Streak        `json:"streak"`
	Statistics Statistics    `json:"statistics"`

	// Lazy reset markers: the reporting day / ISO week / month the
	// corresponding points bucket was last zeroed for.
	DailyReset   string `json:"daily_reset"`   // YYYY-MM-DD
	WeeklyReset  string `json:"weekly_reset"`  // YYYY-Www
	MonthlyReset string `json:"monthly_reset"` // YYYY-MM
}

// HasBadge reports whether the badge was already earned.
func (g GamificationState) HasBadge(badgeID string) bool {
	for _, b := range g.Badges {
		if b.BadgeID == badgeID {
			return true
		}
	}
	return false
}

// FindChallenge returns the subject's newest instance of a challenge,
// or nil. Challenges are ordered newest first, so history instances
// from earlier periods never shadow the current one.
func (g *GamificationState) FindChallenge(challengeID string) *Challenge {
	for i := range g.Challenges {
		if g.Challenges[i].ChallengeID == challengeID {
			return &g.Challenges[i]
		}
	}
	return nil
}

// NewGamificationState returns the zero state for a subject: level 1,
// empty buckets, no streak.
func NewGamificationState(subjectID string) GamificationState {
	return GamificationState{
		SubjectID: subjectID,
		Level:     1,
	}
}

// ─── Leaderboard ────────────────────────────────────────────────────────────

// Metric selects which points bucket a leaderboard ranks by.
type Metric string

const (
	MetricTotal   Metric = "total"
	MetricDaily   Metric = "daily"
	MetricWeekly  Metric = "weekly"
	MetricMonthly Metric = "monthly"
)

// ParseMetric validates a metric string. Empty defaults to total.
func ParseMetric(s string) (Metric, error) {
	switch Metric(s) {
	case "":
		return MetricTotal, nil
	case MetricTotal, MetricDaily, MetricWeekly, MetricMonthly:
		return Metric(s), nil
	}
	return "", ErrInvalidMetric
}

// Bucket extracts the metric's value from a points block.
func (m Metric) Bucket(p Points) int64 {
	switch m {
	case MetricDaily:
		return p.Daily
	case MetricWeekly:
		return p.Weekly
	case MetricMonthly:
		return p.Monthly
	default:
		return p.Total
	}
}

// LeaderboardEntry is one ranked row.
type LeaderboardEntry struct {
	Rank      int    `json:"rank"`
	SubjectID string `json:"subject_id"`
	Value     int64  `json:"value"`
	Level     int    `json:"level"`
	Badges    int    `json:"badges"`
}

// ─── Notifications ──────────────────────────────────────────────────────────

// NotificationType categorizes user-facing notifications.
type NotificationType string

const (
	NotifyBadge     NotificationType = "badge"
	NotifyLevelUp   NotificationType = "level_up"
	NotifyChallenge NotificationType = "challenge"
)

// Notification is a message handed to the delivery collaborator. The
// core only records it; push delivery is out of scope.
type Notification struct {
	ID        int64            `json:"id"`
	SubjectID string           `json:"subject_id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Body      string           `json:"body"`
	CreatedAt time.Time        `json:"created_at"`
	Shown     bool             `json:"shown"`
}
