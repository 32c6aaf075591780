// Package gamification owns the per-subject reward state: points,
// levels, streaks, badges, and challenges. All mutation funnels through
// the Engine so the level stays a pure function of total points and the
// daily/weekly/monthly buckets reset exactly once per period.
package gamification

import (
	"fmt"
	"math"
	"time"

	"github.com/focuai/focusd/internal/domain"
	"github.com/focuai/focusd/internal/infra/sqlite"
)

// Engine applies session results to gamification state.
type Engine struct {
	db         *sqlite.DB
	badges     []domain.BadgeDef
	challenges []domain.ChallengeDef
	now        func() time.Time
}

func NewEngine(db *sqlite.DB) *Engine {
	return &Engine{
		db:         db,
		badges:     AllBadges(),
		challenges: AllChallenges(),
		now:        time.Now,
	}
}

// SetClock overrides the engine's time source. Tests use this to pin
// day boundaries and time-of-day badge checks.
func (e *Engine) SetClock(now func() time.Time) { e.now = now }

// SessionResult reports what one session award changed.
type SessionResult struct {
	PointsEarned int64             `json:"points_earned"`
	TotalPoints  int64             `json:"total_points"`
	Level        int               `json:"level"`
	LeveledUp    bool              `json:"leveled_up"`
	NewBadges    []domain.BadgeDef `json:"new_badges"`
	Streak       domain.Streak     `json:"streak"`
}

// ClaimResult reports a successful challenge reward claim.
type ClaimResult struct {
	PointsAwarded int64            `json:"points_awarded"`
	TotalPoints   int64            `json:"total_points"`
	Level         int              `json:"level"`
	LeveledUp     bool             `json:"leveled_up"`
	Challenge     domain.Challenge `json:"challenge"`
}

// Stats is the condensed progress view for dashboards.
type Stats struct {
	Level             int            `json:"level"`
	Points            int64          `json:"points"`
	PointsToNextLevel int64          `json:"points_to_next_level"`
	BadgesEarned      int            `json:"badges_earned"`
	BadgesTotal       int            `json:"badges_total"`
	BadgesByRarity    map[string]int `json:"badges_by_rarity"`
	ChallengesActive  int            `json:"challenges_active"`
	ChallengesDone    int            `json:"challenges_done"`
	Streak            domain.Streak  `json:"streak"`
}

// State returns the subject's current gamification state, creating it on
// first touch and applying any pending period resets.
func (e *Engine) State(subjectID string) (domain.GamificationState, error) {
	st, err := e.loadCurrent(subjectID, e.now())
	if err != nil {
		return domain.GamificationState{}, err
	}
	return *st, nil
}

// AwardForSession folds one usage summary into the subject's state:
// session points, cumulative statistics, the streak, and a badge pass.
// Badge points credit the lifetime total only, matching how period
// buckets track earned activity rather than unlock windfalls.
func (e *Engine) AwardForSession(subjectID string, summary domain.UsageSummary) (SessionResult, error) {
	now := e.now()
	st, err := e.loadCurrent(subjectID, now)
	if err != nil {
		return SessionResult{}, err
	}

	earned := sessionPoints(summary)
	st.Points.Total += earned
	st.Points.Daily += earned
	st.Points.Weekly += earned
	st.Points.Monthly += earned

	updateStatistics(&st.Statistics, summary)
	if summary.ProductiveSeconds > 0 {
		advanceStreak(&st.Streak, now)
	}

	newBadges, err := e.badgePass(st, summary, now)
	if err != nil {
		return SessionResult{}, err
	}

	prevLevel := st.Level
	st.Level = domain.LevelForPoints(st.Points.Total)
	if err := e.db.SaveState(*st); err != nil {
		return SessionResult{}, err
	}

	if st.Level > prevLevel {
		e.notify(subjectID, domain.NotifyLevelUp,
			fmt.Sprintf("Level %d reached", st.Level),
			fmt.Sprintf("You now have %d points.", st.Points.Total), now)
	}

	return SessionResult{
		PointsEarned: earned,
		TotalPoints:  st.Points.Total,
		Level:        st.Level,
		LeveledUp:    st.Level > prevLevel,
		NewBadges:    newBadges,
		Streak:       st.Streak,
	}, nil
}

// JoinChallenge creates the subject's instance of a catalog definition
// for the current period. A claimed instance from an earlier day or
// week is history, not a blocker: the fresh period joins cleanly.
func (e *Engine) JoinChallenge(subjectID, challengeID string) (domain.Challenge, error) {
	now := e.now()
	if _, err := e.loadCurrent(subjectID, now); err != nil {
		return domain.Challenge{}, err
	}

	def, ok := e.challengeDef(challengeID)
	if !ok {
		return domain.Challenge{}, domain.ErrChallengeNotFound
	}
	c := instantiate(def, now)
	if err := e.db.InsertChallenge(subjectID, c); err != nil {
		return domain.Challenge{}, err
	}
	return c, nil
}

// RecordProgress sets a challenge's measured progress value on the
// current period's instance. Progress is monotonic and stops moving
// once the challenge completes, so a late or duplicate report can never
// un-complete or double-complete anything; an instance whose period has
// rolled over is frozen and no longer addressable.
func (e *Engine) RecordProgress(subjectID, challengeID string, progress int64) (domain.Challenge, error) {
	now := e.now()
	if _, err := e.loadCurrent(subjectID, now); err != nil {
		return domain.Challenge{}, err
	}

	def, ok := e.challengeDef(challengeID)
	if !ok {
		return domain.Challenge{}, domain.ErrChallengeNotFound
	}
	period := periodKey(def.Cadence, now)
	c, err := e.db.GetChallenge(subjectID, challengeID, period)
	if err != nil {
		return domain.Challenge{}, err
	}
	if c == nil {
		return domain.Challenge{}, domain.ErrChallengeNotFound
	}
	if c.Completed || progress <= c.Progress {
		return *c, nil
	}

	c.Progress = progress
	if c.Progress >= c.Target {
		c.Completed = true
		c.CompletedAt = now
	}
	if err := e.db.SetChallengeProgress(subjectID, challengeID, period, c.Progress, c.Completed, c.CompletedAt); err != nil {
		return domain.Challenge{}, err
	}
	if c.Completed {
		e.notify(subjectID, domain.NotifyChallenge,
			fmt.Sprintf("Challenge complete: %s", c.Name),
			fmt.Sprintf("Claim your %d point reward.", c.Reward), now)
	}
	return *c, nil
}

// ClaimReward pays out the current period's completed challenge
// exactly once.
func (e *Engine) ClaimReward(subjectID, challengeID string) (ClaimResult, error) {
	now := e.now()
	st, err := e.loadCurrent(subjectID, now)
	if err != nil {
		return ClaimResult{}, err
	}
	prevLevel := st.Level

	def, ok := e.challengeDef(challengeID)
	if !ok {
		return ClaimResult{}, domain.ErrChallengeNotFound
	}
	period := periodKey(def.Cadence, now)
	reward, newTotal, err := e.db.ClaimChallenge(subjectID, challengeID, period, now)
	if err != nil {
		return ClaimResult{}, err
	}
	c, err := e.db.GetChallenge(subjectID, challengeID, period)
	if err != nil {
		return ClaimResult{}, err
	}

	level := domain.LevelForPoints(newTotal)
	if level > prevLevel {
		e.notify(subjectID, domain.NotifyLevelUp,
			fmt.Sprintf("Level %d reached", level),
			fmt.Sprintf("You now have %d points.", newTotal), now)
	}
	return ClaimResult{
		PointsAwarded: reward,
		TotalPoints:   newTotal,
		Level:         level,
		LeveledUp:     level > prevLevel,
		Challenge:     *c,
	}, nil
}

// Stats condenses the state into the dashboard view.
func (e *Engine) Stats(subjectID string) (Stats, error) {
	st, err := e.loadCurrent(subjectID, e.now())
	if err != nil {
		return Stats{}, err
	}

	byRarity := make(map[string]int)
	for _, def := range e.badges {
		if st.HasBadge(def.ID) {
			byRarity[def.Rarity]++
		}
	}
	var active, done int
	for _, c := range st.Challenges {
		if c.Completed {
			done++
		} else {
			active++
		}
	}

	return Stats{
		Level:             st.Level,
		Points:            st.Points.Total,
		PointsToNextLevel: domain.PointsForLevel(st.Level+1) - st.Points.Total,
		BadgesEarned:      len(st.Badges),
		BadgesTotal:       len(e.badges),
		BadgesByRarity:    byRarity,
		ChallengesActive:  active,
		ChallengesDone:    done,
		Streak:            st.Streak,
	}, nil
}

// Badges returns the catalog (for display; predicates are not serialized).
func (e *Engine) Badges() []domain.BadgeDef { return e.badges }

// Challenges returns the catalog.
func (e *Engine) Challenges() []domain.ChallengeDef { return e.challenges }

// Notifications returns a subject's pending notifications and, when
// markShown is set, flags them delivered so the next poll starts clean.
func (e *Engine) Notifications(subjectID string, limit int, markShown bool) ([]domain.Notification, error) {
	pending, err := e.db.PendingNotifications(subjectID, limit)
	if err != nil {
		return nil, err
	}
	if markShown && len(pending) > 0 {
		ids := make([]int64, len(pending))
		for i, n := range pending {
			ids[i] = n.ID
		}
		if err := e.db.MarkNotificationsShown(ids); err != nil {
			return nil, err
		}
	}
	return pending, nil
}

// ─── Internals ──────────────────────────────────────────────────────────────

// loadCurrent fetches (or creates) the state and applies any pending
// lazy resets before the caller looks at it.
func (e *Engine) loadCurrent(subjectID string, now time.Time) (*domain.GamificationState, error) {
	st, err := e.db.LoadState(subjectID)
	if err != nil {
		return nil, err
	}
	if st == nil {
		fresh := domain.NewGamificationState(subjectID)
		fresh.DailyReset = domain.CalendarDate(now)
		fresh.WeeklyReset = isoWeek(now)
		fresh.MonthlyReset = monthOf(now)
		if err := e.db.SaveState(fresh); err != nil {
			return nil, err
		}
		if err := e.seedDailyChallenges(subjectID, now); err != nil {
			return nil, err
		}
		if fresh.Challenges, err = e.db.Challenges(subjectID); err != nil {
			return nil, err
		}
		return &fresh, nil
	}

	changed, err := e.applyResets(st, now)
	if err != nil {
		return nil, err
	}
	if changed {
		if err := e.db.SaveState(*st); err != nil {
			return nil, err
		}
		if st.Challenges, err = e.db.Challenges(subjectID); err != nil {
			return nil, err
		}
	}
	return st, nil
}

// applyResets zeroes any period bucket whose marker has rolled over.
// On a day change the expired uncompleted challenge instances are swept
// and fresh daily instances seeded for the new period; completed ones
// stay for history under their old period key.
func (e *Engine) applyResets(st *domain.GamificationState, now time.Time) (bool, error) {
	changed := false

	if today := domain.CalendarDate(now); st.DailyReset != today {
		st.Points.Daily = 0
		st.DailyReset = today
		if _, err := e.db.DeleteExpiredChallenges(st.SubjectID, now); err != nil {
			return false, err
		}
		if err := e.seedDailyChallenges(st.SubjectID, now); err != nil {
			return false, err
		}
		changed = true
	}
	if week := isoWeek(now); st.WeeklyReset != week {
		st.Points.Weekly = 0
		st.WeeklyReset = week
		changed = true
	}
	if month := monthOf(now); st.MonthlyReset != month {
		st.Points.Monthly = 0
		st.MonthlyReset = month
		changed = true
	}
	return changed, nil
}

// seedDailyChallenges joins the subject to every daily catalog entry.
// Already-joined instances are left alone.
func (e *Engine) seedDailyChallenges(subjectID string, now time.Time) error {
	for _, def := range e.challenges {
		if def.Cadence != domain.CadenceDaily {
			continue
		}
		err := e.db.InsertChallenge(subjectID, instantiate(def, now))
		if err != nil && err != domain.ErrChallengeAlreadyJoined {
			return err
		}
	}
	return nil
}

// badgePass evaluates the catalog and awards whatever newly qualifies.
// The store insert is the idempotence point, so a concurrent pass can
// at worst lose the race and skip the double credit.
func (e *Engine) badgePass(st *domain.GamificationState, summary domain.UsageSummary, now time.Time) ([]domain.BadgeDef, error) {
	var earned []domain.BadgeDef
	for _, def := range e.badges {
		if def.Predicate == nil || st.HasBadge(def.ID) || !def.Predicate(*st, summary, now) {
			continue
		}
		fresh, err := e.db.AwardBadge(st.SubjectID, def.ID, now)
		if err != nil {
			return nil, err
		}
		if !fresh {
			continue
		}
		st.Badges = append(st.Badges, domain.EarnedBadge{BadgeID: def.ID, EarnedDate: now})
		st.Points.Total += def.Points
		earned = append(earned, def)
		e.notify(st.SubjectID, domain.NotifyBadge,
			fmt.Sprintf("Badge earned: %s", def.Name),
			fmt.Sprintf("%s (+%d points)", def.Description, def.Points), now)
	}
	return earned, nil
}

func (e *Engine) challengeDef(id string) (domain.ChallengeDef, bool) {
	for _, def := range e.challenges {
		if def.ID == id {
			return def, true
		}
	}
	return domain.ChallengeDef{}, false
}

// notify records a notification; delivery failures never fail the
// mutation that triggered them.
func (e *Engine) notify(subjectID string, typ domain.NotificationType, title, body string, now time.Time) {
	_ = e.db.InsertNotification(domain.Notification{
		SubjectID: subjectID,
		Type:      typ,
		Title:     title,
		Body:      body,
		CreatedAt: now,
	})
}

// sessionPoints scores one session: 10 points per productive hour, a
// focus bonus at the 90/80/70 thresholds, and a distraction penalty of
// up to 10% of what the session earned. Never negative.
func sessionPoints(s domain.UsageSummary) int64 {
	productiveHours := float64(s.ProductiveSeconds) / 3600
	distractionHours := float64(s.DistractingSeconds) / 3600

	earned := math.Floor(productiveHours * 10)
	switch {
	case s.FocusScore >= 90:
		earned += 50
	case s.FocusScore >= 80:
		earned += 30
	case s.FocusScore >= 70:
		earned += 15
	}
	penalty := math.Min(earned*0.1, distractionHours*5)
	return int64(math.Max(0, math.Round(earned-penalty)))
}

func updateStatistics(stats *domain.Statistics, s domain.UsageSummary) {
	stats.TotalProductiveSeconds += s.ProductiveSeconds
	stats.TotalDistractingSeconds += s.DistractingSeconds
	stats.SessionsCompleted++
	n := float64(stats.SessionsCompleted)
	stats.AverageFocusScore = (stats.AverageFocusScore*(n-1) + float64(s.FocusScore)) / n
	if s.FocusScore > stats.BestFocusScore {
		stats.BestFocusScore = s.FocusScore
	}
}

// isoWeek formats the ISO week marker, e.g. "2026-W11".
func isoWeek(t time.Time) string {
	y, w := t.ISOWeek()
	return fmt.Sprintf("%04d-W%02d", y, w)
}

// monthOf formats the calendar month marker, e.g. "2026-03".
func monthOf(t time.Time) string {
	return t.Format("2006-01")
}
