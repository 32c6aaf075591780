package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/focuai/focusd/internal/domain"
)

// ─── Gamification State ─────────────────────────────────────────────────────

// LoadState returns the full persisted state for a subject, including
// badges and challenge instances. Returns nil (no error) when the
// subject has no state yet.
func (d *DB) LoadState(subjectID string) (*domain.GamificationState, error) {
	row := d.db.QueryRow(
		`SELECT subject_id, points_total, points_daily, points_weekly, points_monthly,
		        level, streak_current, streak_longest, streak_last_active,
		        stat_productive, stat_distracting, stat_avg_focus, stat_sessions, stat_best_focus,
		        daily_reset, weekly_reset, monthly_reset
		 FROM gamification WHERE subject_id = ?`, subjectID,
	)

	st, err := scanState(row)
	if err != nil || st == nil {
		return st, err
	}

	if st.Badges, err = d.Badges(subjectID); err != nil {
		return nil, fmt.Errorf("load badges: %w", err)
	}
	if st.Challenges, err = d.Challenges(subjectID); err != nil {
		return nil, fmt.Errorf("load challenges: %w", err)
	}
	return st, nil
}

// SaveState upserts the gamification row for a subject. Badges and
// challenges are written through their own tables, not here.
func (d *DB) SaveState(st domain.GamificationState) error {
	_, err := d.db.Exec(
		`INSERT INTO gamification (subject_id, points_total, points_daily, points_weekly, points_monthly,
			level, streak_current, streak_longest, streak_last_active,
			stat_productive, stat_distracting, stat_avg_focus, stat_sessions, stat_best_focus,
			daily_reset, weekly_reset, monthly_reset)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(subject_id) DO UPDATE SET
			points_total=excluded.points_total,
			points_daily=excluded.points_daily,
			points_weekly=excluded.points_weekly,
			points_monthly=excluded.points_monthly,
			level=excluded.level,
			streak_current=excluded.streak_current,
			streak_longest=excluded.streak_longest,
			streak_last_active=excluded.streak_last_active,
			stat_productive=excluded.stat_productive,
			stat_distracting=excluded.stat_distracting,
			stat_avg_focus=excluded.stat_avg_focus,
			stat_sessions=excluded.stat_sessions,
			stat_best_focus=excluded.stat_best_focus,
			daily_reset=excluded.daily_reset,
			weekly_reset=excluded.weekly_reset,
			monthly_reset=excluded.monthly_reset`,
		st.SubjectID, st.Points.Total, st.Points.Daily, st.Points.Weekly, st.Points.Monthly,
		st.Level, st.Streak.Current, st.Streak.Longest, st.Streak.LastActiveDate,
		st.Statistics.TotalProductiveSeconds, st.Statistics.TotalDistractingSeconds,
		st.Statistics.AverageFocusScore, st.Statistics.SessionsCompleted, st.Statistics.BestFocusScore,
		st.DailyReset, st.WeeklyReset, st.MonthlyReset,
	)
	if err != nil {
		return fmt.Errorf("save gamification state: %w", err)
	}
	return nil
}

// ListStates returns every subject's gamification row with badges
// attached (challenges are skipped — ranking never reads them).
func (d *DB) ListStates() ([]domain.GamificationState, error) {
	rows, err := d.db.Query(
		`SELECT subject_id, points_total, points_daily, points_weekly, points_monthly,
		        level, streak_current, streak_longest, streak_last_active,
		        stat_productive, stat_distracting, stat_avg_focus, stat_sessions, stat_best_focus,
		        daily_reset, weekly_reset, monthly_reset
		 FROM gamification ORDER BY subject_id ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var states []domain.GamificationState
	for rows.Next() {
		st, err := scanState(rows)
		if err != nil {
			return nil, err
		}
		states = append(states, *st)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	badges, err := d.allBadges()
	if err != nil {
		return nil, err
	}
	for i := range states {
		states[i].Badges = badges[states[i].SubjectID]
	}
	return states, nil
}

func scanState(s scanner) (*domain.GamificationState, error) {
	var st domain.GamificationState
	err := s.Scan(&st.SubjectID,
		&st.Points.Total, &st.Points.Daily, &st.Points.Weekly, &st.Points.Monthly,
		&st.Level, &st.Streak.Current, &st.Streak.Longest, &st.Streak.LastActiveDate,
		&st.Statistics.TotalProductiveSeconds, &st.Statistics.TotalDistractingSeconds,
		&st.Statistics.AverageFocusScore, &st.Statistics.SessionsCompleted, &st.Statistics.BestFocusScore,
		&st.DailyReset, &st.WeeklyReset, &st.MonthlyReset)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// ─── Badges ─────────────────────────────────────────────────────────────────

// AwardBadge records a badge as earned. Returns false if the subject
// already holds it (idempotent via INSERT OR IGNORE).
func (d *DB) AwardBadge(subjectID, badgeID string, at time.Time) (bool, error) {
	result, err := d.db.Exec(
		`INSERT OR IGNORE INTO badges (subject_id, badge_id, earned_date) VALUES (?, ?, ?)`,
		subjectID, badgeID, at.Unix(),
	)
	if err != nil {
		return false, err
	}
	n, _ := result.RowsAffected()
	return n > 0, nil // true = newly earned
}

// Badges returns a subject's earned badges, oldest first.
func (d *DB) Badges(subjectID string) ([]domain.EarnedBadge, error) {
	rows, err := d.db.Query(
		`SELECT badge_id, earned_date FROM badges WHERE subject_id = ? ORDER BY earned_date ASC, badge_id ASC`,
		subjectID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var badges []domain.EarnedBadge
	for rows.Next() {
		var b domain.EarnedBadge
		var earned int64
		if err := rows.Scan(&b.BadgeID, &earned); err != nil {
			return nil, err
		}
		b.EarnedDate = time.Unix(earned, 0)
		badges = append(badges, b)
	}
	return badges, rows.Err()
}

// allBadges loads every badge row grouped by subject.
func (d *DB) allBadges() (map[string][]domain.EarnedBadge, error) {
	rows, err := d.db.Query(
		`SELECT subject_id, badge_id, earned_date FROM badges ORDER BY earned_date ASC, badge_id ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]domain.EarnedBadge)
	for rows.Next() {
		var subject string
		var b domain.EarnedBadge
		var earned int64
		if err := rows.Scan(&subject, &b.BadgeID, &earned); err != nil {
			return nil, err
		}
		b.EarnedDate = time.Unix(earned, 0)
		out[subject] = append(out[subject], b)
	}
	return out, rows.Err()
}

// ─── Challenges ─────────────────────────────────────────────────────────────

// InsertChallenge creates a subject's challenge instance for its
// period. Returns domain.ErrChallengeAlreadyJoined when that period's
// instance already exists; instances from earlier periods never collide.
func (d *DB) InsertChallenge(subjectID string, c domain.Challenge) error {
	result, err := d.db.Exec(
		`INSERT OR IGNORE INTO challenges
			(subject_id, challenge_id, period, name, description, cadence, target, progress, reward,
			 completed, completed_at, claimed, claimed_at, created_at, expires_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		subjectID, c.ChallengeID, c.Period, c.Name, c.Description, string(c.Cadence),
		c.Target, c.Progress, c.Reward,
		c.Completed, nullableTime(c.CompletedAt), c.Claimed, nullableTime(c.ClaimedAt),
		c.CreatedAt.Unix(), nullableTime(c.ExpiresAt),
	)
	if err != nil {
		return fmt.Errorf("insert challenge: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return domain.ErrChallengeAlreadyJoined
	}
	return nil
}

// GetChallenge returns one period's challenge instance, or nil if not
// joined that period.
func (d *DB) GetChallenge(subjectID, challengeID, period string) (*domain.Challenge, error) {
	row := d.db.QueryRow(
		`SELECT challenge_id, period, name, description, cadence, target, progress, reward,
		        completed, completed_at, claimed, claimed_at, created_at, expires_at
		 FROM challenges WHERE subject_id = ? AND challenge_id = ? AND period = ?`,
		subjectID, challengeID, period,
	)
	return scanChallenge(row)
}

// Challenges returns all of a subject's challenge instances, newest first.
func (d *DB) Challenges(subjectID string) ([]domain.Challenge, error) {
	rows, err := d.db.Query(
		`SELECT challenge_id, period, name, description, cadence, target, progress, reward,
		        completed, completed_at, claimed, claimed_at, created_at, expires_at
		 FROM challenges WHERE subject_id = ? ORDER BY created_at DESC, period DESC, challenge_id ASC`,
		subjectID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var challenges []domain.Challenge
	for rows.Next() {
		c, err := scanChallenge(rows)
		if err != nil {
			return nil, err
		}
		challenges = append(challenges, *c)
	}
	return challenges, rows.Err()
}

// SetChallengeProgress writes progress (and completion) for a challenge
// that is not yet completed. Progress past completion is a no-op.
func (d *DB) SetChallengeProgress(subjectID, challengeID, period string, progress int64, completed bool, completedAt time.Time) error {
	_, err := d.db.Exec(
		`UPDATE challenges SET progress = ?, completed = ?, completed_at = ?
		 WHERE subject_id = ? AND challenge_id = ? AND period = ? AND completed = 0`,
		progress, completed, nullableTime(completedAt), subjectID, challengeID, period,
	)
	return err
}

// DeleteExpiredChallenges removes a subject's uncompleted instances
// whose expiry has passed. Completed (claimed or not) instances are
// kept for history.
func (d *DB) DeleteExpiredChallenges(subjectID string, now time.Time) (int64, error) {
	result, err := d.db.Exec(
		`DELETE FROM challenges
		 WHERE subject_id = ? AND completed = 0
		   AND expires_at IS NOT NULL AND expires_at < ?`,
		subjectID, now.Unix(),
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// ClaimChallenge applies a challenge reward exactly once. The claim is a
// compare-and-set: the guarded UPDATE only fires while the instance is
// still completed && !claimed, and the reward lands in all four point
// buckets (with the level recomputed) in the same transaction. Repeated
// or concurrent claims see zero affected rows and get the conflict error.
func (d *DB) ClaimChallenge(subjectID, challengeID, period string, now time.Time) (reward int64, newTotal int64, err error) {
	tx, err := d.db.Begin()
	if err != nil {
		return 0, 0, fmt.Errorf("begin claim: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		`UPDATE challenges SET claimed = 1, claimed_at = ?
		 WHERE subject_id = ? AND challenge_id = ? AND period = ? AND completed = 1 AND claimed = 0`,
		now.Unix(), subjectID, challengeID, period,
	)
	if err != nil {
		return 0, 0, fmt.Errorf("claim challenge: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		// CAS lost or state never eligible — map to the precise conflict.
		var completed, claimed bool
		err := tx.QueryRow(
			`SELECT completed, claimed FROM challenges WHERE subject_id = ? AND challenge_id = ? AND period = ?`,
			subjectID, challengeID, period,
		).Scan(&completed, &claimed)
		switch {
		case err == sql.ErrNoRows:
			return 0, 0, domain.ErrChallengeNotFound
		case err != nil:
			return 0, 0, err
		case claimed:
			return 0, 0, domain.ErrChallengeClaimed
		default:
			return 0, 0, domain.ErrChallengeNotCompleted
		}
	}

	err = tx.QueryRow(
		`SELECT reward FROM challenges WHERE subject_id = ? AND challenge_id = ? AND period = ?`,
		subjectID, challengeID, period,
	).Scan(&reward)
	if err != nil {
		return 0, 0, fmt.Errorf("read reward: %w", err)
	}

	var total int64
	err = tx.QueryRow(
		`SELECT points_total FROM gamification WHERE subject_id = ?`, subjectID,
	).Scan(&total)
	if err == sql.ErrNoRows {
		return 0, 0, domain.ErrSubjectNotFound
	}
	if err != nil {
		return 0, 0, fmt.Errorf("read points: %w", err)
	}

	newTotal = total + reward
	_, err = tx.Exec(
		`UPDATE gamification SET
			points_total = points_total + ?,
			points_daily = points_daily + ?,
			points_weekly = points_weekly + ?,
			points_monthly = points_monthly + ?,
			level = ?
		 WHERE subject_id = ?`,
		reward, reward, reward, reward,
		domain.LevelForPoints(newTotal), subjectID,
	)
	if err != nil {
		return 0, 0, fmt.Errorf("apply reward: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("commit claim: %w", err)
	}
	return reward, newTotal, nil
}

// ─── Scanners ───────────────────────────────────────────────────────────────

func scanChallenge(s scanner) (*domain.Challenge, error) {
	var c domain.Challenge
	var cadence string
	var completedAt, claimedAt, expiresAt sql.NullInt64
	var createdAt int64
	err := s.Scan(&c.ChallengeID, &c.Period, &c.Name, &c.Description, &cadence,
		&c.Target, &c.Progress, &c.Reward,
		&c.Completed, &completedAt, &c.Claimed, &claimedAt, &createdAt, &expiresAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	c.Cadence = domain.ChallengeCadence(cadence)
	c.CreatedAt = time.Unix(createdAt, 0)
	if completedAt.Valid {
		c.CompletedAt = time.Unix(completedAt.Int64, 0)
	}
	if claimedAt.Valid {
		c.ClaimedAt = time.Unix(claimedAt.Int64, 0)
	}
	if expiresAt.Valid {
		c.ExpiresAt = time.Unix(expiresAt.Int64, 0)
	}
	return &c, nil
}

func nullableTime(t time.Time) sql.NullInt64 {
	if t.IsZero() {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.Unix(), Valid: true}
}
