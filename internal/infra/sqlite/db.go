// Package sqlite provides SQLite-based persistent storage for focusd.
// Uses WAL mode for concurrent reads and crash-safe writes. Both the
// activity record store and the gamification state store live here so
// gamification state survives process restarts.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver (no CGO required)
)

// DB wraps a SQLite connection with WAL mode and migrations.
type DB struct {
	db *sql.DB
}

// Open creates or opens the SQLite database at dir/state.db.
// Enables WAL mode, foreign keys, and 5-second busy timeout.
func Open(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	dbPath := filepath.Join(dir, "state.db")
	dsn := dbPath + "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	// Connection pool settings for SQLite
	db.SetMaxOpenConns(1) // SQLite is single-writer
	db.SetMaxIdleConns(1)

	d := &DB{db: db}
	if err := d.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return d, nil
}

// Close cleanly shuts down the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// Ping checks database connectivity.
func (d *DB) Ping() error {
	return d.db.Ping()
}

// migrate runs idempotent schema migrations.
func (d *DB) migrate() error {
	migrations := []string{
		// Raw activity telemetry (app + browser-tab usage intervals)
		`CREATE TABLE IF NOT EXISTS activity_records (
			id            TEXT PRIMARY KEY,
			subject_id    TEXT NOT NULL,
			kind          TEXT NOT NULL,
			name          TEXT NOT NULL,
			duration_secs INTEGER NOT NULL,
			occurred_at   INTEGER NOT NULL,
			calendar_date TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_records_subject_time
			ON activity_records(subject_id, occurred_at)`,

		// One gamification row per subject: points buckets, streak,
		// cumulative statistics, and lazy-reset markers.
		`CREATE TABLE IF NOT EXISTS gamification (
			subject_id         TEXT PRIMARY KEY,
			points_total       INTEGER NOT NULL DEFAULT 0,
			points_daily       INTEGER NOT NULL DEFAULT 0,
			points_weekly      INTEGER NOT NULL DEFAULT 0,
			points_monthly     INTEGER NOT NULL DEFAULT 0,
			level              INTEGER NOT NULL DEFAULT 1,
			streak_current     INTEGER NOT NULL DEFAULT 0,
			streak_longest     INTEGER NOT NULL DEFAULT 0,
			streak_last_active TEXT NOT NULL DEFAULT '',
			stat_productive    INTEGER NOT NULL DEFAULT 0,
			stat_distracting   INTEGER NOT NULL DEFAULT 0,
			stat_avg_focus     REAL NOT NULL DEFAULT 0,
			stat_sessions      INTEGER NOT NULL DEFAULT 0,
			stat_best_focus    INTEGER NOT NULL DEFAULT 0,
			daily_reset        TEXT NOT NULL DEFAULT '',
			weekly_reset       TEXT NOT NULL DEFAULT '',
			monthly_reset      TEXT NOT NULL DEFAULT ''
		)`,

		// Earned badges: append-only, (subject, badge) unique so awards
		// are idempotent via INSERT OR IGNORE.
		`CREATE TABLE IF NOT EXISTS badges (
			subject_id  TEXT NOT NULL,
			badge_id    TEXT NOT NULL,
			earned_date INTEGER NOT NULL,
			PRIMARY KEY (subject_id, badge_id)
		)`,

		// Joined challenge instances with progress and claim state.
		// Keyed per recurrence period so completed instances stay as
		// history without blocking the next period's fresh instance.
		`CREATE TABLE IF NOT EXISTS challenges (
			subject_id   TEXT NOT NULL,
			challenge_id TEXT NOT NULL,
			period       TEXT NOT NULL,
			name         TEXT NOT NULL,
			description  TEXT NOT NULL DEFAULT '',
			cadence      TEXT NOT NULL,
			target       INTEGER NOT NULL,
			progress     INTEGER NOT NULL DEFAULT 0,
			reward       INTEGER NOT NULL,
			completed    INTEGER NOT NULL DEFAULT 0,
			completed_at INTEGER,
			claimed      INTEGER NOT NULL DEFAULT 0,
			claimed_at   INTEGER,
			created_at   INTEGER NOT NULL,
			expires_at   INTEGER,
			PRIMARY KEY (subject_id, challenge_id, period)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_challenges_expires
			ON challenges(expires_at)`,

		// Notification log handed to the delivery collaborator.
		`CREATE TABLE IF NOT EXISTS notifications (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			subject_id TEXT NOT NULL,
			type       TEXT NOT NULL,
			title      TEXT NOT NULL,
			body       TEXT NOT NULL,
			created_at INTEGER NOT NULL,
			shown      INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_notif_subject
			ON notifications(subject_id, created_at)`,
	}

	for _, m := range migrations {
		if _, err := d.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}
	return nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}
