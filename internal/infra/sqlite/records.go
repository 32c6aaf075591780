package sqlite

import (
	"fmt"
	"time"

	"github.com/focuai/focusd/internal/domain"
)

// ─── Activity Record Store ──────────────────────────────────────────────────

// InsertActivityRecord stores one validated telemetry interval.
func (d *DB) InsertActivityRecord(r domain.ActivityRecord) error {
	_, err := d.db.Exec(
		`INSERT INTO activity_records (id, subject_id, kind, name, duration_secs, occurred_at, calendar_date)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.SubjectID, string(r.Kind), r.Name,
		r.DurationSeconds, r.OccurredAt.Unix(), r.CalendarDate,
	)
	if err != nil {
		return fmt.Errorf("insert activity record: %w", err)
	}
	return nil
}

// ActivityRecords returns a subject's records with occurred_at in
// [from, to], oldest first.
func (d *DB) ActivityRecords(subjectID string, from, to time.Time) ([]domain.ActivityRecord, error) {
	rows, err := d.db.Query(
		`SELECT id, subject_id, kind, name, duration_secs, occurred_at, calendar_date
		 FROM activity_records
		 WHERE subject_id = ? AND occurred_at >= ? AND occurred_at <= ?
		 ORDER BY occurred_at ASC, id ASC`,
		subjectID, from.Unix(), to.Unix(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.ActivityRecord
	for rows.Next() {
		var r domain.ActivityRecord
		var kind string
		var occurredAt int64
		if err := rows.Scan(&r.ID, &r.SubjectID, &kind, &r.Name,
			&r.DurationSeconds, &occurredAt, &r.CalendarDate); err != nil {
			return nil, err
		}
		r.Kind = domain.RecordKind(kind)
		r.OccurredAt = time.Unix(occurredAt, 0)
		records = append(records, r)
	}
	return records, rows.Err()
}

// SubjectHasRecords reports whether any telemetry exists for a subject.
func (d *DB) SubjectHasRecords(subjectID string) (bool, error) {
	var count int
	err := d.db.QueryRow(
		`SELECT COUNT(*) FROM activity_records WHERE subject_id = ? LIMIT 1`,
		subjectID,
	).Scan(&count)
	return count > 0, err
}
