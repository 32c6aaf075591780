package sqlite

import (
	"time"

	"github.com/focuai/focusd/internal/domain"
)

// InsertNotification appends a notification to a subject's feed.
func (d *DB) InsertNotification(n domain.Notification) error {
	_, err := d.db.Exec(
		`INSERT INTO notifications (subject_id, type, title, body, created_at, shown)
		 VALUES (?, ?, ?, ?, ?, 0)`,
		n.SubjectID, string(n.Type), n.Title, n.Body, n.CreatedAt.Unix(),
	)
	return err
}

// PendingNotifications returns a subject's unshown notifications,
// oldest first, capped at limit (0 = no cap).
func (d *DB) PendingNotifications(subjectID string, limit int) ([]domain.Notification, error) {
	query := `SELECT id, subject_id, type, title, body, created_at
	          FROM notifications WHERE subject_id = ? AND shown = 0
	          ORDER BY created_at ASC, id ASC`
	args := []any{subjectID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []domain.Notification
	for rows.Next() {
		var n domain.Notification
		var typ string
		var created int64
		if err := rows.Scan(&n.ID, &n.SubjectID, &typ, &n.Title, &n.Body, &created); err != nil {
			return nil, err
		}
		n.Type = domain.NotificationType(typ)
		n.CreatedAt = time.Unix(created, 0)
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

// MarkNotificationsShown flags the given notifications as delivered.
func (d *DB) MarkNotificationsShown(ids []int64) error {
	for _, id := range ids {
		if _, err := d.db.Exec(`UPDATE notifications SET shown = 1 WHERE id = ?`, id); err != nil {
			return err
		}
	}
	return nil
}
