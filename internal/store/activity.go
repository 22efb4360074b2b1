package store

import (
	"time"

	"github.com/google/uuid"
)

// activityTimeLayout is fixed-width so created_at sorts lexicographically.
const activityTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ActivityEntry represents a row in vault_activity.
type ActivityEntry struct {
	ID        string    `json:"id"`
	Action    string    `json:"action"`
	FileID    string    `json:"fileId,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// LogActivity appends an entry to the activity log.
func (d *DB) LogActivity(entry ActivityEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	_, err := d.conn.Exec(
		`INSERT INTO vault_activity (id, action, file_id, detail, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		entry.ID, entry.Action, entry.FileID, entry.Detail,
		entry.CreatedAt.UTC().Format(activityTimeLayout),
	)
	return err
}

// GetActivity retrieves recent entries, newest first.
func (d *DB) GetActivity(limit int) ([]ActivityEntry, error) {
	rows, err := d.conn.Query(
		"SELECT id, action, file_id, detail, created_at FROM vault_activity ORDER BY created_at DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []ActivityEntry
	for rows.Next() {
		var e ActivityEntry
		var createdAt string
		if err := rows.Scan(&e.ID, &e.Action, &e.FileID, &e.Detail, &createdAt); err != nil {
			return nil, err
		}
		e.CreatedAt, _ = time.Parse(activityTimeLayout, createdAt)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ActivityCount returns the number of logged entries.
func (d *DB) ActivityCount() (int, error) {
	var count int
	err := d.conn.QueryRow("SELECT COUNT(*) FROM vault_activity").Scan(&count)
	return count, err
}
