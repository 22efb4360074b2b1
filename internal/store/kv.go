package store

import (
	"database/sql"
	"errors"
	"time"
)

// SetValue overwrites the slot stored under key.
func (d *DB) SetValue(key, value string) error {
	_, err := d.conn.Exec(
		`INSERT INTO vault_kv (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// GetValue retrieves the slot stored under key. ok is false when nothing was ever saved.
func (d *DB) GetValue(key string) (value string, ok bool, err error) {
	err = d.conn.QueryRow("SELECT value FROM vault_kv WHERE key = ?", key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}
	return value, true, nil
}
