// package repositories provides persistence layer implementations for client-side state.
package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// KVRepository stores opaque values by key in the kv_store table.
type KVRepository struct {
	db *sql.DB
}

// NewKVRepository creates a new [KVRepository] with the given database connection
func NewKVRepository(db *sql.DB) *KVRepository {
	return &KVRepository{db: db}
}

// Get returns the value stored under key. The boolean is false when no record exists.
func (r *KVRepository) Get(key string) ([]byte, bool, error) {
	var value []byte
	err := r.db.QueryRow("SELECT value FROM kv_store WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to query key %s: %w", key, err)
	}
	return value, true, nil
}

// Put inserts or replaces the value stored under key.
func (r *KVRepository) Put(key string, value []byte) error {
	if key == "" {
		return fmt.Errorf("key must not be empty")
	}

	now := time.Now().UTC()
	query := `
		INSERT INTO kv_store (key, value, created_at, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`

	if _, err := r.db.Exec(query, key, value, now, now); err != nil {
		return fmt.Errorf("failed to store key %s: %w", key, err)
	}
	return nil
}

// Delete removes the record stored under key. Deleting a missing key is not an error.
func (r *KVRepository) Delete(key string) error {
	if _, err := r.db.Exec("DELETE FROM kv_store WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to delete key %s: %w", key, err)
	}
	return nil
}

// UpdatedAt returns when the record under key was last written.
func (r *KVRepository) UpdatedAt(key string) (time.Time, bool, error) {
	var updatedAt time.Time
	err := r.db.QueryRow("SELECT updated_at FROM kv_store WHERE key = ?", key).Scan(&updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to query key %s: %w", key, err)
	}
	return updatedAt, true, nil
}
