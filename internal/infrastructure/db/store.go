package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const (
	getEntrySQL    = `SELECT value FROM kv_entries WHERE entry_key = ?`
	upsertEntrySQL = `INSERT INTO kv_entries (entry_key, value, updated_at) VALUES (?, ?, ?)
ON CONFLICT (entry_key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`
	deleteEntrySQL = `DELETE FROM kv_entries WHERE entry_key = ?`
)

// SQLStore implements ports.KVStore on the kv_entries table of SQLite or Postgres.
type SQLStore struct {
	db  *Database
	now func() time.Time
}

func NewSQLStore(d *Database) *SQLStore {
	return &SQLStore{db: d, now: time.Now}
}

// Get implements KVStore.Get.
func (s *SQLStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.DB.GetContext(ctx, &value, s.db.DB.Rebind(getEntrySQL), key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return value, true, nil
}

// Set implements KVStore.Set.
func (s *SQLStore) Set(ctx context.Context, key string, value []byte) error {
	if value == nil {
		value = []byte{}
	}
	if _, err := s.db.DB.ExecContext(ctx, s.db.DB.Rebind(upsertEntrySQL), key, value, s.now().UnixMilli()); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// Delete implements KVStore.Delete.
func (s *SQLStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.DB.ExecContext(ctx, s.db.DB.Rebind(deleteEntrySQL), key); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}
