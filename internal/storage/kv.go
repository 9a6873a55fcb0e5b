package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// KVStore persists the builder's serialized state blobs under fixed keys.
// It implements builder.KV.
type KVStore struct {
	db *DB
}

func NewKVStore(db *DB) *KVStore {
	return &KVStore{db: db}
}

// Get returns the blob for key and whether it exists.
func (s *KVStore) Get(key string) (string, bool, error) {
	var value string
	err := s.db.Conn().QueryRow(
		`SELECT value FROM snapshots WHERE key = ?`, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get snapshot %s: %w", key, err)
	}
	return value, true, nil
}

// Set writes the blob for key, replacing any previous value.
func (s *KVStore) Set(key, value string) error {
	_, err := s.db.Conn().Exec(
		`INSERT INTO snapshots (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("set snapshot %s: %w", key, err)
	}
	return nil
}

// Delete removes the blob for key. Missing keys are not an error.
func (s *KVStore) Delete(key string) error {
	_, err := s.db.Conn().Exec(`DELETE FROM snapshots WHERE key = ?`, key)
	return err
}
