// ABOUTME: Key/value metadata persisted alongside the index
// ABOUTME: Records which embedding model produced the stored vectors
package sqlite

import (
	"context"
	"database/sql"
	"errors"
)

// MetaKeyEmbeddingModel names the embedding model used for stored vectors
const MetaKeyEmbeddingModel = "embedding_model"

// MetaStore handles metadata persistence
type MetaStore struct {
	db *DB
}

// NewMetaStore creates a new MetaStore
func NewMetaStore(db *DB) *MetaStore {
	return &MetaStore{db: db}
}

// Get returns the value for key, or "" when unset
func (s *MetaStore) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM meta WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return value, err
}

// Set stores value under key
func (s *MetaStore) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO meta (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}
