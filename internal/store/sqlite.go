package store

import (
	"context"
	"database/sql"

	"github.com/hpungsan/sprig/internal/db"
)

// SQLite stores values in the kv table created by db.Init.
type SQLite struct {
	db *sql.DB
}

// NewSQLite wraps an initialized database.
func NewSQLite(conn *sql.DB) *SQLite {
	return &SQLite{db: conn}
}

func (s *SQLite) Get(ctx context.Context, key string) ([]byte, error) {
	return db.GetValue(ctx, s.db, key)
}

func (s *SQLite) Set(ctx context.Context, key string, value []byte) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	return db.PutValue(ctx, s.db, key, value)
}
