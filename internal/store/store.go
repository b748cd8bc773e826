package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// Store persists opportunities, trade executions, and user policies
type Store struct {
	db *sql.DB
}

// New creates a store around an open database handle
func New(db *sql.DB) *Store {
	return &Store{
		db: db,
	}
}

// Open connects to Postgres and verifies the connection
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return New(db), nil
}

// Close closes the underlying database handle
func (s *Store) Close() error {
	return s.db.Close()
}
