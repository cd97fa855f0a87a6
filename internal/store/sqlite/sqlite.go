// Package sqlite implements store.Client on a local libSQL database. The
// whole collection lives in one JSONB row, so it keeps the remote record's
// last-writer-wins semantics.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/playperu/secretdraw/internal/database"
	"github.com/playperu/secretdraw/internal/migrations"
	"github.com/playperu/secretdraw/internal/store"
)

// DefaultRecord is the row name used when none is configured.
const DefaultRecord = "games"

type Store struct {
	db     *sql.DB
	record string
}

// Open opens the database at path, applies migrations and returns a store
// for the named record.
func Open(ctx context.Context, path, record string) (*Store, error) {
	db, err := database.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	if err := migrations.Run(db); err != nil {
		db.Close()
		return nil, err
	}
	return New(db, record), nil
}

// New wraps an already migrated database.
func New(db *sql.DB, record string) *Store {
	if record == "" {
		record = DefaultRecord
	}
	return &Store{db: db, record: record}
}

func (s *Store) FetchCollection(ctx context.Context) (store.Collection, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT json(data) FROM records WHERE name = ?`, s.record,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Collection{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading record: %v", store.ErrUnavailable, err)
	}
	coll, err := store.Decode([]byte(data))
	if err != nil {
		return nil, fmt.Errorf("%w: decoding record: %v", store.ErrUnavailable, err)
	}
	return coll, nil
}

func (s *Store) ReplaceCollection(ctx context.Context, c store.Collection) error {
	if c == nil {
		c = store.Collection{}
	}
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding collection: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO records (name, data, updated_at) VALUES (?, jsonb(?), ?)
		 ON CONFLICT(name) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		s.record, string(data), time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("%w: writing record: %v", store.ErrUnavailable, err)
	}
	return nil
}

// Check pings the database.
func (s *Store) Check(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.db.Close()
}
