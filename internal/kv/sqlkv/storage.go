// Package sqlkv implements the key-value store on a single SQL table.
// The sqlite and postgres packages supply the driver and dialect.
package sqlkv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mcoot/pickupgames/internal/kv"
)

// Dialect holds the statements that differ between SQL engines
type Dialect struct {
	CreateTable string
	Get         string
	Upsert      string
	Delete      string
	DeleteAll   string
}

// Storage is a key-value store backed by a `kv(key, value)` table
type Storage struct {
	db      *sql.DB
	dialect Dialect
}

// Ensure Storage implements the interface
var _ kv.Store = (*Storage)(nil)

// New wraps an open database, creating the table if needed
func New(ctx context.Context, db *sql.DB, dialect Dialect) (*Storage, error) {
	if _, err := db.ExecContext(ctx, dialect.CreateTable); err != nil {
		return nil, fmt.Errorf("create kv table: %w", err)
	}
	return &Storage{db: db, dialect: dialect}, nil
}

func (s *Storage) GetString(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, s.dialect.Get, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("get %q: %w", key, err)
	}
	return value, true, nil
}

func (s *Storage) Set(ctx context.Context, key, value string) error {
	if _, err := s.db.ExecContext(ctx, s.dialect.Upsert, key, value); err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}

func (s *Storage) SetMany(ctx context.Context, entries map[string]string) (retErr error) {
	if len(entries) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()
	for k, v := range entries {
		if _, err := tx.ExecContext(ctx, s.dialect.Upsert, k, v); err != nil {
			return fmt.Errorf("set %q: %w", k, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (s *Storage) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, s.dialect.Delete, key); err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}

func (s *Storage) ClearAll(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, s.dialect.DeleteAll); err != nil {
		return fmt.Errorf("clear: %w", err)
	}
	return nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}
