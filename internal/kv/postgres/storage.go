package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/mcoot/pickupgames/internal/kv/sqlkv"
)

var dialect = sqlkv.Dialect{
	CreateTable: `CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`,
	Get:       `SELECT value FROM kv WHERE key = $1`,
	Upsert:    `INSERT INTO kv (key, value) VALUES ($1, $2) ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`,
	Delete:    `DELETE FROM kv WHERE key = $1`,
	DeleteAll: `DELETE FROM kv`,
}

// New connects to Postgres using the pgx stdlib driver
func New(ctx context.Context, dsn string) (*sqlkv.Storage, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("postgres dsn is required")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	store, err := sqlkv.New(ctx, db, dialect)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}
