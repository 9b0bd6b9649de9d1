package db

import (
	"database/sql"
	"io"
	"log/slog"
)

// NewSilentDB wraps an already-open *sql.DB with a logger that discards
// everything. Repository tests pair it with sqlmock connections, where
// query logging is pure noise.
func NewSilentDB(sqlDB *sql.DB) *DB {
	return &DB{
		DB:     sqlDB,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}
