package database

import (
	"context"
	"database/sql"
	"errors"
)

// ErrNotFound is returned by Transaction writes that target a missing entity.
var ErrNotFound = errors.New("entity not found")

// DBTX is the subset of database/sql shared by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type rowScanner interface {
	Scan(dest ...any) error
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
