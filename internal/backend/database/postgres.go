package database

import (
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
)

const defaultPostgresDSN = "postgres://localhost/peoplesearch?sslmode=disable"

var postgresDialect = sqlDialect{
	name:     TypePostgres,
	numbered: true,
	schema: []string{
		`CREATE TABLE IF NOT EXISTS people (
			seq BIGSERIAL PRIMARY KEY,
			id TEXT NOT NULL UNIQUE,
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			gender TEXT,
			age INTEGER NOT NULL DEFAULT 0,
			interests TEXT,
			avatar_id TEXT,
			addr1 TEXT,
			addr2 TEXT,
			country TEXT,
			state TEXT,
			city TEXT,
			zip_code TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS images (
			id TEXT PRIMARY KEY,
			person_id TEXT,
			data BYTEA NOT NULL
		)`,
	},
}

// NewPostgresDatabase opens a Postgres store through the pgx stdlib driver.
// An empty connection string falls back to a local default.
func NewPostgresDatabase(connectionString string) (DatabaseService, error) {
	if connectionString == "" {
		connectionString = defaultPostgresDSN
	}
	db, err := sql.Open("pgx", connectionString)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	return &SQLDatabase{
		db:               db,
		dialect:          postgresDialect,
		connectionString: connectionString,
	}, nil
}
