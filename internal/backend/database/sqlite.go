package database

import (
	"database/sql"

	_ "modernc.org/sqlite"
)

var sqliteDialect = sqlDialect{
	name: TypeSQLite,
	schema: []string{
		`CREATE TABLE IF NOT EXISTS people (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
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
			data BLOB NOT NULL
		)`,
	},
}

func NewSQLiteDatabase(connectionString string) (DatabaseService, error) {
	db, err := sql.Open("sqlite", connectionString)
	if err != nil {
		return nil, err
	}
	// A single connection keeps ":memory:" databases shared and serialises
	// writers instead of surfacing SQLITE_BUSY to callers.
	db.SetMaxOpenConns(1)

	return &SQLDatabase{
		db:               db,
		dialect:          sqliteDialect,
		connectionString: connectionString,
	}, nil
}
