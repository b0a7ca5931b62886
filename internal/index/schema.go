// Package index provides a SQLite-backed catalog repository.
package index

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS records (
	kind       TEXT    NOT NULL,
	kind_order INTEGER NOT NULL,
	position   INTEGER NOT NULL,
	id         INTEGER NOT NULL,
	label      TEXT    NOT NULL,
	author     TEXT    NOT NULL DEFAULT '',
	class      TEXT    NOT NULL DEFAULT '',
	category   TEXT    NOT NULL DEFAULT '',
	difficulty TEXT    NOT NULL DEFAULT '',
	PRIMARY KEY (kind, id)
);

CREATE INDEX IF NOT EXISTS idx_records_order ON records(kind_order, position);

CREATE TABLE IF NOT EXISTS collections (
	kind     TEXT PRIMARY KEY,
	checksum TEXT NOT NULL DEFAULT ''
);
`

// DB wraps a sql.DB holding the synced catalog.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("index: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
