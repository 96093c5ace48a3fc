// Package database handles the SQLite store and its queries.
//
// We use the `sqlx` package which extends Go's standard `database/sql`
// with convenient struct scanning, over the CGO-free modernc.org/sqlite
// driver. The store is a single local file with one expected writer at a
// time, matching how the reports are produced: one document ingested per
// request or per CLI run.
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // SQLite driver — the underscore import runs its init()
)

// DB wraps the sqlx database connection with our application-specific
// methods. Embedding *sqlx.DB gives us all of sqlx's methods plus our own.
type DB struct {
	*sqlx.DB
}

// New opens (creating if necessary) the SQLite database file.
func New(path string) (*DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)", path)

	// sqlx.Connect both opens the connection and pings the database.
	db, err := sqlx.Connect("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}

	// The store expects a single writer at a time; one connection keeps
	// SQLite's locking out of the picture entirely.
	db.SetMaxOpenConns(1)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return &DB{db}, nil
}

// HealthCheck verifies the database connection is alive.
func (db *DB) HealthCheck(ctx context.Context) error {
	return db.PingContext(ctx)
}
