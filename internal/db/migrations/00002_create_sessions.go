package migrations

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateSessions, downCreateSessions)
}

// sessionsDDL returns the table layout the scs store adapter for the current
// dialect expects. Redis and in-memory session stores do not use it.
func sessionsDDL() string {
	switch dialect {
	case "postgres":
		return `CREATE TABLE IF NOT EXISTS sessions (
    token  TEXT PRIMARY KEY,
    data   BYTEA NOT NULL,
    expiry TIMESTAMPTZ NOT NULL
)`
	case "mysql":
		return `CREATE TABLE IF NOT EXISTS sessions (
    token  CHAR(43) PRIMARY KEY,
    data   BLOB NOT NULL,
    expiry TIMESTAMP(6) NOT NULL
)`
	default: // sqlite3
		return `CREATE TABLE IF NOT EXISTS sessions (
    token  TEXT PRIMARY KEY,
    data   BLOB NOT NULL,
    expiry REAL NOT NULL
)`
	}
}

func upCreateSessions(ctx context.Context, tx *sql.Tx) error {
	if _, err := tx.ExecContext(ctx, sessionsDDL()); err != nil {
		return fmt.Errorf("create sessions table: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `CREATE INDEX sessions_expiry_idx ON sessions (expiry)`); err != nil {
		return fmt.Errorf("create sessions expiry index: %w", err)
	}
	return nil
}

func downCreateSessions(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS sessions`)
	return err
}
