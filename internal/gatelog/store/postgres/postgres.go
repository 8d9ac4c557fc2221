// Package postgres backs the stores with PostgreSQL through the pgx
// stdlib driver.  Unlike the SQLite backend there is no single write
// worker; the pool handles concurrent writers.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Open connects, verifies the connection, and ensures the schema exists.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql.Open pgx: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}

	if err := initSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func initSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS access_logs (
			id             BIGSERIAL PRIMARY KEY,
			uid            TEXT    NOT NULL,
			direction      TEXT    NOT NULL,
			device_name    TEXT    NOT NULL,
			device_time    TEXT    NOT NULL DEFAULT '',
			server_time_ms BIGINT  NOT NULL,
			authorized     BOOLEAN NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_access_logs_server_time ON access_logs(server_time_ms)`,
		`CREATE INDEX IF NOT EXISTS idx_access_logs_uid ON access_logs(uid)`,
		`CREATE TABLE IF NOT EXISTS authorized_uids (
			uid      TEXT PRIMARY KEY,
			username TEXT NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("postgres init schema: %w", err)
		}
	}
	return nil
}
