package sqlite_test

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"gatelog/internal/db"
	"gatelog/internal/gatelog/store"
	sqlitestore "gatelog/internal/gatelog/store/sqlite"
	"gatelog/internal/gatelog/types"
)

// openTestDB returns an in-memory SQLite connection with the same PRAGMAs
// and schema as production.  The connection is closed automatically when
// the test finishes.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	// Each call gets a unique in-memory database.  The shared-cache URI
	// keeps the database alive for the lifetime of the connection pool.
	dsn := fmt.Sprintf(
		"file:test_%s?mode=memory&cache=shared&_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=busy_timeout(5000)",
		t.Name(),
	)

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("openTestDB: sql.Open: %v", err)
	}

	// Match production: single connection for SQLite safety.
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(0)

	if err := conn.Ping(); err != nil {
		conn.Close()
		t.Fatalf("openTestDB: ping: %v", err)
	}

	// Apply the same migrations as production.
	if err := db.Migrate(context.Background(), conn); err != nil {
		conn.Close()
		t.Fatalf("openTestDB: migrate: %v", err)
	}

	t.Cleanup(func() { conn.Close() })
	return conn
}

// newTestWriter returns a db.Worker backed by conn, closed automatically
// when the test finishes.
func newTestWriter(t *testing.T, conn *sql.DB) *db.Worker {
	t.Helper()

	w := db.NewWorker(conn)
	t.Cleanup(func() { w.Close() })
	return w
}

// newTestStores wires both stores over one test database.
func newTestStores(t *testing.T) (*sqlitestore.AccessLogStore, *sqlitestore.AuthorizationStore) {
	t.Helper()

	conn := openTestDB(t)
	w := newTestWriter(t, conn)
	return sqlitestore.NewAccessLogStore(conn, w), sqlitestore.NewAuthorizationStore(conn, w)
}

func mustAppend(t *testing.T, s *sqlitestore.AccessLogStore, uid string, dir types.Direction, at time.Time, authorized bool) int64 {
	t.Helper()

	id, err := s.Append(context.Background(), store.AccessEventRecord{
		UID:        uid,
		Direction:  dir,
		DeviceName: "gate-front",
		DeviceTime: at.Format("2006-01-02T15:04"),
		ServerTime: at,
		Authorized: authorized,
	})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	return id
}
