package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	dbpkg "gatelog/internal/db"
	"gatelog/internal/gatelog/store"
)

// AuthorizationStore is the SQLite allow-list.
type AuthorizationStore struct {
	db     *sql.DB
	writer *dbpkg.Worker
}

func NewAuthorizationStore(db *sql.DB, writer *dbpkg.Worker) *AuthorizationStore {
	return &AuthorizationStore{db: db, writer: writer}
}

func (s *AuthorizationStore) Lookup(ctx context.Context, uid string) (string, bool, error) {
	var username string
	err := s.db.QueryRowContext(ctx,
		`SELECT username FROM authorized_uids WHERE uid = ?;`, uid,
	).Scan(&username)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("Lookup %s: %w", uid, err)
	}
	return username, true, nil
}

func (s *AuthorizationStore) List(ctx context.Context) ([]store.AuthorizationEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT uid, username FROM authorized_uids ORDER BY username;`)
	if err != nil {
		return nil, fmt.Errorf("List query: %w", err)
	}
	defer rows.Close()

	out := make([]store.AuthorizationEntry, 0)
	for rows.Next() {
		var e store.AuthorizationEntry
		if err := rows.Scan(&e.UID, &e.Username); err != nil {
			return nil, fmt.Errorf("List scan: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *AuthorizationStore) Put(ctx context.Context, uid, username string) error {
	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO authorized_uids(uid, username) VALUES (?, ?);`,
			uid, username,
		); err != nil {
			return fmt.Errorf("Put %s: %w", uid, err)
		}
		return nil
	})
}

func (s *AuthorizationStore) Rename(ctx context.Context, uid, username string) error {
	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE authorized_uids SET username = ? WHERE uid = ?;`,
			username, uid,
		)
		if err != nil {
			return fmt.Errorf("Rename %s: %w", uid, err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return fmt.Errorf("Rename %s: no such uid", uid)
		}
		return nil
	})
}

func (s *AuthorizationStore) Delete(ctx context.Context, uid string) error {
	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM authorized_uids WHERE uid = ?;`, uid,
		); err != nil {
			return fmt.Errorf("Delete %s: %w", uid, err)
		}
		return nil
	})
}
