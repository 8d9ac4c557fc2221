package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"gatelog/internal/gatelog/store"
	"gatelog/internal/gatelog/types"
)

type AccessLogStore struct {
	db *sql.DB
}

func NewAccessLogStore(db *sql.DB) *AccessLogStore {
	return &AccessLogStore{db: db}
}

func (s *AccessLogStore) Append(ctx context.Context, rec store.AccessEventRecord) (int64, error) {
	if rec.ServerTime.IsZero() {
		rec.ServerTime = time.Now().UTC()
	}

	var id int64
	err := s.db.QueryRowContext(ctx, `
INSERT INTO access_logs(uid, direction, device_name, device_time, server_time_ms, authorized)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id;
`,
		rec.UID, string(rec.Direction), rec.DeviceName, rec.DeviceTime,
		rec.ServerTime.UTC().UnixMilli(), rec.Authorized,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("Append insert: %w", err)
	}
	return id, nil
}

func (s *AccessLogStore) Logs(ctx context.Context, q store.LogQuery) ([]store.LogEntry, error) {
	query := `
SELECT a.id, a.uid, a.direction, a.device_name, a.device_time, a.server_time_ms, a.authorized,
       COALESCE(u.username, 'unknown')
FROM access_logs a
LEFT JOIN authorized_uids u ON a.uid = u.uid
`
	args := []any{}
	if !q.Start.IsZero() && !q.End.IsZero() {
		query += "WHERE a.server_time_ms BETWEEN $1 AND $2\n"
		args = append(args, q.Start.UTC().UnixMilli(), q.End.UTC().UnixMilli())
	}
	limit := q.Limit
	if limit <= 0 {
		limit = 100
	}
	query += fmt.Sprintf("ORDER BY a.server_time_ms DESC, a.id DESC LIMIT %d;", limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("Logs query: %w", err)
	}
	defer rows.Close()

	out := make([]store.LogEntry, 0)
	for rows.Next() {
		var (
			e         store.LogEntry
			direction string
			serverMs  int64
		)
		if err := rows.Scan(&e.ID, &e.UID, &direction, &e.DeviceName, &e.DeviceTime,
			&serverMs, &e.Authorized, &e.Username); err != nil {
			return nil, fmt.Errorf("Logs scan: %w", err)
		}
		e.Direction = types.Direction(direction)
		e.ServerTime = time.UnixMilli(serverMs).UTC()
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *AccessLogStore) StatsByDay(ctx context.Context, day time.Time) (store.DayStats, error) {
	lo, hi := dayBoundsMs(day)

	rows, err := s.db.QueryContext(ctx, `
SELECT direction, COUNT(*)
FROM access_logs
WHERE authorized AND server_time_ms >= $1 AND server_time_ms < $2
GROUP BY direction;
`, lo, hi)
	if err != nil {
		return store.DayStats{}, fmt.Errorf("StatsByDay query: %w", err)
	}
	defer rows.Close()

	var stats store.DayStats
	for rows.Next() {
		var direction string
		var count int
		if err := rows.Scan(&direction, &count); err != nil {
			return store.DayStats{}, fmt.Errorf("StatsByDay scan: %w", err)
		}
		switch types.Direction(direction) {
		case types.DirectionIn:
			stats.In = count
		case types.DirectionOut:
			stats.Out = count
		}
	}
	return stats, rows.Err()
}

func (s *AccessLogStore) StatsRange(ctx context.Context, start, end time.Time) ([]store.DateBucket, error) {
	lo, _ := dayBoundsMs(start)
	_, hi := dayBoundsMs(end)

	rows, err := s.db.QueryContext(ctx, `
SELECT to_char(to_timestamp(server_time_ms / 1000.0) AT TIME ZONE 'UTC', 'YYYY-MM-DD') AS day,
       direction, COUNT(*)
FROM access_logs
WHERE authorized AND server_time_ms >= $1 AND server_time_ms < $2
GROUP BY day, direction
ORDER BY day;
`, lo, hi)
	if err != nil {
		return nil, fmt.Errorf("StatsRange query: %w", err)
	}
	defer rows.Close()

	out := make([]store.DateBucket, 0)
	for rows.Next() {
		var (
			day       string
			direction string
			count     int
		)
		if err := rows.Scan(&day, &direction, &count); err != nil {
			return nil, fmt.Errorf("StatsRange scan: %w", err)
		}
		if len(out) == 0 || out[len(out)-1].Date != day {
			out = append(out, store.DateBucket{Date: day})
		}
		b := &out[len(out)-1]
		switch types.Direction(direction) {
		case types.DirectionIn:
			b.In = count
		case types.DirectionOut:
			b.Out = count
		}
	}
	return out, rows.Err()
}

func (s *AccessLogStore) DistinctUIDs(ctx context.Context) ([]string, error) {
	return s.uidList(ctx, `SELECT DISTINCT uid FROM access_logs ORDER BY uid;`)
}

func (s *AccessLogStore) UnauthorizedUIDs(ctx context.Context) ([]string, error) {
	return s.uidList(ctx, `
SELECT DISTINCT uid FROM access_logs
WHERE uid NOT IN (SELECT uid FROM authorized_uids)
ORDER BY uid;
`)
}

func (s *AccessLogStore) uidList(ctx context.Context, query string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("uid list query: %w", err)
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var uid string
		if err := rows.Scan(&uid); err != nil {
			return nil, fmt.Errorf("uid list scan: %w", err)
		}
		out = append(out, uid)
	}
	return out, rows.Err()
}

func dayBoundsMs(day time.Time) (int64, int64) {
	d := day.UTC()
	start := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	return start.UnixMilli(), start.AddDate(0, 0, 1).UnixMilli()
}
