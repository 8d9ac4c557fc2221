package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"gatelog/internal/gatelog/store"
	"gatelog/internal/gatelog/types"
)

// AccessLogStore is an in-memory append-only access log.  It is intended
// for tests and dev environments; aggregation walks the slice rather than
// pushing the work into SQL.
type AccessLogStore struct {
	mu     sync.Mutex
	nextID int64
	rows   []store.LogEntry
	auth   *AuthorizationStore // owner resolution for Logs/UnauthorizedUIDs
}

// NewAccessLogStore returns an empty log.  auth may be nil, in which case
// every entry resolves to "unknown".
func NewAccessLogStore(auth *AuthorizationStore) *AccessLogStore {
	return &AccessLogStore{auth: auth}
}

func (s *AccessLogStore) Append(ctx context.Context, rec store.AccessEventRecord) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.ServerTime.IsZero() {
		rec.ServerTime = time.Now().UTC()
	}

	s.nextID++
	s.rows = append(s.rows, store.LogEntry{
		ID:         s.nextID,
		UID:        rec.UID,
		Direction:  rec.Direction,
		DeviceName: rec.DeviceName,
		DeviceTime: rec.DeviceTime,
		ServerTime: rec.ServerTime.UTC(),
		Authorized: rec.Authorized,
	})
	return s.nextID, nil
}

func (s *AccessLogStore) Logs(ctx context.Context, q store.LogQuery) ([]store.LogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bounded := !q.Start.IsZero() && !q.End.IsZero()

	out := make([]store.LogEntry, 0)
	for i := len(s.rows) - 1; i >= 0; i-- {
		row := s.rows[i]
		if bounded && (row.ServerTime.Before(q.Start) || row.ServerTime.After(q.End)) {
			continue
		}
		row.Username = s.resolve(ctx, row.UID)
		out = append(out, row)
		if q.Limit > 0 && len(out) >= q.Limit {
			break
		}
	}
	return out, nil
}

func (s *AccessLogStore) StatsByDay(ctx context.Context, day time.Time) (store.DayStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	want := day.UTC().Format(time.DateOnly)
	var stats store.DayStats
	for _, row := range s.rows {
		if !row.Authorized || row.ServerTime.Format(time.DateOnly) != want {
			continue
		}
		switch row.Direction {
		case types.DirectionIn:
			stats.In++
		case types.DirectionOut:
			stats.Out++
		}
	}
	return stats, nil
}

func (s *AccessLogStore) StatsRange(ctx context.Context, start, end time.Time) ([]store.DateBucket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lo := start.UTC().Format(time.DateOnly)
	hi := end.UTC().Format(time.DateOnly)

	byDate := make(map[string]*store.DateBucket)
	for _, row := range s.rows {
		if !row.Authorized {
			continue
		}
		date := row.ServerTime.Format(time.DateOnly)
		if date < lo || date > hi {
			continue
		}
		b, found := byDate[date]
		if !found {
			b = &store.DateBucket{Date: date}
			byDate[date] = b
		}
		switch row.Direction {
		case types.DirectionIn:
			b.In++
		case types.DirectionOut:
			b.Out++
		}
	}

	out := make([]store.DateBucket, 0, len(byDate))
	for _, b := range byDate {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (s *AccessLogStore) DistinctUIDs(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.distinctLocked(func(string) bool { return true }), nil
}

func (s *AccessLogStore) UnauthorizedUIDs(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.distinctLocked(func(uid string) bool {
		if s.auth == nil {
			return true
		}
		_, ok, _ := s.auth.Lookup(context.Background(), uid)
		return !ok
	}), nil
}

func (s *AccessLogStore) distinctLocked(keep func(uid string) bool) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, row := range s.rows {
		if _, dup := seen[row.UID]; dup {
			continue
		}
		seen[row.UID] = struct{}{}
		if keep(row.UID) {
			out = append(out, row.UID)
		}
	}
	sort.Strings(out)
	return out
}

// Events returns a copy of all rows in insertion order.  Test-only helper.
func (s *AccessLogStore) Events() []store.LogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]store.LogEntry, len(s.rows))
	copy(out, s.rows)
	return out
}

func (s *AccessLogStore) resolve(ctx context.Context, uid string) string {
	if s.auth == nil {
		return "unknown"
	}
	username, ok, err := s.auth.Lookup(ctx, uid)
	if err != nil || !ok {
		return "unknown"
	}
	return username
}
