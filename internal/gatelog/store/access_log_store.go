package store

import (
	"context"
	"time"

	"gatelog/internal/gatelog/types"
)

// AccessEventRecord is one row appended to the access log.  ServerTime is
// filled by the store at insert time when zero; the store's insertion
// order is the authoritative event order.
type AccessEventRecord struct {
	UID        string
	Direction  types.Direction
	DeviceName string
	DeviceTime string // device-reported, kept verbatim
	ServerTime time.Time
	Authorized bool
}

// LogEntry is a stored event joined with the owner label the uid currently
// resolves to.  Owner is "unknown" when the uid has no authorization entry;
// orphan uids in the log are normal.
type LogEntry struct {
	ID         int64
	UID        string
	Direction  types.Direction
	DeviceName string
	DeviceTime string
	ServerTime time.Time
	Authorized bool
	Username   string
}

// LogQuery bounds a raw-log read.  Start/End filter on server time when
// both are set; Limit caps the result (most recent first).
type LogQuery struct {
	Start time.Time
	End   time.Time
	Limit int
}

// DayStats holds per-direction counts for a single calendar day.
// Zero-valued directions are meaningful, not absent.
type DayStats struct {
	In  int `json:"IN"`
	Out int `json:"OUT"`
}

// DateBucket is one day of a range query.  Days with no authorized events
// produce no bucket.
type DateBucket struct {
	Date string `json:"date"` // YYYY-MM-DD, UTC
	In   int    `json:"IN"`
	Out  int    `json:"OUT"`
}

// AccessLogStore persists badge scans as an append-only event log and
// answers the read queries derived from it.  Appends are never updated or
// deleted, and no uniqueness is enforced on (uid, device time): duplicate
// submissions produce duplicate rows.
//
// All aggregation is keyed on the server-assigned timestamp at UTC
// calendar-day granularity, and counts authorized rows only.
type AccessLogStore interface {
	// Append inserts one event and returns its row id.
	Append(ctx context.Context, rec AccessEventRecord) (int64, error)

	// Logs returns entries matching q, newest first.
	Logs(ctx context.Context, q LogQuery) ([]LogEntry, error)

	// StatsByDay counts authorized events per direction on one UTC day.
	StatsByDay(ctx context.Context, day time.Time) (DayStats, error)

	// StatsRange returns per-day buckets over [start, end] inclusive,
	// ascending by date, omitting days with no authorized events.
	StatsRange(ctx context.Context, start, end time.Time) ([]DateBucket, error)

	// DistinctUIDs lists every uid ever logged, deduplicated, ascending.
	DistinctUIDs(ctx context.Context) ([]string, error)

	// UnauthorizedUIDs lists logged uids that have no authorization entry
	// right now, deduplicated, ascending.
	UnauthorizedUIDs(ctx context.Context) ([]string, error)
}
