package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gatelog/internal/gatelog/store"
)

// logLimit caps raw-log reads; the dashboard only ever shows the most
// recent page.
const logLimit = 100

// StatsQuery carries the raw query-string parameters of a stats request.
// Exactly one mode must be selected: Date alone, or Start and End together.
type StatsQuery struct {
	Date  string
	Start string
	End   string
}

// StatsResult holds the outcome of whichever mode ran.
type StatsResult struct {
	Day     *store.DayStats
	Buckets []store.DateBucket
}

// QueryService answers the read-only aggregation and retrieval queries
// over the access log.
type QueryService struct {
	events store.AccessLogStore
}

func NewQueryService(events store.AccessLogStore) *QueryService {
	return &QueryService{events: events}
}

// Stats dispatches on the query shape.  Single-day mode returns
// zero-filled per-direction counts; range mode returns a sparse ascending
// list of day buckets.  Both count authorized events only.
func (s *QueryService) Stats(ctx context.Context, q StatsQuery) (StatsResult, error) {
	switch {
	case q.Date != "":
		day, err := parseDate(q.Date)
		if err != nil {
			return StatsResult{}, err
		}
		stats, err := s.events.StatsByDay(ctx, day)
		if err != nil {
			return StatsResult{}, fmt.Errorf("stats by day: %w", err)
		}
		return StatsResult{Day: &stats}, nil

	case q.Start != "" && q.End != "":
		start, err := parseDate(q.Start)
		if err != nil {
			return StatsResult{}, err
		}
		end, err := parseDate(q.End)
		if err != nil {
			return StatsResult{}, err
		}
		if end.Before(start) {
			return StatsResult{}, fmt.Errorf("%w: end before start", ErrValidation)
		}
		buckets, err := s.events.StatsRange(ctx, start, end)
		if err != nil {
			return StatsResult{}, fmt.Errorf("stats range: %w", err)
		}
		return StatsResult{Buckets: buckets}, nil

	default:
		return StatsResult{}, fmt.Errorf("%w: date or start/end required", ErrMissingParameters)
	}
}

// Logs returns the most recent entries, optionally bounded to a server-time
// range.  A range takes effect only when both ends are supplied, matching
// the dashboard's behavior.
func (s *QueryService) Logs(ctx context.Context, start, end string) ([]store.LogEntry, error) {
	q := store.LogQuery{Limit: logLimit}

	if start != "" && end != "" {
		var err error
		if q.Start, err = parseTimestamp(start); err != nil {
			return nil, err
		}
		if q.End, err = parseTimestamp(end); err != nil {
			return nil, err
		}
	}

	entries, err := s.events.Logs(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("logs: %w", err)
	}
	return entries, nil
}

func (s *QueryService) DistinctUIDs(ctx context.Context) ([]string, error) {
	return s.events.DistinctUIDs(ctx)
}

func (s *QueryService) UnauthorizedUIDs(ctx context.Context) ([]string, error) {
	return s.events.UnauthorizedUIDs(ctx)
}

func parseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(time.DateOnly, strings.TrimSpace(s), time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: bad date %q", ErrValidation, s)
	}
	return t, nil
}

// timestampLayouts covers the formats the dashboard's datetime-local
// inputs and API clients send.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	time.DateOnly,
}

func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: bad timestamp %q", ErrValidation, s)
}
