package sqlite_test

import (
	"context"
	"testing"
	"time"

	"gatelog/internal/gatelog/store"
	"gatelog/internal/gatelog/types"
)

// ═══════════════════════════════════════════════════════════════════════════
// Append
// ═══════════════════════════════════════════════════════════════════════════

func TestAccessLogStore_Append_InsertsRow(t *testing.T) {
	events, _ := newTestStores(t)

	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	id := mustAppend(t, events, "04A1B2C3", types.DirectionIn, at, true)
	if id == 0 {
		t.Error("expected a non-zero row id")
	}

	entries, err := events.Logs(context.Background(), store.LogQuery{})
	if err != nil {
		t.Fatalf("Logs: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 row, got %d", len(entries))
	}

	e := entries[0]
	if e.UID != "04A1B2C3" || e.Direction != types.DirectionIn || e.DeviceName != "gate-front" {
		t.Errorf("unexpected row %+v", e)
	}
	if !e.ServerTime.Equal(at) {
		t.Errorf("expected server_time %v, got %v", at, e.ServerTime)
	}
	if !e.Authorized {
		t.Error("expected authorized=true")
	}
}

func TestAccessLogStore_Append_DuplicatesAllowed(t *testing.T) {
	events, _ := newTestStores(t)

	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	id1 := mustAppend(t, events, "04A1B2C3", types.DirectionIn, at, false)
	id2 := mustAppend(t, events, "04A1B2C3", types.DirectionIn, at, false)

	if id1 == id2 {
		t.Error("duplicate submissions must produce independent rows")
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Logs: owner join and range filter
// ═══════════════════════════════════════════════════════════════════════════

func TestAccessLogStore_Logs_JoinsOwnerAndOrdersNewestFirst(t *testing.T) {
	events, auth := newTestStores(t)

	if err := auth.Put(context.Background(), "04A1B2C3", "alice"); err != nil {
		t.Fatalf("Put: %v", err)
	}

	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	mustAppend(t, events, "04A1B2C3", types.DirectionIn, base, true)
	mustAppend(t, events, "DEADBEEF", types.DirectionOut, base.Add(time.Hour), false)

	entries, err := events.Logs(context.Background(), store.LogQuery{})
	if err != nil {
		t.Fatalf("Logs: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(entries))
	}

	if entries[0].UID != "DEADBEEF" {
		t.Errorf("expected newest first, got %q", entries[0].UID)
	}
	if entries[0].Username != "unknown" {
		t.Errorf("orphan uid should resolve to unknown, got %q", entries[0].Username)
	}
	if entries[1].Username != "alice" {
		t.Errorf("expected alice, got %q", entries[1].Username)
	}
}

func TestAccessLogStore_Logs_RangeAndLimit(t *testing.T) {
	events, _ := newTestStores(t)

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		mustAppend(t, events, "A", types.DirectionIn, base.Add(time.Duration(i)*time.Hour), true)
	}

	entries, err := events.Logs(context.Background(), store.LogQuery{
		Start: base.Add(1 * time.Hour),
		End:   base.Add(3 * time.Hour),
		Limit: 2,
	})
	if err != nil {
		t.Fatalf("Logs: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected limit to cap at 2 rows, got %d", len(entries))
	}
	if !entries[0].ServerTime.Equal(base.Add(3 * time.Hour)) {
		t.Errorf("expected newest in-range row first, got %v", entries[0].ServerTime)
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Aggregation
// ═══════════════════════════════════════════════════════════════════════════

func TestAccessLogStore_StatsByDay_AuthorizedOnly(t *testing.T) {
	events, _ := newTestStores(t)

	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		mustAppend(t, events, "A", types.DirectionIn, day.Add(time.Duration(i)*time.Hour), true)
	}
	mustAppend(t, events, "B", types.DirectionOut, day.Add(5*time.Hour), false)
	// Next day, must not leak into the queried day.
	mustAppend(t, events, "A", types.DirectionOut, day.AddDate(0, 0, 1), true)

	stats, err := events.StatsByDay(context.Background(), day)
	if err != nil {
		t.Fatalf("StatsByDay: %v", err)
	}
	if stats.In != 3 || stats.Out != 0 {
		t.Errorf("expected {IN:3 OUT:0}, got {IN:%d OUT:%d}", stats.In, stats.Out)
	}
}

func TestAccessLogStore_StatsByDay_DayBoundariesAreUTC(t *testing.T) {
	events, _ := newTestStores(t)

	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	mustAppend(t, events, "A", types.DirectionIn, day, true)                                    // first instant
	mustAppend(t, events, "A", types.DirectionOut, day.AddDate(0, 0, 1).Add(-time.Second), true) // last second

	stats, err := events.StatsByDay(context.Background(), day)
	if err != nil {
		t.Fatalf("StatsByDay: %v", err)
	}
	if stats.In != 1 || stats.Out != 1 {
		t.Errorf("expected both boundary events counted, got {IN:%d OUT:%d}", stats.In, stats.Out)
	}
}

func TestAccessLogStore_StatsRange_SparseAscending(t *testing.T) {
	events, _ := newTestStores(t)

	day2 := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	mustAppend(t, events, "A", types.DirectionIn, day2, true)
	mustAppend(t, events, "B", types.DirectionOut, day2.Add(time.Hour), true)
	mustAppend(t, events, "C", types.DirectionIn, day2.Add(2*time.Hour), false)

	buckets, err := events.StatsRange(context.Background(),
		time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("StatsRange: %v", err)
	}
	if len(buckets) != 1 {
		t.Fatalf("expected 1 sparse bucket, got %d", len(buckets))
	}
	b := buckets[0]
	if b.Date != "2026-03-02" || b.In != 1 || b.Out != 1 {
		t.Errorf("unexpected bucket %+v", b)
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// UID digests
// ═══════════════════════════════════════════════════════════════════════════

func TestAccessLogStore_UIDDigests(t *testing.T) {
	events, auth := newTestStores(t)

	if err := auth.Put(context.Background(), "AAAA", "alice"); err != nil {
		t.Fatalf("Put: %v", err)
	}

	at := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	mustAppend(t, events, "BBBB", types.DirectionIn, at, false)
	mustAppend(t, events, "AAAA", types.DirectionIn, at, true)
	mustAppend(t, events, "BBBB", types.DirectionOut, at.Add(time.Hour), false)

	all, err := events.DistinctUIDs(context.Background())
	if err != nil {
		t.Fatalf("DistinctUIDs: %v", err)
	}
	if len(all) != 2 || all[0] != "AAAA" || all[1] != "BBBB" {
		t.Errorf("expected [AAAA BBBB], got %v", all)
	}

	unauth, err := events.UnauthorizedUIDs(context.Background())
	if err != nil {
		t.Fatalf("UnauthorizedUIDs: %v", err)
	}
	if len(unauth) != 1 || unauth[0] != "BBBB" {
		t.Errorf("expected [BBBB], got %v", unauth)
	}
}

// UnauthorizedUIDs is computed against the current allow-list, not the
// stored flag: adding a uid after the fact removes it from the digest.
func TestAccessLogStore_UnauthorizedUIDs_TracksCurrentAllowList(t *testing.T) {
	events, auth := newTestStores(t)

	at := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	mustAppend(t, events, "BBBB", types.DirectionIn, at, false)

	if err := auth.Put(context.Background(), "BBBB", "bob"); err != nil {
		t.Fatalf("Put: %v", err)
	}

	unauth, err := events.UnauthorizedUIDs(context.Background())
	if err != nil {
		t.Fatalf("UnauthorizedUIDs: %v", err)
	}
	if len(unauth) != 0 {
		t.Errorf("expected no unauthorized uids after allow-listing, got %v", unauth)
	}
}
