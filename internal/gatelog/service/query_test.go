package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"gatelog/internal/gatelog/service"
	"gatelog/internal/gatelog/store"
	"gatelog/internal/gatelog/store/memory"
	"gatelog/internal/gatelog/types"
)

func seedEvent(t *testing.T, events *memory.AccessLogStore, uid string, dir types.Direction, at time.Time, authorized bool) {
	t.Helper()
	_, err := events.Append(context.Background(), store.AccessEventRecord{
		UID:        uid,
		Direction:  dir,
		DeviceName: "gate-front",
		DeviceTime: at.Format("2006-01-02T15:04"),
		ServerTime: at,
		Authorized: authorized,
	})
	if err != nil {
		t.Fatalf("seed event: %v", err)
	}
}

func TestStats_SingleDay_ZeroFilledAndAuthorizedOnly(t *testing.T) {
	events := memory.NewAccessLogStore(nil)
	svc := service.NewQueryService(events)

	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		seedEvent(t, events, "A", types.DirectionIn, day.Add(time.Duration(i)*time.Hour), true)
	}
	// Unauthorized traffic on the same day must not count.
	seedEvent(t, events, "B", types.DirectionOut, day.Add(4*time.Hour), false)

	result, err := svc.Stats(context.Background(), service.StatsQuery{Date: "2026-03-01"})
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if result.Day == nil {
		t.Fatal("expected single-day result")
	}
	if result.Day.In != 3 || result.Day.Out != 0 {
		t.Errorf("expected {IN:3 OUT:0}, got {IN:%d OUT:%d}", result.Day.In, result.Day.Out)
	}
}

func TestStats_Range_SparseAscending(t *testing.T) {
	events := memory.NewAccessLogStore(nil)
	svc := service.NewQueryService(events)

	// Only the middle day of a 3-day span has events.
	day2 := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	seedEvent(t, events, "A", types.DirectionIn, day2, true)
	seedEvent(t, events, "B", types.DirectionOut, day2.Add(time.Hour), true)

	result, err := svc.Stats(context.Background(), service.StatsQuery{Start: "2026-03-01", End: "2026-03-03"})
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if len(result.Buckets) != 1 {
		t.Fatalf("expected exactly 1 bucket for the sparse range, got %d", len(result.Buckets))
	}
	b := result.Buckets[0]
	if b.Date != "2026-03-02" || b.In != 1 || b.Out != 1 {
		t.Errorf("unexpected bucket %+v", b)
	}
}

func TestStats_Range_BucketsOrderedAscending(t *testing.T) {
	events := memory.NewAccessLogStore(nil)
	svc := service.NewQueryService(events)

	// Insert out of calendar order.
	seedEvent(t, events, "A", types.DirectionIn, time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC), true)
	seedEvent(t, events, "A", types.DirectionIn, time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC), true)

	result, err := svc.Stats(context.Background(), service.StatsQuery{Start: "2026-03-01", End: "2026-03-03"})
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if len(result.Buckets) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(result.Buckets))
	}
	if result.Buckets[0].Date != "2026-03-01" || result.Buckets[1].Date != "2026-03-03" {
		t.Errorf("buckets not ascending: %+v", result.Buckets)
	}
}

func TestStats_NoParameters_Rejected(t *testing.T) {
	svc := service.NewQueryService(memory.NewAccessLogStore(nil))

	_, err := svc.Stats(context.Background(), service.StatsQuery{})
	if !errors.Is(err, service.ErrMissingParameters) {
		t.Fatalf("expected ErrMissingParameters, got %v", err)
	}
}

func TestStats_BadDate_Rejected(t *testing.T) {
	svc := service.NewQueryService(memory.NewAccessLogStore(nil))

	_, err := svc.Stats(context.Background(), service.StatsQuery{Date: "yesterday"})
	if !errors.Is(err, service.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestStats_EndBeforeStart_Rejected(t *testing.T) {
	svc := service.NewQueryService(memory.NewAccessLogStore(nil))

	_, err := svc.Stats(context.Background(), service.StatsQuery{Start: "2026-03-03", End: "2026-03-01"})
	if !errors.Is(err, service.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestLogs_NewestFirstWithRange(t *testing.T) {
	auth := memory.NewAuthorizationStore()
	_ = auth.Put(context.Background(), "A", "alice")
	events := memory.NewAccessLogStore(auth)
	svc := service.NewQueryService(events)

	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	seedEvent(t, events, "A", types.DirectionIn, base, true)
	seedEvent(t, events, "B", types.DirectionOut, base.Add(time.Hour), false)
	seedEvent(t, events, "A", types.DirectionOut, base.Add(48*time.Hour), true)

	entries, err := svc.Logs(context.Background(), "2026-03-01T00:00", "2026-03-01T23:59")
	if err != nil {
		t.Fatalf("Logs: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries in range, got %d", len(entries))
	}
	if !entries[0].ServerTime.After(entries[1].ServerTime) {
		t.Error("expected newest-first ordering")
	}
	if entries[1].Username != "alice" {
		t.Errorf("expected owner join to resolve alice, got %q", entries[1].Username)
	}
	if entries[0].Username != "unknown" {
		t.Errorf("expected orphan uid to resolve unknown, got %q", entries[0].Username)
	}
}
