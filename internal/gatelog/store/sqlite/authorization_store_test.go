package sqlite_test

import (
	"context"
	"testing"
)

func TestAuthorizationStore_PutAndLookup(t *testing.T) {
	_, auth := newTestStores(t)
	ctx := context.Background()

	if err := auth.Put(ctx, "04A1B2C3", "alice"); err != nil {
		t.Fatalf("Put: %v", err)
	}

	username, ok, err := auth.Lookup(ctx, "04A1B2C3")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if !ok || username != "alice" {
		t.Errorf("expected (alice, true), got (%q, %v)", username, ok)
	}

	_, ok, err = auth.Lookup(ctx, "FFFFFFFF")
	if err != nil {
		t.Fatalf("Lookup absent: %v", err)
	}
	if ok {
		t.Error("expected ok=false for an absent uid")
	}
}

func TestAuthorizationStore_Put_ExistingEntryWins(t *testing.T) {
	_, auth := newTestStores(t)
	ctx := context.Background()

	if err := auth.Put(ctx, "04A1B2C3", "alice"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	// Second insert for the same uid is a no-op, not an overwrite.
	if err := auth.Put(ctx, "04A1B2C3", "mallory"); err != nil {
		t.Fatalf("Put again: %v", err)
	}

	username, _, err := auth.Lookup(ctx, "04A1B2C3")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if username != "alice" {
		t.Errorf("expected alice to survive, got %q", username)
	}
}

func TestAuthorizationStore_RenameAndDelete(t *testing.T) {
	_, auth := newTestStores(t)
	ctx := context.Background()

	if err := auth.Put(ctx, "04A1B2C3", "alice"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := auth.Rename(ctx, "04A1B2C3", "alice-2"); err != nil {
		t.Fatalf("Rename: %v", err)
	}

	username, _, _ := auth.Lookup(ctx, "04A1B2C3")
	if username != "alice-2" {
		t.Errorf("expected alice-2, got %q", username)
	}

	if err := auth.Rename(ctx, "FFFFFFFF", "ghost"); err == nil {
		t.Error("expected Rename of an absent uid to fail")
	}

	if err := auth.Delete(ctx, "04A1B2C3"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := auth.Lookup(ctx, "04A1B2C3"); ok {
		t.Error("expected entry gone after Delete")
	}
}

func TestAuthorizationStore_List_OrderedByUsername(t *testing.T) {
	_, auth := newTestStores(t)
	ctx := context.Background()

	_ = auth.Put(ctx, "CCCC", "carol")
	_ = auth.Put(ctx, "AAAA", "alice")
	_ = auth.Put(ctx, "BBBB", "bob")

	entries, err := auth.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	for i, want := range []string{"alice", "bob", "carol"} {
		if entries[i].Username != want {
			t.Errorf("entry %d: expected %s, got %s", i, want, entries[i].Username)
		}
	}
}
