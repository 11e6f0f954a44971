package rendercache

import (
	"context"
	"path/filepath"
	"testing"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(context.Background(), filepath.Join(t.TempDir(), "cache", "render.db"))
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestLookupMissReturnsNotFound(t *testing.T) {
	store := testStore(t)
	_, found, err := store.Lookup(context.Background(), "deadbeef")
	if err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}
	if found {
		t.Fatal("expected miss")
	}
}

func TestRecordAndLookup(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	if err := store.Record(ctx, "hash1", "card-1", "front", []byte("png bytes")); err != nil {
		t.Fatalf("Record returned error: %v", err)
	}
	data, found, err := store.Lookup(ctx, "hash1")
	if err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}
	if !found || string(data) != "png bytes" {
		t.Fatalf("Lookup = %q, found=%v", data, found)
	}
}

func TestRecordReplacesStaleEntryForSameSide(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	if err := store.Record(ctx, "old", "card-1", "front", []byte("old")); err != nil {
		t.Fatal(err)
	}
	if err := store.Record(ctx, "new", "card-1", "front", []byte("new")); err != nil {
		t.Fatal(err)
	}

	if _, found, _ := store.Lookup(ctx, "old"); found {
		t.Fatal("stale entry still present")
	}
	data, found, err := store.Lookup(ctx, "new")
	if err != nil || !found || string(data) != "new" {
		t.Fatalf("fresh entry missing: %q %v %v", data, found, err)
	}
}

func TestClear(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	if err := store.Record(ctx, "hash1", "card-1", "back", []byte("x")); err != nil {
		t.Fatal(err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear returned error: %v", err)
	}
	if _, found, _ := store.Lookup(ctx, "hash1"); found {
		t.Fatal("entry survived Clear")
	}
}
