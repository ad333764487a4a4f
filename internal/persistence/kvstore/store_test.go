package kvstore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func testStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	if _, ok, err := s.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("get missing: ok=%v err=%v", ok, err)
	}
	if err := s.Put(ctx, "game-state", []byte(`{"hunger":10}`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := s.Put(ctx, "game-state", []byte(`{"hunger":11}`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	v, ok, err := s.Get(ctx, "game-state")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if string(v) != `{"hunger":11}` {
		t.Fatalf("unexpected value %s", v)
	}
	if err := s.Delete(ctx, "game-state"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := s.Get(ctx, "game-state"); ok {
		t.Fatalf("expected key gone after delete")
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := s.Put(ctx, "k", nil); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	testStore(t, NewMemoryStore())
}

func TestSQLiteStore(t *testing.T) {
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "state.sqlite"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	testStore(t, s)
}

func TestSQLiteStore_PersistsAcrossOpen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "state.sqlite")

	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.Put(ctx, "game-state", []byte("v1")); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := s.SetMeta(ctx, map[string]string{"tuning_digest": "abc"}); err != nil {
		t.Fatalf("meta: %v", err)
	}
	s.RecordSnapshot(10, "/data/snapshots/10.snap.zst", "d10")
	s.RecordSnapshot(20, "/data/snapshots/20.snap.zst", "d20")
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	// Second close is a no-op.
	if err := s.Close(); err != nil {
		t.Fatalf("close again: %v", err)
	}

	s, err = OpenSQLite(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	v, ok, err := s.Get(ctx, "game-state")
	if err != nil || !ok || string(v) != "v1" {
		t.Fatalf("get after reopen: %q ok=%v err=%v", v, ok, err)
	}
	if d, ok, err := s.Meta(ctx, "tuning_digest"); err != nil || !ok || d != "abc" {
		t.Fatalf("meta after reopen: %q ok=%v err=%v", d, ok, err)
	}
	snaps, err := s.Snapshots(ctx, 10)
	if err != nil {
		t.Fatalf("snapshots: %v", err)
	}
	if len(snaps) != 2 || snaps[0].Tick != 20 || snaps[1].Digest != "d10" {
		t.Fatalf("unexpected snapshot index: %+v", snaps)
	}
}
