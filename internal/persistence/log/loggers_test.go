package log

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"cookoutcreek.ai/internal/sim/game"
)

func TestSessionLogger_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	l := NewSessionLogger(dir)

	entries := []game.SessionEntry{
		{Tick: 0, Kind: game.SessionStart, Payload: json.RawMessage(`{"hunger":10}`)},
		{Tick: 0, Kind: game.SessionEngine, Payload: json.RawMessage(`{"type":"player_travel","distance":1}`)},
		{Tick: 1, Kind: game.SessionTick, Digest: "abc"},
		{Tick: 1, Kind: game.SessionRejected, Raw: "not json", Error: "E_PROTO_BAD_REQUEST"},
	}
	for _, e := range entries {
		if err := l.WriteSession(e); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	got, err := ReadSessionDir(SessionDir(dir))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != len(entries) {
		t.Fatalf("expected %d entries, got %d", len(entries), len(got))
	}
	for i := range entries {
		if got[i].Kind != entries[i].Kind || got[i].Tick != entries[i].Tick || got[i].Digest != entries[i].Digest || got[i].Raw != entries[i].Raw {
			t.Fatalf("entry %d mismatch: got %+v want %+v", i, got[i], entries[i])
		}
	}
}

func TestSessionLogger_RotatesHourly(t *testing.T) {
	dir := t.TempDir()
	w := newSessionLogger(dir)
	at := time.Date(2026, 3, 1, 10, 59, 0, 0, time.UTC)
	w.now = func() time.Time { return at }

	if err := w.WriteSession(game.SessionEntry{Tick: 1, Kind: game.SessionTick}); err != nil {
		t.Fatalf("write: %v", err)
	}
	at = at.Add(2 * time.Minute)
	if err := w.WriteSession(game.SessionEntry{Tick: 2, Kind: game.SessionTick}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	files, err := SessionFiles(dir)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{
		filepath.Join(dir, "session-2026-03-01-10.jsonl.zst"),
		filepath.Join(dir, "session-2026-03-01-11.jsonl.zst"),
	}
	if len(files) != 2 || files[0] != want[0] || files[1] != want[1] {
		t.Fatalf("unexpected files: %v", files)
	}
	all, err := ReadSessionDir(dir)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(all) != 2 || all[0].Tick != 1 || all[1].Tick != 2 {
		t.Fatalf("unexpected entries: %+v", all)
	}
}

func TestSessionLogger_LiveFileAndClose(t *testing.T) {
	dir := t.TempDir()
	l := NewSessionLogger(dir)
	if err := l.WriteSession(game.SessionEntry{Tick: 3, Kind: game.SessionTick, Digest: "d"}); err != nil {
		t.Fatalf("write: %v", err)
	}

	// Readable before Close.
	got, err := ReadSessionDir(SessionDir(dir))
	if err != nil {
		t.Fatalf("read live: %v", err)
	}
	if len(got) != 1 || got[0].Digest != "d" {
		t.Fatalf("unexpected live entries: %+v", got)
	}

	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
	if err := l.WriteSession(game.SessionEntry{Tick: 4}); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestSessionLogger_BadPayloadKeepsFile(t *testing.T) {
	dir := t.TempDir()
	l := NewSessionLogger(dir)
	defer l.Close()

	if err := l.WriteSession(game.SessionEntry{Kind: game.SessionEngine, Payload: json.RawMessage(`{`)}); err == nil {
		t.Fatalf("expected encode error")
	}
	if err := l.WriteSession(game.SessionEntry{Tick: 1, Kind: game.SessionTick}); err != nil {
		t.Fatalf("write after failure: %v", err)
	}
	got, err := ReadSessionDir(SessionDir(dir))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != 1 || got[0].Tick != 1 {
		t.Fatalf("unexpected entries: %+v", got)
	}
}

func TestReadSessionDir_Empty(t *testing.T) {
	if _, err := ReadSessionDir(t.TempDir()); err == nil {
		t.Fatalf("expected error for empty dir")
	}
}
