package main

import (
	"context"
	"io"
	"log"
	"path/filepath"
	"strings"
	"testing"

	"cookoutcreek.ai/internal/persistence/kvstore"
	"cookoutcreek.ai/internal/persistence/snapshot"
	"cookoutcreek.ai/internal/persistence/statestore"
	"cookoutcreek.ai/internal/sim/catalogs"
	"cookoutcreek.ai/internal/sim/game"
	"cookoutcreek.ai/internal/sim/player"
)

func TestIsLoopbackRemote(t *testing.T) {
	cases := map[string]bool{
		"127.0.0.1:5555": true,
		"[::1]:80":       true,
		"10.0.0.2:80":    false,
		"garbage":        false,
	}
	for addr, want := range cases {
		if got := isLoopbackRemote(addr); got != want {
			t.Fatalf("isLoopbackRemote(%q) = %v want %v", addr, got, want)
		}
	}
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("CC_TEST_BOOL", "false")
	t.Setenv("CC_TEST_INT", "12")
	t.Setenv("CC_TEST_BAD_INT", "-3")
	if envBool("CC_TEST_BOOL", true) {
		t.Fatalf("expected false")
	}
	if !envBool("CC_TEST_UNSET", true) {
		t.Fatalf("expected default true")
	}
	if envInt("CC_TEST_INT", 1) != 12 || envInt("CC_TEST_BAD_INT", 7) != 7 {
		t.Fatalf("unexpected envInt results")
	}
}

func TestWriteMetrics(t *testing.T) {
	var b strings.Builder
	s := player.New()
	writeMetrics(&b, game.Metrics{Tick: 42, Engines: 1, HUDs: 2}, s, nil)
	out := b.String()
	for _, want := range []string{
		"cookout_tick 42\n",
		`cookout_connections{kind="hud"} 2`,
		`cookout_player_vital{vital="hunger"} 10.0000`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("metrics missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "cookout_state_writes_total") {
		t.Fatalf("persist stats should be omitted without a persister")
	}
}

func TestInitialState(t *testing.T) {
	logger := log.New(io.Discard, "", 0)
	rules := player.DefaultRules()
	store := &memoryBackend{MemoryStore: kvstore.NewMemoryStore()}

	s, err := initialState(store, rules, "", false, logger)
	if err != nil {
		t.Fatalf("fresh: %v", err)
	}
	if !s.Equal(player.Normalize(player.New(), rules)) {
		t.Fatalf("expected fresh state, got %+v", s)
	}

	stored := player.New()
	stored.Inventory = stored.Inventory.With(catalogs.Weiner, 3)
	stored = player.Normalize(stored, rules)
	if err := statestore.Put(context.Background(), store, stored); err != nil {
		t.Fatalf("put: %v", err)
	}
	s, err = initialState(store, rules, "", false, logger)
	if err != nil || !s.Equal(stored) {
		t.Fatalf("expected stored state, got %+v err=%v", s, err)
	}

	snapState := player.New()
	snapState.Inventory = snapState.Inventory.With(catalogs.RootBeer, 2)
	snapState = player.Normalize(snapState, rules)
	g := game.New(game.Config{TickRateHz: 1}, rules, snapState)
	path := filepath.Join(t.TempDir(), "7.snap.zst")
	if err := snapshot.WriteSnapshot(path, g.ExportSnapshot(7)); err != nil {
		t.Fatalf("write snapshot: %v", err)
	}
	s, err = initialState(store, rules, path, false, logger)
	if err != nil || s.Inventory.Count(catalogs.RootBeer) != 2 || s.Inventory.Count(catalogs.Weiner) != 0 {
		t.Fatalf("expected snapshot state, got %+v err=%v", s, err)
	}

	s, err = initialState(store, rules, "", true, logger)
	if err != nil || s.Inventory.Count(catalogs.Weiner) != 0 {
		t.Fatalf("expected reset state, got %+v err=%v", s, err)
	}
	if _, ok, _ := statestore.Load(context.Background(), store, rules); ok {
		t.Fatalf("expected stored state cleared")
	}
}

func TestMemoryBackendSnapshots(t *testing.T) {
	m := &memoryBackend{MemoryStore: kvstore.NewMemoryStore()}
	m.RecordSnapshot(5, "a", "x")
	m.RecordSnapshot(9, "b", "y")
	m.RecordSnapshot(7, "c", "z")
	recs, err := m.Snapshots(context.Background(), 2)
	if err != nil || len(recs) != 2 || recs[0].Tick != 9 || recs[1].Tick != 7 {
		t.Fatalf("unexpected records %+v err=%v", recs, err)
	}
}
