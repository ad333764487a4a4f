package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	persistlog "cookoutcreek.ai/internal/persistence/log"
	"cookoutcreek.ai/internal/sim/catalogs"
	"cookoutcreek.ai/internal/sim/game"
	"cookoutcreek.ai/internal/sim/player"
)

func TestLoadRules_Defaults(t *testing.T) {
	rules, err := loadRules(t.TempDir())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	def := player.DefaultRules()
	if rules.Tuning.Digest() != def.Tuning.Digest() || rules.Catalog.Digest != def.Catalog.Digest {
		t.Fatalf("expected default rules")
	}
}

func TestLoadRules_BadTuning(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "tuning.yaml"), []byte("tick_rate_hz: 0\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := loadRules(dir); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestReplayFromSessionLog(t *testing.T) {
	dir := t.TempDir()
	rules := player.DefaultRules()
	logger := persistlog.NewSessionLogger(dir)

	g := game.New(game.Config{TickRateHz: 1}, rules, player.New())
	g.SetSessionLogger(logger)
	g.StartSession()
	g.HandleEngineMessage([]byte(`{"type":"player_onpickup","object_type":"burger","quantity":3}`))
	g.StepOnce()
	g.HandleIntent([]byte(`{"type":"INTENT","id":"a","intent":"consume","consumable":"burger","amount":1}`))
	g.HandleEngineMessage([]byte(`{"type":"player_consume","time":5}`))
	g.StepOnce()
	if err := logger.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	entries, err := persistlog.ReadSessionDir(persistlog.SessionDir(dir))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	res, err := game.Replay(entries, game.Config{TickRateHz: 1}, rules)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	final, err := g.State().Digest()
	if err != nil {
		t.Fatalf("digest: %v", err)
	}
	if res.Ticks != 2 || res.Engine != 2 || res.Intents != 1 || res.FinalDigest != final {
		t.Fatalf("unexpected replay result %+v", res)
	}
	if got := g.State().Inventory.Count(catalogs.Burger); got >= 3 {
		t.Fatalf("expected some burger consumed, have %v", got)
	}
}

func TestDescribeSnapshot(t *testing.T) {
	s := player.New()
	s.Inventory = s.Inventory.With(catalogs.Weiner, 2)
	g := game.New(game.Config{TickRateHz: 1}, player.DefaultRules(), s)
	out := describeSnapshot(g.ExportSnapshot(12))
	if !strings.Contains(out, "tick=12") || !strings.Contains(out, "weiner=2.00") {
		t.Fatalf("unexpected summary %q", out)
	}
}
