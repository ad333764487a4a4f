package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	persistlog "cookoutcreek.ai/internal/persistence/log"
	"cookoutcreek.ai/internal/persistence/snapshot"
	"cookoutcreek.ai/internal/sim/catalogs"
	"cookoutcreek.ai/internal/sim/game"
	"cookoutcreek.ai/internal/sim/player"
	"cookoutcreek.ai/internal/sim/tuning"
)

func main() {
	var (
		dataDir     = flag.String("data", "./data", "runtime data directory (reads <data>/session)")
		sessionFile = flag.String("file", "", "replay a single session-*.jsonl.zst file instead of the whole directory")
		configDir   = flag.String("configs", "./configs", "config directory")
		snapPath    = flag.String("snapshot", "", "print a snapshot summary and exit (optional)")
	)
	flag.Parse()

	if *snapPath != "" {
		snap, err := snapshot.ReadSnapshot(*snapPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "read snapshot:", err)
			os.Exit(1)
		}
		fmt.Println(describeSnapshot(snap))
		return
	}

	rules, err := loadRules(*configDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "load rules:", err)
		os.Exit(1)
	}

	var entries []game.SessionEntry
	if *sessionFile != "" {
		entries, err = persistlog.ReadSessionFile(*sessionFile)
	} else {
		entries, err = persistlog.ReadSessionDir(persistlog.SessionDir(*dataDir))
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "read session log:", err)
		os.Exit(1)
	}

	res, err := game.Replay(entries, game.Config{TickRateHz: rules.Tuning.TickRateHz}, rules)
	if err != nil {
		fmt.Fprintln(os.Stderr, "replay:", err)
		os.Exit(1)
	}
	fmt.Printf("replay ok: starts=%d ticks=%d engine=%d intents=%d final_digest=%s\n",
		res.Starts, res.Ticks, res.Engine, res.Intents, res.FinalDigest)
}

// loadRules reads the same tables the server reads; missing files fall back
// to the built-in defaults.
func loadRules(configDir string) (player.Rules, error) {
	tune, err := tuning.Load(filepath.Join(configDir, "tuning.yaml"))
	if err != nil {
		if !os.IsNotExist(err) {
			return player.Rules{}, err
		}
		tune = tuning.Defaults()
	}
	cat, err := catalogs.Load(filepath.Join(configDir, "consumables.json"))
	if err != nil {
		return player.Rules{}, err
	}
	return player.Rules{Tuning: tune, Catalog: cat}, nil
}

func describeSnapshot(snap snapshot.SnapshotV1) string {
	p := snap.Player
	var inv []string
	for _, k := range catalogs.All() {
		inv = append(inv, fmt.Sprintf("%s=%.2f", k, p.Inventory[k.String()]))
	}
	return fmt.Sprintf("snapshot v%d tick=%d tick_rate_hz=%d hunger=%.2f thirst=%.2f walking_xp=%.1f carrying_xp=%.1f inventory=[%s] scene=%s",
		snap.Header.Version, snap.Header.Tick, snap.TickRateHz, p.Hunger, p.Thirst, p.WalkingXP, p.CarryingXP, strings.Join(inv, " "), p.Scene)
}
