package game

import (
	"encoding/json"
	"errors"
	"fmt"

	"cookoutcreek.ai/internal/sim/player"
)

type ReplayResult struct {
	Starts      int
	Ticks       int
	Engine      int
	Intents     int
	FinalDigest string
}

// Replay re-runs a session log. Each start entry resets the game to the
// recorded state; engine and intent entries are re-applied and every tick
// digest must match the recorded one.
func Replay(entries []SessionEntry, cfg Config, rules player.Rules) (ReplayResult, error) {
	var res ReplayResult
	var g *Game
	for i, e := range entries {
		if e.Kind == SessionStart {
			var s player.State
			if err := json.Unmarshal(e.Payload, &s); err != nil {
				return res, fmt.Errorf("entry %d: start state: %w", i, err)
			}
			g = New(cfg, rules, s)
			g.tick.Store(e.Tick)
			res.Starts++
			continue
		}
		if g == nil {
			continue
		}
		switch e.Kind {
		case SessionEngine:
			g.HandleEngineMessage(entryInput(e))
			res.Engine++
		case SessionIntent:
			g.HandleIntent(entryInput(e))
			res.Intents++
		case SessionTick:
			tick, digest := g.StepOnce()
			if tick != e.Tick {
				return res, fmt.Errorf("entry %d: tick %d, recorded %d", i, tick, e.Tick)
			}
			if digest != e.Digest {
				return res, fmt.Errorf("entry %d: digest mismatch at tick %d", i, tick)
			}
			res.Ticks++
			res.FinalDigest = digest
		}
	}
	if res.Starts == 0 {
		return res, errors.New("no start entry in session log")
	}
	if g != nil && res.FinalDigest == "" {
		d, err := g.state.Digest()
		if err != nil {
			return res, err
		}
		res.FinalDigest = d
	}
	return res, nil
}

func entryInput(e SessionEntry) []byte {
	if len(e.Payload) > 0 {
		return e.Payload
	}
	return []byte(e.Raw)
}
