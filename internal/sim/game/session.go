package game

import (
	"encoding/json"
	"time"
)

// Session log entry kinds.
const (
	SessionStart    = "start"    // Payload: full state
	SessionEngine   = "engine"   // Payload: raw engine message
	SessionIntent   = "intent"   // Payload: raw HUD intent
	SessionTick     = "tick"     // Digest: state digest after the tick
	SessionOutbound = "outbound" // Payload: encoded action
	SessionRejected = "rejected" // Payload/Raw: the input, Error: why
)

// SessionEntry is one line of the session log. Replaying the engine, intent
// and tick entries in order against the start state reproduces every digest.
type SessionEntry struct {
	Tick    uint64          `json:"tick"`
	Time    int64           `json:"time_unix_ms"`
	Kind    string          `json:"kind"`
	Payload json.RawMessage `json:"payload,omitempty"`
	Raw     string          `json:"raw,omitempty"`
	Digest  string          `json:"digest,omitempty"`
	Error   string          `json:"error,omitempty"`
}

type SessionLogger interface {
	WriteSession(entry SessionEntry) error
}

// StartSession records the current state as a start entry. Run calls it
// once; callers driving the game with StepOnce call it themselves.
func (g *Game) StartSession() {
	if b, err := json.Marshal(g.state); err == nil {
		g.writeSession(SessionEntry{Kind: SessionStart, Payload: b})
	}
}

func (g *Game) writeSession(e SessionEntry) {
	if g.sessionLog == nil {
		return
	}
	e.Tick = g.tick.Load()
	e.Time = time.Now().UnixMilli()
	if err := g.sessionLog.WriteSession(e); err != nil {
		g.logf("session log: %v", err)
	}
}

// withPayload stores raw as JSON when it is valid JSON, else as a string.
func withPayload(e SessionEntry, raw []byte) SessionEntry {
	if json.Valid(raw) {
		e.Payload = append(json.RawMessage(nil), raw...)
	} else {
		e.Raw = string(raw)
	}
	return e
}
