package main

import (
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"strings"

	"cookoutcreek.ai/internal/protocol"
	"cookoutcreek.ai/internal/sim/catalogs"
)

// engine is a headless stand-in for the game engine: it walks toward the
// last requested point, chews through consume orders and reports both as
// engine events.
type engine struct {
	rng *rand.Rand

	pos    protocol.Vec3
	speed  float64
	target *protocol.Vec3

	consuming string
	remaining float64
}

func newEngine(rng *rand.Rand) *engine {
	return &engine{rng: rng, speed: 1}
}

type inbound struct {
	Action        string         `json:"action"`
	Point         protocol.Vec3  `json:"point"`
	ID            string         `json:"id"`
	Speed         float64        `json:"speed"`
	Consumable    string         `json:"consumable"`
	Amount        float64        `json:"amount"`
	TimeRemaining float64        `json:"time_remaining"`
	Location      *protocol.Vec3 `json:"location"`
}

// handle applies one server action and returns any immediate events plus
// a short description for the log.
func (e *engine) handle(raw []byte) ([][]byte, string) {
	var a inbound
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, fmt.Sprintf("bad action: %v", err)
	}
	switch a.Action {
	case protocol.ActionInitialize:
		if a.Speed > 0 {
			e.speed = a.Speed
		}
		if a.Location != nil {
			e.pos = *a.Location
		}
		return nil, fmt.Sprintf("initialize speed=%.2f pos=%v", e.speed, e.pos)
	case protocol.ActionSetPlayerSpeed:
		e.speed = a.Speed
		return nil, fmt.Sprintf("speed=%.2f", a.Speed)
	case protocol.ActionGoToPoint:
		p := a.Point
		e.target = &p
		return nil, fmt.Sprintf("walking to %v", p)
	case protocol.ActionPickUp:
		kind := objectType(a.ID)
		return [][]byte{event(map[string]any{"type": "player_onpickup", "object_type": kind})}, "picked up " + kind
	case protocol.ActionConsumeConsumable:
		e.consuming = a.Consumable
		e.remaining = a.TimeRemaining
		return nil, fmt.Sprintf("consuming %s amount=%.2f time_remaining=%.1fs", a.Consumable, a.Amount, a.TimeRemaining)
	default:
		return nil, "ignored action " + a.Action
	}
}

// step advances the engine by dt seconds.
func (e *engine) step(dt float64) [][]byte {
	var out [][]byte
	if e.target != nil {
		d := distance(e.pos, *e.target)
		move := math.Min(e.speed*dt, d)
		if move >= d {
			e.pos = *e.target
			e.target = nil
		} else {
			f := move / d
			e.pos.X += (e.target.X - e.pos.X) * f
			e.pos.Y += (e.target.Y - e.pos.Y) * f
			e.pos.Z += (e.target.Z - e.pos.Z) * f
		}
		if move > 0 {
			out = append(out,
				event(map[string]any{"type": "player_travel", "distance": move}),
				event(map[string]any{"type": "player_location_update", "position": e.pos}),
			)
		}
	}
	if e.remaining > 0 {
		elapsed := math.Min(dt, e.remaining)
		e.remaining -= elapsed
		out = append(out, event(map[string]any{"type": "player_consume", "time": elapsed}))
		if e.remaining <= 0 {
			e.consuming = ""
		}
	}
	return out
}

// find simulates stumbling onto a random consumable.
func (e *engine) find() [][]byte {
	all := catalogs.All()
	k := all[e.rng.Intn(len(all))]
	return [][]byte{event(map[string]any{"type": "player_onpickup", "object_type": strings.ToUpper(k.String())})}
}

// wander walks to a random nearby point, as if the user clicked the ground.
func (e *engine) wander() [][]byte {
	p := protocol.Vec3{
		X: e.pos.X + float64(e.rng.Intn(15)-7),
		Y: e.pos.Y,
		Z: e.pos.Z + float64(e.rng.Intn(15)-7),
	}
	e.target = &p
	return nil
}

// objectType maps an object id such as "root_beer_3" to its type.
func objectType(id string) string {
	if i := strings.LastIndexByte(id, '_'); i > 0 {
		if _, err := fmt.Sscanf(id[i+1:], "%d", new(int)); err == nil {
			return id[:i]
		}
	}
	return id
}

func distance(a, b protocol.Vec3) float64 {
	dx, dy, dz := b.X-a.X, b.Y-a.Y, b.Z-a.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

func event(v map[string]any) []byte {
	b, _ := json.Marshal(v)
	return b
}
