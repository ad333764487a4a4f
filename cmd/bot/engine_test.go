package main

import (
	"encoding/json"
	"math"
	"math/rand"
	"testing"

	"cookoutcreek.ai/internal/protocol"
)

func decode(t *testing.T, b []byte) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("bad event %s: %v", b, err)
	}
	return m
}

func TestEngine_EventsPassSchemas(t *testing.T) {
	e := newEngine(rand.New(rand.NewSource(1)))
	e.handle([]byte(`{"action":"go_to_point","point":{"x":3,"y":0,"z":4}}`))
	e.handle([]byte(`{"action":"consume_consumable","consumable":"burger","amount":1,"time_remaining":15}`))
	out, _ := e.handle([]byte(`{"action":"pick_up","id":"root_beer_2"}`))
	out = append(out, e.step(1)...)
	out = append(out, e.find()...)
	if len(out) != 5 {
		t.Fatalf("expected 5 events, got %d", len(out))
	}
	for _, b := range out {
		if _, err := protocol.DecodeEvent(b); err != nil {
			t.Fatalf("event %s rejected: %v", b, err)
		}
	}
	if m := decode(t, out[0]); m["object_type"] != "root_beer" {
		t.Fatalf("unexpected pickup %v", m)
	}
}

func TestEngine_WalksToTarget(t *testing.T) {
	e := newEngine(rand.New(rand.NewSource(1)))
	e.handle([]byte(`{"action":"initialize","speed":2}`))
	e.handle([]byte(`{"action":"go_to_point","point":{"x":3,"y":0,"z":4}}`))

	total := 0.0
	for i := 0; i < 10 && e.target != nil; i++ {
		for _, b := range e.step(1) {
			if m := decode(t, b); m["type"] == "player_travel" {
				total += m["distance"].(float64)
			}
		}
	}
	if e.target != nil || math.Abs(total-5) > 1e-9 {
		t.Fatalf("expected arrival after 5 units, travelled %v target=%v", total, e.target)
	}
	if e.pos != (protocol.Vec3{X: 3, Z: 4}) {
		t.Fatalf("unexpected final position %v", e.pos)
	}
}

func TestEngine_ConsumesForTimeRemaining(t *testing.T) {
	e := newEngine(rand.New(rand.NewSource(1)))
	e.handle([]byte(`{"action":"consume_consumable","consumable":"root_beer","amount":0.25,"time_remaining":2.5}`))
	elapsed := 0.0
	for i := 0; i < 5; i++ {
		for _, b := range e.step(1) {
			elapsed += decode(t, b)["time"].(float64)
		}
	}
	if elapsed != 2.5 || e.consuming != "" {
		t.Fatalf("expected 2.5s consumed, got %v (consuming=%q)", elapsed, e.consuming)
	}
}

func TestObjectType(t *testing.T) {
	cases := map[string]string{
		"burger_3":    "burger",
		"root_beer_0": "root_beer",
		"root_beer":   "root_beer",
		"weiner":      "weiner",
	}
	for id, want := range cases {
		if got := objectType(id); got != want {
			t.Fatalf("objectType(%q) = %q want %q", id, got, want)
		}
	}
}
