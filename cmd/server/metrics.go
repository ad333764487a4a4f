package main

import (
	"fmt"
	"io"

	"cookoutcreek.ai/internal/sim/game"
	"cookoutcreek.ai/internal/sim/player"
)

type persistStats interface {
	Saved() uint64
	Failed() uint64
}

// writeMetrics renders the Prometheus text exposition format.
func writeMetrics(w io.Writer, m game.Metrics, s player.State, ps persistStats) {
	fmt.Fprintf(w, "# HELP cookout_tick Current game tick.\n")
	fmt.Fprintf(w, "# TYPE cookout_tick gauge\n")
	fmt.Fprintf(w, "cookout_tick %d\n", m.Tick)

	fmt.Fprintf(w, "# HELP cookout_connections Connected clients by kind.\n")
	fmt.Fprintf(w, "# TYPE cookout_connections gauge\n")
	fmt.Fprintf(w, "cookout_connections{kind=%q} %d\n", "engine", m.Engines)
	fmt.Fprintf(w, "cookout_connections{kind=%q} %d\n", "hud", m.HUDs)

	fmt.Fprintf(w, "# HELP cookout_queue_depth Channel backlog depth.\n")
	fmt.Fprintf(w, "# TYPE cookout_queue_depth gauge\n")
	fmt.Fprintf(w, "cookout_queue_depth{queue=%q} %d\n", "inbox", m.QueueDepths.Inbox)
	fmt.Fprintf(w, "cookout_queue_depth{queue=%q} %d\n", "attach", m.QueueDepths.Attach)
	fmt.Fprintf(w, "cookout_queue_depth{queue=%q} %d\n", "hud_join", m.QueueDepths.HUDJoin)

	fmt.Fprintf(w, "# HELP cookout_step_ms Last tick step duration in milliseconds.\n")
	fmt.Fprintf(w, "# TYPE cookout_step_ms gauge\n")
	fmt.Fprintf(w, "cookout_step_ms %.3f\n", m.StepMS)

	fmt.Fprintf(w, "# HELP cookout_messages_total Inbound messages by outcome.\n")
	fmt.Fprintf(w, "# TYPE cookout_messages_total counter\n")
	fmt.Fprintf(w, "cookout_messages_total{kind=%q} %d\n", "engine", m.EngineEvents)
	fmt.Fprintf(w, "cookout_messages_total{kind=%q} %d\n", "intent", m.Intents)
	fmt.Fprintf(w, "cookout_messages_total{kind=%q} %d\n", "rejected", m.Rejected)
	fmt.Fprintf(w, "cookout_messages_total{kind=%q} %d\n", "dropped", m.Dropped)

	fmt.Fprintf(w, "# HELP cookout_player_vital Player hunger and thirst.\n")
	fmt.Fprintf(w, "# TYPE cookout_player_vital gauge\n")
	fmt.Fprintf(w, "cookout_player_vital{vital=%q} %.4f\n", "hunger", s.Hunger)
	fmt.Fprintf(w, "cookout_player_vital{vital=%q} %.4f\n", "thirst", s.Thirst)

	fmt.Fprintf(w, "# HELP cookout_player_speed Current player speed.\n")
	fmt.Fprintf(w, "# TYPE cookout_player_speed gauge\n")
	fmt.Fprintf(w, "cookout_player_speed %.4f\n", s.Speed)

	fmt.Fprintf(w, "# HELP cookout_player_level Skill levels.\n")
	fmt.Fprintf(w, "# TYPE cookout_player_level gauge\n")
	fmt.Fprintf(w, "cookout_player_level{skill=%q} %d\n", "walking", s.WalkingSkill.Level)
	fmt.Fprintf(w, "cookout_player_level{skill=%q} %d\n", "carrying", s.CarryingSkill.Level)

	if ps == nil {
		return
	}
	fmt.Fprintf(w, "# HELP cookout_state_writes_total State store writes by outcome.\n")
	fmt.Fprintf(w, "# TYPE cookout_state_writes_total counter\n")
	fmt.Fprintf(w, "cookout_state_writes_total{result=%q} %d\n", "ok", ps.Saved())
	fmt.Fprintf(w, "cookout_state_writes_total{result=%q} %d\n", "error", ps.Failed())
}
