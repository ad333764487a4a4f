package player

import (
	"cookoutcreek.ai/internal/protocol"
	"cookoutcreek.ai/internal/sim/catalogs"
	"cookoutcreek.ai/internal/sim/tasks"
)

// Event is an input to Reduce: a player intent, an engine notification or
// a tick.
type Event interface {
	EventName() string
}

// Intents.
type (
	GoToPoint  struct{ Point protocol.Vec3 }
	GoToObject struct{ ID string }
	PickUp     struct{ ID string }
	// Consume asks to eat or drink up to Max more units of Kind.
	Consume struct {
		Kind catalogs.Consumable
		Max  float64
	}
	Drop struct {
		Kind   catalogs.Consumable
		Amount float64
	}
	SetScene struct{ Scene string }
)

// Engine notifications.
type (
	// ConsumeProgress reports Elapsed seconds spent on the consume task.
	ConsumeProgress struct{ Elapsed float64 }
	PickedUp        struct {
		Kind     catalogs.Consumable
		Quantity float64
	}
	Travelled            struct{ Distance float64 }
	LocationUpdated      struct{ Point protocol.Vec3 }
	CameraUpdated        struct{ Point protocol.Vec3 }
	ContextMenuRequested struct {
		ScreenPoint protocol.ScreenPoint
		Actions     []protocol.ContextAction
	}
	Ticked struct{}
)

func (GoToPoint) EventName() string            { return "go_to_point" }
func (GoToObject) EventName() string           { return "go_to_object" }
func (PickUp) EventName() string               { return "pick_up" }
func (Consume) EventName() string              { return "consume" }
func (Drop) EventName() string                 { return "drop" }
func (SetScene) EventName() string             { return "set_scene" }
func (ConsumeProgress) EventName() string      { return "consume_progress" }
func (PickedUp) EventName() string             { return "picked_up" }
func (Travelled) EventName() string            { return "travelled" }
func (LocationUpdated) EventName() string      { return "location_updated" }
func (CameraUpdated) EventName() string        { return "camera_updated" }
func (ContextMenuRequested) EventName() string { return "context_menu_requested" }
func (Ticked) EventName() string               { return "ticked" }

// Result is the outcome of one transition.
type Result struct {
	State   State
	Actions []protocol.Action
	// Amount is the consume task amount after Consume and the remaining
	// count after Drop.
	Amount float64
}

// Reduce is the only way State changes. It never mutates s. Quantities are
// clamped to what is available rather than rejected. Errors are for events
// that name no valid consumable, are not known at all or would leave a
// value JSON cannot encode; on error the returned State is s.
func Reduce(s State, ev Event, r Rules) (Result, error) {
	res, err := reduce(s, ev, r)
	if err != nil {
		return Result{State: s}, err
	}
	if err := checkFinite(res.State); err != nil {
		return Result{State: s}, protocol.Errorf(protocol.ErrBadRequest, "%s: %v", ev.EventName(), err)
	}
	return res, nil
}

func reduce(s State, ev Event, r Rules) (Result, error) {
	switch e := ev.(type) {
	case GoToPoint:
		s.Task = tasks.GoToPoint(e.Point)
		return Result{State: s, Actions: []protocol.Action{protocol.NewGoToPoint(e.Point)}}, nil

	case GoToObject:
		s.Task = tasks.GoToObject(e.ID)
		return Result{State: s}, nil

	case PickUp:
		s.Task = tasks.PickUp(e.ID)
		return Result{State: s, Actions: []protocol.Action{protocol.NewPickUp(e.ID)}}, nil

	case Consume:
		if !e.Kind.Valid() {
			return Result{State: s}, unknownItem(e.Kind)
		}
		amount := min(max(e.Max, 0), s.Inventory.Count(e.Kind))
		if s.Task.IsConsuming(e.Kind) {
			amount += s.Task.Amount
		}
		s.Task = tasks.Consume(e.Kind, amount)
		timeRemaining := 0.0
		if rate := r.Catalog.Rate(e.Kind); rate > 0 {
			timeRemaining = amount / rate
		}
		act := protocol.NewConsumeConsumable(e.Kind.String(), amount, timeRemaining)
		return Result{State: s, Actions: []protocol.Action{act}, Amount: amount}, nil

	case Drop:
		if !e.Kind.Valid() {
			return Result{State: s}, unknownItem(e.Kind)
		}
		have := s.Inventory.Count(e.Kind)
		s.Inventory = s.Inventory.With(e.Kind, have-clamp(e.Amount, 0, have))
		return Result{State: s, Amount: s.Inventory.Count(e.Kind)}, nil

	case SetScene:
		s.Scene = e.Scene
		return Result{State: s}, nil

	case ConsumeProgress:
		return Result{State: consumeProgress(s, e.Elapsed, r)}, nil

	case PickedUp:
		if !e.Kind.Valid() {
			return Result{State: s}, unknownItem(e.Kind)
		}
		s.Inventory = s.Inventory.Add(e.Kind, max(e.Quantity, 0))
		return Result{State: s}, nil

	case Travelled:
		return Result{State: travelled(s, e.Distance, r)}, nil

	case LocationUpdated:
		p := e.Point
		s.Location = &p
		return Result{State: s}, nil

	case CameraUpdated:
		p := e.Point
		s.CameraLocation = &p
		return Result{State: s}, nil

	case ContextMenuRequested:
		return Result{State: s}, nil

	case Ticked:
		next, acts := Tick(s, r)
		return Result{State: next, Actions: acts}, nil

	default:
		return Result{State: s}, protocol.Errorf(protocol.ErrBadRequest, "unknown event %T", ev)
	}
}

// consumeProgress removes what was eaten during elapsed seconds. The task
// stays in place at zero; callers guard against consuming more.
func consumeProgress(s State, elapsed float64, r Rules) State {
	t := s.Task
	if t == nil || t.Kind != tasks.KindConsume || elapsed <= 0 {
		return s
	}
	def := r.Catalog.Def(t.Consumable)
	delta := min(def.Rate()*elapsed, s.Inventory.Count(t.Consumable))
	if delta <= 0 {
		return s
	}
	s.Inventory = s.Inventory.Add(t.Consumable, -delta)
	s.Hunger = clamp(s.Hunger+def.Hunger*delta, 0, 100)
	s.Thirst = clamp(s.Thirst+def.Thirst*delta, 0, 100)
	s.Task = tasks.Consume(t.Consumable, max(t.Amount-delta, 0))
	return s
}

func travelled(s State, distance float64, r Rules) State {
	if distance <= 0 {
		return s
	}
	tr := r.Tuning.Travel
	burden := r.measureLoad(s).burden
	s.WalkingSkill = r.Tuning.XP.AddXP(s.WalkingSkill, distance*tr.WalkingXPPerDistance)
	s.Thirst = clamp(s.Thirst+distance*(tr.ThirstPerDistance+burden*tr.PerDistanceBurden), 0, 100)
	s.Hunger = clamp(s.Hunger+distance*(tr.HungerPerDistance+burden*tr.PerDistanceBurden), 0, 100)
	return s
}

func unknownItem(k catalogs.Consumable) error {
	return protocol.Errorf(protocol.ErrUnknownItem, "unknown consumable %s", k)
}
