package tasks

import (
	"encoding/json"
	"fmt"

	"cookoutcreek.ai/internal/protocol"
	"cookoutcreek.ai/internal/sim/catalogs"
)

type Kind string

const (
	KindGoToPoint  Kind = "go_to_point"
	KindGoToObject Kind = "go_to_object"
	KindPickUp     Kind = "pick_up"
	KindConsume    Kind = "consume"
)

// Task is the player's single current occupation. Only the fields of Kind
// are meaningful; use the constructors.
type Task struct {
	Kind Kind

	// go_to_point
	Point protocol.Vec3
	// go_to_object, pick_up
	Object string
	// consume
	Consumable catalogs.Consumable
	Amount     float64
}

func GoToPoint(p protocol.Vec3) *Task { return &Task{Kind: KindGoToPoint, Point: p} }

func GoToObject(id string) *Task { return &Task{Kind: KindGoToObject, Object: id} }

func PickUp(id string) *Task { return &Task{Kind: KindPickUp, Object: id} }

func Consume(c catalogs.Consumable, amount float64) *Task {
	if amount < 0 {
		amount = 0
	}
	return &Task{Kind: KindConsume, Consumable: c, Amount: amount}
}

// IsConsuming reports whether t is an active consume task for c.
func (t *Task) IsConsuming(c catalogs.Consumable) bool {
	return t != nil && t.Kind == KindConsume && t.Consumable == c
}

type taskJSON struct {
	Type       string         `json:"type"`
	Point      *protocol.Vec3 `json:"point,omitempty"`
	Object     string         `json:"object,omitempty"`
	Consumable string         `json:"consumable,omitempty"`
	Amount     *float64       `json:"amount,omitempty"`
}

func (t Task) MarshalJSON() ([]byte, error) {
	out := taskJSON{Type: string(t.Kind)}
	switch t.Kind {
	case KindGoToPoint:
		p := t.Point
		out.Point = &p
	case KindGoToObject, KindPickUp:
		out.Object = t.Object
	case KindConsume:
		if !t.Consumable.Valid() {
			return nil, fmt.Errorf("task: invalid consumable %d", t.Consumable)
		}
		out.Consumable = t.Consumable.String()
		a := t.Amount
		out.Amount = &a
	default:
		return nil, fmt.Errorf("task: unknown kind %q", t.Kind)
	}
	return json.Marshal(out)
}

func (t *Task) UnmarshalJSON(b []byte) error {
	var in taskJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	switch Kind(in.Type) {
	case KindGoToPoint:
		if in.Point == nil {
			return fmt.Errorf("task %s: missing point", in.Type)
		}
		*t = *GoToPoint(*in.Point)
	case KindGoToObject:
		*t = *GoToObject(in.Object)
	case KindPickUp:
		*t = *PickUp(in.Object)
	case KindConsume:
		c, ok := catalogs.ParseConsumable(in.Consumable)
		if !ok {
			return fmt.Errorf("task consume: unknown consumable %q", in.Consumable)
		}
		amount := 0.0
		if in.Amount != nil {
			amount = *in.Amount
		}
		*t = *Consume(c, amount)
	default:
		return fmt.Errorf("task: unknown type %q", in.Type)
	}
	return nil
}
