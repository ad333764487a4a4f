package protocol

import (
	"encoding/json"
	"strings"
)

// EventKind identifies an inbound engine event by the suffix of its type.
type EventKind string

const (
	EventContextMenu    EventKind = "oncontextmenu"
	EventPickup         EventKind = "onpickup"
	EventCameraPosition EventKind = "camera_position_update"
	EventLocation       EventKind = "location_update"
	EventTravel         EventKind = "travel"
	EventConsume        EventKind = "consume"
)

var eventKinds = []EventKind{
	EventCameraPosition,
	EventLocation,
	EventContextMenu,
	EventPickup,
	EventTravel,
	EventConsume,
}

var eventSchemas = map[EventKind]string{
	EventContextMenu:    SchemaContextMenu,
	EventPickup:         SchemaPickup,
	EventCameraPosition: SchemaPosition,
	EventLocation:       SchemaPosition,
	EventTravel:         SchemaTravel,
	EventConsume:        SchemaConsume,
}

// KindOf maps an engine event type such as "player_onpickup" to its kind.
// A bare kind name without a prefix also matches.
func KindOf(typ string) (EventKind, bool) {
	for _, k := range eventKinds {
		s := string(k)
		if typ == s || strings.HasSuffix(typ, "_"+s) {
			return k, true
		}
	}
	return "", false
}

// ContextAction is one entry of a context menu offered by the engine.
type ContextAction struct {
	Action      string       `json:"action"`
	ID          string       `json:"id,omitempty"`
	Point       *Vec3        `json:"point,omitempty"`
	ScreenPoint *ScreenPoint `json:"screen_point,omitempty"`
}

// EngineEvent is a validated inbound engine message. Only the fields that
// belong to Kind are populated.
type EngineEvent struct {
	Type string    `json:"type"`
	Kind EventKind `json:"-"`

	// oncontextmenu
	ScreenPoint ScreenPoint     `json:"screen_point"`
	Actions     []ContextAction `json:"actions,omitempty"`

	// onpickup
	ObjectType string   `json:"object_type,omitempty"`
	Quantity   *float64 `json:"quantity,omitempty"`

	// camera_position_update, location_update
	Position Vec3 `json:"position"`

	// travel
	Distance float64 `json:"distance,omitempty"`

	// consume
	Time float64 `json:"time,omitempty"`
}

// PickupQuantity returns the pickup quantity, defaulting to one.
func (e EngineEvent) PickupQuantity() float64 {
	if e.Quantity == nil {
		return 1
	}
	return *e.Quantity
}

// DecodeEvent routes raw by its type suffix, validates it against the
// matching schema and decodes it.
func DecodeEvent(raw []byte) (EngineEvent, error) {
	var ev EngineEvent
	base, err := DecodeBase(raw)
	if err != nil {
		return ev, newError(ErrProtoBadRequest, "decode type", err)
	}
	kind, ok := KindOf(base.Type)
	if !ok {
		return ev, newError(ErrUnknownType, "unknown event type "+base.Type, nil)
	}
	if err := Validate(eventSchemas[kind], raw); err != nil {
		return ev, err
	}
	if err := json.Unmarshal(raw, &ev); err != nil {
		return ev, newError(ErrProtoBadRequest, "decode event", err)
	}
	ev.Kind = kind
	return ev, nil
}
