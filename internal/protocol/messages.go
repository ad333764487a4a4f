package protocol

import (
	"encoding/json"
	"errors"
)

// HELLO (hud -> server)
type HelloMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	ClientName      string `json:"client_name,omitempty"`
	MaxQueue        int    `json:"max_queue,omitempty"`
}

// WELCOME (server -> hud)
type WelcomeMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	SessionID       string `json:"session_id"`
	TickRateHz      int    `json:"tick_rate_hz"`
	CatalogDigest   string `json:"catalog_digest,omitempty"`
	TuningDigest    string `json:"tuning_digest,omitempty"`
}

// STATE (server -> hud). State is the JSON-encoded game state.
type StateMsg struct {
	Type            string          `json:"type"`
	ProtocolVersion string          `json:"protocol_version"`
	Tick            uint64          `json:"tick"`
	State           json.RawMessage `json:"state"`
}

// CONTEXT_MENU (server -> hud), forwarded from the engine.
type ContextMenuMsg struct {
	Type            string          `json:"type"`
	ProtocolVersion string          `json:"protocol_version"`
	ScreenPoint     ScreenPoint     `json:"screen_point"`
	Actions         []ContextAction `json:"actions"`
}

// Intent names (hud -> server).
const (
	IntentGoToPoint  = "go_to_point"
	IntentGoToObject = "go_to_object"
	IntentPickUp     = "pick_up"
	IntentConsume    = "consume"
	IntentDrop       = "drop"
	IntentSetScene   = "set_scene"
)

// INTENT (hud -> server)
type IntentMsg struct {
	Type            string  `json:"type"`
	ProtocolVersion string  `json:"protocol_version,omitempty"`
	ID              string  `json:"id"`
	Intent          string  `json:"intent"`
	Point           *Vec3   `json:"point,omitempty"`
	ObjectID        string  `json:"object_id,omitempty"`
	Consumable      string  `json:"consumable,omitempty"`
	Amount          float64 `json:"amount"`
	Scene           string  `json:"scene,omitempty"`
}

// DecodeIntent validates raw against the intent schema and decodes it.
func DecodeIntent(raw []byte) (IntentMsg, error) {
	var m IntentMsg
	if err := Validate(SchemaIntent, raw); err != nil {
		return m, err
	}
	if err := json.Unmarshal(raw, &m); err != nil {
		return m, newError(ErrProtoBadRequest, "decode intent", err)
	}
	return m, nil
}

// DecodeHello validates raw against the hello schema and decodes it.
func DecodeHello(raw []byte) (HelloMsg, error) {
	var m HelloMsg
	if err := Validate(SchemaHello, raw); err != nil {
		return m, err
	}
	if err := json.Unmarshal(raw, &m); err != nil {
		return m, newError(ErrProtoBadRequest, "decode hello", err)
	}
	return m, nil
}

// ACK (server -> hud)
type AckMsg struct {
	Type            string  `json:"type"`
	ProtocolVersion string  `json:"protocol_version"`
	AckFor          string  `json:"ack_for"`
	Accepted        bool    `json:"accepted"`
	Code            string  `json:"code,omitempty"`
	Message         string  `json:"message,omitempty"`
	Amount          float64 `json:"amount,omitempty"`
	Tick            uint64  `json:"tick,omitempty"`
}

func NewAck(id string) AckMsg {
	return AckMsg{Type: TypeAck, ProtocolVersion: Version, AckFor: id, Accepted: true}
}

// Reject returns a copy of a marked as rejected with the code carried by err,
// or E_BAD_REQUEST when err carries no known code.
func (a AckMsg) Reject(err error) AckMsg {
	a.Accepted = false
	a.Code = ErrBadRequest
	a.Message = err.Error()
	var pe *Error
	if errors.As(err, &pe) && pe.Code != "" && IsKnownCode(pe.Code) {
		a.Code = pe.Code
	}
	return a
}
