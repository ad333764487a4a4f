package protocol

import "encoding/json"

const Version = "1.0"

// HUD session message types.
const (
	TypeHello       = "HELLO"
	TypeWelcome     = "WELCOME"
	TypeState       = "STATE"
	TypeIntent      = "INTENT"
	TypeAck         = "ACK"
	TypeContextMenu = "CONTEXT_MENU"
)

// BaseMessage lets us route unknown JSON messages by type.
type BaseMessage struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version,omitempty"`
}

func DecodeBase(b []byte) (BaseMessage, error) {
	var m BaseMessage
	err := json.Unmarshal(b, &m)
	return m, err
}

// Vec3 is a point in engine world space.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// ScreenPoint is a position in viewport pixels.
type ScreenPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}
