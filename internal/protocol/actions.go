package protocol

import "encoding/json"

// Outbound action names (server -> engine).
const (
	ActionGoToPoint         = "go_to_point"
	ActionPickUp            = "pick_up"
	ActionSetPlayerSpeed    = "set_player_speed"
	ActionConsumeConsumable = "consume_consumable"
	ActionInitialize        = "initialize"
)

// Action is a message addressed to the game engine. The engine does not
// acknowledge actions.
type Action interface {
	ActionName() string
}

type GoToPointAction struct {
	Action string `json:"action"`
	Point  Vec3   `json:"point"`
}

func NewGoToPoint(p Vec3) GoToPointAction {
	return GoToPointAction{Action: ActionGoToPoint, Point: p}
}

func (GoToPointAction) ActionName() string { return ActionGoToPoint }

type PickUpAction struct {
	Action string `json:"action"`
	ID     string `json:"id"`
}

func NewPickUp(id string) PickUpAction {
	return PickUpAction{Action: ActionPickUp, ID: id}
}

func (PickUpAction) ActionName() string { return ActionPickUp }

type SetPlayerSpeedAction struct {
	Action string  `json:"action"`
	Speed  float64 `json:"speed"`
}

func NewSetPlayerSpeed(speed float64) SetPlayerSpeedAction {
	return SetPlayerSpeedAction{Action: ActionSetPlayerSpeed, Speed: speed}
}

func (SetPlayerSpeedAction) ActionName() string { return ActionSetPlayerSpeed }

type ConsumeConsumableAction struct {
	Action        string  `json:"action"`
	Consumable    string  `json:"consumable"`
	Amount        float64 `json:"amount"`
	TimeRemaining float64 `json:"time_remaining"`
}

func NewConsumeConsumable(consumable string, amount, timeRemaining float64) ConsumeConsumableAction {
	return ConsumeConsumableAction{
		Action:        ActionConsumeConsumable,
		Consumable:    consumable,
		Amount:        amount,
		TimeRemaining: timeRemaining,
	}
}

func (ConsumeConsumableAction) ActionName() string { return ActionConsumeConsumable }

// InitializeAction is sent once when an engine connects so it can restore
// the player where the previous session left it.
type InitializeAction struct {
	Action         string  `json:"action"`
	Speed          float64 `json:"speed"`
	Location       *Vec3   `json:"location,omitempty"`
	CameraPosition *Vec3   `json:"camera_position,omitempty"`
}

func NewInitialize(speed float64, location, camera *Vec3) InitializeAction {
	return InitializeAction{
		Action:         ActionInitialize,
		Speed:          speed,
		Location:       location,
		CameraPosition: camera,
	}
}

func (InitializeAction) ActionName() string { return ActionInitialize }

func EncodeAction(a Action) ([]byte, error) {
	return json.Marshal(a)
}
