package game

import (
	"cookoutcreek.ai/internal/protocol"
	"cookoutcreek.ai/internal/sim/catalogs"
	"cookoutcreek.ai/internal/sim/player"
)

// engineEvent maps a validated engine message onto a reducer event.
func engineEvent(ev protocol.EngineEvent) (player.Event, error) {
	switch ev.Kind {
	case protocol.EventContextMenu:
		return player.ContextMenuRequested{ScreenPoint: ev.ScreenPoint, Actions: ev.Actions}, nil
	case protocol.EventPickup:
		k, err := parseConsumable(ev.ObjectType)
		if err != nil {
			return nil, err
		}
		return player.PickedUp{Kind: k, Quantity: ev.PickupQuantity()}, nil
	case protocol.EventCameraPosition:
		return player.CameraUpdated{Point: ev.Position}, nil
	case protocol.EventLocation:
		return player.LocationUpdated{Point: ev.Position}, nil
	case protocol.EventTravel:
		return player.Travelled{Distance: ev.Distance}, nil
	case protocol.EventConsume:
		return player.ConsumeProgress{Elapsed: ev.Time}, nil
	default:
		return nil, protocol.Errorf(protocol.ErrUnknownType, "unknown event kind %q", ev.Kind)
	}
}

// intentEvent maps a validated HUD intent onto a reducer event.
func intentEvent(m protocol.IntentMsg) (player.Event, error) {
	switch m.Intent {
	case protocol.IntentGoToPoint:
		if m.Point == nil {
			return nil, protocol.Errorf(protocol.ErrBadRequest, "go_to_point requires point")
		}
		return player.GoToPoint{Point: *m.Point}, nil
	case protocol.IntentGoToObject:
		return player.GoToObject{ID: m.ObjectID}, nil
	case protocol.IntentPickUp:
		return player.PickUp{ID: m.ObjectID}, nil
	case protocol.IntentConsume:
		k, err := parseConsumable(m.Consumable)
		if err != nil {
			return nil, err
		}
		return player.Consume{Kind: k, Max: m.Amount}, nil
	case protocol.IntentDrop:
		k, err := parseConsumable(m.Consumable)
		if err != nil {
			return nil, err
		}
		return player.Drop{Kind: k, Amount: m.Amount}, nil
	case protocol.IntentSetScene:
		return player.SetScene{Scene: m.Scene}, nil
	default:
		return nil, protocol.Errorf(protocol.ErrBadRequest, "unknown intent %q", m.Intent)
	}
}

func parseConsumable(name string) (catalogs.Consumable, error) {
	k, ok := catalogs.ParseConsumable(name)
	if ok {
		return k, nil
	}
	if s, ok := catalogs.Suggest(name); ok {
		return 0, protocol.Errorf(protocol.ErrUnknownItem, "unknown consumable %q (did you mean %q?)", name, s)
	}
	return 0, protocol.Errorf(protocol.ErrUnknownItem, "unknown consumable %q", name)
}
