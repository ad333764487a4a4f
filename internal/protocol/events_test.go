package protocol

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestKindOf(t *testing.T) {
	cases := map[string]EventKind{
		"player_onpickup":             EventPickup,
		"onpickup":                    EventPickup,
		"ground_oncontextmenu":        EventContextMenu,
		"main_camera_position_update": EventCameraPosition,
		"player_location_update":      EventLocation,
		"player_travel":               EventTravel,
		"player_consume":              EventConsume,
	}
	for typ, want := range cases {
		got, ok := KindOf(typ)
		if !ok || got != want {
			t.Fatalf("KindOf(%q) = %q,%v want %q", typ, got, ok, want)
		}
	}
	for _, typ := range []string{"", "player_teleport", "playertravel", "travel_player"} {
		if k, ok := KindOf(typ); ok {
			t.Fatalf("KindOf(%q) unexpectedly matched %q", typ, k)
		}
	}
}

func TestDecodeEvent(t *testing.T) {
	ev, err := DecodeEvent([]byte(`{"type":"player_onpickup","object_type":"BURGER"}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ev.Kind != EventPickup || ev.ObjectType != "BURGER" {
		t.Fatalf("unexpected event: %+v", ev)
	}
	if q := ev.PickupQuantity(); q != 1 {
		t.Fatalf("expected default quantity 1, got %v", q)
	}

	ev, err = DecodeEvent([]byte(`{"type":"player_travel","distance":2.5}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ev.Kind != EventTravel || ev.Distance != 2.5 {
		t.Fatalf("unexpected event: %+v", ev)
	}

	ev, err = DecodeEvent([]byte(`{"type":"ground_oncontextmenu","screen_point":{"x":3,"y":4},"actions":[{"action":"pick_up","id":"rb1"}]}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(ev.Actions) != 1 || ev.Actions[0].ID != "rb1" || ev.ScreenPoint.Y != 4 {
		t.Fatalf("unexpected context menu: %+v", ev)
	}
}

func TestDecodeEvent_Rejections(t *testing.T) {
	cases := []struct {
		raw  string
		code string
	}{
		{`{"type":"player_teleport"}`, ErrUnknownType},
		{`{"type":"player_travel"}`, ErrSchema},
		{`{"type":"player_consume","time":-1}`, ErrSchema},
		{`{"type":"player_location_update","position":{}}`, ErrSchema},
		{`not json`, ErrProtoBadRequest},
	}
	for _, tc := range cases {
		_, err := DecodeEvent([]byte(tc.raw))
		var pe *Error
		if !errors.As(err, &pe) || pe.Code != tc.code {
			t.Fatalf("%s: expected %s, got %v", tc.raw, tc.code, err)
		}
	}
}

func TestEncodeAction(t *testing.T) {
	b, err := EncodeAction(NewConsumeConsumable("root_beer", 2, 20))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if m["action"] != ActionConsumeConsumable || m["consumable"] != "root_beer" || m["amount"] != 2.0 || m["time_remaining"] != 20.0 {
		t.Fatalf("unexpected payload: %s", b)
	}

	b, _ = EncodeAction(NewGoToPoint(Vec3{X: 1, Y: 2, Z: 3}))
	if string(b) != `{"action":"go_to_point","point":{"x":1,"y":2,"z":3}}` {
		t.Fatalf("unexpected go_to_point payload: %s", b)
	}
}
