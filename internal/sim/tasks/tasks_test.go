package tasks

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"cookoutcreek.ai/internal/protocol"
	"cookoutcreek.ai/internal/sim/catalogs"
)

func TestTask_JSONShapes(t *testing.T) {
	cases := []struct {
		task *Task
		want string
	}{
		{GoToPoint(protocol.Vec3{X: 1, Y: 2, Z: 3}), `{"type":"go_to_point","point":{"x":1,"y":2,"z":3}}`},
		{GoToObject("grill"), `{"type":"go_to_object","object":"grill"}`},
		{PickUp("burger_2"), `{"type":"pick_up","object":"burger_2"}`},
		{Consume(catalogs.RootBeer, 4), `{"type":"consume","consumable":"root_beer","amount":4}`},
		{Consume(catalogs.RootBeer, 0), `{"type":"consume","consumable":"root_beer","amount":0}`},
	}
	for _, tc := range cases {
		b, err := json.Marshal(tc.task)
		require.NoError(t, err)
		require.JSONEq(t, tc.want, string(b))

		var back Task
		require.NoError(t, json.Unmarshal(b, &back))
		require.Equal(t, *tc.task, back)
	}
}

func TestTask_UnmarshalRejects(t *testing.T) {
	for _, raw := range []string{
		`{"type":"dance"}`,
		`{"type":"go_to_point"}`,
		`{"type":"consume","consumable":"pizza","amount":1}`,
	} {
		var tk Task
		require.Errorf(t, json.Unmarshal([]byte(raw), &tk), raw)
	}
}

func TestIsConsuming(t *testing.T) {
	var none *Task
	require.False(t, none.IsConsuming(catalogs.Burger))
	require.True(t, Consume(catalogs.Burger, 1).IsConsuming(catalogs.Burger))
	require.False(t, Consume(catalogs.Burger, 1).IsConsuming(catalogs.Weiner))
	require.False(t, PickUp("x").IsConsuming(catalogs.RootBeer))
	require.Equal(t, 0.0, Consume(catalogs.Weiner, -3).Amount)
}
