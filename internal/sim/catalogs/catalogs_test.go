package catalogs

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseConsumable(t *testing.T) {
	for in, want := range map[string]Consumable{
		"root_beer": RootBeer,
		"ROOT_BEER": RootBeer,
		" Weiner ":  Weiner,
		"burger":    Burger,
	} {
		got, ok := ParseConsumable(in)
		require.Truef(t, ok, "parse %q", in)
		require.Equal(t, want, got)
	}
	_, ok := ParseConsumable("hotdog")
	require.False(t, ok)
	require.False(t, NumConsumables.Valid())
}

func TestSuggest(t *testing.T) {
	s, ok := Suggest("BURGR")
	require.True(t, ok)
	require.Equal(t, "burger", s)

	s, ok = Suggest("rootbeer")
	require.True(t, ok)
	require.Equal(t, "root_beer", s)

	_, ok = Suggest("lemonade")
	require.False(t, ok)
}

func TestInventory_AddFloorsAtZero(t *testing.T) {
	var inv Inventory
	inv = inv.Add(Burger, 3)
	require.Equal(t, 3.0, inv.Count(Burger))
	inv2 := inv.Add(Burger, -5)
	require.Equal(t, 0.0, inv2.Count(Burger))
	require.Equal(t, 3.0, inv.Count(Burger))
	require.Equal(t, 0.0, inv.Count(NumConsumables))
}

func TestInventory_JSON(t *testing.T) {
	inv := Inventory{}.With(RootBeer, 2).With(Burger, 0.5)
	b, err := json.Marshal(inv)
	require.NoError(t, err)
	require.JSONEq(t, `{"root_beer":2,"weiner":0,"burger":0.5}`, string(b))

	var back Inventory
	require.NoError(t, json.Unmarshal(b, &back))
	require.Equal(t, inv, back)

	require.Error(t, json.Unmarshal([]byte(`{"pizza":1}`), &back))
}

func TestDefault_Totality(t *testing.T) {
	c := Default()
	require.NotEmpty(t, c.Digest)
	for _, k := range All() {
		d := c.Def(k)
		require.Equal(t, k.String(), d.ID)
		require.Greater(t, d.Rate(), 0.0)
		require.Greater(t, d.Weight, 0.0)
	}
	require.Greater(t, c.Weight(RootBeer), c.Weight(Weiner))
	require.InDelta(t, 0.1, c.Rate(RootBeer), 1e-12)

	inv := Inventory{}.With(RootBeer, 2).With(Weiner, 1).With(Burger, 3)
	require.InDelta(t, 7.0, c.CarriedWeight(inv), 1e-12)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	c, err := Load(filepath.Join(dir, "missing.json"))
	require.NoError(t, err)
	require.Equal(t, Default().Digest, c.Digest)

	good := `[
	  {"id":"ROOT_BEER","weight":2,"consume_seconds":4,"thirst":-10},
	  {"id":"weiner","weight":1,"consume_seconds":5,"hunger":-10},
	  {"id":"burger","weight":1,"consume_seconds":15,"hunger":-25,"thirst":5}
	]`
	p := filepath.Join(dir, "consumables.json")
	require.NoError(t, os.WriteFile(p, []byte(good), 0o644))
	c, err = Load(p)
	require.NoError(t, err)
	require.Equal(t, "root_beer", c.Def(RootBeer).ID)
	require.Equal(t, 2.0, c.Weight(RootBeer))
	require.InDelta(t, 0.25, c.Rate(RootBeer), 1e-12)
	require.NotEqual(t, Default().Digest, c.Digest)
}

func TestParse_Rejects(t *testing.T) {
	cases := map[string]string{
		"missing kind": `[{"id":"root_beer","weight":1,"consume_seconds":1},{"id":"weiner","weight":1,"consume_seconds":1}]`,
		"unknown kind": `[{"id":"burgr","weight":1,"consume_seconds":1}]`,
		"duplicate":    `[{"id":"burger","weight":1,"consume_seconds":1},{"id":"burger","weight":1,"consume_seconds":1}]`,
		"zero rate":    `[{"id":"burger","weight":1,"consume_seconds":0}]`,
		"not json":     `{`,
	}
	for name, raw := range cases {
		_, err := Parse([]byte(raw))
		require.Errorf(t, err, name)
	}
	_, err := Parse([]byte(`[{"id":"burgr","weight":1,"consume_seconds":1}]`))
	require.ErrorContains(t, err, `did you mean "burger"`)
}
