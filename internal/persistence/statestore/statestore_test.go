package statestore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"cookoutcreek.ai/internal/persistence/kvstore"
	"cookoutcreek.ai/internal/sim/catalogs"
	"cookoutcreek.ai/internal/sim/player"
	"cookoutcreek.ai/internal/sim/tasks"
)

func TestLoad_Empty(t *testing.T) {
	s, ok, err := Load(context.Background(), kvstore.NewMemoryStore(), player.DefaultRules())
	require.NoError(t, err)
	require.False(t, ok)
	require.True(t, s.Equal(player.New()))
}

func TestPersister_CloseFlushesLatest(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemoryStore()
	p := NewPersister(store, nil)

	var last player.State
	for i := 1; i <= 50; i++ {
		s := player.New()
		s.Inventory = s.Inventory.With(catalogs.Burger, float64(i))
		p.Save(s)
		last = s
	}
	require.NoError(t, p.Close())
	require.NoError(t, p.Close())
	require.GreaterOrEqual(t, p.Saved(), uint64(1))

	// Saves after close are ignored.
	p.Save(player.New())

	got, ok, err := Load(ctx, store, player.DefaultRules())
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, got.Equal(last))
}

func TestRoundTrip_SQLite(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.sqlite")
	store, err := kvstore.OpenSQLite(path)
	require.NoError(t, err)

	s := player.New()
	s.Inventory = s.Inventory.With(catalogs.RootBeer, 2.5)
	s.Task = tasks.Consume(catalogs.RootBeer, 1.5)
	s.Scene = "creek"
	require.NoError(t, Put(ctx, store, s))
	require.NoError(t, store.Close())

	store, err = kvstore.OpenSQLite(path)
	require.NoError(t, err)
	defer store.Close()

	got, ok, err := Load(ctx, store, player.DefaultRules())
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, got.Equal(s))

	require.NoError(t, Clear(ctx, store))
	_, ok, err = Load(ctx, store, player.DefaultRules())
	require.NoError(t, err)
	require.False(t, ok)
}

func TestLoad_Corrupt(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemoryStore()
	require.NoError(t, store.Put(ctx, Key, []byte(`{"inventory":{"pizza":1}}`)))
	_, _, err := Load(ctx, store, player.DefaultRules())
	require.Error(t, err)
}
