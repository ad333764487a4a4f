package tuning

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaults_Valid(t *testing.T) {
	d := Defaults()
	require.NoError(t, d.Validate())
	require.Equal(t, 1, d.TickRateHz)
	require.Equal(t, 100.0, d.XP.BaseXP)
	require.Equal(t, 1.5, d.XP.Exponent)
	require.Equal(t, 20.0, d.Carry.Base)
	require.Equal(t, 0.2, d.Carry.UnburdenedFraction)
}

func TestLoad_OverlaysDefaults(t *testing.T) {
	p := filepath.Join(t.TempDir(), "tuning.yaml")
	require.NoError(t, os.WriteFile(p, []byte("tick_rate_hz: 2\ncarry:\n  per_level: 7\n"), 0o644))

	got, err := Load(p)
	require.NoError(t, err)
	require.Equal(t, 2, got.TickRateHz)
	require.Equal(t, 7.0, got.Carry.PerLevel)
	require.Equal(t, 20.0, got.Carry.Base)
	require.Equal(t, Defaults().Drift, got.Drift)
	require.NotEqual(t, Defaults().Digest(), got.Digest())
}

func TestLoad_Invalid(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "tuning.yaml")
	require.NoError(t, os.WriteFile(p, []byte("tick_rate_hz: 0\ncarry:\n  unburdened_fraction: 1.5\n"), 0o644))
	_, err := Load(p)
	require.ErrorContains(t, err, "tick_rate_hz")
	require.ErrorContains(t, err, "unburdened_fraction")

	_, err = Load(filepath.Join(dir, "nope.yaml"))
	require.Error(t, err)
}

func TestDigest_Stable(t *testing.T) {
	require.Equal(t, Defaults().Digest(), Defaults().Digest())
	require.Len(t, Defaults().Digest(), 64)
}
