package tuning

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"cookoutcreek.ai/internal/sim/skills"
)

type Tuning struct {
	ProtocolVersion string `yaml:"protocol_version" json:"protocol_version"`

	TickRateHz         int `yaml:"tick_rate_hz" json:"tick_rate_hz"`
	SnapshotEveryTicks int `yaml:"snapshot_every_ticks" json:"snapshot_every_ticks"`

	XP     skills.Curve `yaml:"xp" json:"xp"`
	Carry  Carry        `yaml:"carry" json:"carry"`
	Drift  Drift        `yaml:"drift" json:"drift"`
	Speed  Speed        `yaml:"speed" json:"speed"`
	Travel Travel       `yaml:"travel" json:"travel"`
}

type Carry struct {
	Base               float64 `yaml:"base" json:"base"`
	PerLevel           float64 `yaml:"per_level" json:"per_level"`
	UnburdenedFraction float64 `yaml:"unburdened_fraction" json:"unburdened_fraction"`
	XPPerBurden        float64 `yaml:"xp_per_burden" json:"xp_per_burden"`
}

// Drift is added to the vitals every tick.
type Drift struct {
	ThirstBase      float64 `yaml:"thirst_base" json:"thirst_base"`
	ThirstPerBurden float64 `yaml:"thirst_per_burden" json:"thirst_per_burden"`
	HungerBase      float64 `yaml:"hunger_base" json:"hunger_base"`
	HungerPerBurden float64 `yaml:"hunger_per_burden" json:"hunger_per_burden"`
}

type Speed struct {
	MinBase     float64 `yaml:"min_base" json:"min_base"`
	MinPerLevel float64 `yaml:"min_per_level" json:"min_per_level"`
	MaxBase     float64 `yaml:"max_base" json:"max_base"`
	MaxPerLevel float64 `yaml:"max_per_level" json:"max_per_level"`
}

// Travel applies per unit of distance reported by the engine.
type Travel struct {
	WalkingXPPerDistance float64 `yaml:"walking_xp_per_distance" json:"walking_xp_per_distance"`
	ThirstPerDistance    float64 `yaml:"thirst_per_distance" json:"thirst_per_distance"`
	HungerPerDistance    float64 `yaml:"hunger_per_distance" json:"hunger_per_distance"`
	PerDistanceBurden    float64 `yaml:"per_distance_burden" json:"per_distance_burden"`
}

func Defaults() Tuning {
	return Tuning{
		ProtocolVersion:    "1.0",
		TickRateHz:         1,
		SnapshotEveryTicks: 600,
		XP:                 skills.DefaultCurve,
		Carry: Carry{
			Base:               20,
			PerLevel:           5,
			UnburdenedFraction: 0.2,
			XPPerBurden:        1,
		},
		Drift: Drift{
			ThirstBase:      0.05,
			ThirstPerBurden: 0.01,
			HungerBase:      0.03,
			HungerPerBurden: 0.005,
		},
		Speed: Speed{
			MinBase:     0.5,
			MinPerLevel: 0.05,
			MaxBase:     5,
			MaxPerLevel: 0.25,
		},
		Travel: Travel{
			WalkingXPPerDistance: 1,
			ThirstPerDistance:    0.01,
			HungerPerDistance:    0.005,
			PerDistanceBurden:    0.001,
		},
	}
}

// Load reads a tuning.yaml on top of Defaults(); keys absent from the file
// keep their default values.
func Load(path string) (Tuning, error) {
	t := Defaults()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	return t, nil
}

func (t Tuning) Validate() error {
	var errs []error
	if t.TickRateHz <= 0 {
		errs = append(errs, errors.New("tick_rate_hz must be > 0"))
	}
	if t.SnapshotEveryTicks < 0 {
		errs = append(errs, errors.New("snapshot_every_ticks must be >= 0"))
	}
	if t.XP.BaseXP <= 0 || t.XP.Exponent <= 0 {
		errs = append(errs, errors.New("xp.base_xp and xp.exponent must be > 0"))
	}
	if t.Carry.Base <= 0 {
		errs = append(errs, errors.New("carry.base must be > 0"))
	}
	if t.Carry.PerLevel < 0 {
		errs = append(errs, errors.New("carry.per_level must be >= 0"))
	}
	if t.Carry.UnburdenedFraction < 0 || t.Carry.UnburdenedFraction >= 1 {
		errs = append(errs, errors.New("carry.unburdened_fraction must be in [0,1)"))
	}
	if t.Speed.MinBase <= 0 || t.Speed.MaxBase < t.Speed.MinBase {
		errs = append(errs, errors.New("speed: need 0 < min_base <= max_base"))
	}
	if t.Speed.MaxPerLevel < t.Speed.MinPerLevel {
		errs = append(errs, errors.New("speed: max_per_level must be >= min_per_level"))
	}
	return errors.Join(errs...)
}

// Digest identifies a tuning table in WELCOME messages and snapshots.
func (t Tuning) Digest() string {
	b, _ := json.Marshal(t)
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
