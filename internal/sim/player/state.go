// Package player holds the player's game state and its transitions: the
// periodic tick that derives vitals, load and speed, and the reducer that
// applies intents and engine events.
package player

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"

	"cookoutcreek.ai/internal/protocol"
	"cookoutcreek.ai/internal/sim/catalogs"
	"cookoutcreek.ai/internal/sim/skills"
	"cookoutcreek.ai/internal/sim/tasks"
)

const (
	DefaultHunger             = 10
	DefaultThirst             = 10
	DefaultSpeed              = 1
	DefaultMaximumCarryWeight = 20
	DefaultScene              = "start"
)

// State is the single source of truth for the player. Pointer fields are
// replaced, never written through, so a published State can be shared.
type State struct {
	Inventory catalogs.Inventory `json:"inventory"`

	Hunger float64 `json:"hunger"`
	Thirst float64 `json:"thirst"`

	// Derived on every tick.
	Weight             float64 `json:"weight"`
	Burden             float64 `json:"burden"`
	MaximumCarryWeight float64 `json:"maximum_carry_weight"`
	Speed              float64 `json:"speed"`
	MinimumSpeed       float64 `json:"minimum_speed"`
	MaximumSpeed       float64 `json:"maximum_speed"`
	SpeedMultiplier    float64 `json:"speed_multiplier"`

	WalkingSkill  skills.Skill `json:"walking_skill"`
	CarryingSkill skills.Skill `json:"carrying_skill"`

	Task           *tasks.Task    `json:"task"`
	Location       *protocol.Vec3 `json:"location"`
	CameraLocation *protocol.Vec3 `json:"camera_location"`
	Scene          string         `json:"scene,omitempty"`
}

// New returns the state a fresh player starts with.
func New() State {
	return State{
		Hunger:             DefaultHunger,
		Thirst:             DefaultThirst,
		Speed:              DefaultSpeed,
		MaximumCarryWeight: DefaultMaximumCarryWeight,
		WalkingSkill:       skills.New(0),
		CarryingSkill:      skills.New(0),
		Scene:              DefaultScene,
	}
}

// Normalize repairs a state read from storage: vitals are clamped, counts
// floored at zero and skills re-derived from their XP on r's curve.
func Normalize(s State, r Rules) State {
	s.Hunger = clamp(s.Hunger, 0, 100)
	s.Thirst = clamp(s.Thirst, 0, 100)
	for _, k := range catalogs.All() {
		s.Inventory = s.Inventory.With(k, s.Inventory.Count(k))
	}
	s.WalkingSkill = r.Tuning.XP.New(s.WalkingSkill.XP)
	s.CarryingSkill = r.Tuning.XP.New(s.CarryingSkill.XP)
	if s.Task != nil && s.Task.Amount < 0 {
		t := *s.Task
		t.Amount = 0
		s.Task = &t
	}
	return s
}

func (s State) Equal(o State) bool {
	if s.Inventory != o.Inventory ||
		s.Hunger != o.Hunger || s.Thirst != o.Thirst ||
		s.Weight != o.Weight || s.Burden != o.Burden ||
		s.MaximumCarryWeight != o.MaximumCarryWeight ||
		s.Speed != o.Speed || s.MinimumSpeed != o.MinimumSpeed ||
		s.MaximumSpeed != o.MaximumSpeed || s.SpeedMultiplier != o.SpeedMultiplier ||
		s.WalkingSkill != o.WalkingSkill || s.CarryingSkill != o.CarryingSkill ||
		s.Scene != o.Scene {
		return false
	}
	return eqPtr(s.Task, o.Task) && eqPtr(s.Location, o.Location) && eqPtr(s.CameraLocation, o.CameraLocation)
}

func eqPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// Digest is a sha256 over the JSON encoding of s.
func (s State) Digest() (string, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("digest: %w", err)
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}

type namedValue struct {
	name string
	v    float64
}

// checkFinite reports the first numeric field of s that JSON cannot carry.
func checkFinite(s State) error {
	vals := []namedValue{
		{"hunger", s.Hunger},
		{"thirst", s.Thirst},
		{"weight", s.Weight},
		{"burden", s.Burden},
		{"maximum_carry_weight", s.MaximumCarryWeight},
		{"speed", s.Speed},
		{"minimum_speed", s.MinimumSpeed},
		{"maximum_speed", s.MaximumSpeed},
		{"speed_multiplier", s.SpeedMultiplier},
		{"walking_skill", s.WalkingSkill.XP},
		{"carrying_skill", s.CarryingSkill.XP},
	}
	for _, k := range catalogs.All() {
		vals = append(vals, namedValue{"inventory." + k.String(), s.Inventory.Count(k)})
	}
	if s.Task != nil {
		vals = append(vals, namedValue{"task.amount", s.Task.Amount})
	}
	for _, nv := range vals {
		if math.IsNaN(nv.v) || math.IsInf(nv.v, 0) {
			return fmt.Errorf("%s would be %v", nv.name, nv.v)
		}
	}
	return nil
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
