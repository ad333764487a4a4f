package player

import (
	"cookoutcreek.ai/internal/sim/catalogs"
	"cookoutcreek.ai/internal/sim/tuning"
)

// Rules bundles the tables every transition reads.
type Rules struct {
	Tuning  tuning.Tuning
	Catalog *catalogs.Catalog
}

func DefaultRules() Rules {
	return Rules{Tuning: tuning.Defaults(), Catalog: catalogs.Default()}
}

// load is what the player carries relative to what they can carry.
type load struct {
	carried    float64
	maximum    float64
	unburdened float64
	burden     float64
	maxBurden  float64
}

func (l load) overloaded() bool { return l.carried >= l.maximum }

// measureLoad uses the carrying level already recorded in s.
func (r Rules) measureLoad(s State) load {
	c := r.Tuning.Carry
	var l load
	l.carried = r.Catalog.CarriedWeight(s.Inventory)
	l.maximum = c.Base + float64(s.CarryingSkill.Level)*c.PerLevel
	l.unburdened = l.maximum * c.UnburdenedFraction
	l.burden = max(0, l.carried-l.unburdened)
	l.maxBurden = l.maximum - l.unburdened
	return l
}
