package player

import "cookoutcreek.ai/internal/protocol"

// Tick is one fixed-interval recomputation of the derived stats. It returns
// a set_player_speed action when the speed differs from prev's.
func Tick(prev State, r Rules) (State, []protocol.Action) {
	next := prev
	l := r.measureLoad(prev)

	next.Weight = l.carried
	next.MaximumCarryWeight = l.maximum
	next.Burden = l.burden

	d := r.Tuning.Drift
	next.Thirst = clamp(prev.Thirst+d.ThirstBase+l.burden*d.ThirstPerBurden, 0, 100)
	next.Hunger = clamp(prev.Hunger+d.HungerBase+l.burden*d.HungerPerBurden, 0, 100)

	next.CarryingSkill = r.Tuning.XP.AddXP(prev.CarryingSkill, l.burden*r.Tuning.Carry.XPPerBurden)

	sp := r.Tuning.Speed
	walking := float64(next.WalkingSkill.Level)
	next.MinimumSpeed = sp.MinBase + walking*sp.MinPerLevel
	next.MaximumSpeed = sp.MaxBase + walking*sp.MaxPerLevel

	if l.overloaded() {
		next.SpeedMultiplier = 0
		next.Speed = next.MinimumSpeed / 2
	} else {
		quenched := (100 - next.Thirst) / 100
		satiated := (100 - next.Hunger) / 100
		penalty := 0.0
		if l.maxBurden > 0 {
			penalty = l.burden / l.maxBurden / 2
		}
		next.SpeedMultiplier = clamp(quenched*satiated-penalty, 0, 1)
		next.Speed = next.MinimumSpeed + (next.MaximumSpeed-next.MinimumSpeed)*next.SpeedMultiplier
	}

	if next.Speed != prev.Speed {
		return next, []protocol.Action{protocol.NewSetPlayerSpeed(next.Speed)}
	}
	return next, nil
}
