package game

import (
	"fmt"
	"time"

	"cookoutcreek.ai/internal/persistence/snapshot"
	"cookoutcreek.ai/internal/protocol"
	"cookoutcreek.ai/internal/sim/catalogs"
	"cookoutcreek.ai/internal/sim/player"
	"cookoutcreek.ai/internal/sim/tasks"
)

// ExportSnapshot captures the loop-owned state. Call only from the loop
// goroutine or while Run is not running.
func (g *Game) ExportSnapshot(tick uint64) snapshot.SnapshotV1 {
	return snapshot.SnapshotV1{
		Header: snapshot.Header{
			Version: snapshot.Version,
			Tick:    tick,
			SavedAt: time.Now().UnixMilli(),
		},
		TickRateHz:         g.cfg.TickRateHz,
		SnapshotEveryTicks: g.cfg.SnapshotEveryTicks,
		TuningDigest:       g.rules.Tuning.Digest(),
		CatalogDigest:      g.rules.Catalog.Digest,
		Player:             ExportPlayer(g.state),
	}
}

func ExportPlayer(s player.State) snapshot.PlayerV1 {
	inv := make(map[string]float64, catalogs.NumConsumables)
	for _, k := range catalogs.All() {
		inv[k.String()] = s.Inventory.Count(k)
	}
	out := snapshot.PlayerV1{
		Inventory:          inv,
		Hunger:             s.Hunger,
		Thirst:             s.Thirst,
		Weight:             s.Weight,
		Burden:             s.Burden,
		MaximumCarryWeight: s.MaximumCarryWeight,
		Speed:              s.Speed,
		MinimumSpeed:       s.MinimumSpeed,
		MaximumSpeed:       s.MaximumSpeed,
		SpeedMultiplier:    s.SpeedMultiplier,
		WalkingXP:          s.WalkingSkill.XP,
		CarryingXP:         s.CarryingSkill.XP,
		Location:           vecPtr(s.Location),
		CameraLocation:     vecPtr(s.CameraLocation),
		Scene:              s.Scene,
	}
	if t := s.Task; t != nil {
		tv := &snapshot.TaskV1{Kind: string(t.Kind), Object: t.Object}
		switch t.Kind {
		case tasks.KindGoToPoint:
			tv.Point = [3]float64{t.Point.X, t.Point.Y, t.Point.Z}
		case tasks.KindConsume:
			tv.Consumable = t.Consumable.String()
			tv.Amount = t.Amount
		}
		out.Task = tv
	}
	return out
}

// ImportPlayer rebuilds a state from a snapshot; skills are re-derived on
// the rules' XP curve.
func ImportPlayer(p snapshot.PlayerV1, r player.Rules) (player.State, error) {
	s := player.New()
	s.Inventory = catalogs.Inventory{}
	for name, n := range p.Inventory {
		k, ok := catalogs.ParseConsumable(name)
		if !ok {
			return s, fmt.Errorf("snapshot inventory: unknown consumable %q", name)
		}
		s.Inventory = s.Inventory.With(k, n)
	}
	s.Hunger, s.Thirst = p.Hunger, p.Thirst
	s.Weight, s.Burden = p.Weight, p.Burden
	s.MaximumCarryWeight = p.MaximumCarryWeight
	s.Speed, s.MinimumSpeed, s.MaximumSpeed = p.Speed, p.MinimumSpeed, p.MaximumSpeed
	s.SpeedMultiplier = p.SpeedMultiplier
	s.WalkingSkill.XP = p.WalkingXP
	s.CarryingSkill.XP = p.CarryingXP
	s.Location = pointPtr(p.Location)
	s.CameraLocation = pointPtr(p.CameraLocation)
	s.Scene = p.Scene

	if tv := p.Task; tv != nil {
		switch tasks.Kind(tv.Kind) {
		case tasks.KindGoToPoint:
			s.Task = tasks.GoToPoint(protocol.Vec3{X: tv.Point[0], Y: tv.Point[1], Z: tv.Point[2]})
		case tasks.KindGoToObject:
			s.Task = tasks.GoToObject(tv.Object)
		case tasks.KindPickUp:
			s.Task = tasks.PickUp(tv.Object)
		case tasks.KindConsume:
			k, ok := catalogs.ParseConsumable(tv.Consumable)
			if !ok {
				return s, fmt.Errorf("snapshot task: unknown consumable %q", tv.Consumable)
			}
			s.Task = tasks.Consume(k, tv.Amount)
		default:
			return s, fmt.Errorf("snapshot task: unknown kind %q", tv.Kind)
		}
	}
	return player.Normalize(s, r), nil
}

func vecPtr(p *protocol.Vec3) *[3]float64 {
	if p == nil {
		return nil
	}
	return &[3]float64{p.X, p.Y, p.Z}
}

func pointPtr(p *[3]float64) *protocol.Vec3 {
	if p == nil {
		return nil
	}
	return &protocol.Vec3{X: p[0], Y: p[1], Z: p[2]}
}
