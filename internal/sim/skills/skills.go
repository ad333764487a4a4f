// Package skills maps accumulated experience to a level, the progress within
// that level and the experience still needed for the next one.
package skills

import "math"

// Curve parameterizes xpForLevel(L) = BaseXP * L^Exponent.
type Curve struct {
	BaseXP   float64 `yaml:"base_xp" json:"base_xp"`
	Exponent float64 `yaml:"exponent" json:"exponent"`
}

var DefaultCurve = Curve{BaseXP: 100, Exponent: 1.5}

// Skill is fully derived from XP. Only AddXP and New produce values.
type Skill struct {
	XP          float64 `json:"xp"`
	Level       int     `json:"level"`
	Progress    float64 `json:"progress"`
	RemainingXP float64 `json:"remaining_xp"`
}

type Stats struct {
	Level       int
	Progress    float64
	RemainingXP float64
}

func (c Curve) valid() bool {
	return c.BaseXP > 0 && c.Exponent > 0 && finite(c.BaseXP) && finite(c.Exponent)
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func sanitize(xp float64) float64 {
	if xp < 0 || !finite(xp) {
		return 0
	}
	return xp
}

func (c Curve) xpForLevel(level int) float64 {
	if level <= 0 {
		return 0
	}
	return c.BaseXP * math.Pow(float64(level), c.Exponent)
}

// MaxLevel caps the derived level. XP beyond xpForLevel(MaxLevel) reports
// full progress and nothing remaining.
const MaxLevel = 1_000_000

// Stats derives level, progress and remaining XP. Negative or non-finite xp
// counts as zero.
func (c Curve) Stats(xp float64) Stats {
	if !c.valid() {
		c = DefaultCurve
	}
	xp = sanitize(xp)
	exact := math.Min(math.Pow(xp/c.BaseXP, 1/c.Exponent)+1, MaxLevel)
	level := max(int(exact), 1)
	cur := c.xpForLevel(level - 1)
	next := c.xpForLevel(level)

	// Pow can land a hair off an exact boundary; one step corrects it.
	switch {
	case xp >= next && level < MaxLevel:
		level++
		cur, next = next, c.xpForLevel(level)
	case xp < cur && level > 1:
		level--
		cur, next = c.xpForLevel(level-1), cur
	}

	progress := 0.0
	if span := next - cur; span > 0 && finite(span) {
		progress = (xp - cur) / span
	}
	return Stats{
		Level:       level,
		Progress:    clamp01(progress),
		RemainingXP: math.Max(next-xp, 0),
	}
}

// New returns the skill for xp on curve c.
func (c Curve) New(xp float64) Skill {
	xp = sanitize(xp)
	st := c.Stats(xp)
	return Skill{XP: xp, Level: st.Level, Progress: st.Progress, RemainingXP: st.RemainingXP}
}

// AddXP returns a new skill with delta added and every derived field
// recomputed. The receiver is not modified.
func (c Curve) AddXP(s Skill, delta float64) Skill {
	return c.New(s.XP + delta)
}

// New is DefaultCurve.New.
func New(xp float64) Skill { return DefaultCurve.New(xp) }

// AddXP is DefaultCurve.AddXP.
func AddXP(s Skill, delta float64) Skill { return DefaultCurve.AddXP(s, delta) }

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
