package catalogs

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Consumable is the closed set of item kinds the player can carry and eat.
type Consumable uint8

const (
	RootBeer Consumable = iota
	Weiner
	Burger

	NumConsumables
)

var consumableNames = [...]string{
	RootBeer: "root_beer",
	Weiner:   "weiner",
	Burger:   "burger",
}

// Adding a kind without naming it fails to compile.
var _ = [1]struct{}{}[len(consumableNames)-int(NumConsumables)]

// All lists every consumable in enum order.
func All() [NumConsumables]Consumable {
	var out [NumConsumables]Consumable
	for i := range out {
		out[i] = Consumable(i)
	}
	return out
}

func (c Consumable) Valid() bool { return c < NumConsumables }

func (c Consumable) String() string {
	if !c.Valid() {
		return fmt.Sprintf("consumable(%d)", uint8(c))
	}
	return consumableNames[c]
}

// ParseConsumable accepts the wire name in any case, so engine object types
// such as "ROOT_BEER" resolve too.
func ParseConsumable(s string) (Consumable, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range consumableNames {
		if name == s {
			return Consumable(i), true
		}
	}
	return 0, false
}

// Suggest returns the closest consumable name to s, if any is close enough.
func Suggest(s string) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", false
	}
	best := ""
	bestDist := -1
	for _, name := range consumableNames {
		d := levenshtein.ComputeDistance(s, name)
		if bestDist < 0 || d < bestDist {
			best, bestDist = name, d
		}
	}
	if bestDist > levenshteinLimit(s) {
		return "", false
	}
	return best, true
}

func levenshteinLimit(s string) int {
	n := len([]rune(s))
	switch {
	case n <= 4:
		return 1
	case n <= 8:
		return 2
	default:
		return 3
	}
}

func (c Consumable) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid consumable %d", uint8(c))
	}
	return []byte(consumableNames[c]), nil
}

func (c *Consumable) UnmarshalText(b []byte) error {
	v, ok := ParseConsumable(string(b))
	if !ok {
		return fmt.Errorf("unknown consumable %q", string(b))
	}
	*c = v
	return nil
}

// Inventory holds one non-negative count per consumable. Counts are
// fractional because consumption removes rate*elapsed at a time.
type Inventory [NumConsumables]float64

func (inv Inventory) Count(c Consumable) float64 {
	if !c.Valid() {
		return 0
	}
	return inv[c]
}

// With returns a copy with c set to n, floored at zero.
func (inv Inventory) With(c Consumable, n float64) Inventory {
	if !c.Valid() {
		return inv
	}
	if n < 0 {
		n = 0
	}
	inv[c] = n
	return inv
}

// Add returns a copy with delta added to c, floored at zero.
func (inv Inventory) Add(c Consumable, delta float64) Inventory {
	return inv.With(c, inv.Count(c)+delta)
}

func (inv Inventory) MarshalJSON() ([]byte, error) {
	m := make(map[string]float64, NumConsumables)
	for i, name := range consumableNames {
		m[name] = inv[i]
	}
	return json.Marshal(m)
}

func (inv *Inventory) UnmarshalJSON(b []byte) error {
	var m map[string]float64
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	var out Inventory
	for k, v := range m {
		c, ok := ParseConsumable(k)
		if !ok {
			return fmt.Errorf("inventory: unknown consumable %q", k)
		}
		if v < 0 {
			v = 0
		}
		out[c] = v
	}
	*inv = out
	return nil
}
