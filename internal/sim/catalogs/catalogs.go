package catalogs

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
)

// ConsumableDef is one entry of consumables.json.
type ConsumableDef struct {
	ID             string  `json:"id"`
	Title          string  `json:"title,omitempty"`
	Weight         float64 `json:"weight"`
	ConsumeSeconds float64 `json:"consume_seconds"` // seconds to consume one unit
	Hunger         float64 `json:"hunger"`          // per unit consumed
	Thirst         float64 `json:"thirst"`          // per unit consumed
}

// Rate is units consumed per second.
func (d ConsumableDef) Rate() float64 {
	if d.ConsumeSeconds <= 0 {
		return 0
	}
	return 1 / d.ConsumeSeconds
}

// Catalog is total over Consumable: Load rejects a file missing any kind.
type Catalog struct {
	Defs   [NumConsumables]ConsumableDef
	Digest string
}

func (c *Catalog) Def(k Consumable) ConsumableDef {
	if !k.Valid() {
		return ConsumableDef{}
	}
	return c.Defs[k]
}

// Weight of one unit of k.
func (c *Catalog) Weight(k Consumable) float64 { return c.Def(k).Weight }

// Rate of consumption of k in units per second.
func (c *Catalog) Rate(k Consumable) float64 { return c.Def(k).Rate() }

// CarriedWeight sums count*weight over every kind.
func (c *Catalog) CarriedWeight(inv Inventory) float64 {
	w := 0.0
	for _, k := range All() {
		w += inv.Count(k) * c.Weight(k)
	}
	return w
}

var defaultDefs = [NumConsumables]ConsumableDef{
	RootBeer: {ID: "root_beer", Title: "Root Beer", Weight: 1.5, ConsumeSeconds: 10, Hunger: 0, Thirst: -20},
	Weiner:   {ID: "weiner", Title: "Weiner", Weight: 1, ConsumeSeconds: 5, Hunger: -10, Thirst: 0},
	Burger:   {ID: "burger", Title: "Burger", Weight: 1, ConsumeSeconds: 15, Hunger: -25, Thirst: 5},
}

// Default returns the built-in catalog used when no consumables.json exists.
func Default() *Catalog {
	c := &Catalog{Defs: defaultDefs}
	raw, _ := json.Marshal(c.Defs[:])
	c.Digest = sha256Hex(raw)
	return c
}

// Load reads a consumables.json array. A missing file yields Default().
func Load(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}
	c, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("consumables.json: %w", err)
	}
	return c, nil
}

func Parse(raw []byte) (*Catalog, error) {
	var defs []ConsumableDef
	if err := json.Unmarshal(raw, &defs); err != nil {
		return nil, err
	}
	c := &Catalog{Digest: sha256Hex(raw)}
	var seen [NumConsumables]bool
	for _, d := range defs {
		k, ok := ParseConsumable(d.ID)
		if !ok {
			if s, ok := Suggest(d.ID); ok {
				return nil, fmt.Errorf("unknown consumable %q (did you mean %q?)", d.ID, s)
			}
			return nil, fmt.Errorf("unknown consumable %q", d.ID)
		}
		if seen[k] {
			return nil, fmt.Errorf("duplicate consumable %q", d.ID)
		}
		if d.Weight < 0 {
			return nil, fmt.Errorf("%s: negative weight", d.ID)
		}
		if d.ConsumeSeconds <= 0 {
			return nil, fmt.Errorf("%s: consume_seconds must be > 0", d.ID)
		}
		d.ID = k.String()
		seen[k] = true
		c.Defs[k] = d
	}
	for _, k := range All() {
		if !seen[k] {
			return nil, fmt.Errorf("missing consumable %q", k)
		}
	}
	return c, nil
}

func sha256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
