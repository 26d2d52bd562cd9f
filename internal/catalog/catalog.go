// Package catalog holds the read-only list of products the bot can calculate.
package catalog

import (
	"fmt"
	"strings"
)

// Revision selects one of the shipped product lists.
type Revision string

const (
	RevisionV1 Revision = "v1"
	RevisionV2 Revision = "v2"
)

const (
	unitRolls = "рулон(ов)"
	unitPacks = "упаковок"
)

// Product ids used in callback payloads.
const (
	FilmID        = "film_60x3"
	Panel3030ID   = "panel_30x30_20"
	Panel3060ID   = "panel_30x60_auto"
	LaminateID    = "laminate_33"
	AllProductsID = "all_products"
)

const DefaultReserve = 0.10

// Variant is one pack size of an auto-pick product.
type Variant struct {
	Label    string
	PackArea float64
	PackUnit string
}

// Product is a purchasable item. Products with variants are auto-pick,
// products marked All trigger the legacy all-products calculation.
type Product struct {
	ID       string
	Title    string
	Button   string
	PackArea float64
	PackUnit string
	Variants []Variant

	// DefaultReserve is the waste share applied unless the user toggles it.
	DefaultReserve float64
	// ReserveToggle lets the user pick between 0% and 10%.
	ReserveToggle bool
	All           bool
}

func (p Product) AutoPick() bool {
	return len(p.Variants) > 0
}

// OpeningKind is either a door or a window.
type OpeningKind string

const (
	OpeningDoor   OpeningKind = "door"
	OpeningWindow OpeningKind = "window"
)

// OpeningPreset is a typical door or window size offered as a single button.
type OpeningPreset struct {
	ID     string
	Kind   OpeningKind
	Label  string
	Width  float64
	Height float64
}

// Catalog is built once at startup and never mutated afterwards.
// Accessors return copies so callers cannot alter shared data.
type Catalog struct {
	revision Revision
	products []Product
	byID     map[string]int
	presets  []OpeningPreset
}

func New(revision Revision, products []Product, presets []OpeningPreset) (*Catalog, error) {
	c := &Catalog{
		revision: revision,
		byID:     make(map[string]int, len(products)),
	}
	for i, p := range products {
		if p.ID == "" {
			return nil, fmt.Errorf("product #%d has empty id", i)
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate product id %q", p.ID)
		}
		if !p.All && !p.AutoPick() && p.PackArea <= 0 {
			return nil, fmt.Errorf("product %q: pack area must be positive", p.ID)
		}
		for _, v := range p.Variants {
			if v.PackArea <= 0 {
				return nil, fmt.Errorf("product %q variant %q: pack area must be positive", p.ID, v.Label)
			}
		}
		p.Variants = append([]Variant(nil), p.Variants...)
		c.byID[p.ID] = len(c.products)
		c.products = append(c.products, p)
	}
	c.presets = append([]OpeningPreset(nil), presets...)
	return c, nil
}

// Load returns the catalog for the given revision name.
func Load(revision string) (*Catalog, error) {
	switch Revision(strings.ToLower(strings.TrimSpace(revision))) {
	case RevisionV1:
		return New(RevisionV1, revisionV1(), defaultPresets())
	case RevisionV2, "":
		return New(RevisionV2, revisionV2(), defaultPresets())
	default:
		return nil, fmt.Errorf("unknown catalog revision %q", revision)
	}
}

func (c *Catalog) Revision() Revision {
	return c.revision
}

func (c *Catalog) Product(id string) (Product, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Product{}, false
	}
	p := c.products[i]
	p.Variants = append([]Variant(nil), p.Variants...)
	return p, true
}

// Products returns the products in declaration order.
func (c *Catalog) Products() []Product {
	out := make([]Product, len(c.products))
	for i, p := range c.products {
		p.Variants = append([]Variant(nil), p.Variants...)
		out[i] = p
	}
	return out
}

func (c *Catalog) Presets() []OpeningPreset {
	return append([]OpeningPreset(nil), c.presets...)
}

func (c *Catalog) Preset(id string) (OpeningPreset, bool) {
	for _, p := range c.presets {
		if p.ID == id {
			return p, true
		}
	}
	return OpeningPreset{}, false
}

// Pack areas are untyped constant expressions so they stay exact (0.3*0.6*10 == 1.8).
func film() Product {
	return Product{
		ID:             FilmID,
		Title:          "Плёнка 60×3 м (рулон)",
		Button:         "Плёнка 60×3 м",
		PackArea:       0.6 * 3.0,
		PackUnit:       unitRolls,
		DefaultReserve: DefaultReserve,
	}
}

func panel3030() Product {
	return Product{
		ID:             Panel3030ID,
		Title:          "Панели 30×30 см (20 шт/уп)",
		Button:         "Панели 30×30 (20 шт/уп)",
		PackArea:       0.3 * 0.3 * 20,
		PackUnit:       unitPacks,
		DefaultReserve: DefaultReserve,
	}
}

func panel3060() Product {
	return Product{
		ID:     Panel3060ID,
		Title:  "Панели 30×60 см (автоподбор 10 или 18 шт/уп)",
		Button: "Панели 30×60 (автоподбор)",
		Variants: []Variant{
			{Label: "10 шт/уп", PackArea: 0.3 * 0.6 * 10, PackUnit: unitPacks},
			{Label: "18 шт/уп", PackArea: 0.3 * 0.6 * 18, PackUnit: unitPacks},
		},
		DefaultReserve: DefaultReserve,
	}
}

func revisionV1() []Product {
	return []Product{
		film(),
		panel3030(),
		panel3060(),
		{
			ID:             AllProductsID,
			Title:          "Рассчитать все товары сразу",
			Button:         "Рассчитать все товары",
			DefaultReserve: DefaultReserve,
			All:            true,
		},
	}
}

func revisionV2() []Product {
	return []Product{
		film(),
		panel3030(),
		panel3060(),
		{
			ID:             LaminateID,
			Title:          "Ламинат 33 класс (2.131 м²/уп)",
			Button:         "Ламинат (2.131 м²/уп)",
			PackArea:       2.131,
			PackUnit:       unitPacks,
			DefaultReserve: DefaultReserve,
			ReserveToggle:  true,
		},
	}
}

func defaultPresets() []OpeningPreset {
	return []OpeningPreset{
		{ID: "door_80x200", Kind: OpeningDoor, Label: "Дверь 0.8×2.0 м", Width: 0.8, Height: 2.0},
		{ID: "door_90x200", Kind: OpeningDoor, Label: "Дверь 0.9×2.0 м", Width: 0.9, Height: 2.0},
		{ID: "window_120x140", Kind: OpeningWindow, Label: "Окно 1.2×1.4 м", Width: 1.2, Height: 1.4},
		{ID: "window_150x150", Kind: OpeningWindow, Label: "Окно 1.5×1.5 м", Width: 1.5, Height: 1.5},
	}
}
