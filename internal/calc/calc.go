// Package calc turns an area into pack counts. Everything here is pure.
package calc

import (
	"errors"
	"fmt"
	"math"

	"coverage-bot/internal/catalog"
)

// tolerance keeps equal overages equal when comparing variants.
const tolerance = 1e-9

var (
	ErrNonPositiveArea = errors.New("area must be positive")
	ErrUnknownProduct  = errors.New("unknown product")
	ErrIncompleteSet   = errors.New("catalog lacks products for the all-products calculation")
)

type Kind string

const (
	KindSingle   Kind = "single"
	KindAutoPick Kind = "auto_pick"
	KindAll      Kind = "all"
)

// Result is produced once per finalize. Exactly one of Single, AutoPick, All
// is set, matching Kind.
type Result struct {
	Kind       Kind    `json:"kind"`
	ProductID  string  `json:"product_id"`
	Title      string  `json:"title"`
	NetArea    float64 `json:"net_area"`
	TargetArea float64 `json:"target_area"`
	Reserve    float64 `json:"reserve"`

	Single   *Single   `json:"single,omitempty"`
	AutoPick *AutoPick `json:"auto_pick,omitempty"`
	All      *All      `json:"all,omitempty"`
}

type Single struct {
	Count    int     `json:"count"`
	PackUnit string  `json:"pack_unit"`
	Covered  float64 `json:"covered"`
}

type VariantResult struct {
	Label    string  `json:"label"`
	Count    int     `json:"count"`
	PackUnit string  `json:"pack_unit"`
	Covered  float64 `json:"covered"`
	Overage  float64 `json:"overage"`
}

type AutoPick struct {
	Variants  []VariantResult `json:"variants"`
	BestIndex int             `json:"best_index"`
}

func (a AutoPick) Best() VariantResult {
	return a.Variants[a.BestIndex]
}

// Line is one fixed row of the all-products calculation.
type Line struct {
	Label    string `json:"label"`
	Count    int    `json:"count"`
	PackUnit string `json:"pack_unit"`
}

// All has exactly four lines in the order film, 30×30, 30×60 (10), 30×60 (18).
type All struct {
	Lines []Line `json:"lines"`
}

// RecommendedCount is the pack count the user is asked to price.
func (r Result) RecommendedCount() (int, string) {
	switch r.Kind {
	case KindSingle:
		return r.Single.Count, ""
	case KindAutoPick:
		best := r.AutoPick.Best()
		return best.Count, best.Label
	default:
		return 0, ""
	}
}

func ApplyReserve(area, reserve float64) float64 {
	return area * (1 + reserve)
}

// PacksNeeded always rounds up: n*packArea >= area. packArea comes from the
// catalog only, so a non-positive value is a programming error.
func PacksNeeded(area, packArea float64) int {
	if packArea <= 0 {
		panic(fmt.Sprintf("calc: pack area must be positive, got %v", packArea))
	}
	n := int(math.Ceil(area / packArea))
	// the quotient of an exact multiple may carry noise, e.g. 3.6/1.8 == 2.0000000000000004
	if n > 1 && float64(n-1)*packArea >= area {
		n--
	}
	if float64(n)*packArea < area {
		n++
	}
	if n < 1 && area > 0 {
		n = 1
	}
	return n
}

// Calculate dispatches on the product type.
func Calculate(c *catalog.Catalog, productID string, netArea, reserve float64) (Result, error) {
	p, ok := c.Product(productID)
	if !ok {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownProduct, productID)
	}
	if p.All {
		return CalculateAll(c, p, netArea, reserve)
	}
	return CalculateProduct(p, netArea, reserve)
}

func CalculateProduct(p catalog.Product, netArea, reserve float64) (Result, error) {
	if netArea <= 0 {
		return Result{}, ErrNonPositiveArea
	}

	res := Result{
		ProductID:  p.ID,
		Title:      p.Title,
		NetArea:    netArea,
		TargetArea: ApplyReserve(netArea, reserve),
		Reserve:    reserve,
	}

	if !p.AutoPick() {
		count := PacksNeeded(res.TargetArea, p.PackArea)
		res.Kind = KindSingle
		res.Single = &Single{
			Count:    count,
			PackUnit: p.PackUnit,
			Covered:  float64(count) * p.PackArea,
		}
		return res, nil
	}

	pick := &AutoPick{Variants: make([]VariantResult, 0, len(p.Variants))}
	for i, v := range p.Variants {
		count := PacksNeeded(res.TargetArea, v.PackArea)
		covered := float64(count) * v.PackArea
		vr := VariantResult{
			Label:    v.Label,
			Count:    count,
			PackUnit: v.PackUnit,
			Covered:  covered,
			Overage:  covered - res.TargetArea,
		}
		pick.Variants = append(pick.Variants, vr)
		// strictly smaller by more than tolerance: the first declared variant wins ties
		if i > 0 && vr.Overage < pick.Variants[pick.BestIndex].Overage-tolerance {
			pick.BestIndex = i
		}
	}
	res.Kind = KindAutoPick
	res.AutoPick = pick
	return res, nil
}

// CalculateAll counts packs of every fixed product independently. It has no
// best-of selection.
func CalculateAll(c *catalog.Catalog, all catalog.Product, netArea, reserve float64) (Result, error) {
	if netArea <= 0 {
		return Result{}, ErrNonPositiveArea
	}
	film, okFilm := c.Product(catalog.FilmID)
	p3030, ok3030 := c.Product(catalog.Panel3030ID)
	p3060, ok3060 := c.Product(catalog.Panel3060ID)
	if !okFilm || !ok3030 || !ok3060 || len(p3060.Variants) < 2 {
		return Result{}, ErrIncompleteSet
	}

	target := ApplyReserve(netArea, reserve)
	v10, v18 := p3060.Variants[0], p3060.Variants[1]

	return Result{
		Kind:       KindAll,
		ProductID:  all.ID,
		Title:      all.Title,
		NetArea:    netArea,
		TargetArea: target,
		Reserve:    reserve,
		All: &All{Lines: []Line{
			{Label: "Плёнка 60×3 м", Count: PacksNeeded(target, film.PackArea), PackUnit: film.PackUnit},
			{Label: "Панели 30×30 (20 шт/уп)", Count: PacksNeeded(target, p3030.PackArea), PackUnit: p3030.PackUnit},
			{Label: "Панели 30×60 (" + v10.Label + ")", Count: PacksNeeded(target, v10.PackArea), PackUnit: v10.PackUnit},
			{Label: "Панели 30×60 (" + v18.Label + ")", Count: PacksNeeded(target, v18.PackArea), PackUnit: v18.PackUnit},
		}},
	}, nil
}
