// Package area accumulates the surfaces and openings a user declares during
// one calculation and sums their areas.
package area

import (
	"errors"
	"fmt"
	"strings"

	"coverage-bot/internal/catalog"
	"coverage-bot/internal/format"
)

var (
	ErrEmptyName          = errors.New("surface name is empty")
	ErrNonPositive        = errors.New("value must be positive")
	ErrInvalidSides       = errors.New("sides must be 1 or 2")
	ErrUnknownOpeningKind = errors.New("unknown opening kind")
)

// Surface is a rectangle measured in centimeters, covered on one or two sides.
type Surface struct {
	Name     string  `json:"name"`
	LengthCM float64 `json:"length_cm"`
	WidthCM  float64 `json:"width_cm"`
	Sides    int     `json:"sides"`
}

// Area returns the covered area in square meters.
func (s Surface) Area() float64 {
	return s.LengthCM / 100 * s.WidthCM / 100 * float64(s.Sides)
}

// Opening is a door or window measured in meters.
type Opening struct {
	Kind   catalog.OpeningKind `json:"kind"`
	Width  float64             `json:"width"`
	Height float64             `json:"height"`
}

func (o Opening) Area() float64 {
	return o.Width * o.Height
}

// Accumulator keeps surfaces and openings in insertion order.
// Single items cannot be removed, only whole lists.
type Accumulator struct {
	Surfaces []Surface `json:"surfaces,omitempty"`
	Openings []Opening `json:"openings,omitempty"`
}

// ValidateSurface checks the fields of a surface without storing it.
func ValidateSurface(name string, lengthCM, widthCM float64, sides int) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}
	if lengthCM <= 0 {
		return fmt.Errorf("length: %w", ErrNonPositive)
	}
	if widthCM <= 0 {
		return fmt.Errorf("width: %w", ErrNonPositive)
	}
	if sides != 1 && sides != 2 {
		return ErrInvalidSides
	}
	return nil
}

func (a *Accumulator) AddSurface(name string, lengthCM, widthCM float64, sides int) (Surface, error) {
	if err := ValidateSurface(name, lengthCM, widthCM, sides); err != nil {
		return Surface{}, err
	}
	s := Surface{
		Name:     strings.TrimSpace(name),
		LengthCM: lengthCM,
		WidthCM:  widthCM,
		Sides:    sides,
	}
	a.Surfaces = append(a.Surfaces, s)
	return s, nil
}

func (a *Accumulator) ClearSurfaces() {
	a.Surfaces = nil
}

func (a *Accumulator) SurfacesTotal() float64 {
	var total float64
	for _, s := range a.Surfaces {
		total += s.Area()
	}
	return total
}

func ValidOpeningKind(kind catalog.OpeningKind) bool {
	return kind == catalog.OpeningDoor || kind == catalog.OpeningWindow
}

func (a *Accumulator) AddOpening(kind catalog.OpeningKind, width, height float64) (Opening, error) {
	if !ValidOpeningKind(kind) {
		return Opening{}, ErrUnknownOpeningKind
	}
	if width <= 0 {
		return Opening{}, fmt.Errorf("width: %w", ErrNonPositive)
	}
	if height <= 0 {
		return Opening{}, fmt.Errorf("height: %w", ErrNonPositive)
	}
	o := Opening{Kind: kind, Width: width, Height: height}
	a.Openings = append(a.Openings, o)
	return o, nil
}

// AddOpeningFromPreset skips the two-step manual entry.
func (a *Accumulator) AddOpeningFromPreset(p catalog.OpeningPreset) (Opening, error) {
	return a.AddOpening(p.Kind, p.Width, p.Height)
}

func (a *Accumulator) ClearOpenings() {
	a.Openings = nil
}

func (a *Accumulator) OpeningsTotal() float64 {
	var total float64
	for _, o := range a.Openings {
		total += o.Area()
	}
	return total
}

// zeroArea is the largest net area, in m², still counted as nothing left.
// Openings that sum to the base area leave float noise around 1e-16.
const zeroArea = 1e-9

// NetArea subtracts openings from base and floors the result at zero.
func NetArea(base, openings float64) float64 {
	if net := base - openings; net > zeroArea {
		return net
	}
	return 0
}

func SidesLabel(sides int) string {
	if sides == 2 {
		return "2 стороны"
	}
	return "1 сторона"
}

func KindLabel(kind catalog.OpeningKind) string {
	switch kind {
	case catalog.OpeningDoor:
		return "Дверь"
	case catalog.OpeningWindow:
		return "Окно"
	default:
		return string(kind)
	}
}

func (a *Accumulator) SurfacesSummary() string {
	if len(a.Surfaces) == 0 {
		return "Пока не добавлено ни одной поверхности."
	}
	lines := []string{"Добавленные поверхности:"}
	for i, s := range a.Surfaces {
		lines = append(lines, fmt.Sprintf("%d) %s: %s×%s см, %s = %s м²",
			i+1, s.Name,
			format.Number(s.LengthCM), format.Number(s.WidthCM),
			SidesLabel(s.Sides), format.Number(s.Area())))
	}
	lines = append(lines, "", "Итого: "+format.Number(a.SurfacesTotal())+" м²")
	return strings.Join(lines, "\n")
}

func (a *Accumulator) OpeningsSummary() string {
	if len(a.Openings) == 0 {
		return "Проёмы не добавлены."
	}
	lines := []string{"Проёмы:"}
	for i, o := range a.Openings {
		lines = append(lines, fmt.Sprintf("%d) %s %s×%s м = %s м²",
			i+1, KindLabel(o.Kind),
			format.Number(o.Width), format.Number(o.Height), format.Number(o.Area())))
	}
	lines = append(lines, "", "Итого проёмов: "+format.Number(a.OpeningsTotal())+" м²")
	return strings.Join(lines, "\n")
}
