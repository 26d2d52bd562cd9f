package dialog

import (
	"coverage-bot/internal/area"
	"coverage-bot/internal/calc"
	"coverage-bot/internal/catalog"
)

// PendingSurface is a surface whose fields are still being entered.
// Nil pointers are fields not entered yet.
type PendingSurface struct {
	Name     string   `json:"name"`
	LengthCM *float64 `json:"length_cm,omitempty"`
	WidthCM  *float64 `json:"width_cm,omitempty"`
}

type PendingOpening struct {
	Kind  catalog.OpeningKind `json:"kind"`
	Width *float64            `json:"width,omitempty"`
}

// Session is the whole state of one conversation. It is stored by the
// transport between events and serialized as JSON.
type Session struct {
	State     State   `json:"state"`
	ProductID string  `json:"product_id,omitempty"`
	Reserve   float64 `json:"reserve"`

	Area     area.Accumulator `json:"area"`
	BaseArea *float64         `json:"base_area,omitempty"`

	Result     *calc.Result `json:"result,omitempty"`
	EstimateID string       `json:"estimate_id,omitempty"`

	// At most one of these is set at a time.
	PendingSurface *PendingSurface `json:"pending_surface,omitempty"`
	PendingOpening *PendingOpening `json:"pending_opening,omitempty"`

	// Prices entered so far in StateWaitingPriceAll.
	Prices []float64 `json:"prices,omitempty"`
}

// Fresh is the session of a conversation with nothing selected.
func Fresh() Session {
	return Session{State: StateChooseProduct}
}

// CurrentState treats the zero session as StateChooseProduct.
func (s Session) CurrentState() State {
	if s.State == "" {
		return StateChooseProduct
	}
	return s.State
}

// Clone copies everything a handler may modify so the caller's value stays untouched.
func (s Session) Clone() Session {
	c := s
	c.Area.Surfaces = append([]area.Surface(nil), s.Area.Surfaces...)
	c.Area.Openings = append([]area.Opening(nil), s.Area.Openings...)
	c.Prices = append([]float64(nil), s.Prices...)
	if s.BaseArea != nil {
		c.BaseArea = ptr(*s.BaseArea)
	}
	if s.PendingSurface != nil {
		ps := *s.PendingSurface
		c.PendingSurface = &ps
	}
	if s.PendingOpening != nil {
		po := *s.PendingOpening
		c.PendingOpening = &po
	}
	return c
}

func ptr[T any](v T) *T {
	return &v
}
