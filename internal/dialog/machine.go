// Package dialog is the conversation state machine. It holds no I/O: every
// event maps a session to a new session and a response.
package dialog

import (
	"strings"

	"github.com/google/uuid"

	"coverage-bot/internal/catalog"
)

type handlerFunc func(m *Machine, s Session, ev Event) (Session, Response)

// routeKey selects a handler. prefix is the payload up to the first ':'
// inclusive and is empty for text events.
type routeKey struct {
	state  State
	kind   EventKind
	prefix string
}

type Machine struct {
	catalog *catalog.Catalog
	newID   func() string
	routes  map[routeKey]handlerFunc
}

type MachineOption func(*Machine)

// WithIDGenerator replaces uuid.NewString for estimate IDs.
func WithIDGenerator(gen func() string) MachineOption {
	return func(m *Machine) {
		m.newID = gen
	}
}

func NewMachine(c *catalog.Catalog, opts ...MachineOption) *Machine {
	m := &Machine{
		catalog: c,
		newID:   uuid.NewString,
		routes:  defaultRoutes(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func defaultRoutes() map[routeKey]handlerFunc {
	sel := func(s State, prefix string) routeKey { return routeKey{state: s, kind: EventSelection, prefix: prefix} }
	txt := func(s State) routeKey { return routeKey{state: s, kind: EventText} }

	r := make(map[routeKey]handlerFunc)
	r[sel(StateChooseProduct, "calc:")] = (*Machine).chooseProduct
	r[sel(StateChooseWaste, "waste:")] = (*Machine).chooseWaste
	r[sel(StateChooseInputMode, "mode:")] = (*Machine).chooseInputMode
	r[txt(StateWaitingTotalArea)] = (*Machine).totalArea
	r[txt(StateWaitingSurfaceName)] = (*Machine).surfaceName
	r[sel(StateWaitingSurfaceName, "surface:")] = (*Machine).surfaceAction
	r[txt(StateWaitingSurfaceLength)] = (*Machine).surfaceLength
	r[txt(StateWaitingSurfaceWidth)] = (*Machine).surfaceWidth
	r[sel(StateWaitingSurfaceSides, "sides:")] = (*Machine).surfaceSides
	r[sel(StateAskOpenings, "openings:")] = (*Machine).askOpenings
	r[sel(StateWaitingOpeningType, "opening:")] = (*Machine).openingAction
	r[txt(StateWaitingOpeningWidth)] = (*Machine).openingWidth
	r[txt(StateWaitingOpeningHeight)] = (*Machine).openingHeight
	r[sel(StateWaitingAskPrice, "price:")] = (*Machine).askPrice
	r[txt(StateWaitingPriceSingle)] = (*Machine).priceSingle
	r[txt(StateWaitingPriceAll)] = (*Machine).priceAll
	return r
}

// Catalog is the catalog the machine was built with.
func (m *Machine) Catalog() *catalog.Catalog {
	return m.catalog
}

// Start resets the conversation and shows the welcome text with the product menu.
func (m *Machine) Start() (Session, Response) {
	return Fresh(), Response{Text: m.welcomeText(), Options: m.productOptions()}
}

// Menu resets the conversation and shows only the product menu.
func (m *Machine) Menu(text string) (Session, Response) {
	return Fresh(), Response{Text: text, Options: m.productOptions()}
}

// HandleEvent applies ev to s. ErrValidation and ErrUnknownSelection leave the
// session unchanged. ErrEmptyAccumulator may move it back to the start of the
// interrupted entry. ErrZeroNetArea and a failed calculation reset it.
func (m *Machine) HandleEvent(s Session, ev Event) (Session, Response) {
	s.State = s.CurrentState()

	if ev.Kind == EventSelection && ev.Payload == PayloadBack {
		return m.Menu("Выберите товар:")
	}

	key := routeKey{state: s.State, kind: ev.Kind}
	if ev.Kind == EventSelection {
		key.prefix = payloadPrefix(ev.Payload)
	}
	if h, ok := m.routes[key]; ok {
		return h(m, s.Clone(), ev)
	}

	if ev.Kind == EventSelection {
		return s, unknownSelection()
	}
	// text where only buttons are accepted: repeat the current keyboard
	opts, cols := m.keyboardFor(s)
	return s, Response{
		Text:    "Пожалуйста, выберите вариант кнопкой ниже.",
		Options: opts,
		Columns: cols,
		Err:     ErrUnknownSelection,
	}
}

// Routes reports whether a handler exists for the state and event kind.
func (m *Machine) Routes(state State, kind EventKind) bool {
	for k := range m.routes {
		if k.state == state && k.kind == kind {
			return true
		}
	}
	return false
}

func payloadPrefix(payload string) string {
	if i := strings.IndexByte(payload, ':'); i >= 0 {
		return payload[:i+1]
	}
	return payload
}

func unknownSelection() Response {
	return Response{Text: "Выберите другое действие", Notice: true, Err: ErrUnknownSelection}
}
