package dialog

import (
	"errors"

	"coverage-bot/internal/pricing"
)

var (
	// ErrValidation means free text could not be parsed or was out of range.
	// The session is left untouched.
	ErrValidation = errors.New("invalid input")
	// ErrUnknownSelection means the event does not belong to the current state.
	ErrUnknownSelection = errors.New("unknown selection")
	// ErrEmptyAccumulator means an action needs data that was never entered.
	ErrEmptyAccumulator = errors.New("nothing entered yet")
	// ErrZeroNetArea means openings cover the whole base area. The session is reset.
	ErrZeroNetArea = errors.New("net area is zero")
)

type EventKind int

const (
	EventText EventKind = iota
	EventSelection
)

func (k EventKind) String() string {
	if k == EventSelection {
		return "selection"
	}
	return "text"
}

// Event is a single user action: a typed message or a pressed button.
type Event struct {
	Kind    EventKind
	Text    string
	Payload string
}

func TextEvent(text string) Event {
	return Event{Kind: EventText, Text: text}
}

func SelectionEvent(payload string) Event {
	return Event{Kind: EventSelection, Payload: payload}
}

// Option is one button of a response keyboard.
type Option struct {
	Label   string
	Payload string
}

// Response is what the transport shows after an event.
type Response struct {
	Text    string
	Options []Option
	// Columns is the number of buttons per row. Zero means one.
	Columns int
	// Notice marks a transient reply (a callback alert) that does not replace
	// the conversation message.
	Notice bool
	Err    error

	// Finalized is set when a pack count result was just computed.
	Finalized bool
	Quote     *pricing.Quote
	AllQuote  *pricing.AllQuote
}

// Selection payloads. Payloads ending with ':' are prefixes.
const (
	PayloadProduct = "calc:"
	PayloadWaste   = "waste:"
	PayloadWaste10 = "waste:10"
	PayloadNoWaste = "waste:0"

	PayloadModeTotal    = "mode:total"
	PayloadModeSurfaces = "mode:surfaces"

	PayloadSurfaceAdd    = "surface:add"
	PayloadSurfaceFinish = "surface:finish"
	PayloadSurfaceClear  = "surface:clear"

	PayloadSides1 = "sides:1"
	PayloadSides2 = "sides:2"

	PayloadOpeningsYes = "openings:yes"
	PayloadOpeningsNo  = "openings:no"

	PayloadOpeningPreset = "opening:preset:"
	PayloadOpeningManual = "opening:manual:"
	PayloadOpeningFinish = "opening:finish"
	PayloadOpeningClear  = "opening:clear"

	PayloadPriceYes = "price:yes"
	PayloadPriceNo  = "price:no"

	PayloadBack = "back:products"
)
