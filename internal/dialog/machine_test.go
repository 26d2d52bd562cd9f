package dialog

import (
	"testing"

	"coverage-bot/internal/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMachine(t *testing.T, revision string) *Machine {
	t.Helper()
	c, err := catalog.Load(revision)
	require.NoError(t, err)
	return NewMachine(c, WithIDGenerator(func() string { return "est-1" }))
}

// drive feeds events one by one and fails on the first unexpected error.
func drive(t *testing.T, m *Machine, s Session, events ...Event) (Session, Response) {
	t.Helper()
	var resp Response
	for _, ev := range events {
		s, resp = m.HandleEvent(s, ev)
		require.NoError(t, resp.Err, "event %+v in state %s", ev, s.State)
	}
	return s, resp
}

func sel(p string) Event  { return SelectionEvent(p) }
func text(t string) Event { return TextEvent(t) }

func TestEveryStateHasRoute(t *testing.T) {
	m := newMachine(t, "v2")
	for _, st := range AllStates {
		assert.True(t, m.Routes(st, EventText) || m.Routes(st, EventSelection), "state %s has no route", st)
	}
}

func TestFilmTotalAreaWithPrice(t *testing.T) {
	m := newMachine(t, "v2")
	s, resp := m.Start()
	assert.Len(t, resp.Options, 4)

	s, resp = drive(t, m, s,
		sel(PayloadProduct+catalog.FilmID),
		sel(PayloadModeTotal),
		text("12,5"),
		sel(PayloadOpeningsNo),
	)
	require.True(t, resp.Finalized)
	assert.Equal(t, StateWaitingAskPrice, s.State)
	assert.Equal(t, "est-1", s.EstimateID)
	require.NotNil(t, s.Result)
	assert.Equal(t, 8, s.Result.Single.Count)
	assert.Contains(t, resp.Text, "Нужно: 8 рулон(ов)")

	s, resp = drive(t, m, s, sel(PayloadPriceYes))
	assert.Equal(t, StateWaitingPriceSingle, s.State)

	s, resp = drive(t, m, s, text("790"))
	require.NotNil(t, resp.Quote)
	assert.Equal(t, 6320.0, resp.Quote.Total)
	assert.Contains(t, resp.Text, "6 320.00 ₽")
	assert.Equal(t, Fresh(), s)
}

func TestSurfacesFlow(t *testing.T) {
	m := newMachine(t, "v2")
	s, _ := drive(t, m, Fresh(),
		sel(PayloadProduct+catalog.FilmID),
		sel(PayloadModeSurfaces),
		text("Стол"), text("120"), text("60"), sel(PayloadSides1),
		sel(PayloadSurfaceAdd),
		text("Дверца"), text("80"), text("40"), sel(PayloadSides2),
	)
	require.Len(t, s.Area.Surfaces, 2)
	assert.Equal(t, StateWaitingSurfaceName, s.State)
	assert.Nil(t, s.PendingSurface)

	s, resp := drive(t, m, s, sel(PayloadSurfaceFinish))
	assert.Equal(t, StateAskOpenings, s.State)
	require.NotNil(t, s.BaseArea)
	assert.InDelta(t, 1.36, *s.BaseArea, 1e-9)
	assert.Contains(t, resp.Text, "Итого: 1.36 м²")

	s, resp = drive(t, m, s, sel(PayloadOpeningsNo))
	require.True(t, resp.Finalized)
	assert.Equal(t, 1, s.Result.Single.Count)
	assert.Contains(t, resp.Text, "1) Стол: 120×60 см, 1 сторона = 0.72 м²")
	assert.Empty(t, s.Area.Surfaces, "accumulator is consumed")
}

func TestSurfaceFinishWithoutSurfaces(t *testing.T) {
	m := newMachine(t, "v2")
	s, _ := drive(t, m, Fresh(), sel(PayloadProduct+catalog.FilmID), sel(PayloadModeSurfaces))

	next, resp := m.HandleEvent(s, sel(PayloadSurfaceFinish))
	assert.ErrorIs(t, resp.Err, ErrEmptyAccumulator)
	assert.True(t, resp.Notice)
	assert.Equal(t, s, next)
}

func TestOpeningsSubtracted(t *testing.T) {
	m := newMachine(t, "v2")
	s, _ := drive(t, m, Fresh(),
		sel(PayloadProduct+catalog.Panel3030ID),
		sel(PayloadModeTotal),
		text("20"),
		sel(PayloadOpeningsYes),
		sel(PayloadOpeningPreset+"door_90x200"),
		sel(PayloadOpeningManual+"window"), text("1"), text("1.2"),
	)
	require.Len(t, s.Area.Openings, 2)
	assert.InDelta(t, 3.0, s.Area.OpeningsTotal(), 1e-9)

	s, resp := drive(t, m, s, sel(PayloadOpeningFinish))
	require.True(t, resp.Finalized)
	assert.InDelta(t, 17.0, s.Result.NetArea, 1e-9)
	// 17 * 1.1 = 18.7 -> 11 packs of 1.8
	assert.Equal(t, 11, s.Result.Single.Count)
	assert.Contains(t, resp.Text, "Минус проёмы: 3 м²")
}

func TestZeroNetAreaResets(t *testing.T) {
	m := newMachine(t, "v2")
	s, _ := drive(t, m, Fresh(),
		sel(PayloadProduct+catalog.FilmID),
		sel(PayloadModeTotal),
		text("1.5"),
		sel(PayloadOpeningsYes),
		sel(PayloadOpeningPreset+"door_90x200"),
	)

	s, resp := m.HandleEvent(s, sel(PayloadOpeningFinish))
	assert.ErrorIs(t, resp.Err, ErrZeroNetArea)
	assert.False(t, resp.Finalized)
	assert.Equal(t, Fresh(), s)
	assert.Len(t, resp.Options, 4)
}

func TestOpeningsMatchingAreaExactly(t *testing.T) {
	m := newMachine(t, "v2")
	s, _ := drive(t, m, Fresh(),
		sel(PayloadProduct+catalog.FilmID),
		sel(PayloadModeTotal),
		text("3.93"),
		sel(PayloadOpeningsYes),
		sel(PayloadOpeningPreset+"window_120x140"),
		sel(PayloadOpeningPreset+"window_150x150"),
	)

	s, resp := m.HandleEvent(s, sel(PayloadOpeningFinish))
	assert.ErrorIs(t, resp.Err, ErrZeroNetArea)
	assert.False(t, resp.Finalized)
	assert.Nil(t, s.Result)
	assert.Equal(t, Fresh(), s)
}

func TestMissingPendingEntryRestarts(t *testing.T) {
	m := newMachine(t, "v2")

	s := Session{State: StateWaitingSurfaceLength, ProductID: catalog.FilmID, Reserve: 0.1}
	next, resp := m.HandleEvent(s, text("120"))
	assert.ErrorIs(t, resp.Err, ErrEmptyAccumulator)
	assert.Equal(t, StateWaitingSurfaceName, next.State)
	assert.Nil(t, next.PendingSurface)

	s = Session{State: StateWaitingOpeningHeight, ProductID: catalog.FilmID, Reserve: 0.1, BaseArea: ptr(10.0)}
	next, resp = m.HandleEvent(s, text("2"))
	assert.ErrorIs(t, resp.Err, ErrEmptyAccumulator)
	assert.Equal(t, StateWaitingOpeningType, next.State)
	assert.Nil(t, next.PendingOpening)
	assert.NotEmpty(t, resp.Options)
}

func TestValidationKeepsSession(t *testing.T) {
	m := newMachine(t, "v2")
	s, _ := drive(t, m, Fresh(), sel(PayloadProduct+catalog.FilmID), sel(PayloadModeTotal))

	for _, in := range []string{"abc", "0", "-3", "", "NaN", "Inf"} {
		next, resp := m.HandleEvent(s, text(in))
		assert.ErrorIs(t, resp.Err, ErrValidation, "input %q", in)
		assert.Equal(t, s, next, "input %q", in)
	}

	s, _ = drive(t, m, s, text("5"), sel(PayloadOpeningsYes), sel(PayloadOpeningManual+"door"))
	next, resp := m.HandleEvent(s, text("широкая"))
	assert.ErrorIs(t, resp.Err, ErrValidation)
	assert.Equal(t, StateWaitingOpeningWidth, next.State)
}

func TestBlankSurfaceName(t *testing.T) {
	m := newMachine(t, "v2")
	s, _ := drive(t, m, Fresh(), sel(PayloadProduct+catalog.FilmID), sel(PayloadModeSurfaces))

	next, resp := m.HandleEvent(s, text("   "))
	assert.ErrorIs(t, resp.Err, ErrValidation)
	assert.Equal(t, s, next)
}

func TestUnknownSelection(t *testing.T) {
	m := newMachine(t, "v2")

	tests := []struct {
		name  string
		setup []Event
		ev    Event
	}{
		{name: "sides in product menu", ev: sel(PayloadSides1)},
		{name: "unknown product", ev: sel(PayloadProduct + "missing")},
		{name: "product pick mid flow", setup: []Event{sel(PayloadProduct + catalog.FilmID)}, ev: sel(PayloadProduct + catalog.FilmID)},
		{name: "garbage payload", ev: sel("zzz")},
		{name: "unknown preset", setup: []Event{
			sel(PayloadProduct + catalog.FilmID), sel(PayloadModeTotal), text("5"), sel(PayloadOpeningsYes),
		}, ev: sel(PayloadOpeningPreset + "garage")},
		{name: "unknown manual kind", setup: []Event{
			sel(PayloadProduct + catalog.FilmID), sel(PayloadModeTotal), text("5"), sel(PayloadOpeningsYes),
		}, ev: sel(PayloadOpeningManual + "hatch")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := drive(t, m, Fresh(), tt.setup...)
			next, resp := m.HandleEvent(s, tt.ev)
			assert.ErrorIs(t, resp.Err, ErrUnknownSelection)
			assert.True(t, resp.Notice)
			assert.Equal(t, s.CurrentState(), next.CurrentState())
		})
	}
}

func TestTextWhereButtonsExpected(t *testing.T) {
	m := newMachine(t, "v2")
	s, resp := m.HandleEvent(Session{}, text("привет"))
	assert.ErrorIs(t, resp.Err, ErrUnknownSelection)
	assert.False(t, resp.Notice)
	assert.Len(t, resp.Options, 4)
	assert.Equal(t, StateChooseProduct, s.CurrentState())
}

func TestBackResetsFromAnyState(t *testing.T) {
	m := newMachine(t, "v2")
	s, _ := drive(t, m, Fresh(),
		sel(PayloadProduct+catalog.FilmID),
		sel(PayloadModeSurfaces),
		text("Стол"), text("120"),
	)
	require.NotNil(t, s.PendingSurface)

	s, resp := m.HandleEvent(s, sel(PayloadBack))
	assert.NoError(t, resp.Err)
	assert.Equal(t, Fresh(), s)
}

func TestLaminateReserveToggle(t *testing.T) {
	m := newMachine(t, "v2")

	s, resp := drive(t, m, Fresh(), sel(PayloadProduct+catalog.LaminateID))
	assert.Equal(t, StateChooseWaste, s.State)
	assert.Len(t, resp.Options, 3)

	s, _ = drive(t, m, s, sel(PayloadNoWaste), sel(PayloadModeTotal), text("10"), sel(PayloadOpeningsNo))
	assert.Zero(t, s.Result.Reserve)
	// 10 / 2.131 = 4.69
	assert.Equal(t, 5, s.Result.Single.Count)

	s, _ = drive(t, m, Fresh(), sel(PayloadProduct+catalog.LaminateID), sel(PayloadWaste10), sel(PayloadModeTotal), text("10"), sel(PayloadOpeningsNo))
	assert.InDelta(t, 11.0, s.Result.TargetArea, 1e-9)
	assert.Equal(t, 6, s.Result.Single.Count)
}

func TestAutoPickPricesBestVariant(t *testing.T) {
	m := newMachine(t, "v2")
	s, resp := drive(t, m, Fresh(),
		sel(PayloadProduct+catalog.Panel3060ID),
		sel(PayloadModeTotal), text("10"), sel(PayloadOpeningsNo),
	)
	assert.Contains(t, resp.Text, "Рекомендуем: 10 шт/уп, 7 упаковок")

	s, resp = drive(t, m, s, sel(PayloadPriceYes))
	assert.Contains(t, resp.Text, "10 шт/уп")

	_, resp = drive(t, m, s, text("500"))
	require.NotNil(t, resp.Quote)
	assert.Equal(t, 7, resp.Quote.Count)
	assert.Equal(t, "10 шт/уп", resp.Quote.Label)
	assert.Equal(t, 3500.0, resp.Quote.Total)
}

func TestAllProductsFourPrices(t *testing.T) {
	m := newMachine(t, "v1")
	s, resp := drive(t, m, Fresh(),
		sel(PayloadProduct+catalog.AllProductsID),
		sel(PayloadModeTotal), text("12.5"), sel(PayloadOpeningsNo),
		sel(PayloadPriceYes),
	)
	assert.Equal(t, StateWaitingPriceAll, s.State)
	assert.Equal(t, allPricePrompts[0], resp.Text)

	s, resp = drive(t, m, s, text("100"), text("200"), text("300"))
	assert.Equal(t, StateWaitingPriceAll, s.State)
	assert.Equal(t, []float64{100, 200, 300}, s.Prices)
	assert.Equal(t, allPricePrompts[3], resp.Text)

	s, resp = drive(t, m, s, text("400"))
	require.NotNil(t, resp.AllQuote)
	// 8*100 + 8*200 + 8*300 and 8*100 + 8*200 + 5*400
	assert.Equal(t, 4800.0, resp.AllQuote.TotalIf10)
	assert.Equal(t, 4400.0, resp.AllQuote.TotalIf18)
	assert.Equal(t, Fresh(), s)
}

func TestPriceWithoutResult(t *testing.T) {
	m := newMachine(t, "v2")
	s := Session{State: StateWaitingAskPrice}

	next, resp := m.HandleEvent(s, sel(PayloadPriceYes))
	assert.ErrorIs(t, resp.Err, ErrEmptyAccumulator)
	assert.Equal(t, s, next)
}

func TestPriceNoStartsOver(t *testing.T) {
	m := newMachine(t, "v2")
	s, _ := drive(t, m, Fresh(),
		sel(PayloadProduct+catalog.FilmID), sel(PayloadModeTotal), text("3"), sel(PayloadOpeningsNo),
		sel(PayloadPriceNo),
	)
	assert.Equal(t, Fresh(), s)
}

func TestHandleEventDoesNotMutateInput(t *testing.T) {
	m := newMachine(t, "v2")
	s, _ := drive(t, m, Fresh(),
		sel(PayloadProduct+catalog.FilmID), sel(PayloadModeSurfaces),
		text("Стол"), text("120"), text("60"), sel(PayloadSides1),
	)
	before := s.Clone()

	_, _ = drive(t, m, s, text("Полка"), text("50"), text("30"), sel(PayloadSides2), sel(PayloadSurfaceClear))
	assert.Equal(t, before, s)
}
