package area

import (
	"testing"

	"coverage-bot/internal/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddSurface(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		length  float64
		width   float64
		sides   int
		wantErr error
	}{
		{name: "valid single side", title: "Стол", length: 120, width: 60, sides: 1},
		{name: "valid two sides", title: "Дверца", length: 80, width: 40, sides: 2},
		{name: "blank name", title: "   ", length: 1, width: 1, sides: 1, wantErr: ErrEmptyName},
		{name: "zero length", title: "a", length: 0, width: 1, sides: 1, wantErr: ErrNonPositive},
		{name: "negative width", title: "a", length: 1, width: -3, sides: 1, wantErr: ErrNonPositive},
		{name: "three sides", title: "a", length: 1, width: 1, sides: 3, wantErr: ErrInvalidSides},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var acc Accumulator
			_, err := acc.AddSurface(tt.title, tt.length, tt.width, tt.sides)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, acc.Surfaces)
				return
			}
			require.NoError(t, err)
			assert.Len(t, acc.Surfaces, 1)
		})
	}
}

func TestSurfacesTotal(t *testing.T) {
	var acc Accumulator
	s1, err := acc.AddSurface("Стол", 120, 60, 1)
	require.NoError(t, err)
	s2, err := acc.AddSurface("Дверца", 80, 40, 2)
	require.NoError(t, err)

	assert.InDelta(t, 0.72, s1.Area(), 1e-9)
	assert.InDelta(t, 0.64, s2.Area(), 1e-9)
	assert.InDelta(t, 1.36, acc.SurfacesTotal(), 1e-9)

	var sum float64
	for _, s := range acc.Surfaces {
		sum += s.Area()
	}
	assert.Equal(t, sum, acc.SurfacesTotal())
}

func TestClearSurfaces(t *testing.T) {
	var acc Accumulator
	_, _ = acc.AddSurface("a", 10, 10, 1)
	_, _ = acc.AddOpening(catalog.OpeningDoor, 1, 2)

	acc.ClearSurfaces()
	assert.Empty(t, acc.Surfaces)
	assert.Zero(t, acc.SurfacesTotal())
	assert.Len(t, acc.Openings, 1)
}

func TestOpenings(t *testing.T) {
	var acc Accumulator

	_, err := acc.AddOpening("garage", 1, 1)
	assert.ErrorIs(t, err, ErrUnknownOpeningKind)

	_, err = acc.AddOpening(catalog.OpeningWindow, 0, 1)
	assert.ErrorIs(t, err, ErrNonPositive)

	o, err := acc.AddOpeningFromPreset(catalog.OpeningPreset{Kind: catalog.OpeningDoor, Width: 0.9, Height: 2.0})
	require.NoError(t, err)
	assert.InDelta(t, 1.8, o.Area(), 1e-9)

	_, err = acc.AddOpening(catalog.OpeningWindow, 1.2, 1.4)
	require.NoError(t, err)
	assert.InDelta(t, 3.48, acc.OpeningsTotal(), 1e-9)

	acc.ClearOpenings()
	assert.Zero(t, acc.OpeningsTotal())
}

func TestNetArea(t *testing.T) {
	tests := []struct {
		base, openings, want float64
	}{
		{20, 1.8, 18.2},
		{5, 5, 0},
		{5, 7, 0},
		{0, 0, 0},
		{12.5, 0, 12.5},
	}
	for _, tt := range tests {
		got := NetArea(tt.base, tt.openings)
		assert.InDelta(t, tt.want, got, 1e-9)
		assert.GreaterOrEqual(t, got, 0.0)
	}
}

func TestNetAreaIgnoresFloatNoise(t *testing.T) {
	var acc Accumulator
	_, err := acc.AddOpening(catalog.OpeningWindow, 1.2, 1.4)
	require.NoError(t, err)
	_, err = acc.AddOpening(catalog.OpeningWindow, 1.5, 1.5)
	require.NoError(t, err)

	require.NotEqual(t, 3.93, acc.OpeningsTotal())
	assert.Zero(t, NetArea(3.93, acc.OpeningsTotal()))
	assert.InDelta(t, 0.01, NetArea(3.94, acc.OpeningsTotal()), 1e-9)
}

func TestSummaryKeepsInsertionOrder(t *testing.T) {
	var acc Accumulator
	_, _ = acc.AddSurface("Стол", 120, 60, 1)
	_, _ = acc.AddSurface("Полка 1", 80, 40, 2)

	summary := acc.SurfacesSummary()
	assert.Contains(t, summary, "1) Стол: 120×60 см, 1 сторона = 0.72 м²")
	assert.Contains(t, summary, "2) Полка 1: 80×40 см, 2 стороны = 0.64 м²")
	assert.Contains(t, summary, "Итого: 1.36 м²")

	empty := Accumulator{}
	assert.Equal(t, "Пока не добавлено ни одной поверхности.", empty.SurfacesSummary())
}
