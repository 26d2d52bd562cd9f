package calc

import (
	"math"
	"testing"

	"coverage-bot/internal/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyReserve(t *testing.T) {
	for _, a := range []float64{0.01, 1, 12.5, 1000} {
		for _, r := range []float64{0, 0.05, 0.10, 0.5} {
			got := ApplyReserve(a, r)
			assert.GreaterOrEqual(t, got, a)
			if r == 0 {
				assert.Equal(t, a, got)
			} else {
				assert.Greater(t, got, a)
			}
		}
	}
}

func TestPacksNeeded(t *testing.T) {
	tests := []struct {
		name     string
		area     float64
		packArea float64
		want     int
	}{
		{name: "just above one pack", area: 1.81, packArea: 1.8, want: 2},
		{name: "exactly one pack", area: 1.8, packArea: 1.8, want: 1},
		{name: "exact multiple with float noise", area: 3.6, packArea: 1.8, want: 2},
		{name: "scenario film", area: 13.75, packArea: 1.8, want: 8},
		{name: "tiny area", area: 0.0001, packArea: 1.8, want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PacksNeeded(tt.area, tt.packArea))
		})
	}
}

func TestPacksNeededMatchesCeil(t *testing.T) {
	for _, a := range []float64{0.5, 1.7, 2.3, 7.77, 19.01, 123.4} {
		for _, p := range []float64{0.9, 1.8, 2.131, 3.24} {
			assert.Equal(t, int(math.Ceil(a/p)), PacksNeeded(a, p), "area=%v pack=%v", a, p)
		}
	}
}

func TestPacksNeededNeverUnderCovers(t *testing.T) {
	target := ApplyReserve(1.6363636364, 0.10)
	require.Greater(t, target, 1.8)
	n := PacksNeeded(target, 1.8)
	assert.Equal(t, 2, n)

	for _, a := range []float64{target, 1.8, 3.6, 5.4, 6.48, 10.8, 13.750000000000002, 18.7} {
		for _, p := range []float64{1.8, 2.131, 3.24} {
			n := PacksNeeded(a, p)
			assert.GreaterOrEqual(t, float64(n)*p, a, "area=%v pack=%v", a, p)
			if n > 1 {
				assert.Less(t, float64(n-1)*p, a, "area=%v pack=%v", a, p)
			}
		}
	}
}

func TestCalculateOverageNeverNegative(t *testing.T) {
	c, err := catalog.Load("v1")
	require.NoError(t, err)

	res, err := Calculate(c, catalog.Panel3060ID, 1.6363636364, 0.10)
	require.NoError(t, err)
	for _, v := range res.AutoPick.Variants {
		assert.GreaterOrEqual(t, v.Overage, 0.0, v.Label)
		assert.GreaterOrEqual(t, v.Covered, res.TargetArea, v.Label)
	}
}

func TestPacksNeededPanicsOnBadPackArea(t *testing.T) {
	assert.Panics(t, func() { PacksNeeded(1, 0) })
	assert.Panics(t, func() { PacksNeeded(1, -1) })
}

func TestCalculateSingleFilm(t *testing.T) {
	c, err := catalog.Load("v2")
	require.NoError(t, err)

	res, err := Calculate(c, catalog.FilmID, 12.5, 0.10)
	require.NoError(t, err)

	assert.Equal(t, KindSingle, res.Kind)
	assert.InDelta(t, 13.75, res.TargetArea, 1e-9)
	require.NotNil(t, res.Single)
	assert.Equal(t, 8, res.Single.Count)
	assert.InDelta(t, 14.4, res.Single.Covered, 1e-9)
	assert.Equal(t, "рулон(ов)", res.Single.PackUnit)
	assert.Nil(t, res.AutoPick)
	assert.Nil(t, res.All)
}

func TestCalculateAutoPickTieGoesToFirstDeclared(t *testing.T) {
	p := catalog.Product{
		ID:    "panels",
		Title: "Panels",
		Variants: []catalog.Variant{
			{Label: "A", PackArea: 1.8, PackUnit: "упаковок"},
			{Label: "B", PackArea: 5.4, PackUnit: "упаковок"},
		},
	}

	res, err := CalculateProduct(p, 10.0, 0)
	require.NoError(t, err)
	require.Equal(t, KindAutoPick, res.Kind)

	v := res.AutoPick.Variants
	require.Len(t, v, 2)
	assert.Equal(t, 6, v[0].Count)
	assert.Equal(t, 2, v[1].Count)
	assert.InDelta(t, 10.8, v[0].Covered, 1e-9)
	assert.InDelta(t, 10.8, v[1].Covered, 1e-9)
	assert.InDelta(t, 0.8, v[0].Overage, 1e-9)
	assert.InDelta(t, 0.8, v[1].Overage, 1e-9)
	assert.Equal(t, "A", res.AutoPick.Best().Label)
}

func TestCalculateAutoPickChoosesLeastOverage(t *testing.T) {
	c, err := catalog.Load("v1")
	require.NoError(t, err)

	// target 11.0: 10 pcs -> 7 packs (12.6), 18 pcs -> 4 packs (12.96)
	res, err := Calculate(c, catalog.Panel3060ID, 10, 0.10)
	require.NoError(t, err)
	assert.Equal(t, "10 шт/уп", res.AutoPick.Best().Label)

	// target 6.4: 10 pcs -> 4 packs (7.2), 18 pcs -> 2 packs (6.48)
	res, err = CalculateProduct(mustProduct(t, c, catalog.Panel3060ID), 6.4, 0)
	require.NoError(t, err)
	assert.Equal(t, "18 шт/уп", res.AutoPick.Best().Label)
	for _, v := range res.AutoPick.Variants {
		assert.GreaterOrEqual(t, v.Overage, 0.0)
		assert.GreaterOrEqual(t, v.Overage, res.AutoPick.Best().Overage-tolerance)
	}
}

func TestCalculateAll(t *testing.T) {
	c, err := catalog.Load("v1")
	require.NoError(t, err)

	res, err := Calculate(c, catalog.AllProductsID, 12.5, 0.10)
	require.NoError(t, err)
	require.Equal(t, KindAll, res.Kind)
	require.Len(t, res.All.Lines, 4)

	counts := []int{res.All.Lines[0].Count, res.All.Lines[1].Count, res.All.Lines[2].Count, res.All.Lines[3].Count}
	// target 13.75: 1.8 -> 8, 1.8 -> 8, 1.8 -> 8, 3.24 -> 5
	assert.Equal(t, []int{8, 8, 8, 5}, counts)
	assert.Nil(t, res.AutoPick)
}

func TestCalculateAllRequiresFixedProducts(t *testing.T) {
	c, err := catalog.New(catalog.RevisionV1, []catalog.Product{
		{ID: catalog.AllProductsID, All: true},
	}, nil)
	require.NoError(t, err)

	_, err = Calculate(c, catalog.AllProductsID, 5, 0.1)
	assert.ErrorIs(t, err, ErrIncompleteSet)
}

func TestCalculateRejectsBadInput(t *testing.T) {
	c, err := catalog.Load("v2")
	require.NoError(t, err)

	_, err = Calculate(c, "nope", 5, 0.1)
	assert.ErrorIs(t, err, ErrUnknownProduct)

	_, err = Calculate(c, catalog.FilmID, 0, 0.1)
	assert.ErrorIs(t, err, ErrNonPositiveArea)
}

func TestRecommendedCount(t *testing.T) {
	single := Result{Kind: KindSingle, Single: &Single{Count: 8}}
	n, label := single.RecommendedCount()
	assert.Equal(t, 8, n)
	assert.Empty(t, label)

	auto := Result{Kind: KindAutoPick, AutoPick: &AutoPick{
		Variants:  []VariantResult{{Label: "A", Count: 6}, {Label: "B", Count: 2}},
		BestIndex: 1,
	}}
	n, label = auto.RecommendedCount()
	assert.Equal(t, 2, n)
	assert.Equal(t, "B", label)
}

func mustProduct(t *testing.T, c *catalog.Catalog, id string) catalog.Product {
	t.Helper()
	p, ok := c.Product(id)
	require.True(t, ok)
	return p
}
