package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"teakspice-catalog/internal/apperr"
	"teakspice-catalog/internal/models"
)

func catalog() []models.Product {
	return []models.Product{
		{ID: "p1", CategoryID: "A", BasePrice: 800, Occasions: []string{"wedding"}, Stock: 3},
		{ID: "p2", CategoryID: "A", BasePrice: 1500, Offer: &models.Offer{Price: 900}, Occasions: []string{"festive"}, Stock: 0},
		{ID: "p3", CategoryID: "B", BasePrice: 400, Occasions: []string{"wedding", "festive"}, Stock: 7},
		{ID: "p4", CategoryID: "B", BasePrice: 2000, Stock: 1},
		{ID: "p5", CategoryID: "C", BasePrice: 300, Offer: &models.Offer{Price: 250}, Occasions: []string{"birthday"}, Stock: 2},
	}
}

func ids(ps []models.Product) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.ID)
	}
	return out
}

func TestApply_NoFacetsReturnsEverything(t *testing.T) {
	got := Apply(catalog(), Selection{})
	assert.Equal(t, []string{"p1", "p2", "p3", "p4", "p5"}, ids(got))
}

func TestApply_AllCategorySentinel(t *testing.T) {
	got := Apply(catalog(), Selection{Categories: []string{"B", AllCategories}})
	assert.Len(t, got, 5)
}

func TestApply_CategoryUnionIntersectBand(t *testing.T) {
	sel := Selection{
		Categories: []string{"A", "B"},
		PriceBands: []PriceBand{{Min: 0, Max: 1000}},
	}

	got := Apply(catalog(), sel)

	// p2 is 1500 base but 900 on offer, so it lands in the band.
	assert.Equal(t, []string{"p1", "p2", "p3"}, ids(got))
}

func TestApply_BandUsesDisplayPrice(t *testing.T) {
	got := Apply(catalog(), Selection{PriceBands: []PriceBand{{Min: 1001, Max: 0}}})
	assert.Equal(t, []string{"p4"}, ids(got))
}

func TestApply_OrWithinBands(t *testing.T) {
	sel := Selection{PriceBands: []PriceBand{{Min: 1900, Max: 2100}, {Min: 0, Max: 300}}}
	assert.Equal(t, []string{"p4", "p5"}, ids(Apply(catalog(), sel)))
}

func TestApply_OccasionIntersects(t *testing.T) {
	got := Apply(catalog(), Selection{Occasions: []string{"festive", "birthday"}})
	assert.Equal(t, []string{"p2", "p3", "p5"}, ids(got))
}

func TestApply_PromotionalOnly(t *testing.T) {
	got := Apply(catalog(), Selection{PromotionalOnly: true})
	assert.Equal(t, []string{"p2", "p5"}, ids(got))
}

func TestApply_AndAcrossAllFacets(t *testing.T) {
	sel := Selection{
		Categories:      []string{"A", "C"},
		PriceBands:      []PriceBand{{Min: 0, Max: 1000}},
		Occasions:       []string{"festive", "birthday"},
		PromotionalOnly: true,
	}
	assert.Equal(t, []string{"p2", "p5"}, ids(Apply(catalog(), sel)))
}

func TestApply_DoesNotAliasInput(t *testing.T) {
	in := catalog()
	out := Apply(in, Selection{})
	out[0].Name = "changed"
	assert.Empty(t, in[0].Name)
}

func TestApply_EmptyCatalog(t *testing.T) {
	got := Apply(nil, Selection{Categories: []string{"A"}})
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestParseBand(t *testing.T) {
	b, err := ParseBand("0-1000")
	require.NoError(t, err)
	assert.Equal(t, PriceBand{Min: 0, Max: 1000}, b)
	assert.Equal(t, "0-1000", b.String())

	b, err = ParseBand(" 5000+ ")
	require.NoError(t, err)
	assert.Equal(t, PriceBand{Min: 5000}, b)
	assert.Equal(t, "5000+", b.String())

	for _, bad := range []string{"", "abc", "10-5", "5-x", "-5+", "0-0"} {
		_, err := ParseBand(bad)
		assert.True(t, apperr.Is(err, apperr.KindValidation), "band %q", bad)
	}
}

func TestPriceBand_ContainsInclusive(t *testing.T) {
	b := PriceBand{Min: 100, Max: 200}
	assert.True(t, b.Contains(100))
	assert.True(t, b.Contains(200))
	assert.False(t, b.Contains(99))
	assert.False(t, b.Contains(201))
}
