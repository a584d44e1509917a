package filter

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"teakspice-catalog/internal/models"
)

func numbered(n int) []models.Product {
	ps := make([]models.Product, n)
	for i := range ps {
		cat := "even"
		if i%2 == 1 {
			cat = "odd"
		}
		ps[i] = models.Product{ID: fmt.Sprintf("p%02d", i), CategoryID: cat, BasePrice: models.Money(100 * (i + 1))}
	}
	return ps
}

func TestView_PageCount(t *testing.T) {
	v := NewView(4)
	v.SetProducts(numbered(10))

	assert.Equal(t, 10, v.Count())
	assert.Equal(t, 3, v.PageCount())

	v.SetProducts(numbered(8))
	assert.Equal(t, 2, v.PageCount())

	v.SetProducts(nil)
	assert.Equal(t, 0, v.PageCount())
	assert.Empty(t, v.Page(1))
	assert.Equal(t, 1, v.CurrentPage())
}

func TestView_StableSlicing(t *testing.T) {
	v := NewView(4)
	v.SetProducts(numbered(10))

	assert.Equal(t, []string{"p00", "p01", "p02", "p03"}, ids(v.Page(1)))
	assert.Equal(t, []string{"p08", "p09"}, ids(v.Page(3)))
	assert.Equal(t, []string{"p08", "p09"}, ids(v.Page(3)))
}

func TestView_PageClamped(t *testing.T) {
	v := NewView(4)
	v.SetProducts(numbered(10))

	v.Page(99)
	assert.Equal(t, 3, v.CurrentPage())

	v.Page(-1)
	assert.Equal(t, 1, v.CurrentPage())
}

func TestView_SelectionChangeResetsPage(t *testing.T) {
	v := NewView(2)
	v.SetProducts(numbered(10))
	v.Page(3)
	assert.Equal(t, 3, v.CurrentPage())

	v.SetSelection(Selection{Categories: []string{"odd"}})

	assert.Equal(t, 1, v.CurrentPage())
	assert.Equal(t, 5, v.Count())
	assert.Equal(t, []string{"p01", "p03"}, ids(v.Items()))
}

func TestView_UnchangedResultKeepsPage(t *testing.T) {
	v := NewView(2)
	v.SetProducts(numbered(10))
	v.Page(2)

	// "all" matches everything, so the filtered set is the same.
	v.SetSelection(Selection{Categories: []string{AllCategories}})

	assert.Equal(t, 2, v.CurrentPage())
}

func TestView_ReloadResetsPage(t *testing.T) {
	v := NewView(2)
	v.SetProducts(numbered(10))
	v.Page(4)

	v.SetProducts(numbered(9))

	assert.Equal(t, 1, v.CurrentPage())
}

func TestView_DefaultPageSize(t *testing.T) {
	assert.Equal(t, DefaultPageSize, NewView(0).PageSize())
}

func TestFacets(t *testing.T) {
	cats := []models.Category{
		{ID: "A", Name: "Sarees", IsActive: true},
		{ID: "B", Name: "Old", IsActive: false},
		{ID: "C", Name: "Kurtas", IsActive: true},
	}

	opts := Facets(catalog(), cats)

	assert.Equal(t, []string{"A", "C"}, []string{opts.Categories[0].ID, opts.Categories[1].ID})
	assert.Equal(t, []string{"birthday", "festive", "wedding"}, opts.Occasions)
	assert.Equal(t, PriceBand{Min: 250, Max: 2000}, opts.PriceRange)
	assert.Equal(t, Availability{InStock: 4, OutOfStock: 1}, opts.Availability)
	assert.Equal(t, 2, opts.Promotional)
}

func TestFacets_Empty(t *testing.T) {
	opts := Facets(nil, nil)
	assert.Empty(t, opts.Categories)
	assert.Empty(t, opts.Occasions)
	assert.Equal(t, PriceBand{}, opts.PriceRange)
}
