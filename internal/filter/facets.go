package filter

import (
	"slices"

	"teakspice-catalog/internal/models"
	"teakspice-catalog/internal/pricing"
)

// FacetOptions lists what a shopper can choose from for a catalog.
type FacetOptions struct {
	Categories   []models.Category `json:"categories"`
	Occasions    []string          `json:"occasions"`
	PriceRange   PriceBand         `json:"priceRange"`
	Availability Availability      `json:"availability"`
	Promotional  int               `json:"promotional"`
}

type Availability struct {
	InStock    int `json:"inStock"`
	OutOfStock int `json:"outOfStock"`
}

// Facets derives the selectable options. Inactive categories are left out even
// when products still reference them.
func Facets(products []models.Product, categories []models.Category) FacetOptions {
	opts := FacetOptions{
		Categories: make([]models.Category, 0, len(categories)),
		Occasions:  []string{},
	}
	for _, c := range categories {
		if c.IsActive {
			opts.Categories = append(opts.Categories, c)
		}
	}

	seen := make(map[string]bool)
	for i := range products {
		p := &products[i]
		price := pricing.Resolve(p).DisplayPrice
		if i == 0 || price < opts.PriceRange.Min {
			opts.PriceRange.Min = price
		}
		if price > opts.PriceRange.Max {
			opts.PriceRange.Max = price
		}
		if p.Stock > 0 {
			opts.Availability.InStock++
		} else {
			opts.Availability.OutOfStock++
		}
		if p.HasOffer() {
			opts.Promotional++
		}
		for _, o := range p.Occasions {
			if !seen[o] {
				seen[o] = true
				opts.Occasions = append(opts.Occasions, o)
			}
		}
	}
	slices.Sort(opts.Occasions)
	return opts
}
