// Package filter narrows a product collection by the storefront facets.
//
// Facets combine with AND; the values selected inside one facet combine with
// OR. A facet with nothing selected does not constrain the result, so an empty
// Selection keeps every product. Price bands are always tested against the
// resolved display price, never the stored base price.
package filter

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"teakspice-catalog/internal/apperr"
	"teakspice-catalog/internal/models"
	"teakspice-catalog/internal/pricing"
)

// AllCategories selects every category.
const AllCategories = "all"

// PriceBand is inclusive at both ends. Max 0 means no upper bound.
type PriceBand struct {
	Min models.Money `json:"min"`
	Max models.Money `json:"max"`
}

func (b PriceBand) Contains(price models.Money) bool {
	if price < b.Min {
		return false
	}
	return b.Max == 0 || price <= b.Max
}

func (b PriceBand) String() string {
	if b.Max == 0 {
		return fmt.Sprintf("%d+", b.Min)
	}
	return fmt.Sprintf("%d-%d", b.Min, b.Max)
}

// ParseBand reads "min-max" or "min+".
func ParseBand(raw string) (PriceBand, error) {
	raw = strings.TrimSpace(raw)
	if lo, ok := strings.CutSuffix(raw, "+"); ok {
		from, err := strconv.ParseInt(lo, 10, 64)
		if err != nil || from < 0 {
			return PriceBand{}, apperr.Validationf("invalid price band %q", raw)
		}
		return PriceBand{Min: from}, nil
	}
	lo, hi, ok := strings.Cut(raw, "-")
	if !ok {
		return PriceBand{}, apperr.Validationf("invalid price band %q", raw)
	}
	from, err1 := strconv.ParseInt(lo, 10, 64)
	to, err2 := strconv.ParseInt(hi, 10, 64)
	if err1 != nil || err2 != nil || from < 0 || to <= 0 || to < from {
		return PriceBand{}, apperr.Validationf("invalid price band %q", raw)
	}
	return PriceBand{Min: from, Max: to}, nil
}

type Selection struct {
	Categories      []string    `json:"categories,omitempty"`
	PriceBands      []PriceBand `json:"priceBands,omitempty"`
	Occasions       []string    `json:"occasions,omitempty"`
	PromotionalOnly bool        `json:"promotionalOnly,omitempty"`
}

func (s Selection) categoryActive() bool {
	return len(s.Categories) > 0 && !slices.Contains(s.Categories, AllCategories)
}

// Active reports whether any facet constrains the result.
func (s Selection) Active() bool {
	return s.categoryActive() || len(s.PriceBands) > 0 || len(s.Occasions) > 0 || s.PromotionalOnly
}

func (s Selection) Match(p *models.Product) bool {
	if s.categoryActive() && !slices.Contains(s.Categories, p.CategoryID) {
		return false
	}
	if len(s.PriceBands) > 0 {
		price := pricing.Resolve(p).DisplayPrice
		if !slices.ContainsFunc(s.PriceBands, func(b PriceBand) bool { return b.Contains(price) }) {
			return false
		}
	}
	if len(s.Occasions) > 0 && !p.HasOccasion(s.Occasions...) {
		return false
	}
	if s.PromotionalOnly && !p.HasOffer() {
		return false
	}
	return true
}

// Apply returns the matching products in their original order.
func Apply(products []models.Product, sel Selection) []models.Product {
	out := make([]models.Product, 0, len(products))
	if !sel.Active() {
		return append(out, products...)
	}
	for i := range products {
		if sel.Match(&products[i]) {
			out = append(out, products[i])
		}
	}
	return out
}
