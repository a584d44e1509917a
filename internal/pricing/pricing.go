// Package pricing decides which price a product is shown and charged at.
//
// A product is either at its base price, optionally with a higher
// informational "was" price, or under a promotional offer. State turns the
// stored fields into exactly one of those two variants and Resolve derives the
// display price, strike price and discount from it. Everything that needs a
// price for a product goes through Resolve: filters, cart snapshots and
// wishlist snapshots.
package pricing

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"

	"teakspice-catalog/internal/apperr"
	"teakspice-catalog/internal/models"
)

// DefaultOfferName is stored when an offer is set without a name.
const DefaultOfferName = "Special Offer"

// PricingState is either Base or Promotional.
type PricingState interface {
	pricingState()
}

type Base struct {
	Price         models.Money
	OriginalPrice models.Money // 0 when there is no "was" price
}

type Promotional struct {
	Price      models.Money
	OfferPrice models.Money
	OfferName  string
}

func (Base) pricingState()        {}
func (Promotional) pricingState() {}

// State classifies a product. An offer without a positive price is ignored.
func State(p *models.Product) PricingState {
	if p.Offer != nil && p.Offer.Price > 0 {
		return Promotional{Price: p.BasePrice, OfferPrice: p.Offer.Price, OfferName: p.Offer.Name}
	}
	return Base{Price: p.BasePrice, OriginalPrice: p.OriginalPrice}
}

type Display struct {
	DisplayPrice    models.Money `json:"displayPrice"`
	StrikePrice     models.Money `json:"strikePrice,omitempty"` // 0 when nothing is struck through
	DiscountPercent int          `json:"discountPercent"`
	OfferName       string       `json:"offerName,omitempty"`
}

func (d Display) HasStrike() bool {
	return d.StrikePrice > 0
}

func Resolve(p *models.Product) Display {
	var d Display
	switch s := State(p).(type) {
	case Promotional:
		d.DisplayPrice = s.OfferPrice
		d.OfferName = s.OfferName
		if s.Price > s.OfferPrice {
			d.StrikePrice = s.Price
		}
	case Base:
		d.DisplayPrice = s.Price
		if s.OriginalPrice > s.Price {
			d.StrikePrice = s.OriginalPrice
		}
	}
	if d.HasStrike() {
		d.DiscountPercent = discountPercent(d.StrikePrice, d.DisplayPrice)
	}
	return d
}

// discountPercent rounds half away from zero.
func discountPercent(strike, display models.Money) int {
	saved := decimal.NewFromInt(strike - display)
	pct := saved.Mul(decimal.NewFromInt(100)).Div(decimal.NewFromInt(strike))
	return int(pct.Round(0).IntPart())
}

// OfferInput is the admin's raw offer form. Price is kept as text so that a
// missing or non-numeric value can be reported instead of silently becoming 0.
type OfferInput struct {
	Name  string
	Price string
}

// PriceText is a price as a form sent it. JSON strings and numbers are both
// accepted; ParsePrice decides whether the text is a usable price.
type PriceText string

func (t *PriceText) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = PriceText(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return apperr.Validationf("price %s is neither text nor a number", data)
	}
	*t = PriceText(n.String())
	return nil
}

// SetOffer validates in and puts the product on offer. The product is left
// untouched when validation fails.
func SetOffer(p *models.Product, in OfferInput) error {
	price, err := ParsePrice(in.Price)
	if err != nil {
		return err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = DefaultOfferName
	}
	p.Offer = &models.Offer{Name: name, Price: price}
	return nil
}

// ClearOffer takes the product off offer. Base and original prices are kept.
func ClearOffer(p *models.Product) {
	p.Offer = nil
}

// ParsePrice reads a positive whole amount of minor units.
func ParsePrice(raw string) (models.Money, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, apperr.Validation("offer price is required")
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return 0, apperr.Validationf("offer price %q is not a number", raw)
	}
	if !d.IsPositive() {
		return 0, apperr.Validation("offer price must be greater than zero")
	}
	if !d.Equal(d.Truncate(0)) {
		return 0, apperr.Validationf("offer price %q must be a whole amount of minor units", raw)
	}
	return d.IntPart(), nil
}

// ValidateBase checks the non-promotional prices an admin submits.
func ValidateBase(basePrice, originalPrice models.Money) error {
	if basePrice <= 0 {
		return apperr.Validation("price must be greater than zero")
	}
	if originalPrice < 0 {
		return apperr.Validation("original price cannot be negative")
	}
	return nil
}

// Format renders minor units with two decimals, e.g. 12499 -> "124.99".
func Format(m models.Money) string {
	return decimal.New(m, -2).StringFixed(2)
}
