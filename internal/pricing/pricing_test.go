package pricing

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"teakspice-catalog/internal/apperr"
	"teakspice-catalog/internal/models"
)

func TestResolve_OfferWithStrike(t *testing.T) {
	p := &models.Product{BasePrice: 15999, Offer: &models.Offer{Name: "Diwali", Price: 12499}}

	d := Resolve(p)

	assert.Equal(t, models.Money(12499), d.DisplayPrice)
	assert.Equal(t, models.Money(15999), d.StrikePrice)
	assert.Equal(t, 22, d.DiscountPercent)
	assert.Equal(t, "Diwali", d.OfferName)
}

func TestResolve_OfferAboveBaseHasNoStrike(t *testing.T) {
	p := &models.Product{BasePrice: 1000, Offer: &models.Offer{Price: 1200}}

	d := Resolve(p)

	assert.Equal(t, models.Money(1200), d.DisplayPrice)
	assert.False(t, d.HasStrike())
	assert.Zero(t, d.DiscountPercent)
}

func TestResolve_OfferWithoutPositivePriceIsIgnored(t *testing.T) {
	p := &models.Product{BasePrice: 1000, OriginalPrice: 1500, Offer: &models.Offer{Name: "broken"}}

	d := Resolve(p)

	assert.Equal(t, models.Money(1000), d.DisplayPrice)
	assert.Equal(t, models.Money(1500), d.StrikePrice)
	assert.IsType(t, Base{}, State(p))
}

func TestResolve_BaseWithOriginal(t *testing.T) {
	p := &models.Product{BasePrice: 750, OriginalPrice: 1000}

	d := Resolve(p)

	assert.Equal(t, models.Money(750), d.DisplayPrice)
	assert.Equal(t, models.Money(1000), d.StrikePrice)
	assert.Equal(t, 25, d.DiscountPercent)
}

func TestResolve_OriginalNotHigherIsHidden(t *testing.T) {
	for _, original := range []models.Money{0, 500, 1000} {
		p := &models.Product{BasePrice: 1000, OriginalPrice: original}
		d := Resolve(p)
		assert.False(t, d.HasStrike(), "original %d", original)
		assert.Zero(t, d.DiscountPercent)
	}
}

func TestResolve_OfferNeverAboveBaseWhenDiscounted(t *testing.T) {
	for base := models.Money(1); base < 3000; base += 137 {
		for offer := models.Money(1); offer < 3000; offer += 211 {
			p := &models.Product{BasePrice: base, Offer: &models.Offer{Price: offer}}
			d := Resolve(p)
			require.Equal(t, offer, d.DisplayPrice)
			if d.HasStrike() {
				require.LessOrEqual(t, d.DisplayPrice, base)
				require.GreaterOrEqual(t, d.DiscountPercent, 0)
				require.LessOrEqual(t, d.DiscountPercent, 100)
			}
		}
	}
}

func TestDiscountPercent_RoundsHalfUp(t *testing.T) {
	// 1/8 = 12.5%
	assert.Equal(t, 13, discountPercent(800, 700))
	// 1/3 = 33.33%
	assert.Equal(t, 33, discountPercent(300, 200))
}

func TestSetOffer(t *testing.T) {
	p := &models.Product{BasePrice: 2000, OriginalPrice: 2500}

	require.NoError(t, SetOffer(p, OfferInput{Name: "  Festive  ", Price: "1800"}))

	require.True(t, p.HasOffer())
	assert.Equal(t, "Festive", p.Offer.Name)
	assert.Equal(t, models.Money(1800), p.Offer.Price)
	assert.Equal(t, models.Money(2000), p.BasePrice)
}

func TestSetOffer_DefaultName(t *testing.T) {
	p := &models.Product{BasePrice: 2000}

	require.NoError(t, SetOffer(p, OfferInput{Price: "1500"}))

	assert.Equal(t, DefaultOfferName, p.Offer.Name)
}

func TestSetOffer_Rejects(t *testing.T) {
	cases := map[string]string{
		"missing":      "",
		"blank":        "   ",
		"non-numeric":  "cheap",
		"zero":         "0",
		"negative":     "-10",
		"fractional":   "12.5",
		"numeric junk": "12abc",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			p := &models.Product{BasePrice: 2000}
			err := SetOffer(p, OfferInput{Name: "x", Price: raw})
			require.Error(t, err)
			assert.True(t, apperr.Is(err, apperr.KindValidation))
			assert.False(t, p.HasOffer(), "offer must not be applied")
		})
	}
}

func TestPriceText_AcceptsTextAndNumbers(t *testing.T) {
	tests := map[string]PriceText{
		`{"price":"12499"}`: "12499",
		`{"price":12499}`:   "12499",
		`{"price":"abc"}`:   "abc",
		`{"price":null}`:    "",
		`{}`:                "",
	}
	for body, want := range tests {
		var in struct {
			Price PriceText `json:"price"`
		}
		require.NoError(t, json.Unmarshal([]byte(body), &in), body)
		assert.Equal(t, want, in.Price, body)
	}

	var in struct {
		Price PriceText `json:"price"`
	}
	assert.Error(t, json.Unmarshal([]byte(`{"price":true}`), &in))

	price, err := ParsePrice(string(PriceText("12499")))
	require.NoError(t, err)
	assert.Equal(t, models.Money(12499), price)
}

func TestClearOffer_KeepsBasePrices(t *testing.T) {
	p := &models.Product{BasePrice: 2000, OriginalPrice: 2600, Offer: &models.Offer{Name: "x", Price: 1500}}

	ClearOffer(p)

	assert.False(t, p.HasOffer())
	assert.Equal(t, models.Money(2000), p.BasePrice)
	assert.Equal(t, models.Money(2600), p.OriginalPrice)
	assert.Equal(t, models.Money(2000), Resolve(p).DisplayPrice)
}

func TestValidateBase(t *testing.T) {
	assert.NoError(t, ValidateBase(100, 0))
	assert.NoError(t, ValidateBase(100, 150))
	assert.Error(t, ValidateBase(0, 0))
	assert.Error(t, ValidateBase(-5, 0))
	assert.Error(t, ValidateBase(100, -1))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "124.99", Format(12499))
	assert.Equal(t, "0.05", Format(5))
	assert.Equal(t, "50.00", Format(5000))
}
