package api

import (
	"teakspice-catalog/internal/cart"
	"teakspice-catalog/internal/models"
	"teakspice-catalog/internal/order"
	"teakspice-catalog/internal/pricing"
)

// Amounts are sent both in minor units and as a two-decimal string.

type productView struct {
	models.Product
	DisplayPrice     models.Money `json:"displayPrice"`
	DisplayPriceText string       `json:"displayPriceText"`
	StrikePrice      models.Money `json:"strikePrice,omitempty"`
	StrikePriceText  string       `json:"strikePriceText,omitempty"`
	DiscountPercent  int          `json:"discountPercent,omitempty"`
	OfferName        string       `json:"offerName,omitempty"`
	InStock          bool         `json:"inStock"`
}

func viewProduct(p models.Product) productView {
	d := pricing.Resolve(&p)
	v := productView{
		Product:          p,
		DisplayPrice:     d.DisplayPrice,
		DisplayPriceText: pricing.Format(d.DisplayPrice),
		DiscountPercent:  d.DiscountPercent,
		OfferName:        d.OfferName,
		InStock:          p.Stock > 0,
	}
	if d.HasStrike() {
		v.StrikePrice = d.StrikePrice
		v.StrikePriceText = pricing.Format(d.StrikePrice)
	}
	return v
}

func viewProducts(ps []models.Product) []productView {
	out := make([]productView, 0, len(ps))
	for _, p := range ps {
		out = append(out, viewProduct(p))
	}
	return out
}

type totalsView struct {
	order.Totals
	SubtotalText    string `json:"subtotalText"`
	ShippingFeeText string `json:"shippingFeeText"`
	TotalText       string `json:"totalText"`
}

func viewTotals(t order.Totals) totalsView {
	return totalsView{
		Totals:          t,
		SubtotalText:    pricing.Format(t.Subtotal),
		ShippingFeeText: pricing.Format(t.ShippingFee),
		TotalText:       pricing.Format(t.Total),
	}
}

type cartView struct {
	Entries []models.CartEntry `json:"entries"`
	totalsView
}

func viewCart(s cart.Summary) cartView {
	return cartView{Entries: s.Entries, totalsView: viewTotals(s.Totals)}
}

type cartResultView struct {
	Entry  models.CartEntry `json:"entry"`
	Notice string           `json:"notice,omitempty"`
	Kind   string           `json:"kind,omitempty"`
	Cart   *cartView        `json:"cart,omitempty"`
}

func viewResult(r cart.Result) cartResultView {
	v := cartResultView{Entry: r.Entry}
	if r.Notice != nil {
		v.Notice = r.Notice.Message
		v.Kind = r.Notice.Kind.String()
	}
	return v
}

// Stored totals are shown as they were frozen at placement.
type orderView struct {
	models.Order
	SubtotalText    string `json:"subtotalText"`
	ShippingFeeText string `json:"shippingFeeText"`
	TotalText       string `json:"totalText"`
}

func viewOrder(o models.Order) orderView {
	return orderView{
		Order:           o,
		SubtotalText:    pricing.Format(o.Subtotal),
		ShippingFeeText: pricing.Format(o.ShippingFee),
		TotalText:       pricing.Format(o.Total),
	}
}

func viewOrders(orders []models.Order) []orderView {
	out := make([]orderView, 0, len(orders))
	for _, o := range orders {
		out = append(out, viewOrder(o))
	}
	return out
}
