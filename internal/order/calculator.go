package order

import "teakspice-catalog/internal/models"

// ShippingRule charges FlatFee unless the subtotal reaches FreeThreshold.
// The threshold is inclusive: a subtotal equal to it ships free. Cart totals
// and placed orders both go through Fee, so they always agree.
type ShippingRule struct {
	FreeThreshold models.Money `yaml:"free_threshold" json:"freeThreshold"`
	FlatFee       models.Money `yaml:"flat_fee" json:"flatFee"`
}

func DefaultShippingRule() ShippingRule {
	return ShippingRule{FreeThreshold: 5000, FlatFee: 250}
}

func (r ShippingRule) Fee(subtotal models.Money) models.Money {
	if subtotal >= r.FreeThreshold {
		return 0
	}
	return r.FlatFee
}

type Totals struct {
	Subtotal    models.Money `json:"subtotal"`
	ShippingFee models.Money `json:"shippingFee"`
	Total       models.Money `json:"total"`
}

type Calculator struct {
	Rule ShippingRule
}

func NewCalculator(rule ShippingRule) Calculator {
	return Calculator{Rule: rule}
}

func (c Calculator) Subtotal(lines []models.OrderLine) models.Money {
	var subtotal models.Money
	for _, l := range lines {
		subtotal += l.Amount()
	}
	return subtotal
}

func (c Calculator) ShippingFee(subtotal models.Money) models.Money {
	return c.Rule.Fee(subtotal)
}

func (c Calculator) Total(lines []models.OrderLine) models.Money {
	return c.Totals(lines).Total
}

// Totals prices a set of lines. Nothing is charged for an empty set.
func (c Calculator) Totals(lines []models.OrderLine) Totals {
	if len(lines) == 0 {
		return Totals{}
	}
	subtotal := c.Subtotal(lines)
	fee := c.ShippingFee(subtotal)
	return Totals{Subtotal: subtotal, ShippingFee: fee, Total: subtotal + fee}
}

// LinesFromCart freezes cart entries into order lines at their snapshot prices.
func LinesFromCart(entries []models.CartEntry) []models.OrderLine {
	lines := make([]models.OrderLine, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, models.OrderLine{
			ProductID: e.ProductID,
			Name:      e.DisplayName,
			UnitPrice: e.UnitPrice,
			Quantity:  e.Quantity,
			Image:     e.Image,
		})
	}
	return lines
}
