// Package stock bounds requested quantities by what is available. Every place
// that sets a quantity uses Clamp or Adjust.
package stock

import (
	"fmt"

	"teakspice-catalog/internal/apperr"
)

// Clamp bounds requested into [1, available]. When available is below 1 the
// result is still 1; callers that add stock check CanInitiateAdd first.
func Clamp(requested, available int) int {
	return max(1, min(requested, available))
}

// CanInitiateAdd rejects adding a product with no stock.
func CanInitiateAdd(available int) error {
	if available <= 0 {
		return apperr.OutOfStock("this item is out of stock")
	}
	return nil
}

type Adjustment struct {
	Quantity int
	Limited  bool // requested more than available
}

// Adjust clamps like Clamp and flags when the request was cut down, so the
// caller can show a notice instead of failing.
func Adjust(requested, available int) Adjustment {
	return Adjustment{
		Quantity: Clamp(requested, available),
		Limited:  requested > available,
	}
}

// Notice describes a limited adjustment for display, or returns nil.
func Notice(adj Adjustment, available int) *apperr.Error {
	if !adj.Limited {
		return nil
	}
	if available <= 0 {
		return apperr.OutOfStock("this item is out of stock")
	}
	return apperr.LimitExceeded(fmt.Sprintf("only %d left", available))
}

// ValidateLevel checks a stock level set by an admin.
func ValidateLevel(level int) error {
	if level < 0 {
		return apperr.Validation("stock cannot be negative")
	}
	return nil
}
