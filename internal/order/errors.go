package order

import (
	"fmt"
	"strings"

	"teakspice-catalog/internal/apperr"
)

// LineFailure is one order line that could not be reserved.
type LineFailure struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Requested int    `json:"requested"`
	Reason    string `json:"reason"`
}

// LineFailureError rejects an order because some lines lack stock or no
// longer exist. Nothing was reserved or persisted.
type LineFailureError struct {
	Lines []LineFailure
}

func (e *LineFailureError) Error() string {
	parts := make([]string, 0, len(e.Lines))
	for _, l := range e.Lines {
		parts = append(parts, fmt.Sprintf("%s (%s)", l.Name, l.Reason))
	}
	return "order lines could not be fulfilled: " + strings.Join(parts, "; ")
}

func (e *LineFailureError) Unwrap() error {
	return apperr.OutOfStock("insufficient stock")
}
