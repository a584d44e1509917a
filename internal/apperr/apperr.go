// Package apperr defines the error kinds shared by the catalog, cart and order
// packages and the transport layer that maps them to responses.
package apperr

import (
	"errors"
	"fmt"
)

// Kind categorizes an Error.
type Kind int

const (
	// KindUnknown is reported for errors that did not originate here.
	KindUnknown Kind = iota
	// KindValidation rejects caller input; nothing is applied.
	KindValidation
	// KindOutOfStock means the product has no stock to add from.
	KindOutOfStock
	// KindLimitExceeded means a quantity was reduced to what is available.
	KindLimitExceeded
	// KindUnauthenticated means the operation needs a signed-in user.
	KindUnauthenticated
	// KindNotFound means a referenced product, entry or order is gone.
	KindNotFound
	// KindNetwork is any failure talking to remote state.
	KindNetwork
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "VALIDATION"
	case KindOutOfStock:
		return "OUT_OF_STOCK"
	case KindLimitExceeded:
		return "LIMIT_EXCEEDED"
	case KindUnauthenticated:
		return "UNAUTHENTICATED"
	case KindNotFound:
		return "NOT_FOUND"
	case KindNetwork:
		return "NETWORK"
	default:
		return "UNKNOWN"
	}
}

type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func Validationf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func OutOfStock(message string) *Error {
	return &Error{Kind: KindOutOfStock, Message: message}
}

func LimitExceeded(message string) *Error {
	return &Error{Kind: KindLimitExceeded, Message: message}
}

func Unauthenticated(message string) *Error {
	return &Error{Kind: KindUnauthenticated, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func NotFoundf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Network(message string, cause error) *Error {
	return &Error{Kind: KindNetwork, Message: message, Cause: cause}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Retryable reports whether repeating the operation may succeed.
func Retryable(err error) bool {
	return Is(err, KindNetwork)
}
