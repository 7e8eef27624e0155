package httperr

import (
	"errors"

	"github.com/lilpaf/Super-Barber-sub000/internal/cart"
)

// Kind groups business failures by cause.
type Kind string

const (
	KindNotFound     Kind = "not_found"
	KindUnauthorized Kind = "unauthorized"
	KindConflict     Kind = "conflict"
	KindValidation   Kind = "validation"
	KindTemporal     Kind = "temporal"
	KindUnavailable  Kind = "unavailable"
)

// BusinessError is the single domain failure type. Key names the input field
// the failure applies to ("" when general). Remaining is only set by booking
// and carries the cart lines that were not processed.
type BusinessError struct {
	Code      string
	Kind      Kind
	Key       string
	Message   string
	Remaining cart.Cart
}

func (e BusinessError) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return e.Code + ": " + e.Message
}

// Is matches business errors by code, so sentinel values work with errors.Is
// even when they carry a cart.
func (e BusinessError) Is(target error) bool {
	t, ok := target.(BusinessError)
	return ok && t.Code == e.Code
}

// WithRemaining returns a copy of e carrying the unprocessed cart.
func (e BusinessError) WithRemaining(c cart.Cart) BusinessError {
	e.Remaining = c
	return e
}

func New(kind Kind, code, key, message string) BusinessError {
	return BusinessError{Code: code, Kind: kind, Key: key, Message: message}
}

func NotFound(code, message string) BusinessError {
	return New(KindNotFound, code, "", message)
}

func Forbidden(code, message string) BusinessError {
	return New(KindUnauthorized, code, "", message)
}

func Conflict(code, message string) BusinessError {
	return New(KindConflict, code, "", message)
}

func Invalid(code, key, message string) BusinessError {
	return New(KindValidation, code, key, message)
}

func Temporal(code, key, message string) BusinessError {
	return New(KindTemporal, code, key, message)
}

func Unavailable(code, message string) BusinessError {
	return New(KindUnavailable, code, "", message)
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

func AsBusiness(err error) (BusinessError, bool) {
	var be BusinessError
	ok := errors.As(err, &be)
	return be, ok
}
