package domain

import (
	"errors"
	"fmt"
)

// Kind classifies an Error so callers can branch without parsing messages
type Kind int

const (
	// KindInternal any error that did not originate from this module
	KindInternal Kind = iota
	// KindRateFetch the quote service was unreachable or returned unusable data
	KindRateFetch
	// KindUnknownTicker a ticker is absent from the current snapshot
	KindUnknownTicker
	// KindUnrecognizedCurrency a currency name or ticker does not resolve
	KindUnrecognizedCurrency
	// KindSameCurrency buy and sell currencies are the same
	KindSameCurrency
	// KindInvalidAmount the amount is not a number
	KindInvalidAmount
	// KindBadCommand the chat command is malformed
	KindBadCommand
)

var kindNames = map[Kind]string{
	KindInternal:             "internal",
	KindRateFetch:            "rate_fetch",
	KindUnknownTicker:        "unknown_ticker",
	KindUnrecognizedCurrency: "unrecognized_currency",
	KindSameCurrency:         "same_currency",
	KindInvalidAmount:        "invalid_amount",
	KindBadCommand:           "bad_command",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// UserInput reports whether errors of this kind are caused by what the user typed.
func (k Kind) UserInput() bool {
	switch k {
	case KindUnrecognizedCurrency, KindSameCurrency, KindInvalidAmount, KindBadCommand:
		return true
	}
	return false
}

// Error a classified error with a message fit for showing to a user
type Error struct {
	Kind    Kind
	Message string
	// Err the underlying cause, may be nil
	Err error
}

// Errorf builds an Error of the given kind wrapping cause.
func Errorf(kind Kind, cause error, format string, args ...interface{}) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Err:     cause,
	}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind of the first Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// MessageOf returns the user-facing message of err.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
