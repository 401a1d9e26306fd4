package keywords

import (
	"context"
	"errors"
	"fmt"
)

// Kind classifies why a generation produced no suggestions.
type Kind string

// Error kinds
const (
	KindInvalidInput     Kind = "invalid_input"
	KindExtractionFailed Kind = "extraction_failed"
	KindInvalidResponse  Kind = "invalid_response"
	KindStorage          Kind = "storage"
	KindUnexpected       Kind = "unexpected"
)

// DefaultMessage is shown when no more specific message applies.
const DefaultMessage = "No keywords generated. Please check the URL and try again."

// ErrNotCached is returned by Lookup when nothing is cached for the URL.
var ErrNotCached = errors.New("no cached keywords for url")

// Error is a tagged pipeline failure.
type Error struct {
	Kind Kind
	Op   string
	URL  string
	Err  error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("keywords: %s: %s", e.Op, e.Kind)
	if e.URL != "" {
		msg += " (" + e.URL + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ErrorKindOf returns the kind of err. Untagged errors are KindUnexpected.
func ErrorKindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnexpected
}

// Message maps a kind to the text shown to users.
func Message(kind Kind) string {
	switch kind {
	case KindInvalidInput:
		return "Please enter a valid website URL."
	case KindExtractionFailed:
		return "We couldn't analyze that website. Please check the URL and try again."
	case KindStorage:
		return "Something went wrong on our side. Please try again in a moment."
	}
	return DefaultMessage
}

func newError(kind Kind, op, url string, err error) *Error {
	// Cancellation is the caller's doing, not the backend's.
	if kind != KindInvalidInput && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
		kind = KindUnexpected
	}
	return &Error{Kind: kind, Op: op, URL: url, Err: err}
}
