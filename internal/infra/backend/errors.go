package backend

import (
	"errors"
	"fmt"
)

// Kind categorizes a backend failure for the retry layer.
type Kind string

const (
	// KindTransport covers connection-level failures where no response arrived.
	KindTransport Kind = "transport"
	// KindRateLimited covers 429 responses.
	KindRateLimited Kind = "rate_limited"
	// KindServer covers 5xx responses.
	KindServer Kind = "server"
	// KindBadRequest covers rejected or malformed requests, including
	// undecodable response bodies.
	KindBadRequest Kind = "bad_request"
	// KindEmptyResult covers structurally valid responses missing a
	// required value.
	KindEmptyResult Kind = "empty_result"
)

// Error is a structured backend failure: an operation name, a kind, and the
// HTTP status when one was received. The retry layer classifies on Kind
// rather than matching message text.
type Error struct {
	Op     string
	Kind   Kind
	Status int
	Err    error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: %s (http %d): %v", e.Op, e.Kind, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Retryable reports whether this kind of failure may succeed on a later
// attempt.
func (e *Error) Retryable() bool {
	switch e.Kind {
	case KindTransport, KindRateLimited, KindServer:
		return true
	default:
		return false
	}
}

// IsRetryable classifies an arbitrary error. Anything that is not a
// backend *Error is terminal: unknown failure modes are not retried.
func IsRetryable(err error) bool {
	var be *Error
	if errors.As(err, &be) {
		return be.Retryable()
	}
	return false
}
