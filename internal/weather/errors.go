package weather

import (
	"errors"
	"fmt"
)

// Provider error kinds. A *ProviderError always wraps exactly one of these,
// so callers can use errors.Is to branch on the kind.
var (
	ErrInvalidRequest    = errors.New("invalid request")
	ErrNotFound          = errors.New("location not found")
	ErrTransport         = errors.New("provider unreachable")
	ErrMalformedResponse = errors.New("malformed provider response")
)

// ProviderError describes a failed gateway call.
type ProviderError struct {
	Op         string
	Kind       error
	StatusCode int
	Err        error
}

func (e *ProviderError) Error() string {
	msg := e.Op + ": " + e.Kind.Error()
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ProviderError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Outcome returns a short, stable label for err, suitable for metrics.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrInvalidRequest):
		return "invalid_request"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrMalformedResponse):
		return "malformed"
	case errors.Is(err, ErrTransport):
		return "transport"
	default:
		return "error"
	}
}
