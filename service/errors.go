package service

import (
	"context"
	"errors"
	"net"
	"net/http"
)

var (
	// ErrServiceUnavailable is returned when a circuit breaker is open and
	// the cool-down has not elapsed; no network call was attempted.
	ErrServiceUnavailable = errors.New("service unavailable: circuit breaker open")

	// ErrValidationRejected is returned when the normalizer refuses a
	// generated reference (disallowed combination or no recognizable law
	// marker) and the caller must fall back.
	ErrValidationRejected = errors.New("reference rejected by validation")

	// ErrInsufficientContext marks a provider response that is the literal
	// "Insufficient context." sentinel rather than a citation.
	ErrInsufficientContext = errors.New("provider reported insufficient context")

	// ErrNoProviderOutput is returned when every generation stage failed.
	ErrNoProviderOutput = errors.New("all citation providers failed")
)

// ProviderError describes a failed call to an external generation or
// retrieval service. Transient errors (rate limit, overload, timeout,
// network) are retried; terminal errors (bad request, auth, not-found)
// are not.
type ProviderError struct {
	Provider   string
	StatusCode int
	Message    string
	Transient  bool
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return e.Provider + ": " + http.StatusText(e.StatusCode) + ": " + e.Message
	}
	return e.Provider + ": " + e.Message
}

// newProviderError classifies an HTTP status into transient vs terminal.
func newProviderError(provider string, status int, message string) *ProviderError {
	return &ProviderError{
		Provider:   provider,
		StatusCode: status,
		Message:    message,
		Transient:  status == http.StatusTooManyRequests || status >= 500,
	}
}

// isTransient reports whether err is worth retrying: an explicitly transient
// ProviderError, a context deadline, or a network-class error.
func isTransient(err error) bool {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Transient
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	if errors.As(err, &ne) {
		return true
	}
	return false
}
