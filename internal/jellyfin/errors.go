// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package jellyfin

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/ManuGH/mediabrowse/internal/catalog"
	"github.com/ManuGH/mediabrowse/internal/resilience"
)

var (
	// Sentinel errors for errors.Is checks at the boundary.
	ErrForbidden   = errors.New("jellyfin: access forbidden")
	ErrUnavailable = errors.New("jellyfin: host unreachable or transport failure")
	ErrUpstream    = errors.New("jellyfin: internal error (5xx)")
	ErrBadResponse = errors.New("jellyfin: invalid response format or malformed data")
	ErrTimeout     = errors.New("jellyfin: request timed out")
)

// RequestError wraps a sentinel with the failing operation and HTTP context.
type RequestError struct {
	Sentinel  error
	Operation string
	Status    int
	Body      string
	Err       error // lower-level cause, e.g. net.Error or json error
}

func (e *RequestError) Error() string {
	msg := fmt.Sprintf("jellyfin: %s: %v", e.Operation, e.Sentinel)
	if e.Status > 0 {
		msg = fmt.Sprintf("%s (HTTP %d)", msg, e.Status)
	}
	if e.Body != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Body)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *RequestError) Unwrap() error {
	return e.Sentinel
}

// sentinelForStatus maps a non-2xx status to its sentinel.
func sentinelForStatus(status int) error {
	switch {
	case status == http.StatusNotFound:
		return catalog.ErrItemNotFound
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return ErrForbidden
	case status == http.StatusRequestTimeout, status == http.StatusGatewayTimeout:
		return ErrTimeout
	case status >= http.StatusInternalServerError:
		return ErrUpstream
	default:
		return ErrBadResponse
	}
}

// sentinelForTransport classifies a failed round trip.
func sentinelForTransport(err error) error {
	if errors.Is(err, context.Canceled) {
		return context.Canceled
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrTimeout
	}
	return ErrUnavailable
}

// countsAsFailure reports whether err indicates an unhealthy server.
func countsAsFailure(err error) bool {
	return errors.Is(err, ErrUnavailable) || errors.Is(err, ErrUpstream) || errors.Is(err, ErrTimeout)
}

// resultLabel turns an error into the metrics result label.
func resultLabel(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, resilience.ErrCircuitOpen):
		return "circuit_open"
	case errors.Is(err, catalog.ErrItemNotFound):
		return "not_found"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrUpstream):
		return "upstream_error"
	case errors.Is(err, ErrBadResponse):
		return "bad_response"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "unavailable"
	}
}
