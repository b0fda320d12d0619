package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by services and adapters. Adapters wrap them with
// fmt.Errorf("...: %w", ...) so callers can match with errors.Is.
var (
	// ErrNetwork is returned when a request could not be sent or the API answered with a non-2xx status.
	ErrNetwork = errors.New("network error")
	// ErrInvalidResponse is returned when a response body does not have the expected JSON shape.
	ErrInvalidResponse = errors.New("invalid response")
	// ErrGeocode marks a failed reverse-geocoding lookup. It never fails a batch.
	ErrGeocode = errors.New("geocode failed")
	// ErrPermissionDenied is returned when the user's location (or camera) is not available.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrNotFound is returned when the API reports an unknown event, club or user.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized is returned when the API rejects the bearer token or no token is stored.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrJoinLimit is returned when the user already attends the maximum number of events.
	ErrJoinLimit = errors.New("join limit reached")
	// ErrInvalidFilter is returned when a filter tag is not part of the catalog.
	ErrInvalidFilter = errors.New("invalid filter")
	// ErrInvalidInput is returned for malformed caller input (e.g. unparsable coordinates).
	ErrInvalidInput = errors.New("invalid input")
)

// TooFarError is returned by the photo flow when the user is outside the allowed radius
// of the event. It matches ErrTooFar with errors.Is.
type TooFarError struct {
	DistanceMeters float64
	RadiusMeters   float64
}

// ErrTooFar is the sentinel matched by TooFarError.
var ErrTooFar = errors.New("too far from event")

func (e *TooFarError) Error() string {
	return fmt.Sprintf("too far from event: %.0fm away, allowed radius %.0fm", e.DistanceMeters, e.RadiusMeters)
}

func (e *TooFarError) Is(target error) bool {
	return target == ErrTooFar
}

// StatusError carries the HTTP status of a failed API call. It unwraps to ErrNetwork
// (or to a more specific sentinel for 401/403/404).
type StatusError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: api returned status %d: %s", e.Op, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: api returned status %d", e.Op, e.StatusCode)
}

func (e *StatusError) Unwrap() []error {
	switch e.StatusCode {
	case 401, 403:
		return []error{ErrNetwork, ErrUnauthorized}
	case 404:
		return []error{ErrNetwork, ErrNotFound}
	default:
		return []error{ErrNetwork}
	}
}
