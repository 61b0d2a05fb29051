// Package repository defines error values that are reused across the
// data-access layer and the hire service. These sentinels let handlers
// distinguish failure scenarios with errors.Is/errors.As and translate
// them to HTTP codes. Every error produced inside an atomic unit
// guarantees the calendar and the hire record are left exactly as they
// were before the call; partial application is a correctness bug.
package repository

import (
	"errors"
	"fmt"
	"strings"
)

// ErrGuideNotFound is returned when no guide exists with the requested
// ID. Handlers should translate this into an HTTP 404 response.
var ErrGuideNotFound = errors.New("guide not found")

// ErrHireNotFound is returned when no hire record exists with the
// requested ID. Handlers should translate this into an HTTP 404.
var ErrHireNotFound = errors.New("hire not found")

// ErrGuideNotHireable is returned when a guide exists but cannot accept
// hire requests: inactive, not flagged hireable, or without a positive
// day rate. Not retryable; surfaces to the user as 422.
var ErrGuideNotHireable = errors.New("guide is not hireable")

// ErrAlreadyProcessed is returned when a status-guarded update matched
// zero rows because a concurrent actor already transitioned the record.
// Recoverable: the caller should reload the record. Maps to HTTP 409.
var ErrAlreadyProcessed = errors.New("hire already processed by another actor")

// ErrInvalidTransition is returned for a lifecycle transition that is
// not in the transition table, e.g. completed -> approved. This is a
// programming or client logic error, not retryable. Maps to HTTP 422.
var ErrInvalidTransition = errors.New("invalid status transition")

// ErrConflict is returned when a calendar mutation observed fewer rows
// than expected, meaning an availability check and the write raced
// outside a guide lock. It should never fire on the locked paths and
// indicates a bug when it does.
var ErrConflict = errors.New("conflict")

// DatesUnavailableError reports the exact subset of requested days that
// are no longer free. Recoverable: the caller should re-read fresh
// availability and retry. Maps to HTTP 409; the conflicting days are
// included in the response body so clients can show them.
type DatesUnavailableError struct {
	Days []string
}

func (e *DatesUnavailableError) Error() string {
	return fmt.Sprintf("dates unavailable: %s", strings.Join(e.Days, ", "))
}
