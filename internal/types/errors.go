package types

import (
	"errors"
	"fmt"
)

// Domain specific errors for itinerary composition and persistence.
var (
	ErrCapacityExceeded   = errors.New("itinerary already holds the maximum number of stops")
	ErrDuplicateStop      = errors.New("business is already part of the itinerary")
	ErrInvalidPermutation = errors.New("new order is not a permutation of the current items")
	ErrNotFound           = errors.New("requested item not found")
	ErrTooFewStops        = errors.New("itinerary needs at least two stops to be saved")
	ErrUnauthenticated    = errors.New("authentication required or invalid credentials")
	ErrSaveInProgress     = errors.New("a save request is already in flight")
)

// SaveError carries the backend's failure detail for a route save. The
// in-memory itinerary is preserved on SaveError, so retrying is always safe.
type SaveError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *SaveError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("save failed: %s", e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("save failed: %v", e.Err)
	}
	return "save failed"
}

func (e *SaveError) Unwrap() error { return e.Err }

// ValidationWarning is an advisory finding from save-time validation.
// Warnings are surfaced to the user but never block saving.
type ValidationWarning string

const (
	WarnDurationExceedsSixHours ValidationWarning = "total duration exceeds six hours"
)
