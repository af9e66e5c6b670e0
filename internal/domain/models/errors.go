package models

import "fmt"

// InsufficientDataError signals a series too short for the configured
// minimum policy. Recoverable: callers fall back to the naive model.
type InsufficientDataError struct {
	ProductID string
	Got       int
	Min       int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data for %s: %d points, need %d", e.ProductID, e.Got, e.Min)
}

// ModelFitError signals numeric divergence during model fitting.
// Recoverable: callers fall back to the naive model.
type ModelFitError struct {
	ProductID string
	Reason    string
}

func (e *ModelFitError) Error() string {
	return fmt.Sprintf("model fit failed for %s: %s", e.ProductID, e.Reason)
}

// ValidationError rejects an economically meaningless request. Surfaced to
// the caller, never silently clamped.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
