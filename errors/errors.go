// Package errors provides error handling for the cleaner.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - Hints and details for the host presenting the failure
//
// It also defines the sentinel errors of the cleaning engine. Every operation
// wraps one of them, so callers classify failures with errors.Is:
//
//	if errors.Is(err, errors.ErrTruthUndetermined) {
//	    // resolve more facts before planning
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
	Mark         = crdb.Mark
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is             = crdb.Is
	IsAny          = crdb.IsAny
	As             = crdb.As
	Unwrap         = crdb.Unwrap
	UnwrapAll      = crdb.UnwrapAll
	GetAllHints    = crdb.GetAllHints
	GetAllDetails  = crdb.GetAllDetails
	FlattenHints   = crdb.FlattenHints
	FlattenDetails = crdb.FlattenDetails
)

// AssertionFailedf marks an internal invariant violation.
var AssertionFailedf = crdb.AssertionFailedf

// Cleaning engine taxonomy. Wrap these with errors.Wrap to add context while
// preserving the type.
var (
	// ErrTruthUndetermined indicates the planner was asked to work on a result
	// whose truth value is still unknown under the current assignment.
	ErrTruthUndetermined = New("truth value undetermined")

	// ErrInconsistentState indicates an invariant the planner relies on does not
	// hold: no satisfied term for a true formula, or a term without a falsifying
	// witness for a false one.
	ErrInconsistentState = New("inconsistent state")

	// ErrUnknownVariable indicates a variable that was never registered with the oracle.
	ErrUnknownVariable = New("unknown variable")

	// ErrNoVariableFound indicates the oracle was asked for a next variable after
	// every result had been classified.
	ErrNoVariableFound = New("no variable found")

	// ErrInvalidProvenance indicates a malformed provenance formula
	// (empty formula, empty term, or empty variable identifier).
	ErrInvalidProvenance = New("invalid provenance")

	// ErrInvalidTruth indicates a resolution to a value other than true or false.
	ErrInvalidTruth = New("invalid truth value")

	// ErrNoTuples indicates an oracle was required to track at least one result.
	ErrNoTuples = New("no output tuples")

	// ErrNoActiveStep indicates a classification arrived while no fact was awaiting one.
	ErrNoActiveStep = New("no active cleaning step")

	// ErrTargetUnreachable indicates a target-reaching pass left the scorer's
	// inputs unchanged while the score is still above the desired one.
	ErrTargetUnreachable = New("target score unreachable")
)

// Infrastructure sentinels shared by the dataset, scoring and config layers.
var (
	// ErrNotFound indicates the requested resource does not exist
	ErrNotFound = New("not found")

	// ErrInvalidRequest indicates the request was malformed or invalid
	ErrInvalidRequest = New("invalid request")

	// ErrServiceUnavailable indicates the scoring service could not answer
	ErrServiceUnavailable = New("service unavailable")
)

// IsTruthUndetermined checks if an error is or wraps ErrTruthUndetermined
func IsTruthUndetermined(err error) bool {
	return err != nil && Is(err, ErrTruthUndetermined)
}

// IsInconsistentState checks if an error is or wraps ErrInconsistentState
func IsInconsistentState(err error) bool {
	return err != nil && Is(err, ErrInconsistentState)
}

// IsTargetUnreachable checks if an error is or wraps ErrTargetUnreachable
func IsTargetUnreachable(err error) bool {
	return err != nil && Is(err, ErrTargetUnreachable)
}

// IsNotFoundError checks if an error is or wraps ErrNotFound
func IsNotFoundError(err error) bool {
	return err != nil && Is(err, ErrNotFound)
}

// IsInvalidRequestError checks if an error is or wraps ErrInvalidRequest
func IsInvalidRequestError(err error) bool {
	return err != nil && Is(err, ErrInvalidRequest)
}

// IsServiceUnavailableError checks if an error is or wraps ErrServiceUnavailable
func IsServiceUnavailableError(err error) bool {
	return err != nil && Is(err, ErrServiceUnavailable)
}

// NewNotFoundError creates a not-found error with a formatted message
func NewNotFoundError(format string, args ...interface{}) error {
	return Wrapf(ErrNotFound, format, args...)
}

// NewInvalidRequestError creates an invalid-request error with a formatted message
func NewInvalidRequestError(format string, args ...interface{}) error {
	return Wrapf(ErrInvalidRequest, format, args...)
}
