package engine

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes engine errors.
type ErrorCode string

const (
	// ErrCodeNotFound indicates the target train is not in the fleet.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"

	// ErrCodeInvalidScenarioType indicates an unknown scenario kind.
	ErrCodeInvalidScenarioType ErrorCode = "INVALID_SCENARIO_TYPE"

	// ErrCodeInvalidPatch indicates custom overrides that fail validation.
	ErrCodeInvalidPatch ErrorCode = "INVALID_PATCH"
)

// Error is returned by engine operations that cannot produce a result.
// No partial output accompanies an Error.
type Error struct {
	Code    ErrorCode
	Message string

	// TrainID is the train the operation targeted, if any.
	TrainID string

	// Kind is the scenario kind as requested.
	Kind string

	Err error
}

func (e *Error) Error() string {
	if e.TrainID != "" {
		return fmt.Sprintf("%s: %s (train=%s)", e.Code, e.Message, e.TrainID)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is a NOT_FOUND engine error.
func IsNotFound(err error) bool {
	return hasCode(err, ErrCodeNotFound)
}

// IsInvalidScenarioType reports whether err is an INVALID_SCENARIO_TYPE
// engine error.
func IsInvalidScenarioType(err error) bool {
	return hasCode(err, ErrCodeInvalidScenarioType)
}

// IsInvalidPatch reports whether err is an INVALID_PATCH engine error.
func IsInvalidPatch(err error) bool {
	return hasCode(err, ErrCodeInvalidPatch)
}

func hasCode(err error, code ErrorCode) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// NewNotFoundError creates an Error for a missing train.
func NewNotFoundError(trainID string) *Error {
	return &Error{
		Code:    ErrCodeNotFound,
		Message: "train not in fleet",
		TrainID: trainID,
	}
}

// NewInvalidScenarioTypeError creates an Error for an unknown scenario kind.
func NewInvalidScenarioTypeError(kind string) *Error {
	return &Error{
		Code:    ErrCodeInvalidScenarioType,
		Message: fmt.Sprintf("unknown scenario type %q", kind),
		Kind:    kind,
	}
}

// NewInvalidPatchError wraps a patch validation failure.
func NewInvalidPatchError(trainID string, err error) *Error {
	return &Error{
		Code:    ErrCodeInvalidPatch,
		Message: err.Error(),
		TrainID: trainID,
		Kind:    string(KindCustom),
		Err:     err,
	}
}
