package errors

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrorCode classifies an application error
type ErrorCode int

const (
	ErrNotFound ErrorCode = iota + 1000
	ErrValidation
	ErrUnauthorized
	ErrForbidden
	ErrConflict
	ErrInvalidTransition
	ErrInternal
)

// AppError represents an application error
type AppError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Err     error                  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is allows errors.Is matching on the error code alone.
func (e *AppError) Is(target error) bool {
	var appErr *AppError
	if errors.As(target, &appErr) {
		return e.Code == appErr.Code
	}
	return false
}

func NotFound(resource string, err error) *AppError {
	return &AppError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Err:     err,
	}
}

func Validation(message string) *AppError {
	return &AppError{
		Code:    ErrValidation,
		Message: message,
	}
}

func Unauthorized(err error) *AppError {
	return &AppError{
		Code:    ErrUnauthorized,
		Message: "unauthorized",
		Err:     err,
	}
}

func Forbidden(message string) *AppError {
	return &AppError{
		Code:    ErrForbidden,
		Message: message,
	}
}

// SchedulingConflict reports an interval collision with an existing active
// appointment. The colliding id is carried for user display.
func SchedulingConflict(conflictingID uuid.UUID) *AppError {
	return &AppError{
		Code:    ErrConflict,
		Message: "requested time overlaps an existing appointment",
		Details: map[string]interface{}{
			"conflicting_appointment_id": conflictingID,
		},
	}
}

// Conflict reports a generic resource contention failure.
func Conflict(message string) *AppError {
	return &AppError{
		Code:    ErrConflict,
		Message: message,
	}
}

// InvalidTransition reports a status change that is not permitted from the
// current state. Both states are carried.
func InvalidTransition(from, to string) *AppError {
	return &AppError{
		Code:    ErrInvalidTransition,
		Message: fmt.Sprintf("invalid status transition: %s -> %s", from, to),
		Details: map[string]interface{}{
			"current_status":   from,
			"requested_status": to,
		},
	}
}

func Internal(err error) *AppError {
	return &AppError{
		Code:    ErrInternal,
		Message: "internal server error",
		Err:     err,
	}
}

// Store wraps a persistence failure without retrying or classifying it.
func Store(op string, err error) *AppError {
	return &AppError{
		Code:    ErrInternal,
		Message: fmt.Sprintf("store operation %s failed", op),
		Err:     err,
	}
}
