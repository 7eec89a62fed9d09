package courses

import (
	"errors"
	"fmt"

	"github.com/aws/smithy-go"
)

// ValidationError is returned before any remote call when input is rejected.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationError(msg string) error {
	return &ValidationError{Message: msg}
}

// NotReadyError is returned by table lifecycle calls on a store whose
// readiness probe has not succeeded.
type NotReadyError struct {
	Op string
}

func (e *NotReadyError) Error() string {
	if e.Op == "" {
		return "dynamodb is not ready yet"
	}
	return e.Op + ": dynamodb is not ready yet"
}

// Is makes errors.Is(err, ErrNotReady) match regardless of Op.
func (e *NotReadyError) Is(target error) bool {
	_, ok := target.(*NotReadyError)
	return ok
}

var ErrNotReady error = &NotReadyError{}

// ErrNotImplemented is returned by RemoveCourse.
var ErrNotImplemented = errors.New("courses: operation not implemented")

// StoreError wraps a failure returned by DynamoDB.
type StoreError struct {
	// Op is the DynamoDB operation, e.g. "GetItem".
	Op string
	// Msg optionally replaces the default message prefix.
	Msg string
	Err error
}

func (e *StoreError) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// Code returns the DynamoDB error code (e.g. "ResourceNotFoundException"),
// or an empty string when the cause is not an API error.
func (e *StoreError) Code() string {
	var apiErr smithy.APIError
	if errors.As(e.Err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}
