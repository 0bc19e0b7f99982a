package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a Sprig error code.
type ErrorCode string

const (
	ErrInvalidRequest ErrorCode = "INVALID_REQUEST" // 400
	ErrNotFound       ErrorCode = "NOT_FOUND"       // 404
	ErrConflict       ErrorCode = "CONFLICT"        // 409
	ErrCorruptData    ErrorCode = "CORRUPT_DATA"    // 500
	ErrIO             ErrorCode = "IO_ERROR"        // 503
	ErrInternal       ErrorCode = "INTERNAL"        // 500
)

// SprigError represents a structured error with code, status, and details.
type SprigError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any

	// Err is the underlying cause, if any. Not exposed to MCP/HTTP clients.
	Err error
}

// Error implements the error interface.
func (e *SprigError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *SprigError) Unwrap() error {
	return e.Err
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *SprigError {
	return &SprigError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for when a prompt cannot be found.
func NewNotFound(id string) *SprigError {
	return &SprigError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("prompt not found: %s", id),
		Details: map[string]any{"id": id},
	}
}

// NewFileNotFound creates a 404 error for a missing import file.
func NewFileNotFound(path string) *SprigError {
	return &SprigError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("file not found: %s", path),
		Details: map[string]any{"path": path},
	}
}

// NewConflict creates a 409 error, used by import in mode:error.
func NewConflict(msg string, ids []string) *SprigError {
	return &SprigError{
		Code:    ErrConflict,
		Status:  409,
		Message: msg,
		Details: map[string]any{"ids": ids},
	}
}

// NewCorruptData creates an error for stored bytes that do not decode to
// valid prompt records.
func NewCorruptData(reason string, err error) *SprigError {
	msg := "stored prompt collection is corrupt"
	if reason != "" {
		msg += ": " + reason
	}
	return &SprigError{
		Code:    ErrCorruptData,
		Status:  500,
		Message: msg,
		Details: map[string]any{"reason": reason},
		Err:     err,
	}
}

// NewIO creates a 503 error when the persistence layer fails.
// op is "get" or "set". The backend error is kept only in Err; its text
// (paths, addresses) never reaches Message.
func NewIO(op, key string, err error) *SprigError {
	return &SprigError{
		Code:    ErrIO,
		Status:  503,
		Message: fmt.Sprintf("storage %s %q failed", op, key),
		Details: map[string]any{"op": op, "key": key},
		Err:     err,
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
// The message stays generic; the cause is kept in Details for logging.
func NewInternal(err error) *SprigError {
	details := map[string]any{}
	if err != nil {
		details["internal_error"] = err.Error()
	}
	return &SprigError{
		Code:    ErrInternal,
		Status:  500,
		Message: "an internal error occurred",
		Details: details,
		Err:     err,
	}
}

// Is checks if err (or anything it wraps) is a SprigError with the given code.
func Is(err error, code ErrorCode) bool {
	var sErr *SprigError
	if stderrors.As(err, &sErr) {
		return sErr.Code == code
	}
	return false
}

// As returns the SprigError in err's chain, if any.
func As(err error) (*SprigError, bool) {
	var sErr *SprigError
	if stderrors.As(err, &sErr) {
		return sErr, true
	}
	return nil, false
}
