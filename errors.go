package charta

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes SDK failures.
type ErrorCode string

const (
	// ErrCodeParse indicates a malformed program description.
	ErrCodeParse ErrorCode = "PARSE_ERROR"

	// ErrCodeLoad indicates a structurally invalid program, as reported by
	// the engine at load time.
	ErrCodeLoad ErrorCode = "ENGINE_LOAD_ERROR"

	// ErrCodeStep indicates a failure during a scan cycle.
	ErrCodeStep ErrorCode = "ENGINE_STEP_ERROR"

	// ErrCodeIO indicates a failure reading a program from storage.
	ErrCodeIO ErrorCode = "IO_ERROR"

	// ErrCodeInvalidOperation indicates a caller error, such as an empty
	// name where a non-empty name is required.
	ErrCodeInvalidOperation ErrorCode = "INVALID_OPERATION"
)

// Error is the SDK's error type. Every failure surfaced by a VM carries
// exactly one code; the underlying collaborator error is preserved via
// Unwrap for errors.Is/As inspection.
//
// Lookups for names that were never declared are NOT errors - they return
// an explicit absent result instead.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying collaborator error, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// IsParseError reports whether err is a malformed-program failure.
// Uses errors.As to handle wrapped errors.
func IsParseError(err error) bool {
	return hasCode(err, ErrCodeParse)
}

// IsLoadError reports whether err is an engine-level load failure.
func IsLoadError(err error) bool {
	return hasCode(err, ErrCodeLoad)
}

// IsStepError reports whether err is a scan-cycle failure.
func IsStepError(err error) bool {
	return hasCode(err, ErrCodeStep)
}

// IsIOError reports whether err is a program-read failure.
func IsIOError(err error) bool {
	return hasCode(err, ErrCodeIO)
}

// IsInvalidOperation reports whether err is a caller error.
func IsInvalidOperation(err error) bool {
	return hasCode(err, ErrCodeInvalidOperation)
}

func hasCode(err error, code ErrorCode) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}
