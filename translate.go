package charta

import (
	"errors"
	"fmt"

	"github.com/charta-vm/charta-go/internal/engine"
)

// Error translation: every collaborator failure maps to exactly one
// ErrorCode. Pure functions, no state; the cause is always preserved via
// wrapping so callers can reach the original error with errors.As.

// translateParse maps IR parser failures to ErrCodeParse.
func translateParse(err error) error {
	return &Error{Code: ErrCodeParse, Message: "malformed program description", Err: err}
}

// translateLoad maps engine program-install failures. A *ParseError never
// reaches here; anything the engine rejects is a load error.
func translateLoad(err error) error {
	return &Error{Code: ErrCodeLoad, Message: "engine rejected program", Err: err}
}

// translateStep maps scan-cycle failures to ErrCodeStep.
func translateStep(err error) error {
	return &Error{Code: ErrCodeStep, Message: "scan cycle failed", Err: err}
}

// translateIO maps file-read failures to ErrCodeIO.
func translateIO(path string, err error) error {
	return &Error{
		Code:    ErrCodeIO,
		Message: fmt.Sprintf("read program from %q", path),
		Err:     err,
	}
}

// translateWrite maps engine state-override failures. An unknown-name
// write is a caller error, not an engine fault.
func translateWrite(err error) error {
	var unknown *engine.UnknownNameError
	if errors.As(err, &unknown) {
		return &Error{
			Code:    ErrCodeInvalidOperation,
			Message: fmt.Sprintf("cannot set undeclared %s %q", unknown.Kind, unknown.Name),
			Err:     err,
		}
	}
	return &Error{Code: ErrCodeInvalidOperation, Message: "invalid write", Err: err}
}

// errEmptyName is the validation failure for blank signal/coil names.
func errEmptyName(kind string) error {
	return &Error{
		Code:    ErrCodeInvalidOperation,
		Message: kind + " name cannot be empty",
	}
}
