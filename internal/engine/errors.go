package engine

import "fmt"

// LoadError reports a structurally invalid program at load time.
// Rung identifies the offending rung when the problem is rung-local.
type LoadError struct {
	Rung    string
	Message string
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	if e.Rung != "" {
		return fmt.Sprintf("load program: rung %q: %s", e.Rung, e.Message)
	}
	return fmt.Sprintf("load program: %s", e.Message)
}

// StepError reports a failure during a scan cycle.
type StepError struct {
	Message string
	Err     error
}

// Error implements the error interface.
func (e *StepError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("step: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("step: %s", e.Message)
}

// Unwrap returns the underlying error, if any.
func (e *StepError) Unwrap() error {
	return e.Err
}

// UnknownNameError reports a reference to a name that was not declared at
// program load time. Kind is "signal" or "coil".
type UnknownNameError struct {
	Kind string
	Name string
}

// Error implements the error interface.
func (e *UnknownNameError) Error() string {
	return fmt.Sprintf("unknown %s %q", e.Kind, e.Name)
}
