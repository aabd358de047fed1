package pipeline

import (
	"fmt"
)

// ErrorType classifies a pipeline error.
type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "validation"
	ErrorTypeExecution    ErrorType = "execution"
	ErrorTypeCancellation ErrorType = "cancellation"
)

// RunError is an error raised while executing a run. Cell-level parse
// failures never become RunErrors; those are resolved locally by each
// stage. Only structural problems (a malformed frame) and stage execution
// failures surface here.
type RunError struct {
	Type    ErrorType `json:"type"`
	Stage   string    `json:"stage,omitempty"`
	Message string    `json:"message"`
	Cause   error     `json:"cause,omitempty"`
}

// Error implements the error interface.
func (e *RunError) Error() string {
	if e == nil {
		return "unknown pipeline error"
	}
	if e.Stage != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Type, e.Stage, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the underlying error.
func (e *RunError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// NewValidationError creates a frame-validation error.
func NewValidationError(message string, cause error) *RunError {
	return &RunError{
		Type:    ErrorTypeValidation,
		Message: message,
		Cause:   cause,
	}
}

// NewExecutionError creates a stage execution error.
func NewExecutionError(stage string, cause error) *RunError {
	return &RunError{
		Type:    ErrorTypeExecution,
		Stage:   stage,
		Message: "stage execution failed",
		Cause:   cause,
	}
}

// NewCancellationError creates an error for a cancelled run.
func NewCancellationError(stage string, cause error) *RunError {
	return &RunError{
		Type:    ErrorTypeCancellation,
		Stage:   stage,
		Message: "run cancelled",
		Cause:   cause,
	}
}
