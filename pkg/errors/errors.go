package errors

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// ErrNoObservation is reported when a case is queried before its first
// successful refresh.
var ErrNoObservation = errors.New("no observation yet")

// Error is the base interface for all custom errors in the system.
// It extends the standard error interface with additional context.
type Error interface {
	error
	// Code returns the error code
	Code() string
	// Message returns the human-readable error message
	Message() string
	// Unwrap returns the underlying cause
	Unwrap() error
}

// BaseError provides a foundation for all typed errors.
type BaseError struct {
	code    string
	message string
	cause   error
	stack   []uintptr
}

// Error implements the error interface.
func (e *BaseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Code returns the error code.
func (e *BaseError) Code() string {
	return e.code
}

// Message returns the error message.
func (e *BaseError) Message() string {
	return e.message
}

// Unwrap returns the underlying cause.
func (e *BaseError) Unwrap() error {
	return e.cause
}

// captureStack captures the current stack trace.
func captureStack(skip int) []uintptr {
	const maxDepth = 32
	stack := make([]uintptr, maxDepth)
	n := runtime.Callers(skip+2, stack)
	return stack[:n]
}

// StackTrace returns a formatted stack trace string.
func (e *BaseError) StackTrace() string {
	if len(e.stack) == 0 {
		return ""
	}

	var buf strings.Builder
	frames := runtime.CallersFrames(e.stack)
	for {
		frame, more := frames.Next()
		if !strings.Contains(frame.File, "runtime/") {
			fmt.Fprintf(&buf, "%s\n\t%s:%d\n", frame.Function, frame.File, frame.Line)
		}
		if !more {
			break
		}
	}
	return buf.String()
}

// ExtractionError is returned when the log read/filter step could not run
// or exited with failure (missing file, permissions, non-zero grep exit).
type ExtractionError struct {
	*BaseError
	Path string
}

// NewExtractionError creates a new extraction error.
func NewExtractionError(path string, cause error) *ExtractionError {
	return &ExtractionError{
		BaseError: &BaseError{
			code:    CodeExtraction,
			message: fmt.Sprintf("failed to extract observation from %s", path),
			cause:   cause,
			stack:   captureStack(1),
		},
		Path: path,
	}
}

// PatternMismatchError is returned when the log exists but holds no line
// matching the observation grammar.
type PatternMismatchError struct {
	*BaseError
	Path string
	Line string
}

// NewPatternMismatchError creates a new pattern mismatch error. Either path or
// line may be empty.
func NewPatternMismatchError(path, line string) *PatternMismatchError {
	message := "no TimeStep/Time match found"
	if path != "" {
		message = fmt.Sprintf("no TimeStep/Time match found in %s", path)
	}
	return &PatternMismatchError{
		BaseError: &BaseError{
			code:    CodePatternMismatch,
			message: message,
			stack:   captureStack(1),
		},
		Path: path,
		Line: line,
	}
}

// ParseError is returned when a matched numeric field cannot be parsed.
type ParseError struct {
	*BaseError
	Field string
	Input string
}

// NewParseError creates a new parse error for the named field.
func NewParseError(field, input string, cause error) *ParseError {
	return &ParseError{
		BaseError: &BaseError{
			code:    CodeParse,
			message: fmt.Sprintf("failed to parse %s %q", field, input),
			cause:   cause,
			stack:   captureStack(1),
		},
		Field: field,
		Input: input,
	}
}

// StepRegressionError is returned when a newer observation reports a lower
// step number than the previous one (log rollover or simulation restart).
type StepRegressionError struct {
	*BaseError
	Previous uint64
	Current  uint64
}

// NewStepRegressionError creates a new step regression error.
func NewStepRegressionError(previous, current uint64) *StepRegressionError {
	return &StepRegressionError{
		BaseError: &BaseError{
			code:    CodeStepRegression,
			message: fmt.Sprintf("step went backwards from %d to %d", previous, current),
			stack:   captureStack(1),
		},
		Previous: previous,
		Current:  current,
	}
}

// ValidationError represents an input validation error.
type ValidationError struct {
	*BaseError
	Field string
	Value interface{}
}

// NewValidationError creates a new validation error.
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return &ValidationError{
		BaseError: &BaseError{
			code:    CodeValidation,
			message: message,
			stack:   captureStack(1),
		},
		Field: field,
		Value: value,
	}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s: %s", e.Field, e.message)
	}
	return fmt.Sprintf("validation error: %s", e.message)
}

// ConfigError represents a configuration file that could not be read or decoded.
type ConfigError struct {
	*BaseError
	Path string
}

// NewConfigError creates a new config error.
func NewConfigError(path string, cause error) *ConfigError {
	return &ConfigError{
		BaseError: &BaseError{
			code:    CodeConfigError,
			message: fmt.Sprintf("failed to load config %s", path),
			cause:   cause,
			stack:   captureStack(1),
		},
		Path: path,
	}
}

// CaseError attaches the name of the simulation case that failed.
type CaseError struct {
	Case string
	Err  error
}

// Error implements the error interface.
func (e *CaseError) Error() string {
	return fmt.Sprintf("case %s: %v", e.Case, e.Err)
}

// Unwrap returns the underlying error.
func (e *CaseError) Unwrap() error {
	return e.Err
}

// WithCase wraps err with the case name. It returns nil for a nil err.
func WithCase(name string, err error) error {
	if err == nil {
		return nil
	}
	return &CaseError{Case: name, Err: err}
}

// InternalError wraps a failure that has no more specific type.
type InternalError struct {
	*BaseError
}

// Wrap wraps an error with additional context.
// If the error is already one of our custom types, it preserves the code
// and adds the cause chain. Otherwise, it creates an InternalError.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}

	var e Error
	if errors.As(err, &e) {
		return &BaseError{
			code:    e.Code(),
			message: message,
			cause:   err,
			stack:   captureStack(1),
		}
	}

	return &InternalError{
		BaseError: &BaseError{
			code:    CodeInternal,
			message: message,
			cause:   err,
			stack:   captureStack(1),
		},
	}
}

// Wrapf wraps an error with a formatted message.
func Wrapf(err error, format string, args ...interface{}) error {
	return Wrap(err, fmt.Sprintf(format, args...))
}

// New creates a new error with a message.
func New(message string) error {
	return &BaseError{
		code:    CodeInternal,
		message: message,
		stack:   captureStack(1),
	}
}
