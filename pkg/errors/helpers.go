package errors

import (
	"context"
	"errors"
)

// IsExtraction checks if an error came from reading the log source.
func IsExtraction(err error) bool {
	if err == nil {
		return false
	}

	var extractionErr *ExtractionError
	return errors.As(err, &extractionErr)
}

// IsPatternMismatch checks if an error indicates no observation line was found.
func IsPatternMismatch(err error) bool {
	if err == nil {
		return false
	}

	var mismatchErr *PatternMismatchError
	return errors.As(err, &mismatchErr)
}

// IsParse checks if an error indicates an unparsable numeric field.
func IsParse(err error) bool {
	if err == nil {
		return false
	}

	var parseErr *ParseError
	return errors.As(err, &parseErr)
}

// IsStepRegression checks if an error indicates the step counter went backwards.
func IsStepRegression(err error) bool {
	if err == nil {
		return false
	}

	var regressionErr *StepRegressionError
	return errors.As(err, &regressionErr)
}

// IsValidation checks if an error is a validation error.
func IsValidation(err error) bool {
	if err == nil {
		return false
	}

	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

// IsCancelled checks if an error comes from a cancelled context.
func IsCancelled(err error) bool {
	return errors.Is(err, context.Canceled)
}

// CaseName returns the case an error was attributed to, if any.
func CaseName(err error) (string, bool) {
	var caseErr *CaseError
	if errors.As(err, &caseErr) {
		return caseErr.Case, true
	}
	return "", false
}

// GetErrorCode extracts the error code from an error.
func GetErrorCode(err error) string {
	if err == nil {
		return CodeOK
	}

	if IsCancelled(err) {
		return CodeCancelled
	}

	var customErr Error
	if errors.As(err, &customErr) {
		return customErr.Code()
	}

	return CodeInternal
}

// GetErrorMessage extracts a human-readable message from an error.
func GetErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	var customErr Error
	if errors.As(err, &customErr) {
		return customErr.Message()
	}

	return err.Error()
}

// StackTrace returns the stack captured where the first typed error in the
// chain was created, or "" if there is none.
func StackTrace(err error) string {
	var traced interface{ StackTrace() string }
	if errors.As(err, &traced) {
		return traced.StackTrace()
	}
	return ""
}

// Cause returns the underlying cause of an error.
// It unwraps the error chain until it finds the root cause.
func Cause(err error) error {
	for {
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			return err
		}
		underlying := unwrapper.Unwrap()
		if underlying == nil {
			return err
		}
		err = underlying
	}
}
