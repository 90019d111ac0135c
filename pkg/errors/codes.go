package errors

// Error codes for categorizing errors.
const (
	// CodeOK indicates success (not an error).
	CodeOK = "OK"

	// CodeCancelled indicates the operation was cancelled.
	CodeCancelled = "CANCELLED"

	// CodeInternal indicates internal errors.
	CodeInternal = "INTERNAL"

	// CodeValidation indicates input validation failed.
	CodeValidation = "VALIDATION_ERROR"

	// CodeConfigError indicates a configuration file could not be loaded.
	CodeConfigError = "CONFIG_ERROR"

	// CodeExtraction indicates the log read/filter step could not run or failed.
	CodeExtraction = "EXTRACTION_ERROR"

	// CodePatternMismatch indicates no log line matched the observation grammar.
	CodePatternMismatch = "PATTERN_MISMATCH"

	// CodeParse indicates a matched numeric field could not be parsed.
	CodeParse = "PARSE_ERROR"

	// CodeStepRegression indicates the step counter went backwards.
	CodeStepRegression = "STEP_REGRESSION"
)

// ErrorCategory represents a high-level error category.
type ErrorCategory string

const (
	// CategoryInput indicates the log content did not have the expected shape.
	CategoryInput ErrorCategory = "INPUT_ERROR"

	// CategoryIO indicates the log source could not be read.
	CategoryIO ErrorCategory = "IO_ERROR"

	// CategoryConfig indicates a configuration problem.
	CategoryConfig ErrorCategory = "CONFIG_ERROR"

	// CategoryAnomaly indicates the simulation log behaved unexpectedly.
	CategoryAnomaly ErrorCategory = "ANOMALY"

	// CategoryInternal indicates a bug or an unclassified failure.
	CategoryInternal ErrorCategory = "INTERNAL_ERROR"
)

// GetCategory returns the category for an error code.
func GetCategory(code string) ErrorCategory {
	switch code {
	case CodePatternMismatch, CodeParse:
		return CategoryInput

	case CodeExtraction:
		return CategoryIO

	case CodeValidation, CodeConfigError:
		return CategoryConfig

	case CodeStepRegression:
		return CategoryAnomaly

	default:
		return CategoryInternal
	}
}

// IsTransient returns true if an error with the given code may clear up on a
// later poll without operator action, e.g. a log file that does not exist yet.
func IsTransient(code string) bool {
	switch code {
	case CodeExtraction, CodePatternMismatch:
		return true
	default:
		return false
	}
}
