package errors

// Process exit statuses reported by the CLI.
const (
	ExitOK              = 0
	ExitFailure         = 1
	ExitConfig          = 2
	ExitExtraction      = 3
	ExitPatternMismatch = 4
	ExitParse           = 5
	ExitStepRegression  = 6
)

// ExitCode maps an error to the process exit status. A cancelled context is a
// clean shutdown and maps to ExitOK.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	return codeToExit(GetErrorCode(err))
}

func codeToExit(code string) int {
	switch code {
	case CodeOK, CodeCancelled:
		return ExitOK
	case CodeValidation, CodeConfigError:
		return ExitConfig
	case CodeExtraction:
		return ExitExtraction
	case CodePatternMismatch:
		return ExitPatternMismatch
	case CodeParse:
		return ExitParse
	case CodeStepRegression:
		return ExitStepRegression
	default:
		return ExitFailure
	}
}
