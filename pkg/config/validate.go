package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/DeBrosOfficial/simwatch/pkg/monitor"
	"github.com/DeBrosOfficial/simwatch/pkg/observation"
	"github.com/DeBrosOfficial/simwatch/pkg/tracker"
)

// ValidationError represents a single validation error with context.
type ValidationError struct {
	Path    string // e.g., "cases[2].duration"
	Message string // e.g., "must be >= 1"
	Hint    string // e.g., "allowed values: file, command"
}

func (e ValidationError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("%s: %s; %s", e.Path, e.Message, e.Hint)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// Validate performs validation of the entire config.
// It aggregates all errors and returns them, allowing the caller to print all issues at once.
func (c *Config) Validate() []error {
	var errs []error

	errs = append(errs, c.validateMonitor()...)
	errs = append(errs, c.validateLogging()...)
	errs = append(errs, c.validateCases()...)

	return errs
}

func (c *Config) validateMonitor() []error {
	var errs []error

	if strings.TrimSpace(c.RootDir) == "" {
		errs = append(errs, ValidationError{
			Path:    "root_dir",
			Message: "must not be empty",
		})
	}

	if c.PollInterval <= 0 {
		errs = append(errs, ValidationError{
			Path:    "poll_interval",
			Message: fmt.Sprintf("must be > 0; got %v", c.PollInterval),
			Hint:    "use a Go duration such as 180s or 3m",
		})
	}

	if c.SamplingRateHz < 1 {
		errs = append(errs, ValidationError{
			Path:    "sampling_rate_hz",
			Message: fmt.Sprintf("must be >= 1; got %d", c.SamplingRateHz),
		})
	}

	errs = append(errs, oneOf("extractor", c.Extractor, observation.KindFile, observation.KindCommand)...)
	errs = append(errs, oneOf("failure_policy", c.FailurePolicy, string(monitor.PolicyAbort), string(monitor.PolicyIsolate))...)
	errs = append(errs, oneOf("elapsed", c.Elapsed, string(tracker.ElapsedNominal), string(tracker.ElapsedMeasured))...)
	errs = append(errs, oneOf("display", c.Display, DisplayPlain, DisplayTUI)...)

	return errs
}

func (c *Config) validateLogging() []error {
	var errs []error
	log := c.Logging

	errs = append(errs, oneOf("logging.level", log.Level, "debug", "info", "warn", "error")...)
	errs = append(errs, oneOf("logging.format", log.Format, "json", "console")...)

	if log.OutputFile != "" {
		dir := filepath.Dir(log.OutputFile)
		if dir != "" && dir != "." {
			if err := validateDirWritable(dir); err != nil {
				errs = append(errs, ValidationError{
					Path:    "logging.output_file",
					Message: fmt.Sprintf("parent directory not writable: %v", err),
				})
			}
		}
	}

	return errs
}

func (c *Config) validateCases() []error {
	var errs []error

	if len(c.Cases) == 0 {
		errs = append(errs, ValidationError{
			Path:    "cases",
			Message: "must not be empty",
			Hint:    "run `simwatch config init` for an example",
		})
	}

	seen := make(map[string]bool)
	for i, cc := range c.Cases {
		path := fmt.Sprintf("cases[%d]", i)

		if err := validatePathElement(cc.Name); err != nil {
			errs = append(errs, ValidationError{
				Path:    path + ".name",
				Message: err.Error(),
			})
		} else if seen[cc.Name] {
			errs = append(errs, ValidationError{
				Path:    path + ".name",
				Message: fmt.Sprintf("duplicate case %q", cc.Name),
			})
		}
		seen[cc.Name] = true

		if cc.Duration < 1 {
			errs = append(errs, ValidationError{
				Path:    path + ".duration",
				Message: fmt.Sprintf("must be >= 1; got %d", cc.Duration),
			})
		} else if c.SamplingRateHz > 0 && cc.Duration > math.MaxUint64/c.SamplingRateHz {
			errs = append(errs, ValidationError{
				Path:    path + ".duration",
				Message: fmt.Sprintf("duration %d times sampling_rate_hz %d overflows the step count", cc.Duration, c.SamplingRateHz),
			})
		}

		if err := validatePathElement(cc.Log); err != nil {
			errs = append(errs, ValidationError{
				Path:    path + ".log",
				Message: err.Error(),
			})
		}
	}

	return errs
}

// Helper validation functions

func oneOf(path, value string, allowed ...string) []error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return []error{ValidationError{
		Path:    path,
		Message: fmt.Sprintf("invalid value %q", value),
		Hint:    "allowed values: " + strings.Join(allowed, ", "),
	}}
}

// validatePathElement accepts a single, non-empty path component.
func validatePathElement(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("must not be empty")
	}
	if s == "." || s == ".." || strings.ContainsAny(s, `/\`) {
		return fmt.Errorf("must be a single path element; got %q", s)
	}
	return nil
}

func validateDirWritable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot access directory: %v", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory")
	}

	// Try to write a test file
	testFile := filepath.Join(path, ".write_test")
	if err := os.WriteFile(testFile, []byte(""), 0644); err != nil {
		return fmt.Errorf("directory not writable: %v", err)
	}
	os.Remove(testFile)

	return nil
}
