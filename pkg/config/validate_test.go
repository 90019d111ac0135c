package config

import (
	"math"
	"strings"
	"testing"
	"time"
)

// validConfig returns a valid config with two cases
func validConfig() *Config {
	cfg := Default()
	cfg.Cases = []CaseConfig{
		{Name: "zen30az045_OS2", Duration: 1200, Log: "solve-672_14.out"},
		{Name: "zen30az090_OS2", Duration: 1200, Log: "solve-672_16.out"},
	}
	return cfg
}

func TestValidateDefaults(t *testing.T) {
	if errs := validConfig().Validate(); len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if errs := Example().Validate(); len(errs) > 0 {
		t.Fatalf("example config invalid: %v", errs)
	}
}

func TestValidateMonitorSettings(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		path   string
	}{
		{"empty root", func(c *Config) { c.RootDir = " " }, "root_dir"},
		{"zero interval", func(c *Config) { c.PollInterval = 0 }, "poll_interval"},
		{"negative interval", func(c *Config) { c.PollInterval = -time.Second }, "poll_interval"},
		{"zero rate", func(c *Config) { c.SamplingRateHz = 0 }, "sampling_rate_hz"},
		{"unknown extractor", func(c *Config) { c.Extractor = "awk" }, "extractor"},
		{"unknown policy", func(c *Config) { c.FailurePolicy = "retry" }, "failure_policy"},
		{"unknown elapsed", func(c *Config) { c.Elapsed = "wall" }, "elapsed"},
		{"unknown display", func(c *Config) { c.Display = "html" }, "display"},
		{"bad level", func(c *Config) { c.Logging.Level = "trace" }, "logging.level"},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			errs := cfg.Validate()
			if len(errs) != 1 {
				t.Fatalf("expected exactly one error, got %v", errs)
			}
			verr, ok := errs[0].(ValidationError)
			if !ok {
				t.Fatalf("expected ValidationError, got %T", errs[0])
			}
			if verr.Path != tt.path {
				t.Errorf("expected path %q, got %q", tt.path, verr.Path)
			}
		})
	}
}

func TestValidateCases(t *testing.T) {
	tests := []struct {
		name        string
		cases       []CaseConfig
		shouldError bool
	}{
		{"valid", []CaseConfig{{Name: "a", Duration: 1, Log: "a.out"}}, false},
		{"empty list", nil, true},
		{"empty name", []CaseConfig{{Name: "", Duration: 1, Log: "a.out"}}, true},
		{"name with separator", []CaseConfig{{Name: "a/b", Duration: 1, Log: "a.out"}}, true},
		{"dot dot name", []CaseConfig{{Name: "..", Duration: 1, Log: "a.out"}}, true},
		{"zero duration", []CaseConfig{{Name: "a", Duration: 0, Log: "a.out"}}, true},
		{"empty log", []CaseConfig{{Name: "a", Duration: 1, Log: ""}}, true},
		{"log with separator", []CaseConfig{{Name: "a", Duration: 1, Log: "logs/a.out"}}, true},
		{"duplicate", []CaseConfig{{Name: "a", Duration: 1, Log: "a.out"}, {Name: "a", Duration: 2, Log: "b.out"}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.Cases = tt.cases
			errs := cfg.Validate()
			if tt.shouldError && len(errs) == 0 {
				t.Errorf("expected error, got none")
			}
			if !tt.shouldError && len(errs) > 0 {
				t.Errorf("unexpected errors: %v", errs)
			}
		})
	}
}

func TestValidateAggregatesErrors(t *testing.T) {
	cfg := validConfig()
	cfg.PollInterval = 0
	cfg.Extractor = "sed"
	cfg.Cases[1].Duration = 0

	errs := cfg.Validate()
	if len(errs) != 3 {
		t.Fatalf("expected 3 errors, got %d: %v", len(errs), errs)
	}
}

func TestValidateDurationOverflow(t *testing.T) {
	cfg := validConfig()
	cfg.SamplingRateHz = 20
	cfg.Cases[0].Duration = math.MaxUint64 / 20
	if errs := cfg.Validate(); len(errs) > 0 {
		t.Fatalf("largest representable duration rejected: %v", errs)
	}

	cfg.Cases[0].Duration = 1 << 62
	errs := cfg.Validate()
	if len(errs) != 1 {
		t.Fatalf("expected one error, got %v", errs)
	}
	if verr := errs[0].(ValidationError); verr.Path != "cases[0].duration" {
		t.Errorf("unexpected path %q", verr.Path)
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := ValidationError{Path: "extractor", Message: `invalid value "awk"`, Hint: "allowed values: file, command"}
	want := `extractor: invalid value "awk"; allowed values: file, command`
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}

	err.Hint = ""
	if !strings.HasSuffix(err.Error(), `"awk"`) {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestValidateOutputFile(t *testing.T) {
	cfg := validConfig()
	cfg.Logging.OutputFile = t.TempDir() + "/simwatch.log"
	if errs := cfg.Validate(); len(errs) > 0 {
		t.Errorf("unexpected errors: %v", errs)
	}

	cfg.Logging.OutputFile = t.TempDir() + "/missing/simwatch.log"
	if errs := cfg.Validate(); len(errs) != 1 {
		t.Errorf("expected one error, got %v", errs)
	}
}
