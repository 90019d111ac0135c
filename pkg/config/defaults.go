package config

import (
	"time"

	"github.com/DeBrosOfficial/simwatch/pkg/monitor"
	"github.com/DeBrosOfficial/simwatch/pkg/observation"
	"github.com/DeBrosOfficial/simwatch/pkg/tracker"
)

// Display modes
const (
	DisplayPlain = "plain"
	DisplayTUI   = "tui"
)

// Default returns a configuration with every field but the case list set.
func Default() *Config {
	return &Config{
		RootDir:        "/shared",
		PollInterval:   180 * time.Second,
		SamplingRateHz: 20,
		Extractor:      observation.KindFile,
		FailurePolicy:  string(monitor.PolicyAbort),
		Elapsed:        string(tracker.ElapsedNominal),
		Display:        DisplayPlain,
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Example returns the default configuration populated with a sample batch of
// wind-direction CFD cases.
func Example() *Config {
	cfg := Default()
	cfg.Cases = []CaseConfig{
		{Name: "zen30az045_OS2", Duration: 1200, Log: "solve-672_14.out"},
		{Name: "zen30az090_OS2", Duration: 1200, Log: "solve-672_16.out"},
		{Name: "zen30az045_OS7", Duration: 900, Log: "solve-672_15.out"},
		{Name: "zen30az090_OS7", Duration: 900, Log: "solve-672_17.out"},
		{Name: "zen30az135_OS7", Duration: 900, Log: "solve-672_18.out"},
		{Name: "zen30az045_CD12", Duration: 900, Log: "solve-672_19.out"},
		{Name: "zen30az090_CD12", Duration: 900, Log: "solve-672_20.out"},
		{Name: "zen30az180_CD12", Duration: 900, Log: "solve-672_21.out"},
	}
	return cfg
}
