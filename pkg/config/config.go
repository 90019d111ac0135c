package config

import (
	"time"

	"github.com/DeBrosOfficial/simwatch/pkg/tracker"
)

// Config represents the full simwatch configuration
type Config struct {
	RootDir        string        `yaml:"root_dir"`         // Directory holding one subdirectory per case
	PollInterval   time.Duration `yaml:"poll_interval"`    // Time between two refresh cycles
	SamplingRateHz uint64        `yaml:"sampling_rate_hz"` // Solver steps per duration unit
	Extractor      string        `yaml:"extractor"`        // file, command
	FailurePolicy  string        `yaml:"failure_policy"`   // abort, isolate
	Elapsed        string        `yaml:"elapsed"`          // nominal, measured
	Display        string        `yaml:"display"`          // plain, tui
	Logging        LoggingConfig `yaml:"logging"`
	Cases          []CaseConfig  `yaml:"cases"`
}

// CaseConfig describes one monitored simulation
type CaseConfig struct {
	Name     string `yaml:"name"`     // Case identifier, also its subdirectory under root_dir
	Duration uint64 `yaml:"duration"` // Target duration in simulated time units
	Log      string `yaml:"log"`      // Log file name inside the case directory
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level      string `yaml:"level"`       // debug, info, warn, error
	Format     string `yaml:"format"`      // json, console
	OutputFile string `yaml:"output_file"` // Empty for stderr
}

// TrackerSettings returns the values shared by every case tracker.
func (c *Config) TrackerSettings() tracker.Settings {
	return tracker.Settings{
		RootDir:      c.RootDir,
		PollInterval: c.PollInterval,
		SamplingRate: c.SamplingRateHz,
		Elapsed:      tracker.ElapsedMode(c.Elapsed),
	}
}

// Specs returns the case descriptions in configuration order.
func (c *Config) Specs() []tracker.Spec {
	specs := make([]tracker.Spec, 0, len(c.Cases))
	for _, cc := range c.Cases {
		specs = append(specs, tracker.Spec{
			Name:     cc.Name,
			Duration: cc.Duration,
			LogFile:  cc.Log,
		})
	}
	return specs
}
