package tracker

import (
	"path/filepath"
	"time"
)

// ElapsedMode selects how the wall-clock time between two observations is
// measured.
type ElapsedMode string

const (
	// ElapsedNominal assumes exactly one poll interval passed between two
	// observations.
	ElapsedNominal ElapsedMode = "nominal"
	// ElapsedMeasured uses the clock time between the two observations.
	ElapsedMeasured ElapsedMode = "measured"
)

// Settings are the process-wide values every case shares.
type Settings struct {
	RootDir      string
	PollInterval time.Duration
	SamplingRate uint64 // steps per duration unit (Hz)
	Elapsed      ElapsedMode
}

// DefaultSettings returns the values of the original batch setup.
func DefaultSettings() Settings {
	return Settings{
		RootDir:      "/shared",
		PollInterval: 180 * time.Second,
		SamplingRate: 20,
		Elapsed:      ElapsedNominal,
	}
}

// Spec describes one monitored simulation.
type Spec struct {
	Name     string
	Duration uint64
	LogFile  string
}

// LogPath joins the root directory, the case name and the log file name.
// It does not check that the file exists.
func (s Settings) LogPath(spec Spec) string {
	return filepath.Join(s.RootDir, spec.Name, spec.LogFile)
}
