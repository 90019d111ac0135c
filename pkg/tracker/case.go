// Package tracker follows the progress of individual simulation cases.
package tracker

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/DeBrosOfficial/simwatch/pkg/errors"
	"github.com/DeBrosOfficial/simwatch/pkg/logging"
	"github.com/DeBrosOfficial/simwatch/pkg/observation"
	"github.com/DeBrosOfficial/simwatch/pkg/progress"
)

// ETALayout is the timestamp layout of the ETA column.
const ETALayout = "2006-01-02 15:04"

// Case is one monitored simulation. It is not safe for concurrent use; the
// monitor loop is its only writer.
type Case struct {
	spec      Spec
	settings  Settings
	extractor observation.Extractor
	logger    *logging.ColoredLogger
	now       func() time.Time

	hasStep    bool
	step       uint64
	time       float64
	observedAt time.Time
	average    progress.RunningAverage
	lastErr    error
}

// Option configures a Case.
type Option func(*Case)

// WithLogger sets the logger.
func WithLogger(logger *logging.ColoredLogger) Option {
	return func(c *Case) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Case) {
		if now != nil {
			c.now = now
		}
	}
}

// NewCase creates a case that has not been observed yet.
func NewCase(spec Spec, settings Settings, extractor observation.Extractor, opts ...Option) *Case {
	c := &Case{
		spec:      spec,
		settings:  settings,
		extractor: extractor,
		logger:    logging.NewNop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the case name.
func (c *Case) Name() string { return c.spec.Name }

// LogPath returns the resolved log file path.
func (c *Case) LogPath() string { return c.settings.LogPath(c.spec) }

// Step returns the last observed step and whether one was observed.
func (c *Case) Step() (uint64, bool) { return c.step, c.hasStep }

// Observed reports whether at least one refresh succeeded.
func (c *Case) Observed() bool { return c.hasStep }

// SimulatedTime returns the last observed simulated time.
func (c *Case) SimulatedTime() float64 { return c.time }

// SecondsPerStep returns the running average of wall-clock seconds per step.
func (c *Case) SecondsPerStep() float64 { return c.average.Value() }

// Samples returns how many step deltas the average was built from.
func (c *Case) Samples() uint { return c.average.Samples() }

// LastError returns the error of the most recent refresh, nil if it succeeded.
func (c *Case) LastError() error { return c.lastErr }

// Refresh reads the latest observation from the case log and updates the
// seconds-per-step average.
//
// The first observation only sets the baseline. A lower step than the
// previous one resets the average, rebaselines on the new observation and
// returns a StepRegressionError.
func (c *Case) Refresh(ctx context.Context) error {
	err := c.refresh(ctx)
	c.lastErr = err
	return err
}

func (c *Case) refresh(ctx context.Context) error {
	path := c.LogPath()
	obs, err := observation.Extract(ctx, c.extractor, path)
	if err != nil {
		return err
	}
	now := c.now()

	previous := obs.Step
	if c.hasStep {
		previous = c.step
	}
	elapsed := c.elapsedSince(now)

	var regression error
	switch {
	case obs.Step > previous:
		delta := obs.Step - previous
		sample := elapsed.Seconds() / float64(delta)
		c.average.Update(sample)
		c.logger.ComponentDebug(logging.ComponentTracker, "Folded step timing",
			zap.String("case", c.spec.Name),
			zap.Uint64("delta", delta),
			zap.Float64("sample", sample),
			zap.Float64("average", c.average.Value()))
	case obs.Step < previous:
		c.average.Reset()
		regression = errors.NewStepRegressionError(previous, obs.Step)
		c.logger.ComponentWarn(logging.ComponentTracker, "Step went backwards, timing average reset",
			zap.String("case", c.spec.Name),
			zap.Uint64("previous", previous),
			zap.Uint64("current", obs.Step))
	}

	c.hasStep = true
	c.step = obs.Step
	c.time = obs.Time
	c.observedAt = now
	return regression
}

func (c *Case) elapsedSince(now time.Time) time.Duration {
	if c.settings.Elapsed == ElapsedMeasured && !c.observedAt.IsZero() {
		return now.Sub(c.observedAt)
	}
	return c.settings.PollInterval
}

// TotalSteps returns the step count at which the simulation is complete.
func (c *Case) TotalSteps() uint64 {
	return c.spec.Duration * c.settings.SamplingRate
}

// EstimatedSecondsRemaining multiplies the remaining step count by the average
// seconds per step. It is negative once the case ran past its target.
// It panics if the case was never observed.
func (c *Case) EstimatedSecondsRemaining() int64 {
	c.mustBeObserved()
	remaining := float64(c.TotalSteps()) - float64(c.step)
	return int64(math.Round(c.average.Scale(remaining)))
}

// ETA returns the estimated completion time relative to now.
func (c *Case) ETA(now time.Time) time.Time {
	return now.Add(time.Duration(c.EstimatedSecondsRemaining()) * time.Second)
}

// PercentComplete returns the share of TotalSteps reached, in percent.
func (c *Case) PercentComplete() float64 {
	c.mustBeObserved()
	total := c.TotalSteps()
	if total == 0 {
		return 100
	}
	return float64(c.step) / float64(total) * 100
}

// StatusLine renders the fixed-width status row of the case.
func (c *Case) StatusLine(now time.Time) string {
	c.mustBeObserved()
	return fmt.Sprintf("%-20s%8d%10.2f%s%20s",
		c.spec.Name,
		c.step,
		c.time,
		c.average.String(),
		c.ETA(now).Format(ETALayout))
}

func (c *Case) mustBeObserved() {
	if !c.hasStep {
		panic(fmt.Sprintf("tracker: case %q queried before its first observation: %v", c.spec.Name, errors.ErrNoObservation))
	}
}
