// Package monitor drives the polling loop: refresh every case in order,
// render the status table, wait one interval, repeat.
package monitor

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/DeBrosOfficial/simwatch/pkg/errors"
	"github.com/DeBrosOfficial/simwatch/pkg/logging"
	"github.com/DeBrosOfficial/simwatch/pkg/tracker"
)

// FailurePolicy decides what a failed case refresh does to the loop.
type FailurePolicy string

const (
	// PolicyAbort stops the loop on the first failing case.
	PolicyAbort FailurePolicy = "abort"
	// PolicyIsolate records the error on the case and keeps polling.
	PolicyIsolate FailurePolicy = "isolate"
)

// Report is the state of every case after one refresh cycle.
type Report struct {
	RunID  string
	Cycle  uint64
	Time   time.Time
	Cases  []tracker.Snapshot
	Host   *HostStats
	Failed int
}

// Renderer displays a report.
type Renderer interface {
	Render(report Report) error
}

// Options configures a Monitor.
type Options struct {
	Interval  time.Duration
	Policy    FailurePolicy
	MaxCycles uint64 // 0 runs until cancelled or failed
	Renderer  Renderer
	Logger    *logging.ColoredLogger
	Clock     func() time.Time
	HostStats func() (*HostStats, error)
}

// Monitor polls a fixed, ordered set of cases.
type Monitor struct {
	cases     []*tracker.Case
	interval  time.Duration
	policy    FailurePolicy
	maxCycles uint64
	renderer  Renderer
	logger    *logging.ColoredLogger
	now       func() time.Time
	hostStats func() (*HostStats, error)

	runID string
	cycle uint64
}

// New creates a monitor over cases. Cases are refreshed in slice order.
func New(cases []*tracker.Case, opts Options) *Monitor {
	m := &Monitor{
		cases:     cases,
		interval:  opts.Interval,
		policy:    opts.Policy,
		maxCycles: opts.MaxCycles,
		renderer:  opts.Renderer,
		logger:    opts.Logger,
		now:       opts.Clock,
		hostStats: opts.HostStats,
		runID:     uuid.NewString(),
	}
	if m.policy == "" {
		m.policy = PolicyAbort
	}
	if m.logger == nil {
		m.logger = logging.NewNop()
	}
	if m.now == nil {
		m.now = time.Now
	}
	if m.hostStats == nil {
		m.hostStats = ReadHostStats
	}
	m.logger = m.logger.With(zap.String("run_id", m.runID))
	return m
}

// RunID identifies this monitor in logs.
func (m *Monitor) RunID() string { return m.runID }

// Run polls until ctx is cancelled, MaxCycles is reached, or, under
// PolicyAbort, a case fails. The failing case's error is returned wrapped with
// its name; cancellation returns ctx.Err().
func (m *Monitor) Run(ctx context.Context) error {
	m.logger.ComponentInfo(logging.ComponentMonitor, "Starting monitor",
		zap.Int("cases", len(m.cases)),
		zap.Duration("interval", m.interval),
		zap.String("policy", string(m.policy)))

	for {
		report, err := m.RunCycle(ctx)
		if err != nil {
			if errors.IsCancelled(err) {
				m.logger.ComponentInfo(logging.ComponentMonitor, "Monitor stopped")
			} else {
				code := errors.GetErrorCode(err)
				m.logger.ComponentError(logging.ComponentMonitor, "Monitor aborted",
					zap.String("code", code),
					zap.String("category", string(errors.GetCategory(code))),
					zap.Error(err))
				m.logger.ComponentDebug(logging.ComponentMonitor, "Abort origin",
					zap.String("stack", errors.StackTrace(err)))
			}
			return err
		}

		if m.renderer != nil {
			if err := m.renderer.Render(report); err != nil {
				return errors.Wrapf(err, "failed to render cycle %d", report.Cycle)
			}
		}

		if m.maxCycles > 0 && m.cycle >= m.maxCycles {
			return nil
		}

		timer := time.NewTimer(m.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			m.logger.ComponentInfo(logging.ComponentMonitor, "Monitor stopped")
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// RunCycle refreshes every case once and returns the resulting report.
// Under PolicyAbort it stops at the first failing case.
func (m *Monitor) RunCycle(ctx context.Context) (Report, error) {
	m.cycle++
	failed := 0

	for _, c := range m.cases {
		if err := ctx.Err(); err != nil {
			return Report{}, err
		}

		err := c.Refresh(ctx)
		if err == nil {
			continue
		}
		if errors.IsCancelled(err) {
			return Report{}, err
		}
		if m.policy == PolicyAbort {
			return Report{}, errors.WithCase(c.Name(), err)
		}

		failed++
		code := errors.GetErrorCode(err)
		m.logger.ComponentWarn(logging.ComponentMonitor, "Case refresh failed",
			zap.String("case", c.Name()),
			zap.String("code", code),
			zap.String("category", string(errors.GetCategory(code))),
			zap.Bool("transient", errors.IsTransient(code)),
			zap.Error(err))
	}

	now := m.now()
	report := Report{
		RunID:  m.runID,
		Cycle:  m.cycle,
		Time:   now,
		Cases:  make([]tracker.Snapshot, 0, len(m.cases)),
		Failed: failed,
	}
	for _, c := range m.cases {
		report.Cases = append(report.Cases, c.Snapshot(now))
	}

	if host, err := m.hostStats(); err != nil {
		m.logger.ComponentDebug(logging.ComponentMonitor, "Host stats unavailable", zap.Error(err))
	} else {
		report.Host = host
		m.logger.ComponentDebug(logging.ComponentMonitor, "Host usage",
			zap.Float64("load1", host.Load1),
			zap.Float64("memory_used_percent", host.MemoryUsedPercent))
	}

	m.logger.ComponentDebug(logging.ComponentMonitor, "Cycle complete",
		zap.Uint64("cycle", m.cycle),
		zap.Int("failed", failed))
	return report, nil
}
