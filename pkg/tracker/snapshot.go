package tracker

import "time"

// Snapshot is a read-only copy of a case's state for renderers.
type Snapshot struct {
	Name           string
	Observed       bool
	Step           uint64
	TotalSteps     uint64
	SimulatedTime  float64
	SecondsPerStep float64
	Samples        uint
	Percent        float64
	ETA            time.Time
	Line           string
	Err            error
}

// Snapshot captures the case state, computing the ETA relative to now.
// ETA, Percent and Line are left empty when the case was never observed.
func (c *Case) Snapshot(now time.Time) Snapshot {
	s := Snapshot{
		Name:           c.spec.Name,
		Observed:       c.hasStep,
		Step:           c.step,
		TotalSteps:     c.TotalSteps(),
		SimulatedTime:  c.time,
		SecondsPerStep: c.average.Value(),
		Samples:        c.average.Samples(),
		Err:            c.lastErr,
	}
	if c.hasStep {
		s.Percent = c.PercentComplete()
		s.ETA = c.ETA(now)
		s.Line = c.StatusLine(now)
	}
	return s
}
