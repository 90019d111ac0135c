package monitor

import (
	"fmt"

	"github.com/mackerelio/go-osstat/loadavg"
	"github.com/mackerelio/go-osstat/memory"
)

// HostStats is the load of the machine running the monitor, which on a
// workstation setup is also the machine running the solvers.
type HostStats struct {
	Load1             float64
	Load5             float64
	Load15            float64
	MemoryUsedPercent float64
}

// ReadHostStats samples load averages and memory usage.
func ReadHostStats() (*HostStats, error) {
	load, err := loadavg.Get()
	if err != nil {
		return nil, fmt.Errorf("failed to read load average: %w", err)
	}
	mem, err := memory.Get()
	if err != nil {
		return nil, fmt.Errorf("failed to read memory usage: %w", err)
	}

	stats := &HostStats{
		Load1:  load.Loadavg1,
		Load5:  load.Loadavg5,
		Load15: load.Loadavg15,
	}
	if mem.Total > 0 {
		stats.MemoryUsedPercent = float64(mem.Used) / float64(mem.Total) * 100
	}
	return stats, nil
}
