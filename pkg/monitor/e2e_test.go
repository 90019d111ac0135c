package monitor_test

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DeBrosOfficial/simwatch/pkg/monitor"
	"github.com/DeBrosOfficial/simwatch/pkg/observation"
	"github.com/DeBrosOfficial/simwatch/pkg/status"
	"github.com/DeBrosOfficial/simwatch/pkg/tracker"
)

func appendLine(t *testing.T, path, line string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	require.NoError(t, err)
	defer f.Close()
	_, err = f.WriteString(line + "\n")
	require.NoError(t, err)
}

// Two poll cycles over a real log file: steps 50 then 70 with a 180s
// interval give 9 s/step and an ETA of (900*20-70)*9 seconds.
func TestEndToEndTwoCycles(t *testing.T) {
	root := t.TempDir()
	caseDir := filepath.Join(root, "zen30az045_OS7")
	require.NoError(t, os.MkdirAll(caseDir, 0755))
	logPath := filepath.Join(caseDir, "solve-672_15.out")

	settings := tracker.Settings{RootDir: root, PollInterval: 180 * time.Second, SamplingRate: 20, Elapsed: tracker.ElapsedNominal}
	c := tracker.NewCase(tracker.Spec{Name: "zen30az045_OS7", Duration: 900, LogFile: "solve-672_15.out"},
		settings, observation.NewFileExtractor(nil))

	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.Local)
	var out bytes.Buffer
	m := monitor.New([]*tracker.Case{c}, monitor.Options{
		Interval:  180 * time.Second,
		Renderer:  status.NewPlainRenderer(&out, false),
		Clock:     func() time.Time { return now },
		HostStats: func() (*monitor.HostStats, error) { return nil, fmt.Errorf("skip") },
	})

	appendLine(t, logPath, "Iteration 1 residuals 1e-3")
	appendLine(t, logPath, "TimeStep   50: Time   2.5000e+00")
	report, err := m.RunCycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0.0, report.Cases[0].SecondsPerStep)

	appendLine(t, logPath, "TimeStep   70: Time   3.5000e+00")
	appendLine(t, logPath, "Courant Number mean: 0.12 max: 0.9")
	report, err = m.RunCycle(context.Background())
	require.NoError(t, err)

	s := report.Cases[0]
	assert.Equal(t, uint64(70), s.Step)
	assert.InDelta(t, 9.0, s.SecondsPerStep, 1e-9)
	assert.Equal(t, now.Add(time.Duration((900*20-70)*9)*time.Second), s.ETA)

	require.NoError(t, status.NewPlainRenderer(&out, false).Render(report))
	rows := strings.Split(strings.TrimSpace(out.String()), "\n")
	row := rows[len(rows)-1]
	assert.Equal(t, fmt.Sprintf("%-20s%8d%10.2f%8.2f%20s", "zen30az045_OS7", 70, 3.5, 9.0, s.ETA.Format(tracker.ETALayout)), row)
}

func TestEndToEndMissingLogAborts(t *testing.T) {
	settings := tracker.Settings{RootDir: t.TempDir(), PollInterval: time.Millisecond, SamplingRate: 20, Elapsed: tracker.ElapsedNominal}
	c := tracker.NewCase(tracker.Spec{Name: "absent", Duration: 900, LogFile: "solve.out"},
		settings, observation.NewFileExtractor(nil))

	m := monitor.New([]*tracker.Case{c}, monitor.Options{Interval: time.Millisecond})
	err := m.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "case absent:")
}
