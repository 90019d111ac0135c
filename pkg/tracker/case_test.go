package tracker

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DeBrosOfficial/simwatch/pkg/errors"
	"github.com/DeBrosOfficial/simwatch/pkg/logging"
)

// scriptedExtractor returns one scripted line per call and records the paths
// it was asked for.
type scriptedExtractor struct {
	lines []string
	errs  []error
	paths []string
	calls int
}

func (s *scriptedExtractor) LastMatch(_ context.Context, path string) (string, error) {
	s.paths = append(s.paths, path)
	i := s.calls
	s.calls++
	if i < len(s.errs) && s.errs[i] != nil {
		return "", s.errs[i]
	}
	return s.lines[i], nil
}

func stepLine(step uint64, simTime float64) string {
	return fmt.Sprintf("TimeStep   %d: Time   %.4e", step, simTime)
}

func testSettings() Settings {
	return Settings{
		RootDir:      "/shared",
		PollInterval: 180 * time.Second,
		SamplingRate: 20,
		Elapsed:      ElapsedNominal,
	}
}

func TestRefreshResolvesLogPath(t *testing.T) {
	ex := &scriptedExtractor{lines: []string{stepLine(1, 0.05)}}
	c := NewCase(Spec{Name: "zen30az045_OS2", Duration: 1200, LogFile: "solve-672_14.out"}, testSettings(), ex)

	require.NoError(t, c.Refresh(context.Background()))
	assert.Equal(t, []string{"/shared/zen30az045_OS2/solve-672_14.out"}, ex.paths)
	assert.Equal(t, "/shared/zen30az045_OS2/solve-672_14.out", c.LogPath())
}

func TestFirstObservationOnlySetsBaseline(t *testing.T) {
	ex := &scriptedExtractor{lines: []string{stepLine(42, 123.45)}}
	c := NewCase(Spec{Name: "a", Duration: 10, LogFile: "log"}, testSettings(), ex)

	require.False(t, c.Observed())
	require.NoError(t, c.Refresh(context.Background()))

	step, ok := c.Step()
	assert.True(t, ok)
	assert.Equal(t, uint64(42), step)
	assert.InDelta(t, 123.45, c.SimulatedTime(), 1e-9)
	assert.Equal(t, uint(0), c.Samples())
	assert.Equal(t, 0.0, c.SecondsPerStep())
}

func TestIncreasingStepsUpdateAverage(t *testing.T) {
	ex := &scriptedExtractor{lines: []string{stepLine(10, 0.5), stepLine(15, 0.75)}}
	c := NewCase(Spec{Name: "a", Duration: 10, LogFile: "log"}, testSettings(), ex)

	require.NoError(t, c.Refresh(context.Background()))
	require.NoError(t, c.Refresh(context.Background()))

	assert.Equal(t, uint(1), c.Samples())
	assert.InDelta(t, 36.0, c.SecondsPerStep(), 1e-9)
}

func TestZeroDeltaIsNoop(t *testing.T) {
	ex := &scriptedExtractor{lines: []string{stepLine(10, 0.5), stepLine(20, 1.0), stepLine(20, 1.0)}}
	c := NewCase(Spec{Name: "a", Duration: 10, LogFile: "log"}, testSettings(), ex)

	for i := 0; i < 2; i++ {
		require.NoError(t, c.Refresh(context.Background()))
	}
	mean, samples := c.SecondsPerStep(), c.Samples()

	require.NoError(t, c.Refresh(context.Background()))
	assert.Equal(t, mean, c.SecondsPerStep())
	assert.Equal(t, samples, c.Samples())
	assert.InDelta(t, 18.0, c.SecondsPerStep(), 1e-9)
}

func TestStepRegressionResetsAverage(t *testing.T) {
	ex := &scriptedExtractor{lines: []string{stepLine(100, 5), stepLine(110, 5.5), stepLine(4, 0.2), stepLine(8, 0.4)}}
	var logs bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "debug", Output: &logs})
	require.NoError(t, err)
	c := NewCase(Spec{Name: "a", Duration: 10, LogFile: "log"}, testSettings(), ex, WithLogger(logger))

	require.NoError(t, c.Refresh(context.Background()))
	require.NoError(t, c.Refresh(context.Background()))
	require.Equal(t, uint(1), c.Samples())

	err = c.Refresh(context.Background())
	require.Error(t, err)
	assert.Contains(t, logs.String(), "[TRACKER] Folded step timing")
	assert.Contains(t, logs.String(), "[TRACKER] Step went backwards")
	var regression *errors.StepRegressionError
	require.ErrorAs(t, err, &regression)
	assert.Equal(t, uint64(110), regression.Previous)
	assert.Equal(t, uint64(4), regression.Current)
	assert.Equal(t, err, c.LastError())

	step, _ := c.Step()
	assert.Equal(t, uint64(4), step)
	assert.Equal(t, uint(0), c.Samples())

	require.NoError(t, c.Refresh(context.Background()))
	assert.Nil(t, c.LastError())
	assert.InDelta(t, 45.0, c.SecondsPerStep(), 1e-9)
}

func TestRefreshErrorsKeepState(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		line  string
		check func(error) bool
	}{
		{"extraction", errors.NewExtractionError("/x", nil), "", errors.IsExtraction},
		{"mismatch", nil, "Courant number mean: 0.1", errors.IsPatternMismatch},
		{"parse", nil, "TimeStep   12: Time   12.xe+02", errors.IsParse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ex := &scriptedExtractor{
				lines: []string{stepLine(10, 0.5), tt.line},
				errs:  []error{nil, tt.err},
			}
			c := NewCase(Spec{Name: "a", Duration: 10, LogFile: "log"}, testSettings(), ex)
			require.NoError(t, c.Refresh(context.Background()))

			err := c.Refresh(context.Background())
			require.Error(t, err)
			assert.True(t, tt.check(err), "got %v", err)
			assert.Equal(t, err, c.LastError())

			step, _ := c.Step()
			assert.Equal(t, uint64(10), step)
			assert.InDelta(t, 0.5, c.SimulatedTime(), 1e-9)
		})
	}
}

func TestMeasuredElapsedUsesClock(t *testing.T) {
	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := start
	settings := testSettings()
	settings.Elapsed = ElapsedMeasured

	ex := &scriptedExtractor{lines: []string{stepLine(10, 0.5), stepLine(20, 1.0)}}
	c := NewCase(Spec{Name: "a", Duration: 10, LogFile: "log"}, settings, ex,
		WithClock(func() time.Time { return clock }))

	require.NoError(t, c.Refresh(context.Background()))
	clock = clock.Add(250 * time.Second)
	require.NoError(t, c.Refresh(context.Background()))

	assert.InDelta(t, 25.0, c.SecondsPerStep(), 1e-9)
}

func TestMeasuredElapsedSpansFailedPolls(t *testing.T) {
	clock := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	settings := testSettings()
	settings.Elapsed = ElapsedMeasured

	ex := &scriptedExtractor{
		lines: []string{stepLine(10, 0.5), "", stepLine(40, 2.0)},
		errs:  []error{nil, errors.NewExtractionError("/x", nil), nil},
	}
	c := NewCase(Spec{Name: "a", Duration: 10, LogFile: "log"}, settings, ex,
		WithClock(func() time.Time { return clock }))

	require.NoError(t, c.Refresh(context.Background()))
	clock = clock.Add(180 * time.Second)
	require.Error(t, c.Refresh(context.Background()))
	clock = clock.Add(180 * time.Second)
	require.NoError(t, c.Refresh(context.Background()))

	assert.InDelta(t, 12.0, c.SecondsPerStep(), 1e-9)
}

func TestEstimatedSecondsRemaining(t *testing.T) {
	ex := &scriptedExtractor{lines: []string{stepLine(99, 4.95), stepLine(100, 5.0)}}
	settings := testSettings()
	settings.PollInterval = 2 * time.Second
	c := NewCase(Spec{Name: "a", Duration: 10, LogFile: "log"}, settings, ex)

	require.NoError(t, c.Refresh(context.Background()))
	require.NoError(t, c.Refresh(context.Background()))
	require.InDelta(t, 2.0, c.SecondsPerStep(), 1e-9)

	assert.Equal(t, uint64(200), c.TotalSteps())
	assert.Equal(t, int64(200), c.EstimatedSecondsRemaining())
	assert.InDelta(t, 50.0, c.PercentComplete(), 1e-9)
}

func TestEstimatedSecondsRemainingPastTarget(t *testing.T) {
	ex := &scriptedExtractor{lines: []string{stepLine(200, 10), stepLine(210, 10.5)}}
	settings := testSettings()
	settings.PollInterval = 10 * time.Second
	c := NewCase(Spec{Name: "a", Duration: 10, LogFile: "log"}, settings, ex)

	require.NoError(t, c.Refresh(context.Background()))
	require.NoError(t, c.Refresh(context.Background()))

	assert.Equal(t, int64(-10), c.EstimatedSecondsRemaining())
}

func TestQueriesBeforeObservationPanic(t *testing.T) {
	c := NewCase(Spec{Name: "a", Duration: 10, LogFile: "log"}, testSettings(), &scriptedExtractor{})

	assert.Panics(t, func() { c.EstimatedSecondsRemaining() })
	assert.Panics(t, func() { c.StatusLine(time.Now()) })
}

func TestStatusLine(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.Local)
	ex := &scriptedExtractor{lines: []string{stepLine(50, 2.5), stepLine(70, 3.5)}}
	c := NewCase(Spec{Name: "zen30az045_CD12", Duration: 900, LogFile: "solve.out"}, testSettings(), ex)

	require.NoError(t, c.Refresh(context.Background()))
	require.NoError(t, c.Refresh(context.Background()))

	eta := now.Add(time.Duration((900*20-70)*9) * time.Second)
	want := fmt.Sprintf("%-20s%8d%10.2f%8.2f%20s", "zen30az045_CD12", 70, 3.5, 9.0, eta.Format(ETALayout))
	assert.Equal(t, want, c.StatusLine(now))
	assert.Len(t, c.StatusLine(now), 20+8+10+8+20)
}

func TestSnapshot(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	c := NewCase(Spec{Name: "a", Duration: 10, LogFile: "log"}, testSettings(),
		&scriptedExtractor{lines: []string{stepLine(50, 2.5)}})

	empty := c.Snapshot(now)
	assert.False(t, empty.Observed)
	assert.Empty(t, empty.Line)
	assert.True(t, empty.ETA.IsZero())

	require.NoError(t, c.Refresh(context.Background()))
	s := c.Snapshot(now)
	assert.True(t, s.Observed)
	assert.Equal(t, uint64(50), s.Step)
	assert.Equal(t, uint64(200), s.TotalSteps)
	assert.InDelta(t, 25.0, s.Percent, 1e-9)
	assert.Equal(t, now, s.ETA)
	assert.Equal(t, c.StatusLine(now), s.Line)
}
