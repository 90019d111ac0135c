package observation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DeBrosOfficial/simwatch/pkg/errors"
)

type staticExtractor struct {
	line string
	err  error
}

func (s staticExtractor) LastMatch(context.Context, string) (string, error) {
	return s.line, s.err
}

func TestNew(t *testing.T) {
	ex, err := New(KindFile, nil)
	require.NoError(t, err)
	assert.IsType(t, &FileExtractor{}, ex)

	ex, err = New("", nil)
	require.NoError(t, err)
	assert.IsType(t, &FileExtractor{}, ex)

	ex, err = New(KindCommand, nil)
	require.NoError(t, err)
	assert.IsType(t, &CommandExtractor{}, ex)

	_, err = New("awk", nil)
	assert.Error(t, err)
}

func TestExtract(t *testing.T) {
	obs, err := Extract(context.Background(), staticExtractor{line: "TimeStep   42: Time   1.2345e+02"}, "/shared/a/solve.out")
	require.NoError(t, err)
	assert.Equal(t, uint64(42), obs.Step)
	assert.InDelta(t, 123.45, obs.Time, 1e-9)
}

func TestExtractAttachesPathToMismatch(t *testing.T) {
	_, err := Extract(context.Background(), staticExtractor{line: "TimeStep: garbage"}, "/shared/a/solve.out")
	require.Error(t, err)

	var mismatch *errors.PatternMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, "/shared/a/solve.out", mismatch.Path)
	assert.Equal(t, "TimeStep: garbage", mismatch.Line)
}

func TestExtractPassesThroughExtractorError(t *testing.T) {
	want := errors.NewExtractionError("/x", nil)
	_, err := Extract(context.Background(), staticExtractor{err: want}, "/x")
	assert.Same(t, want, err)
}
