package observation

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/DeBrosOfficial/simwatch/pkg/errors"
	"github.com/DeBrosOfficial/simwatch/pkg/logging"
)

// Extractor returns the last line of a log file that contains Marker.
//
// Implementations return an ExtractionError when the file cannot be read and a
// PatternMismatchError when no line contains the marker.
type Extractor interface {
	LastMatch(ctx context.Context, path string) (string, error)
}

// Extractor kinds accepted by New.
const (
	KindFile    = "file"
	KindCommand = "command"
)

// New returns the extractor registered under kind.
func New(kind string, logger *logging.ColoredLogger) (Extractor, error) {
	switch kind {
	case KindFile, "":
		return NewFileExtractor(logger), nil
	case KindCommand:
		return NewCommandExtractor(logger), nil
	default:
		return nil, fmt.Errorf("unknown extractor %q (expected %q or %q)", kind, KindFile, KindCommand)
	}
}

// Extract runs ex against path and parses the line it returns.
func Extract(ctx context.Context, ex Extractor, path string) (Observation, error) {
	line, err := ex.LastMatch(ctx, path)
	if err != nil {
		return Observation{}, err
	}

	obs, err := Parse(line)
	var mismatch *errors.PatternMismatchError
	if stderrors.As(err, &mismatch) {
		return Observation{}, errors.NewPatternMismatchError(path, line)
	}
	return obs, err
}
