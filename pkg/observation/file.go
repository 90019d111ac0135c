package observation

import (
	"bytes"
	"context"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/DeBrosOfficial/simwatch/pkg/errors"
	"github.com/DeBrosOfficial/simwatch/pkg/logging"
)

const defaultChunkSize = 64 * 1024

// FileExtractor reads the log directly, scanning backward from the end of the
// file so only the tail is read when the last record is recent.
type FileExtractor struct {
	logger    *logging.ColoredLogger
	chunkSize int
}

// NewFileExtractor creates a FileExtractor.
// A nil logger discards output.
func NewFileExtractor(logger *logging.ColoredLogger) *FileExtractor {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &FileExtractor{logger: logger, chunkSize: defaultChunkSize}
}

// LastMatch implements Extractor.
func (e *FileExtractor) LastMatch(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	f, err := os.Open(path)
	if err != nil {
		return "", errors.NewExtractionError(path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", errors.NewExtractionError(path, err)
	}
	if info.IsDir() {
		return "", errors.NewExtractionError(path, errors.New("is a directory"))
	}

	line, ok, err := lastLineContaining(f, info.Size(), []byte(Marker), e.chunkSize)
	if err != nil {
		return "", errors.NewExtractionError(path, err)
	}
	if !ok {
		return "", errors.NewPatternMismatchError(path, "")
	}

	e.logger.ComponentDebug(logging.ComponentExtractor, "Found observation line",
		zap.String("path", path),
		zap.Int64("size", info.Size()),
		zap.String("line", line))
	return line, nil
}

// lastLineContaining walks r backward in chunks of chunkSize bytes and
// returns the last '\n'-separated line holding marker. The trailing line does
// not need a terminating newline.
func lastLineContaining(r io.ReaderAt, size int64, marker []byte, chunkSize int) (string, bool, error) {
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}

	// carry holds the head of the previously read chunk, which is the tail of
	// a line that starts in an earlier chunk.
	var carry []byte
	pos := size
	for pos > 0 {
		start := pos - int64(chunkSize)
		if start < 0 {
			start = 0
		}
		block := make([]byte, pos-start)
		if _, err := r.ReadAt(block, start); err != nil && err != io.EOF {
			return "", false, err
		}
		data := append(block, carry...)

		for {
			i := bytes.LastIndexByte(data, '\n')
			if i < 0 {
				break
			}
			if line := data[i+1:]; bytes.Contains(line, marker) {
				return string(bytes.TrimRight(line, "\r")), true, nil
			}
			data = data[:i]
		}
		carry = data
		pos = start
	}

	if bytes.Contains(carry, marker) {
		return string(bytes.TrimRight(carry, "\r")), true, nil
	}
	return "", false, nil
}
