package observation

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"os/exec"
	"strings"

	"go.uber.org/zap"

	"github.com/DeBrosOfficial/simwatch/pkg/errors"
	"github.com/DeBrosOfficial/simwatch/pkg/logging"
)

// CommandExtractor runs `grep TimeStep <path> | tail -n1` as two processes.
// grep and tail must be on PATH unless GrepPath/TailPath are set.
type CommandExtractor struct {
	GrepPath string
	TailPath string

	logger *logging.ColoredLogger
}

// NewCommandExtractor creates a CommandExtractor using grep and tail from PATH.
// A nil logger discards output.
func NewCommandExtractor(logger *logging.ColoredLogger) *CommandExtractor {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &CommandExtractor{GrepPath: "grep", TailPath: "tail", logger: logger}
}

// LastMatch implements Extractor.
func (e *CommandExtractor) LastMatch(ctx context.Context, path string) (string, error) {
	grep := exec.CommandContext(ctx, e.GrepPath, Marker, path)
	var grepErr bytes.Buffer
	grep.Stderr = &grepErr

	pipe, err := grep.StdoutPipe()
	if err != nil {
		return "", errors.NewExtractionError(path, err)
	}

	tail := exec.CommandContext(ctx, e.TailPath, "-n1")
	tail.Stdin = pipe
	var out bytes.Buffer
	tail.Stdout = &out

	if err := grep.Start(); err != nil {
		return "", errors.NewExtractionError(path, fmt.Errorf("failed to start %s: %w", e.GrepPath, err))
	}
	if err := tail.Start(); err != nil {
		_ = grep.Process.Kill()
		_ = grep.Wait()
		return "", errors.NewExtractionError(path, fmt.Errorf("failed to start %s: %w", e.TailPath, err))
	}

	// tail has to finish reading before grep is reaped, otherwise the pipe
	// is closed under it.
	tailErr := tail.Wait()
	grepWaitErr := grep.Wait()

	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", ctxErr
	}
	if tailErr != nil {
		return "", errors.NewExtractionError(path, fmt.Errorf("%s failed: %w", e.TailPath, tailErr))
	}
	if grepWaitErr != nil {
		var exitErr *exec.ExitError
		// grep exits 1 when nothing matched and 2 on errors.
		if stderrors.As(grepWaitErr, &exitErr) && exitErr.ExitCode() == 1 {
			return "", errors.NewPatternMismatchError(path, "")
		}
		msg := strings.TrimSpace(grepErr.String())
		if msg == "" {
			msg = grepWaitErr.Error()
		}
		return "", errors.NewExtractionError(path, fmt.Errorf("%s failed: %s", e.GrepPath, msg))
	}

	line := strings.TrimRight(out.String(), "\r\n")
	if line == "" {
		return "", errors.NewPatternMismatchError(path, "")
	}

	e.logger.ComponentDebug(logging.ComponentExtractor, "Found observation line",
		zap.String("path", path),
		zap.String("line", line))
	return line, nil
}
