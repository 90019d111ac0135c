// Package status renders monitor reports as the fixed-width status table.
package status

import (
	"fmt"
	"io"
	"strings"

	"github.com/DeBrosOfficial/simwatch/pkg/errors"
	"github.com/DeBrosOfficial/simwatch/pkg/monitor"
	"github.com/DeBrosOfficial/simwatch/pkg/tracker"
)

// TimestampLayout is the layout of the line above the table.
const TimestampLayout = "2006-01-02 15:04:05"

// clearScreen moves the cursor home and clears the terminal.
const clearScreen = "\033[H\033[2J"

// Header returns the column header row.
func Header() string {
	return fmt.Sprintf("%-20s%8s%10s%8s%20s", "Case", "%", "P.[s]", "I.[s]", "ETA")
}

// Row renders one case. A case whose last refresh failed keeps its previous
// row, flagged with the error code; a case that never succeeded shows the
// error instead.
func Row(s tracker.Snapshot) string {
	switch {
	case s.Err == nil && s.Observed:
		return s.Line
	case s.Observed:
		return fmt.Sprintf("%s  ! %s", s.Line, errors.GetErrorCode(s.Err))
	case s.Err != nil:
		return fmt.Sprintf("%-20s  error: %v", s.Name, s.Err)
	default:
		return fmt.Sprintf("%-20s  waiting for first observation", s.Name)
	}
}

// Table renders the timestamp line, the header and one row per case.
func Table(report monitor.Report) string {
	var b strings.Builder
	b.WriteString(report.Time.Format(TimestampLayout))
	b.WriteString("\n")
	b.WriteString(Header())
	b.WriteString("\n")
	for _, s := range report.Cases {
		b.WriteString(Row(s))
		b.WriteString("\n")
	}
	return b.String()
}

// PlainRenderer clears the terminal and prints the table on every report.
type PlainRenderer struct {
	w    io.Writer
	wipe bool
}

// NewPlainRenderer creates a renderer writing to w. wipe clears the screen
// before each table.
func NewPlainRenderer(w io.Writer, wipe bool) *PlainRenderer {
	return &PlainRenderer{w: w, wipe: wipe}
}

// Render implements monitor.Renderer.
func (r *PlainRenderer) Render(report monitor.Report) error {
	var out string
	if r.wipe {
		out = clearScreen
	}
	out += Table(report)
	_, err := io.WriteString(r.w, out)
	return err
}
