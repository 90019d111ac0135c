package status

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/DeBrosOfficial/simwatch/pkg/monitor"
	"github.com/DeBrosOfficial/simwatch/pkg/tracker"
)

const barWidth = 24

// reportMsg carries a fresh report into the dashboard.
type reportMsg monitor.Report

// finishedMsg is sent when the monitor loop returns.
type finishedMsg struct {
	err error
}

// Dashboard is the bubbletea model of the interactive status view.
type Dashboard struct {
	report  *monitor.Report
	spinner spinner.Model
	bar     progress.Model
	err     error
	done    bool
	onQuit  func()
}

// NewDashboard creates an empty dashboard. onQuit is called when the user
// quits and may be nil.
func NewDashboard(onQuit func()) Dashboard {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = headerStyle

	return Dashboard{
		spinner: s,
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(barWidth), progress.WithoutPercentage()),
		onQuit:  onQuit,
	}
}

// Init starts the spinner.
func (d Dashboard) Init() tea.Cmd {
	return d.spinner.Tick
}

// Update handles messages
func (d Dashboard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			if d.onQuit != nil {
				d.onQuit()
			}
			d.done = true
			return d, tea.Quit
		}

	case reportMsg:
		r := monitor.Report(msg)
		d.report = &r
		return d, nil

	case finishedMsg:
		d.err = msg.err
		d.done = true
		return d, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		d.spinner, cmd = d.spinner.Update(msg)
		return d, cmd
	}

	return d, nil
}

// View renders the dashboard.
func (d Dashboard) View() string {
	var s strings.Builder
	s.WriteString(titleStyle.Render("simwatch"))
	s.WriteString("\n")

	if d.report == nil {
		if d.err != nil {
			s.WriteString(errorStyle.Render("✗ " + d.err.Error()))
			s.WriteString("\n")
			return s.String()
		}
		s.WriteString(d.spinner.View() + " Reading solver logs...\n")
		s.WriteString(helpStyle.Render("Press q to quit"))
		return s.String()
	}

	r := d.report
	var table strings.Builder
	table.WriteString(subtitleStyle.Render(r.Time.Format(TimestampLayout)))
	table.WriteString("\n")
	table.WriteString(headerStyle.Render(Header()))
	table.WriteString("\n")
	for _, c := range r.Cases {
		table.WriteString(d.renderRow(c))
		table.WriteString("\n")
	}
	s.WriteString(boxStyle.Render(strings.TrimRight(table.String(), "\n")))
	s.WriteString("\n")

	footer := fmt.Sprintf("cycle %d", r.Cycle)
	if r.Failed > 0 {
		footer += errorStyle.Render(fmt.Sprintf("  %d failing", r.Failed))
	}
	if r.Host != nil {
		footer += fmt.Sprintf("  load %.2f %.2f %.2f  mem %.0f%%", r.Host.Load1, r.Host.Load5, r.Host.Load15, r.Host.MemoryUsedPercent)
	}
	s.WriteString(subtitleStyle.Render(footer))
	s.WriteString("\n")

	if d.err != nil {
		s.WriteString(errorStyle.Render("✗ " + d.err.Error()))
		s.WriteString("\n")
	}
	if !d.done {
		s.WriteString(helpStyle.Render("Press q to quit"))
	}
	return s.String()
}

func (d Dashboard) renderRow(c tracker.Snapshot) string {
	row := Row(c)
	switch {
	case c.Err != nil && c.Observed:
		row = staleStyle.Render(row)
	case c.Err != nil:
		return errorStyle.Render(row)
	default:
		row = rowStyle.Render(row)
	}
	if !c.Observed {
		return row
	}

	pct := c.Percent / 100
	if pct > 1 {
		pct = 1
	}
	return fmt.Sprintf("%s  %s %5.1f%%", row, d.bar.ViewAs(pct), c.Percent)
}

// Err returns the error the monitor loop ended with, if any.
func (d Dashboard) Err() error {
	return d.err
}

// ProgramRenderer forwards reports to a running bubbletea program.
type ProgramRenderer struct {
	program *tea.Program
}

// Render implements monitor.Renderer.
func (r *ProgramRenderer) Render(report monitor.Report) error {
	r.program.Send(reportMsg(report))
	return nil
}

// RunDashboard runs loop with a renderer feeding an interactive dashboard on
// the alternate screen. It returns when the loop ends or the user quits; a
// user quit is not an error.
func RunDashboard(ctx context.Context, loop func(ctx context.Context, r monitor.Renderer) error, opts ...tea.ProgramOption) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := NewDashboard(cancel)
	p := tea.NewProgram(model, append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)...)

	result := make(chan error, 1)
	go func() {
		err := loop(ctx, &ProgramRenderer{program: p})
		result <- err
		p.Send(finishedMsg{err: err})
	}()

	if _, err := p.Run(); err != nil {
		cancel()
		<-result
		return fmt.Errorf("dashboard failed: %w", err)
	}

	cancel()
	if err := <-result; !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
