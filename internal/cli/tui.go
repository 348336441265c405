package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/routelab/geotour/pkg/pipeline"
)

// =============================================================================
// solveModel - Live pipeline progress view
// =============================================================================

const (
	// progressBarWidth is the character width of the progress bar.
	progressBarWidth = 40

	// solverTailLines is how many recent solver output lines are shown.
	solverTailLines = 5
)

var (
	tuiBarFilled = lipgloss.NewStyle().Foreground(colorCyan)
	tuiBarEmpty  = lipgloss.NewStyle().Foreground(colorDim)
	tuiStage     = lipgloss.NewStyle().Foreground(colorWhite)
)

// eventMsg wraps one pipeline event for bubbletea.
type eventMsg pipeline.Event

// eventsClosedMsg signals that the pipeline closed its event stream.
type eventsClosedMsg struct{}

// solveModel is the bubbletea model for the solve command's live view.
// It is a pure consumer: all pipeline state arrives as events, and the
// only signal flowing back is context cancellation on Ctrl-C.
type solveModel struct {
	input     string
	cancel    context.CancelFunc
	events    <-chan pipeline.Event
	stage     string
	fraction  float64
	lines     []string
	err       error
	cancelled bool
}

// newSolveModel creates the progress model for one pipeline run.
func newSolveModel(input string, cancel context.CancelFunc, events <-chan pipeline.Event) solveModel {
	return solveModel{input: input, cancel: cancel, events: events}
}

// waitForEvent blocks until the next pipeline event arrives.
func waitForEvent(events <-chan pipeline.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return eventsClosedMsg{}
		}
		return eventMsg(ev)
	}
}

func (m solveModel) Init() tea.Cmd {
	return waitForEvent(m.events)
}

func (m solveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			// Cancel and keep consuming until the pipeline winds down,
			// so the solver child is reaped before the view exits.
			m.cancelled = true
			m.cancel()
			return m, nil
		}

	case eventMsg:
		ev := pipeline.Event(msg)
		switch ev.Type {
		case pipeline.EventStage:
			m.stage = ev.Stage
		case pipeline.EventProgress:
			if ev.Fraction > m.fraction {
				m.fraction = ev.Fraction
			}
		case pipeline.EventLine:
			m.lines = append(m.lines, ev.Line)
			if len(m.lines) > solverTailLines {
				m.lines = m.lines[len(m.lines)-solverTailLines:]
			}
		case pipeline.EventError:
			m.err = ev.Err
		case pipeline.EventDone:
			m.fraction = 1
		}
		return m, waitForEvent(m.events)

	case eventsClosedMsg:
		return m, tea.Quit
	}
	return m, nil
}

func (m solveModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Solving " + m.input))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("q or ctrl+c to cancel"))
	b.WriteString("\n\n")

	b.WriteString(renderBar(m.fraction))
	b.WriteString(fmt.Sprintf(" %3.0f%%", m.fraction*100))
	if m.stage != "" {
		b.WriteString("  " + tuiStage.Render(m.stage))
	}
	b.WriteString("\n\n")

	for _, line := range m.lines {
		b.WriteString(StyleDim.Render("  " + line))
		b.WriteString("\n")
	}

	switch {
	case m.cancelled:
		b.WriteString("\n" + StyleWarning.Render("cancelling..."))
	case m.err != nil:
		b.WriteString("\n" + styleIconError.Render(iconError) + " " + m.err.Error())
	}
	b.WriteString("\n")

	return b.String()
}

// renderBar draws a fixed-width progress bar for a fraction in [0, 1].
func renderBar(fraction float64) string {
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	filled := int(fraction * progressBarWidth)
	return tuiBarFilled.Render(strings.Repeat("█", filled)) +
		tuiBarEmpty.Render(strings.Repeat("░", progressBarWidth-filled))
}
