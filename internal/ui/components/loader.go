package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner represents a spinning progress indicator
type Spinner struct {
	Frame int
	Label string
}

// NewSpinner creates a new spinner
func NewSpinner() *Spinner {
	return &Spinner{}
}

// Tick advances the spinner animation
func (s *Spinner) Tick() {
	s.Frame = (s.Frame + 1) % len(spinnerFrames)
}

// Render renders the spinner
func (s *Spinner) Render() string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("#3B82F6")).Bold(true)
	spinner := style.Render(spinnerFrames[s.Frame%len(spinnerFrames)])
	if s.Label != "" {
		return fmt.Sprintf("%s %s", spinner, s.Label)
	}
	return spinner
}

// PhaseLoader lists the loading phases, marking finished ones and the current one
type PhaseLoader struct {
	Phases  []string
	Current int
	Spinner *Spinner
}

// NewPhaseLoader creates a loader for the given phases
func NewPhaseLoader(phases []string) *PhaseLoader {
	return &PhaseLoader{Phases: phases, Spinner: NewSpinner()}
}

// SetCurrent sets the active phase, clamped to the last one
func (l *PhaseLoader) SetCurrent(i int) {
	l.Current = max(0, min(i, len(l.Phases)-1))
}

// Render renders the phase list
func (l *PhaseLoader) Render() string {
	doneStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	activeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#3B82F6")).Bold(true)
	pendingStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))

	lines := make([]string, 0, len(l.Phases))
	for i, phase := range l.Phases {
		switch {
		case i < l.Current:
			lines = append(lines, doneStyle.Render("✓ "+phase))
		case i == l.Current:
			lines = append(lines, l.Spinner.Render()+" "+activeStyle.Render(phase))
		default:
			lines = append(lines, pendingStyle.Render("  "+phase))
		}
	}
	return strings.Join(lines, "\n")
}

// ProgressDots renders one dot per phase, filled up to the current one
func (l *PhaseLoader) ProgressDots() string {
	var b strings.Builder
	for i := range l.Phases {
		if i > 0 {
			b.WriteString(" ")
		}
		if i <= l.Current {
			b.WriteString("●")
		} else {
			b.WriteString("○")
		}
	}
	return b.String()
}
