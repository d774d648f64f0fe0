package components

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Editor is a minimal multi-line text buffer. The cursor is always at the end.
type Editor struct {
	Placeholder string
	Width       int
	Height      int

	value []rune
}

// NewEditor creates an empty editor
func NewEditor(placeholder string) *Editor {
	return &Editor{Placeholder: placeholder, Width: 80, Height: 12}
}

// Value returns the buffer contents
func (e *Editor) Value() string {
	return string(e.value)
}

// SetValue replaces the buffer contents
func (e *Editor) SetValue(s string) {
	e.value = []rune(strings.ReplaceAll(s, "\r\n", "\n"))
}

// HandleKey applies an editing key. It reports whether the buffer changed.
func (e *Editor) HandleKey(msg tea.KeyMsg) bool {
	switch msg.Type {
	case tea.KeyRunes:
		e.value = append(e.value, []rune(strings.ReplaceAll(string(msg.Runes), "\r", ""))...)
		return true
	case tea.KeySpace:
		e.value = append(e.value, ' ')
		return true
	case tea.KeyTab:
		e.value = append(e.value, '\t')
		return true
	case tea.KeyEnter:
		e.value = append(e.value, '\n')
		return true
	case tea.KeyBackspace:
		if len(e.value) == 0 {
			return false
		}
		e.value = e.value[:len(e.value)-1]
		return true
	case tea.KeyCtrlW:
		return e.deleteWord()
	case tea.KeyCtrlU:
		if len(e.value) == 0 {
			return false
		}
		e.value = nil
		return true
	}
	return false
}

func (e *Editor) deleteWord() bool {
	if len(e.value) == 0 {
		return false
	}
	i := len(e.value)
	for i > 0 && isSpace(e.value[i-1]) {
		i--
	}
	for i > 0 && !isSpace(e.value[i-1]) {
		i--
	}
	e.value = e.value[:i]
	return true
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n'
}

// Render renders the buffer, showing the tail when it exceeds the height
func (e *Editor) Render(focused bool) string {
	borderColor := lipgloss.AdaptiveColor{Light: "#D1D5DB", Dark: "#374151"}
	if focused {
		borderColor = lipgloss.AdaptiveColor{Light: "#3B82F6", Dark: "#60A5FA"}
	}
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(0, 1).
		Width(max(e.Width-2, 10))

	if len(e.value) == 0 {
		placeholder := lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF")).Render(e.Placeholder)
		return box.Render(placeholder + cursor(focused) + strings.Repeat("\n", max(e.Height-1, 0)))
	}

	lines := strings.Split(string(e.value), "\n")
	if len(lines) > e.Height {
		lines = lines[len(lines)-e.Height:]
	}
	inner := max(e.Width-6, 4)
	for i, line := range lines {
		line = strings.ReplaceAll(line, "\t", "    ")
		if lipgloss.Width(line) > inner {
			line = clip(line, inner)
		}
		lines[i] = line
	}
	lines[len(lines)-1] += cursor(focused)
	for len(lines) < e.Height {
		lines = append(lines, "")
	}
	return box.Render(strings.Join(lines, "\n"))
}

func cursor(focused bool) string {
	if !focused {
		return ""
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("#3B82F6")).Render("▌")
}
