package ui

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Theme names the colors of the dashboard chrome. Chart series always use
// the fixed chart palette so they match the HTML report.
type Theme struct {
	Name string

	Title  lipgloss.AdaptiveColor
	Text   lipgloss.AdaptiveColor
	Muted  lipgloss.AdaptiveColor
	Border lipgloss.AdaptiveColor
	Error  lipgloss.AdaptiveColor

	// Insight chips above the product mix
	ChipText       lipgloss.AdaptiveColor
	ChipBackground lipgloss.AdaptiveColor
}

// ErrUnknownTheme is returned by SetThemeByName for names it does not know.
var ErrUnknownTheme = errors.New("unknown theme")

func adaptive(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

// Available themes
var (
	DefaultTheme = Theme{
		Name:           "default",
		Title:          adaptive("#1E40AF", "#3B82F6"),
		Text:           adaptive("#111827", "#F9FAFB"),
		Muted:          adaptive("#6B7280", "#9CA3AF"),
		Border:         adaptive("#D1D5DB", "#374151"),
		Error:          adaptive("#DC2626", "#EF4444"),
		ChipText:       adaptive("#1D4ED8", "#BFDBFE"),
		ChipBackground: adaptive("#DBEAFE", "#1E3A8A"),
	}

	HighContrastTheme = Theme{
		Name:           "high-contrast",
		Title:          adaptive("#000000", "#FFFFFF"),
		Text:           adaptive("#000000", "#FFFFFF"),
		Muted:          adaptive("#444444", "#CCCCCC"),
		Border:         adaptive("#000000", "#FFFFFF"),
		Error:          adaptive("#CC0000", "#FF4444"),
		ChipText:       adaptive("#000000", "#000000"),
		ChipBackground: adaptive("#FFFF00", "#FFFF00"),
	}

	MinimalTheme = Theme{
		Name:           "minimal",
		Title:          adaptive("#2D3748", "#E2E8F0"),
		Text:           adaptive("#2D3748", "#F7FAFC"),
		Muted:          adaptive("#A0AEC0", "#718096"),
		Border:         adaptive("#E2E8F0", "#2D3748"),
		Error:          adaptive("#C53030", "#FC8181"),
		ChipText:       adaptive("#4A5568", "#CBD5E0"),
		ChipBackground: adaptive("#EDF2F7", "#2D3748"),
	}
)

var themes = []*Theme{&DefaultTheme, &HighContrastTheme, &MinimalTheme}

var currentTheme = DefaultTheme

// GetTheme returns the current active theme
func GetTheme() Theme {
	return currentTheme
}

// SetThemeByName sets the theme by name. An empty name selects the default.
func SetThemeByName(name string) error {
	if name == "" {
		name = DefaultTheme.Name
	}
	for _, t := range themes {
		if t.Name == name {
			currentTheme = *t
			return nil
		}
	}
	return fmt.Errorf("%w: %q (available: %v)", ErrUnknownTheme, name, GetAvailableThemes())
}

// GetAvailableThemes returns list of available theme names
func GetAvailableThemes() []string {
	names := make([]string, 0, len(themes))
	for _, t := range themes {
		names = append(names, t.Name)
	}
	return names
}

// IsColorDisabled checks if colors should be disabled
func IsColorDisabled() bool {
	return os.Getenv("NO_COLOR") != ""
}

// Styles are the lipgloss styles the views render with
type Styles struct {
	Title   lipgloss.Style
	Section lipgloss.Style
	Body    lipgloss.Style
	Muted   lipgloss.Style
	Error   lipgloss.Style

	// Key hints and disabled triggers
	Key      lipgloss.Style
	Disabled lipgloss.Style

	// Box frames the centered Analyzing and Error screens; Panel frames dashboard sections.
	Box   lipgloss.Style
	Panel lipgloss.Style

	Chip   lipgloss.Style
	Bullet lipgloss.Style
}

// GetStyles builds the styles for the current theme. With NO_COLOR set every
// style keeps its layout but drops its colors.
func GetStyles() *Styles {
	t := GetTheme()
	color := func(s lipgloss.Style, c lipgloss.AdaptiveColor) lipgloss.Style {
		if IsColorDisabled() {
			return s
		}
		return s.Foreground(c)
	}

	chip := lipgloss.NewStyle().Padding(0, 1)
	if !IsColorDisabled() {
		chip = chip.Foreground(t.ChipText).Background(t.ChipBackground)
	}

	return &Styles{
		Title:    color(lipgloss.NewStyle().Bold(true), t.Title),
		Section:  color(lipgloss.NewStyle().Bold(true).MarginTop(1), t.Text),
		Body:     color(lipgloss.NewStyle(), t.Text),
		Muted:    color(lipgloss.NewStyle(), t.Muted),
		Error:    color(lipgloss.NewStyle().Bold(true), t.Error),
		Key:      color(lipgloss.NewStyle().Bold(true), t.Title),
		Disabled: color(lipgloss.NewStyle().Faint(true), t.Muted),
		Box:      lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(t.Border).Padding(1, 2),
		Panel:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(t.Border).Padding(0, 1),
		Chip:     chip,
		Bullet:   color(lipgloss.NewStyle(), t.ChipText),
	}
}
