package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/yildizm/SalesDash/internal/dashboard"
	"github.com/yildizm/SalesDash/internal/emoji"
	"github.com/yildizm/SalesDash/internal/sales"
	"github.com/yildizm/SalesDash/internal/ui/components"
)

const chipWidth = 40

// View renders the active screen
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	s := m.controller.Snapshot()
	switch s.View {
	case dashboard.ViewAnalyzing:
		return m.renderAnalyzing()
	case dashboard.ViewDashboard:
		return m.renderDashboard(s)
	case dashboard.ViewError:
		return m.renderError(s)
	default:
		return m.renderInput(s)
	}
}

func (m *Model) renderInput(s dashboard.State) string {
	st := m.styles

	title := st.Title.Render(emoji.GetEmoji("statistics") + " Sales Data Analysis Dashboard")
	subtitle := st.Muted.Render("Paste sales CSV below, or generate a sample, then analyze it with AI.")

	lines := []string{title, subtitle, "", m.editor.Render(!s.SamplePending)}

	if s.HasError() {
		lines = append(lines, st.Error.Render(emoji.GetEmoji("error")+" "+s.ErrorMessage))
	}
	if !m.preview.Empty() {
		lines = append(lines, st.Muted.Render(fmt.Sprintf("%s %d columns (%s) · %d rows",
			emoji.GetEmoji("file"), len(m.preview.Columns), sales.Truncate(strings.Join(m.preview.Columns, ", "), 60), m.preview.Rows)))
	}

	lines = append(lines, "", m.renderInputHints(s))
	return strings.Join(lines, "\n")
}

func (m *Model) renderInputHints(s dashboard.State) string {
	st := m.styles

	sample := st.Key.Render("ctrl+g") + " Auto-Generate Sample"
	if s.SamplePending {
		sample = m.loader.Spinner.Render() + " Generating sample..."
	}

	analyze := st.Key.Render("ctrl+r") + " Analyze with AI"
	if !s.CanAnalyze() {
		analyze = st.Disabled.Render("ctrl+r Analyze with AI")
	}

	quit := st.Muted.Render("ctrl+u clear · esc quit")
	return strings.Join([]string{sample, analyze, quit}, "   ")
}

func (m *Model) renderAnalyzing() string {
	st := m.styles

	header := st.Title.Render(emoji.GetEmoji("brain") + " Analyzing your sales data")
	content := lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		m.loader.Render(),
		"",
		st.Muted.Render(m.loader.ProgressDots()),
	)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, st.Box.Render(content))
}

func (m *Model) renderDashboard(s dashboard.State) string {
	a := s.Analysis
	if a == nil {
		return m.renderError(s)
	}

	st := m.styles
	width := max(m.width, 40)
	panelWidth := min(width-4, 100)

	var sections []string
	sections = append(sections,
		st.Title.Render(emoji.GetEmoji("statistics")+" Sales Insights")+"   "+st.Key.Render("n")+st.Muted.Render(" New Analysis · q quit · ↑/↓ scroll"),
		st.Section.Render(emoji.GetEmoji("summary")+" Executive Summary"),
		st.Panel.Width(panelWidth).Render(a.Summary),
	)

	if len(a.KPIs) > 0 {
		sections = append(sections, "", components.NewKPIGridFor(a.KPIs, width).Render())
	}

	sections = append(sections,
		st.Section.Render(emoji.GetEmoji("region")+" Regional Performance"),
		st.Panel.Width(panelWidth).Render(components.NewBarChart(a.RegionalPerformance, panelWidth-4).Render()),
		st.Section.Render(emoji.GetEmoji("calendar")+" Seasonal Trends"),
		st.Panel.Width(panelWidth).Render(components.NewLineChart(a.MonthlyTrend, panelWidth-4, 8).Render()),
		st.Section.Render(emoji.GetEmoji("chart")+" Product Portfolio Mix"),
	)

	if chips := m.renderChips(a.Insights, panelWidth); chips != "" {
		sections = append(sections, chips)
	}
	sections = append(sections,
		st.Panel.Width(panelWidth).Render(components.NewRingBreakdown(a.TopProducts, panelWidth-4).Render()),
		st.Section.Render(emoji.GetEmoji("insight")+" Key Product Insights"),
		m.renderInsights(a.Insights, panelWidth),
	)

	return m.viewport(strings.Join(sections, "\n"))
}

// renderChips wraps truncated insight chips to the panel width
func (m *Model) renderChips(insights []string, width int) string {
	var rows []string
	var row []string
	rowWidth := 0
	for _, insight := range insights {
		chip := m.styles.Chip.Render(sales.Truncate(insight, chipWidth))
		w := lipgloss.Width(chip) + 1
		if rowWidth+w > width && len(row) > 0 {
			rows = append(rows, strings.Join(row, " "))
			row, rowWidth = nil, 0
		}
		row = append(row, chip)
		rowWidth += w
	}
	if len(row) > 0 {
		rows = append(rows, strings.Join(row, " "))
	}
	return strings.Join(rows, "\n")
}

func (m *Model) renderInsights(insights []string, width int) string {
	if len(insights) == 0 {
		return m.styles.Muted.Render("(none)")
	}
	body := lipgloss.NewStyle().Width(width - 2)
	lines := make([]string, 0, len(insights))
	for _, insight := range insights {
		lines = append(lines, m.styles.Bullet.Render("•")+" "+body.Render(insight))
	}
	return strings.Join(lines, "\n")
}

// viewport shows the window of content selected by the scroll offset
func (m *Model) viewport(content string) string {
	lines := strings.Split(content, "\n")
	if m.height <= 0 || len(lines) <= m.height {
		m.scroll = 0
		return content
	}
	maxScroll := len(lines) - m.height
	m.scroll = min(m.scroll, maxScroll)
	return strings.Join(lines[m.scroll:m.scroll+m.height], "\n")
}

func (m *Model) renderError(s dashboard.State) string {
	st := m.styles

	content := lipgloss.JoinVertical(lipgloss.Center,
		st.Error.Render(emoji.GetEmoji("error")+" Something went wrong"),
		"",
		st.Body.Render(s.DisplayError()),
		"",
		st.Key.Render("enter")+" Try Again   "+st.Muted.Render("q quit"),
	)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, st.Box.Width(min(m.width-4, 64)).Render(content))
}
