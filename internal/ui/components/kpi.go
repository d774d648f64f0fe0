package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/yildizm/SalesDash/internal/emoji"
	"github.com/yildizm/SalesDash/internal/sales"
)

// KPICard renders a single KPI tile
type KPICard struct {
	Label  string
	Value  string
	Change string
	Trend  sales.Trend
	Width  int
}

// NewKPICard creates a tile from a KPI
func NewKPICard(k sales.KPI) *KPICard {
	return &KPICard{
		Label:  k.Label,
		Value:  k.Value.String(),
		Change: k.Change,
		Trend:  k.Trend.Normalized(),
		Width:  24,
	}
}

// SetWidth sets the width of the card
func (c *KPICard) SetWidth(width int) *KPICard {
	c.Width = width
	return c
}

// Badge returns the trend badge text, empty when the KPI has no change
func (c *KPICard) Badge() string {
	if c.Change == "" {
		return ""
	}
	return emoji.GetEmoji(string(c.Trend)) + " " + c.Change
}

// Render renders the KPI card
func (c *KPICard) Render() string {
	labelColor := lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}
	valueColor := lipgloss.AdaptiveColor{Light: "#111827", Dark: "#F9FAFB"}
	borderColor := lipgloss.AdaptiveColor{Light: "#E5E7EB", Dark: "#374151"}

	labelStyle := lipgloss.NewStyle().Foreground(labelColor)
	valueStyle := lipgloss.NewStyle().Foreground(valueColor).Bold(true)
	boxStyle := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(borderColor).Padding(0, 1)

	lines := []string{
		labelStyle.Render(strings.ToUpper(c.Label)),
		valueStyle.Render(c.Value),
	}
	if badge := c.Badge(); badge != "" {
		lines = append(lines, TrendStyle(c.Trend).Render(badge))
	}

	return boxStyle.Width(c.Width).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// TrendStyle colours a trend badge: green up, red down, gray otherwise
func TrendStyle(t sales.Trend) lipgloss.Style {
	switch t.Normalized() {
	case sales.TrendUp:
		return lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#16A34A", Dark: "#34D399"}).Bold(true)
	case sales.TrendDown:
		return lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#DC2626", Dark: "#F87171"}).Bold(true)
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#4B5563", Dark: "#9CA3AF"})
	}
}

// KPIGrid lays KPI cards out in rows
type KPIGrid struct {
	cards     []*KPICard
	columns   int
	cardWidth int
}

// NewKPIGrid creates a grid with the given number of columns
func NewKPIGrid(columns int) *KPIGrid {
	if columns < 1 {
		columns = 1
	}
	return &KPIGrid{columns: columns, cardWidth: 24}
}

// AddCard adds a card to the grid
func (g *KPIGrid) AddCard(card *KPICard) {
	card.SetWidth(g.cardWidth)
	g.cards = append(g.cards, card)
}

// SetCardWidth sets the width for all cards
func (g *KPIGrid) SetCardWidth(width int) {
	g.cardWidth = width
	for _, card := range g.cards {
		card.SetWidth(width)
	}
}

// Render renders the grid
func (g *KPIGrid) Render() string {
	if len(g.cards) == 0 {
		return ""
	}

	var rows []string
	for i := 0; i < len(g.cards); i += g.columns {
		end := min(i+g.columns, len(g.cards))

		var rowCards []string
		for j := i; j < end; j++ {
			rowCards = append(rowCards, g.cards[j].Render())
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, rowCards...))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// NewKPIGridFor builds a grid sized to fit width
func NewKPIGridFor(kpis []sales.KPI, width int) *KPIGrid {
	columns := 4
	if width > 0 {
		columns = max(1, min(4, width/26))
	}
	grid := NewKPIGrid(columns)
	for _, k := range kpis {
		grid.AddCard(NewKPICard(k))
	}
	return grid
}
