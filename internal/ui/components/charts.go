package components

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/yildizm/SalesDash/internal/chart"
	"github.com/yildizm/SalesDash/internal/sales"
)

const noData = "(no data)"

// BarChart renders points as horizontal bars scaled to the largest value
type BarChart struct {
	Points []sales.ChartDataPoint
	Width  int
	Color  lipgloss.Color
}

// NewBarChart creates a bar chart
func NewBarChart(points []sales.ChartDataPoint, width int) *BarChart {
	return &BarChart{Points: points, Width: width, Color: lipgloss.Color(chart.Palette[0])}
}

// Render renders the bar chart
func (c *BarChart) Render() string {
	if len(c.Points) == 0 {
		return mutedText(noData)
	}

	labelWidth := 0
	maxVal := 0.0
	for _, p := range c.Points {
		labelWidth = max(labelWidth, lipgloss.Width(p.Name))
		maxVal = math.Max(maxVal, p.Value)
	}
	labelWidth = min(labelWidth, 16)
	barWidth := max(c.Width-labelWidth-12, 10)

	style := lipgloss.NewStyle().Foreground(c.Color)
	lines := make([]string, 0, len(c.Points))
	for _, p := range c.Points {
		n := 0
		if maxVal > 0 && p.Value > 0 {
			n = int(math.Round(p.Value / maxVal * float64(barWidth)))
		}
		label := padRight(clip(p.Name, labelWidth), labelWidth)
		lines = append(lines, fmt.Sprintf("%s │%s %s", label, style.Render(strings.Repeat("█", n)), chart.FormatTick(p.Value)))
	}
	return strings.Join(lines, "\n")
}

// LineChart plots points on a small grid with value and period axes
type LineChart struct {
	Points []sales.ChartDataPoint
	Width  int
	Height int
	Color  lipgloss.Color
}

// NewLineChart creates a line chart
func NewLineChart(points []sales.ChartDataPoint, width, height int) *LineChart {
	return &LineChart{Points: points, Width: width, Height: height, Color: lipgloss.Color(chart.Palette[4])}
}

// Render renders the line chart
func (c *LineChart) Render() string {
	if len(c.Points) == 0 {
		return mutedText(noData)
	}

	height := max(c.Height, 3)
	colWidth := max(3, min(8, (c.Width-8)/len(c.Points)))

	values, _ := chart.Series(c.Points)
	minVal, maxVal := values[0], values[0]
	for _, v := range values {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	span := maxVal - minVal

	rowOf := func(v float64) int {
		if span == 0 {
			return height / 2
		}
		return int(math.Round((v - minVal) / span * float64(height-1)))
	}

	grid := make([][]rune, height)
	for r := range grid {
		grid[r] = []rune(strings.Repeat(" ", colWidth*len(values)))
	}
	for i, v := range values {
		row := rowOf(v)
		grid[height-1-row][i*colWidth+colWidth/2] = '●'
		if i == 0 {
			continue
		}
		// connect to the previous point through the gap columns
		prev := rowOf(values[i-1])
		from := (i-1)*colWidth + colWidth/2
		to := i*colWidth + colWidth/2
		for x := from + 1; x < to; x++ {
			t := float64(x-from) / float64(to-from)
			r := int(math.Round(float64(prev) + t*float64(row-prev)))
			grid[height-1-r][x] = '·'
		}
	}

	style := lipgloss.NewStyle().Foreground(c.Color)
	axis := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	lines := make([]string, 0, height+2)
	for r, cells := range grid {
		tick := ""
		switch r {
		case 0:
			tick = chart.FormatTick(maxVal)
		case height - 1:
			tick = chart.FormatTick(minVal)
		}
		lines = append(lines, axis.Render(padLeft(tick, 6)+" │")+style.Render(string(cells)))
	}
	lines = append(lines, axis.Render(strings.Repeat(" ", 7)+"└"+strings.Repeat("─", colWidth*len(values))))

	var labels strings.Builder
	labels.WriteString(strings.Repeat(" ", 8))
	for _, p := range c.Points {
		labels.WriteString(padRight(clip(p.Name, colWidth-1), colWidth))
	}
	lines = append(lines, axis.Render(strings.TrimRight(labels.String(), " ")))
	return strings.Join(lines, "\n")
}

// RingBreakdown renders a product mix as a segmented ring strip with a
// percentage legend in the chart palette
type RingBreakdown struct {
	Points []sales.ChartDataPoint
	Width  int
}

// NewRingBreakdown creates a portfolio breakdown
func NewRingBreakdown(points []sales.ChartDataPoint, width int) *RingBreakdown {
	return &RingBreakdown{Points: points, Width: width}
}

// Render renders the strip and legend
func (r *RingBreakdown) Render() string {
	if len(r.Points) == 0 {
		return mutedText(noData)
	}

	values, _ := chart.Series(r.Points)
	shares := chart.Percentages(values)
	width := max(r.Width-4, 10)

	var strip strings.Builder
	used := 0
	for i, share := range shares {
		n := int(math.Round(share / 100 * float64(width)))
		if i == len(shares)-1 && share > 0 {
			n = width - used
		}
		n = max(0, min(n, width-used))
		used += n
		strip.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(chart.PaletteColor(i))).Render(strings.Repeat("█", n)))
	}
	if used < width {
		strip.WriteString(mutedText(strings.Repeat("░", width-used)))
	}

	lines := []string{"(" + strip.String() + ")", ""}
	for i, p := range r.Points {
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(chart.PaletteColor(i))).Render("■")
		lines = append(lines, fmt.Sprintf("%s %s %s (%s%%)", swatch, p.Name, chart.FormatTick(p.Value), strconv.FormatFloat(shares[i], 'f', 1, 64)))
	}
	return strings.Join(lines, "\n")
}

// clip shortens s to at most n runes, marking the cut with an ellipsis
func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:max(n, 0)])
	}
	return sales.Truncate(s, n-3)
}

func mutedText(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF")).Render(s)
}

func padRight(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

func padLeft(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return strings.Repeat(" ", width-w) + s
	}
	return s
}
