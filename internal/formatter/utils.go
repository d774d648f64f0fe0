package formatter

import (
	"math"
	"strconv"
	"strings"

	"github.com/yildizm/SalesDash/internal/chart"
	"github.com/yildizm/SalesDash/internal/sales"
	"github.com/yildizm/go-termfmt"
)

// chipWidth is the rune limit for product chips in the insights section.
const chipWidth = 40

// formatNumber formats numbers with thousands separators
func formatNumber(v float64) string {
	neg := v < 0
	v = math.Abs(v)
	whole := math.Floor(v)
	frac := v - whole

	s := addCommas(strconv.FormatFloat(whole, 'f', 0, 64))
	if frac > 1e-9 {
		f := strconv.FormatFloat(frac, 'f', 2, 64)
		s += strings.TrimRight(strings.TrimRight(f[1:], "0"), ".")
	}
	if neg {
		s = "-" + s
	}
	return s
}

// addCommas adds commas to number strings
func addCommas(s string) string {
	if len(s) <= 3 {
		return s
	}
	return addCommas(s[:len(s)-3]) + "," + s[len(s)-3:]
}

// trendSymbol returns the arrow used for a KPI trend
func trendSymbol(t sales.Trend) string {
	switch t.Normalized() {
	case sales.TrendUp:
		return "↑"
	case sales.TrendDown:
		return "↓"
	default:
		return "→"
	}
}

// kpiChange renders the change badge, empty when the KPI carries no change
func kpiChange(k sales.KPI) string {
	if k.Change == "" {
		return ""
	}
	return trendSymbol(k.Trend) + " " + k.Change
}

// trendEmoji returns emoji for KPI trends using go-termfmt
func trendEmoji(t sales.Trend, opts *termfmt.TerminalOptions) string {
	switch t.Normalized() {
	case sales.TrendUp:
		return termfmt.GetEmoji("success", opts)
	case sales.TrendDown:
		return termfmt.GetEmoji("warning", opts)
	default:
		return termfmt.GetEmoji("info", opts)
	}
}

// relativeBar draws value as a fraction of max using go-termfmt
func relativeBar(value, max float64, opts *termfmt.TerminalOptions) string {
	ratio := 0.0
	if max > 0 && value > 0 {
		ratio = value / max
	}
	return termfmt.CreateConfidenceBar(ratio, opts)
}

func maxValue(points []sales.ChartDataPoint) float64 {
	m := 0.0
	for _, p := range points {
		if p.Value > m {
			m = p.Value
		}
	}
	return m
}

// shares pairs each point with its percentage of the total
func shares(points []sales.ChartDataPoint) []float64 {
	values, _ := chart.Series(points)
	return chart.Percentages(values)
}

// oneLine flattens a string for single-line outputs
func oneLine(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.ReplaceAll(s, "\n", " ")
}
