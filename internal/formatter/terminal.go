package formatter

import (
	"fmt"
	"strings"

	"github.com/yildizm/SalesDash/internal/sales"
	"github.com/yildizm/go-termfmt"
)

// terminalFormatter formats output as plain text for terminal display using go-termfmt
type terminalFormatter struct {
	opts *termfmt.TerminalOptions
}

// NewTerminal creates a new terminal formatter
func NewTerminal(o Options) Formatter {
	opts := termfmt.DefaultOptions()
	opts.Color = o.Color
	opts.Emoji = o.Emoji
	return &terminalFormatter{opts: opts}
}

func (f *terminalFormatter) Format(result *sales.AnalysisResult) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("no analysis to format")
	}

	var b strings.Builder

	f.writeHeader(&b)
	f.writeSummary(&b, result.Summary)
	f.writeKPIs(&b, result.KPIs)
	f.writeSeries(&b, "statistics", "Regional Performance", result.RegionalPerformance)
	f.writeSeries(&b, "scale", "Seasonal Trends", result.MonthlyTrend)
	f.writePortfolio(&b, result.TopProducts)
	f.writeInsights(&b, result.Insights)

	return []byte(b.String()), nil
}

// writeHeader writes the boxed report title
func (f *terminalFormatter) writeHeader(b *strings.Builder) {
	header := "Sales Insights"
	headerLen := len(header)

	b.WriteString("╔" + strings.Repeat("═", headerLen+2) + "╗\n")
	b.WriteString("║ " + header + " ║\n")
	b.WriteString("╚" + strings.Repeat("═", headerLen+2) + "╝\n\n")
}

func (f *terminalFormatter) writeSummary(b *strings.Builder, summary string) {
	b.WriteString(termfmt.GetEmoji("summary", f.opts) + " Executive Summary\n")
	b.WriteString(summary + "\n\n")
}

// writeKPIs writes one tree row per KPI, with the change badge only when set
func (f *terminalFormatter) writeKPIs(b *strings.Builder, kpis []sales.KPI) {
	b.WriteString(termfmt.GetEmoji("target", f.opts) + " Key Metrics\n")
	if len(kpis) == 0 {
		b.WriteString("└─ (none)\n\n")
		return
	}

	items := make([]termfmt.TreeItem, 0, len(kpis))
	for i, k := range kpis {
		value := k.Value.String()
		if change := kpiChange(k); change != "" {
			value = fmt.Sprintf("%s  %s %s", value, trendEmoji(k.Trend, f.opts), change)
		}
		items = append(items, termfmt.TreeItem{Label: k.Label, Value: value, Last: i == len(kpis)-1})
	}

	b.WriteString(termfmt.TreeViewWithOptions(items, f.opts) + "\n\n")
}

// writeSeries writes a chart series as labelled bars relative to its maximum
func (f *terminalFormatter) writeSeries(b *strings.Builder, emoji, title string, points []sales.ChartDataPoint) {
	b.WriteString(termfmt.GetEmoji(emoji, f.opts) + " " + title + "\n")
	if len(points) == 0 {
		b.WriteString("└─ (no data)\n\n")
		return
	}

	max := maxValue(points)
	for i, p := range points {
		branch := "├─"
		if i == len(points)-1 {
			branch = "└─"
		}
		fmt.Fprintf(b, "%s %s %s %s\n", branch, relativeBar(p.Value, max, f.opts), p.Name, formatNumber(p.Value))
	}
	b.WriteString("\n")
}

// writePortfolio writes each product's share of the total
func (f *terminalFormatter) writePortfolio(b *strings.Builder, points []sales.ChartDataPoint) {
	b.WriteString(termfmt.GetEmoji("tag", f.opts) + " Product Portfolio Mix\n")
	if len(points) == 0 {
		b.WriteString("└─ (no data)\n\n")
		return
	}

	pct := shares(points)
	items := make([]termfmt.TreeItem, 0, len(points))
	for i, p := range points {
		items = append(items, termfmt.TreeItem{
			Label: p.Name,
			Value: fmt.Sprintf("%s (%.1f%%)", formatNumber(p.Value), pct[i]),
			Last:  i == len(points)-1,
		})
	}
	b.WriteString(termfmt.TreeViewWithOptions(items, f.opts) + "\n\n")
}

func (f *terminalFormatter) writeInsights(b *strings.Builder, insights []string) {
	b.WriteString(termfmt.GetEmoji("insights", f.opts) + " Key Product Insights\n")
	if len(insights) == 0 {
		b.WriteString("• (none)\n")
		return
	}
	for _, insight := range insights {
		b.WriteString("• " + insight + "\n")
	}
}
