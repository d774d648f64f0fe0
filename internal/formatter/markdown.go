package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/yildizm/SalesDash/internal/sales"
)

// markdownFormatter formats output as Markdown
type markdownFormatter struct {
	now func() time.Time
}

// NewMarkdown creates a new Markdown formatter
func NewMarkdown() Formatter {
	return &markdownFormatter{now: time.Now}
}

func (f *markdownFormatter) Format(result *sales.AnalysisResult) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("no analysis to format")
	}

	var b strings.Builder

	b.WriteString("# Sales Insights\n\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", f.now().Format("2006-01-02 15:04:05"))

	b.WriteString("## Executive Summary\n\n")
	b.WriteString(result.Summary + "\n\n")

	f.writeKPITable(&b, result.KPIs)
	f.writeSeriesTable(&b, "Regional Performance", "Region", result.RegionalPerformance, false)
	f.writeSeriesTable(&b, "Seasonal Trends", "Period", result.MonthlyTrend, false)
	f.writeSeriesTable(&b, "Product Portfolio Mix", "Product", result.TopProducts, true)

	b.WriteString("## Key Product Insights\n\n")
	for _, insight := range result.Insights {
		fmt.Fprintf(&b, "- %s\n", insight)
	}

	b.WriteString("\n---\n")
	b.WriteString("*Report generated by SalesDash*\n")

	return []byte(b.String()), nil
}

func (f *markdownFormatter) writeKPITable(b *strings.Builder, kpis []sales.KPI) {
	b.WriteString("## Key Metrics\n\n")
	if len(kpis) == 0 {
		b.WriteString("_No metrics reported._\n\n")
		return
	}
	b.WriteString("| Metric | Value | Change |\n")
	b.WriteString("|--------|-------|--------|\n")
	for _, k := range kpis {
		fmt.Fprintf(b, "| %s | %s | %s |\n", escapePipes(k.Label), escapePipes(k.Value.String()), escapePipes(kpiChange(k)))
	}
	b.WriteString("\n")
}

func (f *markdownFormatter) writeSeriesTable(b *strings.Builder, title, column string, points []sales.ChartDataPoint, withShare bool) {
	fmt.Fprintf(b, "## %s\n\n", title)
	if len(points) == 0 {
		b.WriteString("_No data._\n\n")
		return
	}

	if withShare {
		fmt.Fprintf(b, "| %s | Value | Share |\n|---|---|---|\n", column)
		pct := shares(points)
		for i, p := range points {
			fmt.Fprintf(b, "| %s | %s | %.1f%% |\n", escapePipes(p.Name), formatNumber(p.Value), pct[i])
		}
	} else {
		fmt.Fprintf(b, "| %s | Value |\n|---|---|\n", column)
		for _, p := range points {
			fmt.Fprintf(b, "| %s | %s |\n", escapePipes(p.Name), formatNumber(p.Value))
		}
	}
	b.WriteString("\n")
}

func escapePipes(s string) string {
	return strings.ReplaceAll(oneLine(s), "|", "\\|")
}
