package formatter

import (
	"errors"
	"fmt"
	"html/template"

	"github.com/yildizm/SalesDash/internal/chart"
	"github.com/yildizm/SalesDash/internal/sales"
)

// KPITile is a KPI prepared for display.
type KPITile struct {
	Label  string
	Value  string
	Change string
	Trend  sales.Trend
}

// LegendItem is one row of the portfolio legend.
type LegendItem struct {
	Name  string
	Value string
	Share string
	Color template.CSS
}

// Report is an analysis prepared for HTML rendering, with charts rendered to SVG.
// A chart is empty when its series has no points.
type Report struct {
	Summary        string
	KPIs           []KPITile
	RegionalChart  template.HTML
	TrendChart     template.HTML
	PortfolioChart template.HTML
	Legend         []LegendItem
	Chips          []string
	Insights       []string
}

// BuildReport renders the charts and display strings for result.
func BuildReport(result *sales.AnalysisResult) (*Report, error) {
	if result == nil {
		return nil, fmt.Errorf("no analysis to format")
	}

	r := &Report{
		Summary:  result.Summary,
		KPIs:     make([]KPITile, 0, len(result.KPIs)),
		Insights: result.Insights,
		Chips:    make([]string, 0, len(result.Insights)),
	}
	for _, k := range result.KPIs {
		r.KPIs = append(r.KPIs, KPITile{Label: k.Label, Value: k.Value.String(), Change: k.Change, Trend: k.Trend.Normalized()})
	}
	for _, insight := range result.Insights {
		r.Chips = append(r.Chips, sales.Truncate(insight, chipWidth))
	}

	var err error
	values, labels := chart.Series(result.RegionalPerformance)
	r.RegionalChart, err = optional(chart.Bars(0, 288, values, labels, chart.BarOpts{Title: "Regional Performance", Description: "Sales by region"}))
	if err != nil {
		return nil, fmt.Errorf("regional chart: %w", err)
	}

	values, labels = chart.Series(result.MonthlyTrend)
	r.TrendChart, err = optional(chart.Line(0, 288, values, labels, chart.LineOpts{Title: "Seasonal Trends", Description: "Sales by period", ShowDots: true}))
	if err != nil {
		return nil, fmt.Errorf("trend chart: %w", err)
	}

	values, labels = chart.Series(result.TopProducts)
	r.PortfolioChart, err = optional(chart.Donut(240, 240, values, labels, chart.DonutOpts{Title: "Product Portfolio Mix", Description: "Share of sales by product"}))
	if err != nil {
		return nil, fmt.Errorf("portfolio chart: %w", err)
	}

	pct := chart.Percentages(values)
	for i, p := range result.TopProducts {
		r.Legend = append(r.Legend, LegendItem{
			Name:  p.Name,
			Value: formatNumber(p.Value),
			Share: fmt.Sprintf("%.1f%%", pct[i]),
			Color: template.CSS(chart.PaletteColor(i)),
		})
	}

	return r, nil
}

// optional treats an empty series as an empty chart.
func optional(html template.HTML, err error) (template.HTML, error) {
	if errors.Is(err, chart.ErrNoData) {
		return "", nil
	}
	return html, err
}
