// Package chart renders the dashboard charts as inline SVG.
package chart

import (
	"errors"

	"github.com/yildizm/SalesDash/internal/sales"
)

// ErrNoData is returned when a renderer receives an empty series.
var ErrNoData = errors.New("chart: series required")

// Palette is the slice colour cycle used by the donut chart and its legend.
var Palette = []string{"#3B82F6", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6", "#EC4899"}

// PaletteColor returns the palette colour for position i, cycling.
func PaletteColor(i int) string {
	if i < 0 {
		i = -i
	}
	return Palette[i%len(Palette)]
}

// BarOpts customises the bar chart renderer.
type BarOpts struct {
	Title       string
	Description string
	Color       string
	AxisColor   string
	GridColor   string
	Padding     float64
	TickCount   int
}

// LineOpts customises the line chart renderer.
type LineOpts struct {
	Title       string
	Description string
	StrokeColor string
	FillColor   string
	AxisColor   string
	GridColor   string
	Padding     float64
	ShowDots    bool
	TickCount   int
}

// DonutOpts customises the donut chart renderer.
type DonutOpts struct {
	Title       string
	Description string
	// InnerRatio is the hole radius as a fraction of the outer radius.
	InnerRatio float64
	Colors     []string
	LabelColor string
}

// Defaults for the dashboard charts.
const (
	DefaultWidth      = 720
	DefaultHeight     = 240
	DefaultPadding    = 24.0
	DefaultTicks      = 6
	DefaultInnerRatio = 0.6
)

// Series splits chart points into values and labels.
func Series(points []sales.ChartDataPoint) ([]float64, []string) {
	values := make([]float64, len(points))
	labels := make([]string, len(points))
	for i, p := range points {
		values[i] = p.Value
		labels[i] = p.Name
	}
	return values, labels
}
