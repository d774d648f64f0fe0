package chart

import (
	"fmt"
	"html/template"
	"math"
	"strings"
)

// Donut renders a ring chart with one slice per label, coloured from the palette.
// Negative values are drawn as empty slices.
func Donut(width, height int, values []float64, labels []string, opts DonutOpts) (template.HTML, error) {
	if len(values) == 0 {
		return "", ErrNoData
	}
	if len(values) != len(labels) {
		return "", fmt.Errorf("chart: labels length must match series")
	}
	if width <= 0 {
		width = DefaultHeight
	}
	if height <= 0 {
		height = DefaultHeight
	}
	inner := opts.InnerRatio
	if inner <= 0 || inner >= 1 {
		inner = DefaultInnerRatio
	}
	colors := opts.Colors
	if len(colors) == 0 {
		colors = Palette
	}
	labelColor := fallback(opts.LabelColor, "#475569")

	cx := float64(width) / 2
	cy := float64(height) / 2
	outer := math.Min(cx, cy) - 4
	if outer <= 0 {
		return "", fmt.Errorf("chart: viewport too small")
	}
	hole := outer * inner

	titleID := makeID(opts.Title, "donut-title")
	descID := makeID(opts.Title, "donut-desc")

	var b strings.Builder
	b.WriteString(fmt.Sprintf("<svg xmlns=\"http://www.w3.org/2000/svg\" viewBox=\"0 0 %d %d\" role=\"img\" aria-labelledby=\"%s %s\">", width, height, titleID, descID))
	b.WriteString(fmt.Sprintf("<title id=\"%s\">%s</title>", titleID, template.HTMLEscapeString(fallback(opts.Title, "Donut chart"))))
	b.WriteString(fmt.Sprintf("<desc id=\"%s\">%s</desc>", descID, template.HTMLEscapeString(fallback(opts.Description, "Share of total"))))

	shares := Percentages(values)
	total := 0.0
	for _, s := range shares {
		total += s
	}
	if total == 0 {
		b.WriteString(ring(cx, cy, outer, hole, "#e2e8f0", "no data"))
	}

	angle := -math.Pi / 2
	for i, share := range shares {
		if share <= 0 {
			continue
		}
		color := colors[i%len(colors)]
		label := fmt.Sprintf("%s %.0f%%", labels[i], share)
		if share >= 100-1e-9 {
			b.WriteString(ring(cx, cy, outer, hole, color, label))
			continue
		}
		sweep := share / 100 * 2 * math.Pi
		b.WriteString(slice(cx, cy, outer, hole, angle, angle+sweep, color, label))
		angle += sweep
	}

	b.WriteString(fmt.Sprintf("<text x=\"%.2f\" y=\"%.2f\" fill=\"%s\" font-size=\"12\" text-anchor=\"middle\">%d items</text>", cx, cy+4, labelColor, len(values)))
	b.WriteString("</svg>")
	return template.HTML(b.String()), nil
}

// Percentages returns each value's share of the positive total, in percent.
// Non-positive values get a zero share; an all-zero series yields all zeros.
func Percentages(values []float64) []float64 {
	total := 0.0
	for _, v := range values {
		if v > 0 {
			total += v
		}
	}
	out := make([]float64, len(values))
	if total == 0 {
		return out
	}
	for i, v := range values {
		if v > 0 {
			out[i] = v / total * 100
		}
	}
	return out
}

func ring(cx, cy, outer, hole float64, color, label string) string {
	mid := (outer + hole) / 2
	return fmt.Sprintf("<circle cx=\"%.2f\" cy=\"%.2f\" r=\"%.2f\" fill=\"none\" stroke=\"%s\" stroke-width=\"%.2f\" aria-label=\"%s\"></circle>", cx, cy, mid, color, outer-hole, template.HTMLEscapeString(label))
}

func slice(cx, cy, outer, hole, start, end float64, color, label string) string {
	large := 0
	if end-start > math.Pi {
		large = 1
	}
	x1, y1 := polar(cx, cy, outer, start)
	x2, y2 := polar(cx, cy, outer, end)
	x3, y3 := polar(cx, cy, hole, end)
	x4, y4 := polar(cx, cy, hole, start)
	d := fmt.Sprintf("M%.2f %.2f A%.2f %.2f 0 %d 1 %.2f %.2f L%.2f %.2f A%.2f %.2f 0 %d 0 %.2f %.2f Z",
		x1, y1, outer, outer, large, x2, y2, x3, y3, hole, hole, large, x4, y4)
	return fmt.Sprintf("<path d=\"%s\" fill=\"%s\" stroke=\"#ffffff\" stroke-width=\"1\" aria-label=\"%s\"></path>", d, color, template.HTMLEscapeString(label))
}

func polar(cx, cy, r, angle float64) (float64, float64) {
	return cx + r*math.Cos(angle), cy + r*math.Sin(angle)
}
