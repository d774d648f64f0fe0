package formatter

import (
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/yildizm/SalesDash/internal/sales"
)

func sampleResult() *sales.AnalysisResult {
	return &sales.AnalysisResult{
		Summary: "Sales grew steadily across regions.",
		KPIs: []sales.KPI{
			{Label: "Revenue", Value: sales.TextValue("$1.2M"), Change: "+12%", Trend: sales.TrendUp},
			{Label: "Orders", Value: sales.NumberValue(1530)},
		},
		RegionalPerformance: []sales.ChartDataPoint{{Name: "East", Value: 1200}, {Name: "West", Value: 800}},
		MonthlyTrend:        []sales.ChartDataPoint{{Name: "Jan", Value: 100}, {Name: "Feb", Value: 150.5}},
		TopProducts:         []sales.ChartDataPoint{{Name: "Widget", Value: 75}, {Name: "Gizmo", Value: 25}},
		Insights:            []string{"Widget sales dominate the East region during the holiday season", "West is flat"},
	}
}

func TestNew(t *testing.T) {
	for _, name := range append(Formats(), "md", "", "TEXT") {
		if _, err := New(name, Options{}); err != nil {
			t.Errorf("New(%q) error: %v", name, err)
		}
	}
	if _, err := New("pdf", Options{}); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestFormattersRejectNil(t *testing.T) {
	for _, name := range Formats() {
		f, _ := New(name, Options{})
		if _, err := f.Format(nil); err == nil {
			t.Errorf("%s: expected error for nil analysis", name)
		}
	}
}

func TestTerminalFormat(t *testing.T) {
	out, err := NewTerminal(Options{}).Format(sampleResult())
	if err != nil {
		t.Fatalf("Format() error: %v", err)
	}
	output := string(out)

	sections := []string{"Executive Summary", "Key Metrics", "Regional Performance", "Seasonal Trends", "Product Portfolio Mix", "Key Product Insights"}
	last := -1
	for _, s := range sections {
		pos := strings.Index(output, s)
		if pos < 0 {
			t.Fatalf("missing section %q", s)
		}
		if pos < last {
			t.Errorf("section %q out of order", s)
		}
		last = pos
	}

	if !strings.Contains(output, "$1.2M") || !strings.Contains(output, "+12%") {
		t.Error("expected KPI value and change")
	}
	if !strings.Contains(output, "1,530") && !strings.Contains(output, "1530") {
		t.Error("expected numeric KPI value")
	}
	if !strings.Contains(output, "75.0%") {
		t.Error("expected product share")
	}
}

func TestTerminalFormat_EmptySeries(t *testing.T) {
	r := sampleResult()
	r.KPIs = []sales.KPI{}
	r.RegionalPerformance = []sales.ChartDataPoint{}
	out, err := NewTerminal(Options{}).Format(r)
	if err != nil {
		t.Fatalf("Format() error: %v", err)
	}
	if !strings.Contains(string(out), "(no data)") {
		t.Error("expected empty series placeholder")
	}
}

func TestJSONFormat_RoundTripsThroughDecoder(t *testing.T) {
	out, err := NewJSON().Format(sampleResult())
	if err != nil {
		t.Fatalf("Format() error: %v", err)
	}
	decoded, err := sales.DecodeAnalysis(out)
	if err != nil {
		t.Fatalf("DecodeAnalysis() error: %v", err)
	}
	if decoded.KPIs[0].Label != "Revenue" || decoded.MonthlyTrend[1].Value != 150.5 {
		t.Errorf("unexpected decoded result %+v", decoded)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(out, &raw); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"summary", "kpis", "regionalPerformance", "monthlyTrend", "topProducts", "insights"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("missing key %q", key)
		}
	}
}

func TestCSVFormat(t *testing.T) {
	out, err := NewCSV().Format(sampleResult())
	if err != nil {
		t.Fatalf("Format() error: %v", err)
	}
	records, err := csv.NewReader(strings.NewReader(string(out))).ReadAll()
	if err != nil {
		t.Fatalf("invalid CSV: %v", err)
	}
	// header + summary + 2 kpis + 6 points + 2 insights
	if len(records) != 12 {
		t.Fatalf("got %d records, want 12", len(records))
	}
	if records[2][0] != "kpi" || records[2][1] != "Revenue" || records[2][4] != "up" {
		t.Errorf("unexpected kpi record %v", records[2])
	}
	if records[8][0] != "product" || records[8][2] != "75" {
		t.Errorf("unexpected product record %v", records[8])
	}
}

func TestMarkdownFormat(t *testing.T) {
	f := &markdownFormatter{now: func() time.Time { return time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC) }}
	out, err := f.Format(sampleResult())
	if err != nil {
		t.Fatalf("Format() error: %v", err)
	}
	output := string(out)
	for _, want := range []string{
		"# Sales Insights",
		"Generated: 2024-03-01 09:00:00",
		"| Revenue | $1.2M | ↑ +12% |",
		"| Orders | 1530 |  |",
		"| East | 1,200 |",
		"| Widget | 75 | 75.0% |",
		"- West is flat",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("missing %q in:\n%s", want, output)
		}
	}
}

func TestHTMLFormat(t *testing.T) {
	out, err := NewHTML().Format(sampleResult())
	if err != nil {
		t.Fatalf("Format() error: %v", err)
	}
	output := string(out)
	if got := strings.Count(output, "<svg"); got != 3 {
		t.Errorf("expected 3 charts, got %d", got)
	}
	if !strings.Contains(output, "Widget sales dominate the East region du...") {
		t.Error("expected truncated insight chip")
	}
	if !strings.Contains(output, "#3B82F6") {
		t.Error("expected palette colour in legend")
	}
}

func TestBuildReport_EmptyChartsRenderNothing(t *testing.T) {
	r := sampleResult()
	r.TopProducts = []sales.ChartDataPoint{}
	report, err := BuildReport(r)
	if err != nil {
		t.Fatalf("BuildReport() error: %v", err)
	}
	if report.PortfolioChart != "" || len(report.Legend) != 0 {
		t.Error("expected empty portfolio chart")
	}
	if report.RegionalChart == "" {
		t.Error("expected regional chart")
	}
}

func TestFormatNumber(t *testing.T) {
	tests := map[float64]string{
		0:        "0",
		999:      "999",
		1200:     "1,200",
		150.5:    "150.5",
		-2500.25: "-2,500.25",
		1234567:  "1,234,567",
	}
	for in, want := range tests {
		if got := formatNumber(in); got != want {
			t.Errorf("formatNumber(%v) = %q, want %q", in, got, want)
		}
	}
}
