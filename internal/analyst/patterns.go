package analyst

import (
	"github.com/yildizm/SalesDash/internal/ai"
	"github.com/yildizm/go-promptfmt"
)

// SampleDataPattern builds the prompt for a synthetic retail dataset
type SampleDataPattern struct {
	promptfmt.BasePattern
	Rows int
}

// NewSampleDataPattern creates a sample-data prompt pattern
func NewSampleDataPattern() *SampleDataPattern {
	return &SampleDataPattern{
		BasePattern: promptfmt.BasePattern{
			Description: "Generates a realistic retail electronics sales CSV with visible trends",
			Tags:        []string{"sales", "sample-data", "csv"},
		},
		Rows: 20,
	}
}

func (p *SampleDataPattern) WithRows(rows int) *SampleDataPattern {
	p.Rows = rows
	return p
}

func (p *SampleDataPattern) Build() *promptfmt.Prompt {
	return promptfmt.New().
		System("You generate realistic business datasets.").
		User("Generate a realistic CSV dataset (about %d rows) for a retail electronics store sales analysis. "+
			"Columns should include: Date, Region, Product, Category, SalesAmount, Quantity. "+
			"Ensure the data shows some clear trends (e.g., seasonal spikes, specific high-performing regions). "+
			"Output ONLY the CSV data, no markdown code blocks.", p.Rows).
		Build()
}

// SalesAnalysisPattern builds the prompt that turns CSV into the dashboard JSON
type SalesAnalysisPattern struct {
	promptfmt.BasePattern
	Data string
}

// NewSalesAnalysisPattern creates a sales analysis prompt pattern
func NewSalesAnalysisPattern() *SalesAnalysisPattern {
	return &SalesAnalysisPattern{
		BasePattern: promptfmt.BasePattern{
			Description: "Aggregates raw sales CSV into KPIs, chart series and insights",
			Tags:        []string{"sales", "analysis", "dashboard"},
		},
	}
}

func (p *SalesAnalysisPattern) WithData(raw string) *SalesAnalysisPattern {
	p.Data = raw
	return p
}

func (p *SalesAnalysisPattern) Build() *promptfmt.Prompt {
	return promptfmt.New().
		System("Act as a Senior Data Analyst using Python and Power BI.").
		User("Analyze the following raw CSV sales data.\n\n"+
			"Perform the following steps:\n"+
			"1. Clean and aggregate the data.\n"+
			"2. Calculate KPIs: Total Revenue, Total Units, Top Region.\n"+
			"3. Aggregate sales by Region for Regional Performance.\n"+
			"4. Aggregate sales by Month for Monthly/Seasonal Trends.\n"+
			"5. Identify the Top Products by revenue.\n"+
			"6. Write a short executive summary and 3-4 bullet-point insights.\n\n"+
			"Return strict JSON only, matching the expected structure. Every chart point needs a name and a numeric value.\n\n"+
			"DATA:\n%s", p.Data).
		ExpectJSON(&analysisShape{}).
		Build()
}

type shapeKPI struct {
	Label  string `json:"label"`
	Value  string `json:"value"`
	Change string `json:"change,omitempty"`
	Trend  string `json:"trend,omitempty"` // up, down or neutral
}

type shapePoint struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// analysisShape mirrors sales.AnalysisResult for prompt rendering only
type analysisShape struct {
	Summary             string       `json:"summary"`
	KPIs                []shapeKPI   `json:"kpis"`
	RegionalPerformance []shapePoint `json:"regionalPerformance"`
	MonthlyTrend        []shapePoint `json:"monthlyTrend"`
	TopProducts         []shapePoint `json:"topProducts"`
	Insights            []string     `json:"insights"`
}

// AnalysisSchema is the structured-output schema for an analysis response
func AnalysisSchema() *ai.Schema {
	point := func(desc string) *ai.Schema {
		return &ai.Schema{
			Type:        "array",
			Description: desc,
			Items: &ai.Schema{
				Type: "object",
				Properties: map[string]*ai.Schema{
					"name":  {Type: "string"},
					"value": {Type: "number"},
				},
				Required: []string{"name", "value"},
			},
		}
	}

	return &ai.Schema{
		Type: "object",
		Properties: map[string]*ai.Schema{
			"summary": {Type: "string", Description: "Executive summary of the sales performance"},
			"kpis": {
				Type: "array",
				Items: &ai.Schema{
					Type: "object",
					Properties: map[string]*ai.Schema{
						"label":  {Type: "string"},
						"value":  {Type: "string"},
						"change": {Type: "string", Description: "Change versus the previous period, e.g. +12%"},
						"trend":  {Type: "string", Enum: []string{"up", "down", "neutral"}},
					},
					Required: []string{"label", "value"},
				},
			},
			"regionalPerformance": point("Total sales per region"),
			"monthlyTrend":        point("Total sales per month in chronological order"),
			"topProducts":         point("Revenue of the best selling products"),
			"insights": {
				Type:        "array",
				Description: "3-4 short bullet-point insights",
				Items:       &ai.Schema{Type: "string"},
			},
		},
		Required: []string{"summary", "kpis", "regionalPerformance", "monthlyTrend", "topProducts", "insights"},
	}
}
