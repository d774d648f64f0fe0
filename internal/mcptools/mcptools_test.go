package mcptools

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/yildizm/SalesDash/internal/sales"
)

type stubProvider struct {
	sample    string
	sampleErr error
	result    *sales.AnalysisResult
	err       error
	gotRaw    string
}

func (p *stubProvider) GenerateSample(ctx context.Context) (string, error) {
	return p.sample, p.sampleErr
}

func (p *stubProvider) Analyze(ctx context.Context, raw string) (*sales.AnalysisResult, error) {
	p.gotRaw = raw
	return p.result, p.err
}

// makeReq builds a mcp.CallToolRequest with the given arguments.
func makeReq(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

// resultText extracts the text content from a tool result.
func resultText(r *mcp.CallToolResult) string {
	if r == nil || len(r.Content) == 0 {
		return ""
	}
	for _, c := range r.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestSampleTool_Definition(t *testing.T) {
	def := NewSampleTool(&stubProvider{}).Definition()
	if def.Name != "generate_sample_data" {
		t.Errorf("tool name = %q, want %q", def.Name, "generate_sample_data")
	}
}

func TestSampleTool_Handle(t *testing.T) {
	csv := "Date,Region\n2024-01-01,East\n"
	tool := NewSampleTool(&stubProvider{sample: csv})

	res, err := tool.Handle(context.Background(), makeReq(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(res))
	}
	if got := resultText(res); got != csv {
		t.Errorf("text = %q, want %q", got, csv)
	}
}

func TestSampleTool_HandleError(t *testing.T) {
	tool := NewSampleTool(&stubProvider{sampleErr: errors.New("quota exceeded")})

	res, err := tool.Handle(context.Background(), makeReq(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.IsError {
		t.Fatal("expected tool error")
	}
	if !strings.Contains(resultText(res), "quota exceeded") {
		t.Errorf("error text = %q", resultText(res))
	}
}

func TestAnalyzeTool_Definition(t *testing.T) {
	def := NewAnalyzeTool(&stubProvider{}).Definition()

	if def.Name != "analyze_sales_data" {
		t.Errorf("tool name = %q, want %q", def.Name, "analyze_sales_data")
	}
	if _, ok := def.InputSchema.Properties["data"]; !ok {
		t.Error("missing 'data' parameter")
	}
	found := false
	for _, r := range def.InputSchema.Required {
		if r == "data" {
			found = true
		}
	}
	if !found {
		t.Error("'data' should be required")
	}
}

func TestAnalyzeTool_Handle(t *testing.T) {
	provider := &stubProvider{result: &sales.AnalysisResult{
		Summary:             "Strong quarter",
		KPIs:                []sales.KPI{{Label: "Revenue", Value: sales.NumberValue(1200)}},
		RegionalPerformance: []sales.ChartDataPoint{{Name: "East", Value: 700}},
		MonthlyTrend:        []sales.ChartDataPoint{},
		TopProducts:         []sales.ChartDataPoint{},
		Insights:            []string{"East leads"},
	}}
	tool := NewAnalyzeTool(provider)

	res, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{"data": "a,b\n1,2\n"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(res))
	}
	if provider.gotRaw != "a,b\n1,2\n" {
		t.Errorf("provider got %q", provider.gotRaw)
	}

	decoded, err := sales.DecodeAnalysis([]byte(resultText(res)))
	if err != nil {
		t.Fatalf("result is not a valid analysis: %v", err)
	}
	if decoded.Summary != "Strong quarter" {
		t.Errorf("summary = %q", decoded.Summary)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(resultText(res)), &raw); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if _, ok := raw["regionalPerformance"]; !ok {
		t.Error("missing regionalPerformance")
	}
}

func TestAnalyzeTool_HandleErrors(t *testing.T) {
	tests := []struct {
		name     string
		provider *stubProvider
		args     map[string]interface{}
		want     string
	}{
		{"missing data", &stubProvider{}, map[string]interface{}{}, "data is required"},
		{"blank data", &stubProvider{}, map[string]interface{}{"data": "  \n"}, "data is required"},
		{"provider failure", &stubProvider{err: errors.New("bad json")}, map[string]interface{}{"data": "a\n1\n"}, "bad json"},
		{"nil result", &stubProvider{}, map[string]interface{}{"data": "a\n1\n"}, "no result"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := NewAnalyzeTool(tt.provider).Handle(context.Background(), makeReq(tt.args))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !res.IsError {
				t.Fatal("expected tool error")
			}
			if !strings.Contains(resultText(res), tt.want) {
				t.Errorf("error text = %q, want it to contain %q", resultText(res), tt.want)
			}
		})
	}
}

func TestNewServer(t *testing.T) {
	s := NewServer(&stubProvider{}, "test")
	if s == nil {
		t.Fatal("NewServer returned nil")
	}
}
