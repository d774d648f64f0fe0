package mcptools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/yildizm/SalesDash/internal/analyst"
)

// AnalyzeTool handles the analyze_sales_data MCP tool.
type AnalyzeTool struct {
	provider analyst.Provider
}

// NewAnalyzeTool creates an AnalyzeTool backed by provider.
func NewAnalyzeTool(provider analyst.Provider) *AnalyzeTool {
	return &AnalyzeTool{provider: provider}
}

// Definition returns the MCP tool definition for analyze_sales_data.
func (t *AnalyzeTool) Definition() mcp.Tool {
	return mcp.NewTool("analyze_sales_data",
		mcp.WithDescription("Analyze raw sales data and return dashboard JSON: summary, KPIs, chart series and insights."),
		mcp.WithString("data",
			mcp.Required(),
			mcp.Description("Raw sales data, usually CSV with a header row"),
		),
	)
}

// Handle processes the analyze_sales_data tool call.
func (t *AnalyzeTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	data := req.GetString("data", "")
	if strings.TrimSpace(data) == "" {
		return mcp.NewToolResultError("data is required"), nil
	}

	result, err := t.provider.Analyze(ctx, data)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}
	if result == nil {
		return mcp.NewToolResultError("analysis failed: provider returned no result"), nil
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode analysis: %v", err)), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}
