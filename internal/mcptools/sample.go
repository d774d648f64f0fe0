package mcptools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/yildizm/SalesDash/internal/analyst"
)

// SampleTool handles the generate_sample_data MCP tool.
type SampleTool struct {
	provider analyst.Provider
}

// NewSampleTool creates a SampleTool backed by provider.
func NewSampleTool(provider analyst.Provider) *SampleTool {
	return &SampleTool{provider: provider}
}

// Definition returns the MCP tool definition for generate_sample_data.
func (t *SampleTool) Definition() mcp.Tool {
	return mcp.NewTool("generate_sample_data",
		mcp.WithDescription("Generate realistic sample sales data as CSV with a header row."),
	)
}

// Handle processes the generate_sample_data tool call.
func (t *SampleTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := t.provider.GenerateSample(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to generate sample data: %v", err)), nil
	}
	return mcp.NewToolResultText(text), nil
}
