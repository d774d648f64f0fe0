// Package mcptools exposes sample generation and sales analysis as MCP tools.
//
// Each tool follows the same shape:
// - a struct holding the analyst.Provider, injected via constructor
// - Definition() returns the mcp.Tool schema
// - Handle() processes the request and returns a result
package mcptools

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/yildizm/SalesDash/internal/analyst"
)

// NewServer creates an MCP server with every sales tool registered.
func NewServer(provider analyst.Provider, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"salesdash",
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(instructions),
	)

	sampleTool := NewSampleTool(provider)
	s.AddTool(sampleTool.Definition(), sampleTool.Handle)

	analyzeTool := NewAnalyzeTool(provider)
	s.AddTool(analyzeTool.Definition(), analyzeTool.Handle)

	return s
}

const instructions = `SalesDash turns raw sales CSV into a structured dashboard analysis.
Call generate_sample_data for realistic demo data, then pass CSV text to analyze_sales_data.
The analysis is JSON with summary, kpis, regionalPerformance, monthlyTrend, topProducts and insights.`
