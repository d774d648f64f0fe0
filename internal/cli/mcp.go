package cli

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/yildizm/SalesDash/internal/mcptools"
)

func newMCPCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve sales tools over the Model Context Protocol",
		Long: `Run an MCP server on stdio exposing two tools:

  generate_sample_data   returns a sample sales CSV
  analyze_sales_data     returns the dashboard analysis as JSON

Configure your MCP client to launch "salesdash mcp".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			provider, cleanup, err := newProvider(GetGlobalConfig())
			if err != nil {
				return err
			}
			defer cleanup()

			return server.ServeStdio(mcptools.NewServer(provider, version))
		},
	}
}
