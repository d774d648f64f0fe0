package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yildizm/SalesDash/internal/dashboard"
)

var sampleOutputFile string

func newSampleCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Generate sample sales data",
		Long: `Ask the AI for a realistic retail sales CSV and print it.

Examples:
  salesdash sample
  salesdash sample --output-file sales.csv
  salesdash sample | salesdash dashboard --no-tui`,
		Args: cobra.NoArgs,
		RunE: runSample,
	}

	cmd.Flags().StringVar(&sampleOutputFile, "output-file", "", "save the CSV to file instead of stdout")

	return cmd
}

func runSample(cmd *cobra.Command, args []string) error {
	provider, cleanup, err := newProvider(GetGlobalConfig())
	if err != nil {
		return err
	}
	defer cleanup()

	controller := dashboard.NewController(provider, GetLogger("dashboard"))
	controller.RequestSample(cmd.Context())

	state := controller.Snapshot()
	if state.HasError() {
		fmt.Fprintln(cmd.ErrOrStderr(), state.ErrorMessage)
		return fmt.Errorf("sample generation failed: %w", state.LastFailure)
	}

	text := state.RawInput
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	return writeOutput(cmd.OutOrStdout(), []byte(text), sampleOutputFile)
}
