package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/yildizm/SalesDash/internal/dashboard"
	"github.com/yildizm/SalesDash/internal/logger"
	"github.com/yildizm/SalesDash/internal/ui"
)

var (
	dashboardNoTUI      bool
	dashboardTimeout    time.Duration
	dashboardOutputFile string
	dashboardLogFile    string
)

// errNoAnalysis is returned by one-shot runs that end without a dashboard
var errNoAnalysis = errors.New("analysis did not complete")

func newDashboardCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard [file]",
		Short: "Open the sales dashboard",
		Long: `Open the interactive terminal dashboard, optionally preloaded with a CSV file.

With --no-tui the data is analyzed once and the result printed in the selected
output format. In that mode the data comes from the file argument or stdin.

Examples:
  salesdash dashboard
  salesdash dashboard sales.csv
  salesdash dashboard --no-tui -o markdown sales.csv
  cat sales.csv | salesdash dashboard --no-tui -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: runDashboard,
	}
	addDashboardFlags(cmd)
	return cmd
}

func addDashboardFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&dashboardNoTUI, "no-tui", false, "disable terminal UI, analyze once and print the result")
	cmd.Flags().DurationVar(&dashboardTimeout, "timeout", 0, "analysis timeout (default: ai.timeout from config)")
	cmd.Flags().StringVar(&dashboardOutputFile, "output-file", "", "save output to file instead of stdout")
	cmd.Flags().StringVar(&dashboardLogFile, "log-file", "", "write logs to this file while the terminal UI is running")
}

func runDashboard(cmd *cobra.Command, args []string) error {
	cfg := GetGlobalConfig()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if shouldUseTUIMode(cmd, args) {
		return runTUI(ctx, args)
	}

	raw, err := readInput(args, cmd.InOrStdin())
	if err != nil {
		return err
	}

	provider, cleanup, err := newProvider(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	timeout := dashboardTimeout
	if timeout <= 0 {
		timeout = cfg.AI.Timeout
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	controller := dashboard.NewController(provider, GetLogger("dashboard"))
	state := analyzeOnce(ctx, controller, raw)
	return printState(cmd.OutOrStdout(), cmd.ErrOrStderr(), state, dashboardOutputFile)
}

// shouldUseTUIMode picks the interactive dashboard unless the run is scripted
func shouldUseTUIMode(cmd *cobra.Command, args []string) bool {
	if dashboardNoTUI {
		return false
	}
	if cmd.Flags().Changed("output") || dashboardOutputFile != "" {
		return false
	}
	if len(args) == 0 && stdinIsPiped() {
		return false
	}
	return true
}

// analyzeOnce loads raw into the controller and runs one analysis
func analyzeOnce(ctx context.Context, controller *dashboard.Controller, raw string) dashboard.State {
	if controller.Snapshot().View != dashboard.ViewInput {
		controller.Reset()
	}
	controller.SetRawInput(raw)
	controller.RunAnalysis(ctx)
	return controller.Snapshot()
}

// printState writes the dashboard in the selected format, or the user-facing
// error when the analysis did not reach the dashboard.
func printState(stdout, stderr io.Writer, state dashboard.State, outputFile string) error {
	if state.View != dashboard.ViewDashboard {
		fmt.Fprintln(stderr, state.DisplayError())
		if state.LastFailure != nil {
			return fmt.Errorf("%w: %w", errNoAnalysis, state.LastFailure)
		}
		return errNoAnalysis
	}

	output, err := formatResult(state.Analysis)
	if err != nil {
		return err
	}
	return writeOutput(stdout, output, outputFile)
}

func runTUI(ctx context.Context, args []string) error {
	cfg := GetGlobalConfig()

	log, closeLog, err := tuiLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	provider, cleanup, err := newProvider(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	controller := dashboard.NewController(provider, log)
	if len(args) > 0 {
		raw, err := readInput(args, nil)
		if err != nil {
			return err
		}
		controller.SetRawInput(raw)
	}

	err = ui.Run(ctx, controller, provider, ui.Options{
		PhaseInterval: cfg.UI.PhaseInterval,
		AltScreen:     cfg.UI.AltScreen,
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// tuiLogger keeps log output off the terminal while the UI owns it
func tuiLogger() (*logger.Logger, func(), error) {
	if dashboardLogFile == "" {
		return logger.Discard(), func() {}, nil
	}
	// #nosec G304 - path is chosen by the user
	f, err := os.OpenFile(dashboardLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	log := logger.NewWithWriter("dashboard", verboseFlag{}, f)
	return log, func() { _ = f.Close() }, nil
}

// verboseFlag reports the --verbose flag to loggers
type verboseFlag struct{}

func (verboseFlag) IsVerbose() bool {
	return isVerbose()
}
