package cli

import (
	"fmt"
	"os"
	"runtime"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/yildizm/SalesDash/internal/config"
	"github.com/yildizm/SalesDash/internal/emoji"
	"github.com/yildizm/SalesDash/internal/logger"
	"github.com/yildizm/SalesDash/internal/ui"
)

var (
	cfgFile   string
	verbose   bool
	noColor   bool
	noEmoji   bool
	outputFmt string

	globalConfig = config.DefaultConfig()
)

// NewRootCommand creates the root command
func NewRootCommand(version, commit, date string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "salesdash",
		Short: "AI-powered sales data dashboard",
		Long: `SalesDash turns raw sales data into an executive dashboard.

Paste or load CSV sales data, or have the AI generate a realistic sample, and
SalesDash asks a language model for KPIs, regional and seasonal breakdowns,
a product mix and key insights. Results can be explored in the terminal, in
the browser, or exported as text, JSON, Markdown, CSV or HTML.

Running salesdash without a subcommand opens the terminal dashboard.`,
		SilenceUsage:      true,
		Args:              cobra.MaximumNArgs(1),
		PersistentPreRunE: setupGlobals,
		RunE:              runDashboard,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVar(&noEmoji, "no-emoji", false, "disable emoji output (useful for Windows terminals)")
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "", "output format (text, json, markdown, csv, html)")

	addDashboardFlags(rootCmd)

	// Add subcommands
	rootCmd.AddCommand(newDashboardCommand())
	rootCmd.AddCommand(newSampleCommand())
	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newWatchCommand())
	rootCmd.AddCommand(newMCPCommand(version))
	rootCmd.AddCommand(newConfigCommand())
	rootCmd.AddCommand(newVersionCommand(version, commit, date))

	return rootCmd
}

// setupGlobals loads the configuration and applies flag overrides
func setupGlobals(cmd *cobra.Command, args []string) error {
	// config subcommands load on their own so a broken file can be reported
	if cmd.Parent() != nil && cmd.Parent().Name() == "config" {
		return nil
	}

	cfg, err := config.NewLoader().LoadConfig(cfgFile)
	if err != nil {
		return err
	}
	globalConfig = cfg

	if !cmd.Flags().Changed("verbose") && cfg.Output.Verbose {
		verbose = true
	}
	if outputFmt == "" {
		outputFmt = cfg.Output.Format
	}
	if !cmd.Flags().Changed("no-emoji") {
		// Auto-disable emojis on Windows if not explicitly set
		noEmoji = !cfg.Output.Emoji || runtime.GOOS == "windows"
	}
	emoji.SetEmojiDisabled(noEmoji)

	if !useColor() {
		// lipgloss and the ui package both honour NO_COLOR
		_ = os.Setenv("NO_COLOR", "1")
	}
	return ui.SetThemeByName(cfg.UI.Theme)
}

func newVersionCommand(version, commit, date string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  "Display version number, build commit, date, and runtime information",
		Run: func(cmd *cobra.Command, args []string) {
			displayVersion := version
			displayCommit := commit
			displayDate := date

			if version == "dev" || version == "" {
				displayVersion = "development"
			}
			if commit == "none" || commit == "" {
				displayCommit = "local-build"
			}
			if date == "unknown" || date == "" {
				displayDate = "local-build"
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "SalesDash %s (%s) built on %s\n", displayVersion, displayCommit, displayDate)
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}

// Global helpers

// GetGlobalConfig returns the configuration loaded for the running command
func GetGlobalConfig() *config.Config {
	return globalConfig
}

// GetLogger returns a component logger gated on the verbose flag
func GetLogger(component string) *logger.Logger {
	return logger.NewWithCallback(component, isVerbose)
}

func isVerbose() bool {
	return verbose
}

func getOutputFormat() string {
	return outputFmt
}

// useColor resolves the color mode against the --no-color flag and stdout
func useColor() bool {
	if noColor || os.Getenv("NO_COLOR") != "" {
		return false
	}
	switch globalConfig.Output.Color {
	case "always":
		return true
	case "never":
		return false
	default:
		return isatty.IsTerminal(os.Stdout.Fd())
	}
}

// stdinIsPiped reports whether stdin carries data rather than a terminal
func stdinIsPiped() bool {
	return !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd())
}
