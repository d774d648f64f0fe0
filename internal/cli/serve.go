package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yildizm/SalesDash/internal/dashboard"
	"github.com/yildizm/SalesDash/internal/web"
)

var serveAddr string

func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard in the browser",
		Long: `Start an HTTP server that renders the sales dashboard as HTML.

The server holds one dashboard session. Sample generation and analysis run
in the background while the page refreshes itself.

Examples:
  salesdash serve
  salesdash serve --addr :9000`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default: server.addr from config)")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := GetGlobalConfig()

	provider, cleanup, err := newProvider(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	webCfg := webConfig()
	log := GetLogger("serve")
	controller := dashboard.NewController(provider, log.WithComponent("dashboard"))
	srv := web.New(controller, provider, webCfg, log)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(cmd.ErrOrStderr(), "Serving SalesDash on http://%s (Ctrl+C to stop)\n", webCfg.Addr)
	return srv.Run(ctx)
}

// webConfig maps the server section of the configuration onto web.Config
func webConfig() web.Config {
	cfg := GetGlobalConfig()
	webCfg := web.DefaultConfig()

	webCfg.Addr = cfg.Server.Addr
	if serveAddr != "" {
		webCfg.Addr = serveAddr
	}
	webCfg.RateLimitPerMinute = cfg.Server.RateLimitPerMinute
	webCfg.AllowedOrigins = cfg.Server.AllowedOrigins
	webCfg.ReadTimeout = cfg.Server.ReadTimeout
	webCfg.WriteTimeout = cfg.Server.WriteTimeout
	webCfg.MaxInputBytes = cfg.Server.MaxInputBytes
	webCfg.PhaseInterval = cfg.UI.PhaseInterval
	return webCfg
}
