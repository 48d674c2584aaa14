package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/piwi3910/PalletCut/internal/server"
)

// serveCommand runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		noCache  bool
		memoryMB int
		timeout  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the solver over HTTP",
		Long: `Serve exposes the solver as a JSON API:

  POST /v1/solve     solve one instance
  POST /v1/batch     solve a list of instances
  POST /v1/compare   compare search depths
  POST /v1/gcode     CNC program for a layout
  GET  /v1/render/{L}/{W}/{l}/{w}  PNG drawing

The result cache named in the config is shared by all requests.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			settings, err := c.settings()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.ServerAddr
			}
			if memoryMB > 0 {
				settings.MemoryBudgetMB = memoryMB
			}

			cc := c.newCache(ctx, noCache)
			defer cc.Close()

			srv := server.New(server.Config{
				Addr:           addr,
				MemoryBudget:   settings.MemoryBudget(),
				Cache:          cc,
				Logger:         c.Logger,
				RequestTimeout: timeout,
			})
			printInfo("Listening on %s", addr)
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")
	cmd.Flags().IntVar(&memoryMB, "memory", 0, "L-Block memo budget per request in MiB")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "request timeout (default 2m)")
	return cmd
}
