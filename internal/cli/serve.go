package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/pomedit/internal/server"
	"github.com/matzehuels/pomedit/pkg/cache"
	"github.com/matzehuels/pomedit/pkg/pipeline"
)

// serveCommand creates the serve command running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run an HTTP server exposing modify, query and versions over JSON.

Requests carry the POM documents themselves; the server never touches the
local filesystem. Stop it with Ctrl-C.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg, err := c.loadConfig(".")
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}

			store, err := c.openCache(ctx, cfg)
			if err != nil {
				return err
			}
			runner := pipeline.NewRunner(store, cache.NewScopedKeyer(nil, "server:"), logger)
			runner.Maven = cfg.MavenClient(store)
			defer runner.Close()

			srv := server.New(runner, logger, cfg.Server.MaxBodyBytes)
			printInfo("Listening on %s", StyleHighlight.Render(cfg.Server.Addr))
			return srv.ListenAndServe(ctx, cfg.Server.Addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")

	return cmd
}
