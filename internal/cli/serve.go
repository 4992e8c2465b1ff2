package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/mlopsdiagrams/internal/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve rendered diagrams over HTTP for previewing",
		Long: `Start the preview server.

Diagrams are rendered on request, for example:

  curl localhost:8080/diagrams
  open http://localhost:8080/diagrams/e.svg`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}

			logger := loggerFromContext(cmd.Context())
			runner, closeCache, err := c.newRunner(cmd.Context(), cfg, logger, noCache)
			if err != nil {
				return err
			}
			defer closeCache()

			srv := server.New(runner, logger,
				server.WithAddr(cfg.Server.Addr),
				server.WithOptions(cfg.Options()),
			)
			printInfo("Serving diagrams on %s", StyleHighlight.Render("http://"+srv.Addr()))
			printDetail("Press Ctrl+C to stop")
			return srv.ListenAndServe(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the render cache")
	return cmd
}
