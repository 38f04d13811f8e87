package commands

import (
	"github.com/spf13/cobra"

	"github.com/orcli-org/orcli/pkg/api"
)

// NewServeCmd runs the HTTP API over the in-process registry.
func NewServeCmd(app *App) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the tool registry and history over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			httpCfg := app.Config.HTTP
			if addr != "" {
				httpCfg.Addr = addr
			}
			srv := api.NewServer(httpCfg, app.Registry, app.Dispatcher, app.Engine, app.Log)
			return srv.Run(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides configuration)")
	return cmd
}
