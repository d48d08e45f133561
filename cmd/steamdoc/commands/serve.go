package commands

import (
	"steamdoc/lib/docserver"
	"steamdoc/lib/serviceutil"

	"github.com/spf13/cobra"
)

func newServeCommand(opts *Options) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve [--addr <host:port>]",
		Short: "Serves the scraped documentation as a JSON api until interrupted.",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.newClient()
			if err != nil {
				return err
			}
			ctx, cancel := serviceutil.SignalContext(cmd.Context())
			defer cancel()
			return serviceutil.StartHttpServer(ctx, addr, docserver.NewServer(client))
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8080", "The address to listen on.")
	return cmd
}
