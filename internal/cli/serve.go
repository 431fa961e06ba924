package cli

import (
	"github.com/spf13/cobra"

	"github.com/csheth/termfolio/internal/logging"
	"github.com/csheth/termfolio/internal/server"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the local blog directory over HTTP",
		Long: `Serve hosts the blog index, the post files next to it and HTML renderings
of every post. The index is reloaded whenever the file changes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				opts.cfg.Addr = addr
			}
			logger := logging.FromContext(cmd.Context())
			srv, err := server.New(opts.cfg.BlogIndex, logger)
			if err != nil {
				return err
			}
			return srv.Run(cmd.Context(), opts.cfg.Addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default "+opts.cfg.Addr+")")
	return cmd
}
