package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/phrazzld/scry-flashcards/internal/app"
)

func newServeCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the session API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			extra := map[string]interface{}{}
			if cmd.Flags().Changed("port") {
				port, _ := cmd.Flags().GetInt("port")
				extra["server.port"] = port
			}

			cfg, err := opts.loadConfig(extra)
			if err != nil {
				return err
			}
			log := newLogger(cmd, cfg)

			parent := cmd.Context()
			if parent == nil {
				parent = context.Background()
			}
			ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
			defer stop()

			application, err := app.New(ctx, cfg, log)
			if err != nil {
				return err
			}
			return application.Run(ctx)
		},
	}

	cmd.Flags().Int("port", 0, "Override server.port")
	return cmd
}
