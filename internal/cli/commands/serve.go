package commands

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ahcm/longread-plots/internal/server"
)

// ServeOptions holds options for the serve command.
type ServeOptions struct {
	Port int
}

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve [directory]",
		Short: "Serve a browser gallery of rendered plots",
		Long: `Serve the rendered plots as a browser gallery with live reload.
Defaults to the configured output directory; combine with 'lrplot
watch' in another terminal to follow a run live.`,
		Example: `  # Serve ./plots on the default port
  lrplot serve

  # Serve a specific directory on port 9000
  lrplot serve --port 9000 /data/run42/plots`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, args, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Port, "port", 0, "Port to serve on (default from config)")

	return cmd
}

func runServe(cmd *cobra.Command, args []string, opts *ServeOptions) error {
	cc := NewCommandContext(cmd)

	dir := cc.Cfg.OutDir
	if len(args) == 1 {
		dir = args[0]
	}
	port := cc.Cfg.Serve.Port
	if opts.Port != 0 {
		port = opts.Port
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.New(server.Config{Dir: dir, Port: port, Logger: cc.Logger})
	err := srv.Serve(ctx)
	if err == context.Canceled {
		return nil
	}
	return err
}
