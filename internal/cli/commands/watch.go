package commands

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ahcm/longread-plots/internal/engine"
	"github.com/ahcm/longread-plots/internal/seqio"
	"github.com/ahcm/longread-plots/internal/watch"
)

// WatchOptions holds options for the watch command.
type WatchOptions struct {
	Combine bool
}

// NewWatchCommand creates the watch command.
func NewWatchCommand() *cobra.Command {
	opts := &WatchOptions{}

	cmd := &cobra.Command{
		Use:   "watch <directory>",
		Short: "Re-render plots as sequencing data arrives",
		Long: `Watch a directory for new or changed sequencing data files and
re-render the plot collection after each change. Useful while a
Nanopore run is still writing FASTQ files.`,
		Example: `  # Keep ./plots current while a run is in progress
  lrplot watch /data/run42`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Combine, "combine", true, "Merge all inputs into one plot set")

	return cmd
}

func runWatch(cmd *cobra.Command, dir string, opts *WatchOptions) error {
	cc := NewCommandContext(cmd)

	engCfg := cc.EngineConfig()
	engCfg.Combine = opts.Combine
	eng := engine.New(engCfg)

	run := func(ctx context.Context) error {
		inputs, err := engine.DiscoverInputs([]string{dir})
		if err != nil {
			return err
		}
		result, err := eng.Run(ctx, inputs)
		if err != nil {
			return err
		}
		for _, g := range result.Groups {
			cc.Logger.Info("rendered plot set", "group", g.Name, "reads", g.Summary.Reads)
		}
		return nil
	}

	relevant := func(path string) bool {
		return seqio.DetectFormat(path) != seqio.FormatUnknown
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cc.Renderer.Successf("watching %s (Ctrl+C to stop)", dir)
	err := watch.New(dir, relevant, run, cc.Logger).Run(ctx)
	if err == context.Canceled {
		return nil
	}
	return err
}
