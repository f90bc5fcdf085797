package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ahcm/longread-plots/internal/engine"
)

// PlotOptions holds options for the plot command.
type PlotOptions struct {
	Combine bool
}

// NewPlotCommand creates the plot command.
func NewPlotCommand() *cobra.Command {
	opts := &PlotOptions{}

	cmd := &cobra.Command{
		Use:   "plot [files or directories...]",
		Short: "Render QC plots from sequencing data",
		Long: `Parse FASTQ files or sequencing summaries and render the QC plot
collection into the output directory. Directories are scanned
recursively for sequencing data files.`,
		Example: `  # Plot a single FASTQ file
  lrplot plot reads.fastq.gz

  # Plot everything under a run directory into ./figures
  lrplot plot --out-dir figures /data/run42

  # Only the length and yield plots, merged across all inputs
  lrplot plot --plots read_lengths,yield --combine *.fastq.gz`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlot(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Combine, "combine", false, "Merge all inputs into one plot set")

	return cmd
}

func runPlot(cmd *cobra.Command, args []string, opts *PlotOptions) error {
	cc := NewCommandContext(cmd)

	inputs, err := engine.DiscoverInputs(args)
	if err != nil {
		return err
	}

	engCfg := cc.EngineConfig()
	engCfg.Combine = opts.Combine
	eng := engine.New(engCfg)

	start := time.Now()
	result, err := eng.Run(cmd.Context(), inputs)
	if err != nil {
		return err
	}

	rendered := 0
	for _, g := range result.Groups {
		for _, out := range g.Outputs {
			fmt.Fprintln(cmd.OutOrStdout(), out.Path)
			rendered++
		}
		if len(g.Skipped) > 0 {
			cc.Renderer.Warnf("%s: skipped %s (no data)", g.Name, strings.Join(g.Skipped, ", "))
		}
	}

	cc.Renderer.Successf("rendered %d plots from %d inputs in %s",
		rendered, len(inputs), time.Since(start).Round(time.Millisecond))
	return nil
}
