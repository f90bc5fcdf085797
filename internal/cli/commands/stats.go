package commands

import (
	"github.com/spf13/cobra"

	"github.com/ahcm/longread-plots/internal/engine"
)

// StatsOptions holds options for the stats command.
type StatsOptions struct {
	Combine bool
}

// NewStatsCommand creates the stats command.
func NewStatsCommand() *cobra.Command {
	opts := &StatsOptions{}

	cmd := &cobra.Command{
		Use:   "stats [files or directories...]",
		Short: "Print QC summary statistics without plotting",
		Long: `Compute read count, yield, length distribution (including N50) and
quality statistics for sequencing data, without rendering any plots.`,
		Example: `  # Summary table for one file
  lrplot stats reads.fastq.gz

  # Machine-readable output for pipelines
  lrplot stats -o json sequencing_summary.txt

  # One merged summary across a whole run
  lrplot stats --combine /data/run42`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Combine, "combine", false, "Merge all inputs into one summary")

	return cmd
}

func runStats(cmd *cobra.Command, args []string, opts *StatsOptions) error {
	cc := NewCommandContext(cmd)

	inputs, err := engine.DiscoverInputs(args)
	if err != nil {
		return err
	}

	eng := engine.New(cc.EngineConfig())
	collectors, err := eng.Collect(cmd.Context(), inputs)
	if err != nil {
		return err
	}

	if opts.Combine && len(inputs) > 1 {
		merged := collectors[inputs[0]]
		for _, input := range inputs[1:] {
			merged.Merge(collectors[input])
		}
		return cc.Renderer.Summary("combined", merged.Summarize())
	}

	for _, input := range inputs {
		if err := cc.Renderer.Summary(input, collectors[input].Summarize()); err != nil {
			return err
		}
	}
	return nil
}
