package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ahcm/longread-plots/internal/engine"
	"github.com/ahcm/longread-plots/internal/store"
)

// ExportOptions holds options for the export command.
type ExportOptions struct {
	Database string
}

// NewExportCommand creates the export command.
func NewExportCommand() *cobra.Command {
	opts := &ExportOptions{}

	cmd := &cobra.Command{
		Use:   "export [files or directories...]",
		Short: "Export per-read metrics to a DuckDB database",
		Long: `Write per-read metrics (length, mean quality, channel, start time,
pass/fail) and per-file summaries into a DuckDB database for ad-hoc SQL
analysis. Re-exporting a file replaces its rows.`,
		Example: `  # Export a run into metrics.duckdb
  lrplot export --db metrics.duckdb /data/run42

  # Then query it, e.g. with the duckdb shell:
  #   SELECT file, count(*), avg(mean_qscore) FROM reads GROUP BY file;`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "lrplot.duckdb", "Path to the DuckDB database")

	return cmd
}

func runExport(cmd *cobra.Command, args []string, opts *ExportOptions) error {
	cc := NewCommandContext(cmd)
	ctx := cmd.Context()

	inputs, err := engine.DiscoverInputs(args)
	if err != nil {
		return err
	}

	s, err := store.Open(ctx, opts.Database, cc.Logger)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	if err := s.InitSchema(ctx); err != nil {
		return err
	}

	eng := engine.New(cc.EngineConfig())
	var total int
	for _, input := range inputs {
		metrics, err := eng.Metrics(ctx, input)
		if err != nil {
			return err
		}
		if err := s.InsertReads(ctx, input, metrics); err != nil {
			return err
		}

		c := collectorOf(metrics)
		runID, err := s.InsertSummary(ctx, input, c.Summarize())
		if err != nil {
			return err
		}
		cc.Logger.Debug("exported file", "file", input, "reads", len(metrics), "run_id", runID)

		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d reads\n", input, len(metrics))
		total += len(metrics)
	}

	cc.Renderer.Successf("exported %d reads from %d files to %s", total, len(inputs), opts.Database)
	return nil
}
