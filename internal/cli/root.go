// Package cli provides the command-line interface for lrplot.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ahcm/longread-plots/internal/cli/commands"
	"github.com/ahcm/longread-plots/internal/cli/config"
	"github.com/ahcm/longread-plots/internal/plot"
)

var cfgFile string

// Version information (set at build time).
var (
	Version   = "0.7.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "lrplot",
		Short: "lrplot - Plot collection for Long Read Sequencing",
		Long: `lrplot renders quality-control plots for long-read sequencing runs
like Oxford Nanopore: read length and quality distributions, yield over
run time, and flow-cell channel activity.

Inputs are FASTQ files (optionally gzip-compressed) or the basecaller's
sequencing_summary.txt.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.LoadConfig(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}

			logger := config.NewLogger(cfg.Verbose)
			cmd.SetContext(config.WithLogger(cmd.Context(), logger))

			if cfg.Verbose {
				if configFile := config.GetConfigFileUsed(); configFile != "" {
					fmt.Fprintf(os.Stderr, "Using config file: %s\n", configFile)
				}
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
Plot collection for Long Read Sequencing
`)

	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./lrplot.yaml)")
	rootCmd.PersistentFlags().String("out-dir", "", "Directory for rendered plots")
	rootCmd.PersistentFlags().String("format", "", "Plot file format (png|svg|pdf)")
	rootCmd.PersistentFlags().StringSlice("plots", nil, "Plots to render (default: all)")
	rootCmd.PersistentFlags().Int("min-length", 0, "Drop reads shorter than this many bases")
	rootCmd.PersistentFlags().Float64("min-qscore", 0, "Drop reads with a mean quality below this")
	rootCmd.PersistentFlags().Int("workers", 0, "Concurrent input files (0 = one per CPU)")
	rootCmd.PersistentFlags().String("input-format", "", "Input format (auto|fastq|summary)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output format for stats (auto|text|json|csv|markdown)")

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"auto", "text", "json", "csv", "markdown"}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"png", "svg", "pdf"}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("plots", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return plot.Names(), cobra.ShellCompDirectiveNoFileComp
	})

	// Subcommands
	rootCmd.AddCommand(commands.NewPlotCommand())
	rootCmd.AddCommand(commands.NewStatsCommand())
	rootCmd.AddCommand(commands.NewExportCommand())
	rootCmd.AddCommand(commands.NewWatchCommand())
	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewVersionCommand(Version))

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
