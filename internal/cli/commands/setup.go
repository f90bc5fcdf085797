package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ahcm/longread-plots/internal/cli/config"
	"github.com/ahcm/longread-plots/internal/cli/output"
	"github.com/ahcm/longread-plots/internal/engine"
	"github.com/ahcm/longread-plots/internal/seqio"
	"github.com/ahcm/longread-plots/internal/stats"
)

// CommandContext holds the common dependencies of CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext assembles config, logger and renderer for a command
// invocation.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := config.Current()
	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(cmd.Context()),
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat)),
	}
}

// collectorOf accumulates a metrics slice into a fresh collector.
func collectorOf(metrics []seqio.ReadMetrics) *stats.Collector {
	c := stats.NewCollector()
	for _, m := range metrics {
		c.Add(m)
	}
	return c
}

// EngineConfig maps the CLI configuration onto an engine configuration.
func (c *CommandContext) EngineConfig() engine.Config {
	return engine.Config{
		Plots:       c.Cfg.Plots,
		OutDir:      c.Cfg.OutDir,
		Format:      c.Cfg.Format,
		MinLength:   c.Cfg.MinLength,
		MinQScore:   c.Cfg.MinQScore,
		InputFormat: seqio.Format(c.Cfg.InputFormat),
		Workers:     c.Cfg.Workers,
		Logger:      c.Logger,
	}
}
