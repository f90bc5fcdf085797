// Package engine orchestrates a plotting run: input discovery, parallel
// parsing, metric filtering, and figure rendering.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/ahcm/longread-plots/internal/plot"
	"github.com/ahcm/longread-plots/internal/seqio"
	"github.com/ahcm/longread-plots/internal/stats"
)

// Config holds engine configuration.
type Config struct {
	// Plots is the figure selection; empty means the full collection.
	Plots []string
	// OutDir is where rendered figures are written.
	OutDir string
	// Format is the figure file format (png, svg, pdf).
	Format string
	// Combine merges all inputs into one figure set instead of one set
	// per input file.
	Combine bool
	// MinLength drops reads shorter than this many bases.
	MinLength int
	// MinQScore drops reads with a mean quality below this.
	MinQScore float64
	// InputFormat forces the input format; FormatAuto detects by name.
	InputFormat seqio.Format
	// Workers bounds the number of files parsed concurrently.
	// Zero means one worker per CPU.
	Workers int
	// Logger is the structured logger (optional, discards if nil).
	Logger *slog.Logger
}

// Engine runs the plotting pipeline.
type Engine struct {
	cfg    Config
	logger *slog.Logger
}

// New creates an engine.
func New(cfg Config) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.Format == "" {
		cfg.Format = "png"
	}
	if cfg.InputFormat == "" {
		cfg.InputFormat = seqio.FormatAuto
	}
	return &Engine{cfg: cfg, logger: logger}
}

// DiscoverInputs expands the given paths into sequencing data files.
// Directories are scanned recursively for files of a known format.
func DiscoverInputs(args []string) ([]string, error) {
	var inputs []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot read input %s: %w", arg, err)
		}
		if !info.IsDir() {
			inputs = append(inputs, arg)
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && seqio.DetectFormat(path) != seqio.FormatUnknown {
				inputs = append(inputs, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", arg, err)
		}
	}
	if len(inputs) == 0 {
		return nil, fmt.Errorf("no sequencing data files found")
	}
	sort.Strings(inputs)
	return inputs, nil
}

// Metrics reads one input file, applying the configured read filters.
func (e *Engine) Metrics(ctx context.Context, path string) ([]seqio.ReadMetrics, error) {
	r, err := seqio.Open(path, e.cfg.InputFormat)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()

	var metrics []seqio.ReadMetrics
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		m, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if m.Length < e.cfg.MinLength || m.MeanQ < e.cfg.MinQScore {
			continue
		}
		metrics = append(metrics, m)
	}
	return metrics, nil
}

// Collect parses all inputs concurrently, returning one collector per
// input path.
func (e *Engine) Collect(ctx context.Context, inputs []string) (map[string]*stats.Collector, error) {
	collectors := make(map[string]*stats.Collector, len(inputs))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Workers)
	for _, input := range inputs {
		g.Go(func() error {
			e.logger.Debug("parsing input", "file", input)
			metrics, err := e.Metrics(ctx, input)
			if err != nil {
				return err
			}
			c := stats.NewCollector()
			for _, m := range metrics {
				c.Add(m)
			}
			e.logger.Debug("parsed input", "file", input, "reads", c.Len())
			mu.Lock()
			collectors[input] = c
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return collectors, nil
}

// Output is one rendered figure.
type Output struct {
	Plot string
	Path string
}

// Group is the result of plotting one input (or the combined inputs).
type Group struct {
	// Name is the file-name stem of the group's figures.
	Name    string
	Summary stats.Summary
	Outputs []Output
	// Skipped lists figures that were left out because the input
	// carries none of the data they need.
	Skipped []string
}

// Result is the outcome of a plotting run.
type Result struct {
	Groups []Group
}

// Run parses the inputs and renders the configured figures into OutDir.
func (e *Engine) Run(ctx context.Context, inputs []string) (*Result, error) {
	builders, err := plot.Resolve(e.cfg.Plots)
	if err != nil {
		return nil, err
	}
	explicit := len(e.cfg.Plots) > 0

	collectors, err := e.Collect(ctx, inputs)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(e.cfg.OutDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	groups := e.group(inputs, collectors)
	result := &Result{}
	for _, grp := range groups {
		g := Group{Name: grp.name, Summary: grp.collector.Summarize()}
		for _, b := range builders {
			p, err := b.Build(grp.collector)
			if err != nil {
				if errors.Is(err, plot.ErrNoData) && !explicit {
					e.logger.Debug("skipping plot without data", "plot", b.Name, "group", grp.name)
					g.Skipped = append(g.Skipped, b.Name)
					continue
				}
				return nil, fmt.Errorf("plot %s for %s: %w", b.Name, grp.name, err)
			}
			path := filepath.Join(e.cfg.OutDir, fmt.Sprintf("%s.%s.%s", grp.name, b.Name, e.cfg.Format))
			if err := plot.Save(p, path); err != nil {
				return nil, err
			}
			e.logger.Debug("rendered plot", "plot", b.Name, "path", path)
			g.Outputs = append(g.Outputs, Output{Plot: b.Name, Path: path})
		}
		result.Groups = append(result.Groups, g)
	}
	return result, nil
}

type namedCollector struct {
	name      string
	collector *stats.Collector
}

// group decides the figure-set granularity: one set per input, or a
// single combined set when configured or when there is only one input.
func (e *Engine) group(inputs []string, collectors map[string]*stats.Collector) []namedCollector {
	if len(inputs) == 1 {
		return []namedCollector{{Stem(inputs[0]), collectors[inputs[0]]}}
	}
	if e.cfg.Combine {
		merged := stats.NewCollector()
		for _, input := range inputs {
			merged.Merge(collectors[input])
		}
		return []namedCollector{{"combined", merged}}
	}
	groups := make([]namedCollector, 0, len(inputs))
	for _, input := range inputs {
		groups = append(groups, namedCollector{Stem(input), collectors[input]})
	}
	return groups
}

// Stem returns the base name of a sequencing file without its format
// extensions, for use in output file names.
func Stem(path string) string {
	name := filepath.Base(path)
	name = strings.TrimSuffix(name, ".gz")
	return strings.TrimSuffix(name, filepath.Ext(name))
}
