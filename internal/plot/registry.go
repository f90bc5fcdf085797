// Package plot renders the QC figure collection for long-read sequencing
// runs. Each figure is a named Builder producing a gonum plot from a
// stats.Collector; rendering to PNG, SVG or PDF is format-by-extension.
package plot

import (
	"errors"
	"fmt"
	"sort"

	gplot "gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"

	"github.com/ahcm/longread-plots/internal/stats"
)

// ErrNoData reports that the input carries none of the data a plot
// needs (e.g. a yield plot over reads without timing information).
var ErrNoData = errors.New("no data for plot")

// Builder describes one figure in the collection.
type Builder struct {
	// Name is the figure's identifier on the CLI and in output file names.
	Name string
	// Title is the figure title.
	Title string
	// Build renders the figure from accumulated read metrics.
	Build func(c *stats.Collector) (*gplot.Plot, error)
}

// builders is the figure collection, keyed by name.
var builders = map[string]Builder{
	"read_lengths": {
		Name:  "read_lengths",
		Title: "Read length distribution",
		Build: buildReadLengths,
	},
	"qscores": {
		Name:  "qscores",
		Title: "Mean read quality distribution",
		Build: buildQScores,
	},
	"length_vs_qscore": {
		Name:  "length_vs_qscore",
		Title: "Read length vs mean quality",
		Build: buildLengthVsQScore,
	},
	"yield": {
		Name:  "yield",
		Title: "Cumulative yield",
		Build: buildYield,
	},
	"channels": {
		Name:  "channels",
		Title: "Reads per channel",
		Build: buildChannels,
	},
}

// Lookup returns the builder for a figure name.
func Lookup(name string) (Builder, bool) {
	b, ok := builders[name]
	return b, ok
}

// Names returns all figure names, sorted.
func Names() []string {
	names := make([]string, 0, len(builders))
	for name := range builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve maps figure names to builders, rejecting unknown names with an
// error that lists the available figures. An empty selection resolves to
// the full collection.
func Resolve(names []string) ([]Builder, error) {
	if len(names) == 0 {
		all := make([]Builder, 0, len(builders))
		for _, name := range Names() {
			all = append(all, builders[name])
		}
		return all, nil
	}
	selected := make([]Builder, 0, len(names))
	for _, name := range names {
		b, ok := builders[name]
		if !ok {
			return nil, fmt.Errorf("unknown plot %q (available: %v)", name, Names())
		}
		selected = append(selected, b)
	}
	return selected, nil
}

// Default figure dimensions, chosen to match the 10x7 inch matplotlib
// figures of the original tool.
const (
	DefaultWidth  = 10 * vg.Inch
	DefaultHeight = 7 * vg.Inch
)

// Save writes a built figure to path; the format follows the file
// extension (.png, .svg, .pdf).
func Save(p *gplot.Plot, path string) error {
	if err := p.Save(DefaultWidth, DefaultHeight, path); err != nil {
		return fmt.Errorf("failed to save plot to %s: %w", path, err)
	}
	return nil
}
