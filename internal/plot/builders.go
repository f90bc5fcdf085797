package plot

import (
	"fmt"
	"image/color"
	"math"

	gplot "gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/ahcm/longread-plots/internal/stats"
)

// Palette in the spirit of the seaborn defaults of the original tool.
var (
	fillColor  = color.RGBA{R: 70, G: 120, B: 180, A: 255}
	lineColor  = color.RGBA{R: 214, G: 95, B: 95, A: 255}
	pointColor = color.RGBA{R: 70, G: 120, B: 180, A: 128}
)

const (
	histogramBins    = 60
	maxScatterPoints = 50000
)

func newFigure(title, xLabel, yLabel string) *gplot.Plot {
	p := gplot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	p.Add(plotter.NewGrid())
	return p
}

// buildReadLengths draws a histogram of read lengths on a log10 axis.
// Long-read length distributions span orders of magnitude; a linear axis
// hides everything left of the longest reads.
func buildReadLengths(c *stats.Collector) (*gplot.Plot, error) {
	logs := stats.Log10Lengths(c.Lengths())
	if len(logs) == 0 {
		return nil, ErrNoData
	}

	p := newFigure("Read length distribution", "read length (log10 bases)", "reads")
	h, err := plotter.NewHist(plotter.Values(logs), histogramBins)
	if err != nil {
		return nil, fmt.Errorf("failed to build length histogram: %w", err)
	}
	h.FillColor = fillColor
	p.Add(h)
	return p, nil
}

// buildQScores draws a histogram of mean read qualities.
func buildQScores(c *stats.Collector) (*gplot.Plot, error) {
	quals := c.Qualities()
	if len(quals) == 0 {
		return nil, ErrNoData
	}

	p := newFigure("Mean read quality distribution", "mean quality (Phred)", "reads")
	h, err := plotter.NewHist(plotter.Values(quals), histogramBins)
	if err != nil {
		return nil, fmt.Errorf("failed to build quality histogram: %w", err)
	}
	h.FillColor = fillColor
	p.Add(h)
	return p, nil
}

// buildLengthVsQScore draws read length (log10) against mean quality.
// Above maxScatterPoints the reads are stride-sampled; the shape of the
// cloud is what matters, not every point.
func buildLengthVsQScore(c *stats.Collector) (*gplot.Plot, error) {
	pairs := lengthQualityPairs(c.Lengths(), c.Qualities())
	if len(pairs) == 0 {
		return nil, ErrNoData
	}

	stride := 1
	if len(pairs) > maxScatterPoints {
		stride = len(pairs)/maxScatterPoints + 1
	}

	var pts plotter.XYs
	for i := 0; i < len(pairs); i += stride {
		pts = append(pts, pairs[i])
	}

	p := newFigure("Read length vs mean quality", "read length (log10 bases)", "mean quality (Phred)")
	s, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, fmt.Errorf("failed to build scatter: %w", err)
	}
	s.GlyphStyle.Color = pointColor
	s.GlyphStyle.Radius = vg.Points(1.5)
	p.Add(s)
	return p, nil
}

// lengthQualityPairs pairs each read's log10 length with that same
// read's mean quality. Zero-length reads are skipped per read, so the
// filter never shifts a quality onto a neighbouring read.
func lengthQualityPairs(lengths []int, quals []float64) plotter.XYs {
	pairs := make(plotter.XYs, 0, len(lengths))
	for i, n := range lengths {
		if n <= 0 {
			continue
		}
		pairs = append(pairs, plotter.XY{X: math.Log10(float64(n)), Y: quals[i]})
	}
	return pairs
}

// buildYield draws cumulative sequenced bases (Gb) over run hours.
// Requires timing information (sequencing summary offsets or Nanopore
// FASTQ start_time attributes).
func buildYield(c *stats.Collector) (*gplot.Plot, error) {
	offsets, lengths, ok := c.StartOffsets()
	if !ok {
		return nil, ErrNoData
	}

	pts := make(plotter.XYs, len(offsets))
	var cum float64
	for i, off := range offsets {
		cum += float64(lengths[i])
		pts[i] = plotter.XY{X: off / 3600, Y: cum / 1e9}
	}

	p := newFigure("Cumulative yield", "run time (hours)", "yield (Gb)")
	l, err := plotter.NewLine(pts)
	if err != nil {
		return nil, fmt.Errorf("failed to build yield line: %w", err)
	}
	l.LineStyle.Color = lineColor
	l.LineStyle.Width = vg.Points(1.5)
	p.Add(l)
	return p, nil
}

// buildChannels draws the number of reads per flow-cell channel.
// Requires channel information (sequencing summaries or Nanopore FASTQ
// ch attributes).
func buildChannels(c *stats.Collector) (*gplot.Plot, error) {
	counts := c.ChannelCounts()
	if len(counts) == 0 {
		return nil, ErrNoData
	}

	maxCh := 0
	for ch := range counts {
		if ch > maxCh {
			maxCh = ch
		}
	}
	values := make(plotter.Values, maxCh)
	for ch, n := range counts {
		values[ch-1] = float64(n)
	}

	p := newFigure("Reads per channel", "channel", "reads")
	bars, err := plotter.NewBarChart(values, vg.Points(1))
	if err != nil {
		return nil, fmt.Errorf("failed to build channel bars: %w", err)
	}
	bars.LineStyle.Width = 0
	bars.Color = fillColor
	p.Add(bars)
	return p, nil
}
