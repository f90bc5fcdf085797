// Package stats accumulates per-read metrics into the summary statistics
// and series the plotting layer draws from.
package stats

import (
	"math"
	"sort"
	"time"

	"github.com/ahcm/longread-plots/internal/seqio"
)

// Collector accumulates read metrics. A collector is not safe for
// concurrent use; feed one collector per goroutine and Merge the results.
type Collector struct {
	lengths    []int
	quals      []float64
	channels   []int
	startTimes []time.Time
	offsets    []float64
	totalBases int64
	passed     int
	failed     int
}

// NewCollector returns an empty collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Add accumulates one read.
func (c *Collector) Add(m seqio.ReadMetrics) {
	c.lengths = append(c.lengths, m.Length)
	c.quals = append(c.quals, m.MeanQ)
	c.totalBases += int64(m.Length)
	if m.PassesFiltering {
		c.passed++
	} else {
		c.failed++
	}
	if m.Channel > 0 {
		c.channels = append(c.channels, m.Channel)
	}
	switch {
	case m.StartOffset >= 0:
		c.offsets = append(c.offsets, m.StartOffset)
	case !m.StartTime.IsZero():
		c.startTimes = append(c.startTimes, m.StartTime)
	}
}

// Merge folds another collector into this one.
func (c *Collector) Merge(other *Collector) {
	c.lengths = append(c.lengths, other.lengths...)
	c.quals = append(c.quals, other.quals...)
	c.channels = append(c.channels, other.channels...)
	c.startTimes = append(c.startTimes, other.startTimes...)
	c.offsets = append(c.offsets, other.offsets...)
	c.totalBases += other.totalBases
	c.passed += other.passed
	c.failed += other.failed
}

// Len returns the number of accumulated reads.
func (c *Collector) Len() int {
	return len(c.lengths)
}

// Lengths returns the accumulated read lengths in arrival order.
func (c *Collector) Lengths() []int {
	return c.lengths
}

// Qualities returns the accumulated mean read qualities in arrival order.
func (c *Collector) Qualities() []float64 {
	return c.quals
}

// ChannelCounts returns the number of reads per flow-cell channel.
// Empty when no source carried channel information.
func (c *Collector) ChannelCounts() map[int]int {
	counts := make(map[int]int, 512)
	for _, ch := range c.channels {
		counts[ch]++
	}
	return counts
}

// StartOffsets returns each read's start in seconds since the beginning
// of the run, sorted ascending, paired with the read length. Absolute
// timestamps (FASTQ headers) are converted to offsets from the earliest
// read. Returns false when no source carried timing information.
func (c *Collector) StartOffsets() (offsets []float64, lengths []int, ok bool) {
	type timed struct {
		off float64
		n   int
	}
	var points []timed

	switch {
	case len(c.offsets) > 0:
		// Offsets and lengths were appended in lockstep only when every
		// read carried an offset; recover the pairing by walking both.
		if len(c.offsets) != len(c.lengths) {
			return nil, nil, false
		}
		for i, off := range c.offsets {
			points = append(points, timed{off, c.lengths[i]})
		}
	case len(c.startTimes) > 0:
		if len(c.startTimes) != len(c.lengths) {
			return nil, nil, false
		}
		min := c.startTimes[0]
		for _, ts := range c.startTimes {
			if ts.Before(min) {
				min = ts
			}
		}
		for i, ts := range c.startTimes {
			points = append(points, timed{ts.Sub(min).Seconds(), c.lengths[i]})
		}
	default:
		return nil, nil, false
	}

	sort.Slice(points, func(i, j int) bool { return points[i].off < points[j].off })
	offsets = make([]float64, len(points))
	lengths = make([]int, len(points))
	for i, p := range points {
		offsets[i] = p.off
		lengths[i] = p.n
	}
	return offsets, lengths, true
}

// Summary holds the aggregate QC statistics of a set of reads.
type Summary struct {
	Reads        int     `json:"reads"`
	TotalBases   int64   `json:"total_bases"`
	MinLength    int     `json:"min_length"`
	MaxLength    int     `json:"max_length"`
	MeanLength   float64 `json:"mean_length"`
	MedianLength int     `json:"median_length"`
	LengthQ10    int     `json:"length_q10"`
	LengthQ90    int     `json:"length_q90"`
	N50          int     `json:"n50"`
	MeanQ        float64 `json:"mean_qscore"`
	MedianQ      float64 `json:"median_qscore"`
	QBins        []QBin  `json:"qscore_bins,omitempty"`
	Passed       int     `json:"passed"`
	Failed       int     `json:"failed"`
}

// QBin counts the reads at or above a mean quality cutoff.
type QBin struct {
	MinQ  float64 `json:"min_qscore"`
	Reads int     `json:"reads"`
}

// qBinCutoffs are the quality thresholds reads are binned against,
// matching the cutoffs Nanopore QC reports use.
var qBinCutoffs = []float64{5, 7, 10, 12, 15}

// Summarize reduces the accumulated reads to a Summary. An empty
// collector yields the zero Summary.
func (c *Collector) Summarize() Summary {
	if len(c.lengths) == 0 {
		return Summary{}
	}

	sorted := make([]int, len(c.lengths))
	copy(sorted, c.lengths)
	sort.Ints(sorted)

	s := Summary{
		Reads:        len(c.lengths),
		TotalBases:   c.totalBases,
		MinLength:    sorted[0],
		MaxLength:    sorted[len(sorted)-1],
		MeanLength:   float64(c.totalBases) / float64(len(c.lengths)),
		MedianLength: quantileInt(sorted, 0.5),
		LengthQ10:    quantileInt(sorted, 0.1),
		LengthQ90:    quantileInt(sorted, 0.9),
		N50:          n50(sorted, c.totalBases),
		Passed:       c.passed,
		Failed:       c.failed,
	}

	qs := make([]float64, len(c.quals))
	copy(qs, c.quals)
	sort.Float64s(qs)
	var qsum float64
	for _, q := range qs {
		qsum += q
	}
	s.MeanQ = qsum / float64(len(qs))
	s.MedianQ = qs[nearestRank(len(qs), 0.5)]

	// qs is sorted ascending; the first index at or above each cutoff
	// gives the bin count directly.
	for _, cutoff := range qBinCutoffs {
		idx := sort.SearchFloat64s(qs, cutoff)
		s.QBins = append(s.QBins, QBin{MinQ: cutoff, Reads: len(qs) - idx})
	}

	return s
}

// n50 returns the length L such that reads of length >= L comprise at
// least half of the total bases. Expects lengths sorted ascending.
func n50(sorted []int, totalBases int64) int {
	half := (totalBases + 1) / 2
	var acc int64
	for i := len(sorted) - 1; i >= 0; i-- {
		acc += int64(sorted[i])
		if acc >= half {
			return sorted[i]
		}
	}
	return 0
}

// quantileInt returns the nearest-rank quantile of sorted values.
func quantileInt(sorted []int, p float64) int {
	return sorted[nearestRank(len(sorted), p)]
}

func nearestRank(n int, p float64) int {
	if n == 0 {
		return 0
	}
	rank := int(math.Ceil(p*float64(n))) - 1
	if rank < 0 {
		rank = 0
	}
	if rank >= n {
		rank = n - 1
	}
	return rank
}
