package stats

import "math"

// Histogram is a binned distribution. Edges has one more element than
// Counts; bin i covers [Edges[i], Edges[i+1]), the last bin inclusive.
type Histogram struct {
	Edges  []float64
	Counts []int
}

// NewHistogram bins values into the given number of equal-width bins.
func NewHistogram(values []float64, bins int) Histogram {
	if len(values) == 0 || bins <= 0 {
		return Histogram{}
	}

	lo, hi := values[0], values[0]
	for _, v := range values {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if lo == hi {
		// All values identical: a single bin around the value.
		return Histogram{Edges: []float64{lo, lo + 1}, Counts: []int{len(values)}}
	}

	h := Histogram{
		Edges:  make([]float64, bins+1),
		Counts: make([]int, bins),
	}
	width := (hi - lo) / float64(bins)
	for i := range h.Edges {
		h.Edges[i] = lo + width*float64(i)
	}
	for _, v := range values {
		idx := int((v - lo) / width)
		if idx >= bins {
			idx = bins - 1
		}
		h.Counts[idx]++
	}
	return h
}

// NewLogHistogram bins positive values into bins equally spaced in
// log10. Non-positive values are dropped.
func NewLogHistogram(values []float64, bins int) Histogram {
	logs := make([]float64, 0, len(values))
	for _, v := range values {
		if v > 0 {
			logs = append(logs, math.Log10(v))
		}
	}
	return NewHistogram(logs, bins)
}

// Log10Lengths converts read lengths to log10 for length-scale plots,
// dropping zero-length reads.
func Log10Lengths(lengths []int) []float64 {
	out := make([]float64, 0, len(lengths))
	for _, n := range lengths {
		if n > 0 {
			out = append(out, math.Log10(float64(n)))
		}
	}
	return out
}
