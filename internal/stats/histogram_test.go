package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHistogram(t *testing.T) {
	h := NewHistogram([]float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 5)
	require.Len(t, h.Edges, 6)
	require.Len(t, h.Counts, 5)

	assert.Equal(t, 0.0, h.Edges[0])
	assert.Equal(t, 10.0, h.Edges[5])
	// 11 values, upper edge inclusive in the last bin.
	assert.Equal(t, []int{2, 2, 2, 2, 3}, h.Counts)

	total := 0
	for _, c := range h.Counts {
		total += c
	}
	assert.Equal(t, 11, total)
}

func TestNewHistogram_Degenerate(t *testing.T) {
	assert.Empty(t, NewHistogram(nil, 10).Counts)
	assert.Empty(t, NewHistogram([]float64{1, 2}, 0).Counts)

	// All-identical values collapse to one bin.
	h := NewHistogram([]float64{7, 7, 7}, 10)
	require.Len(t, h.Counts, 1)
	assert.Equal(t, 3, h.Counts[0])
}

func TestNewLogHistogram(t *testing.T) {
	// 10^1 .. 10^5: log10 range [1,5].
	h := NewLogHistogram([]float64{10, 100, 1000, 10000, 100000}, 4)
	require.Len(t, h.Counts, 4)
	assert.InDelta(t, 1.0, h.Edges[0], 1e-9)
	assert.InDelta(t, 5.0, h.Edges[4], 1e-9)
	assert.Equal(t, []int{1, 1, 1, 2}, h.Counts)
}

func TestNewLogHistogram_DropsNonPositive(t *testing.T) {
	h := NewLogHistogram([]float64{0, -5, 10, 100}, 2)
	total := 0
	for _, c := range h.Counts {
		total += c
	}
	assert.Equal(t, 2, total)
}

func TestLog10Lengths(t *testing.T) {
	out := Log10Lengths([]int{1, 10, 100, 0})
	require.Len(t, out, 3)
	assert.InDelta(t, 0.0, out[0], 1e-9)
	assert.InDelta(t, 1.0, out[1], 1e-9)
	assert.InDelta(t, 2.0, out[2], 1e-9)
}
