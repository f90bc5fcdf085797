// Package seqio reads long-read sequencing data from FASTQ files and
// Oxford Nanopore sequencing summaries, reducing each read to the
// per-read metrics the plotting and statistics layers consume.
package seqio

import (
	"fmt"
	"math"
	"time"
)

// ReadMetrics holds the per-read values extracted from a sequencing file.
type ReadMetrics struct {
	// ID is the read identifier.
	ID string
	// Length is the read length in bases.
	Length int
	// MeanQ is the mean read quality on the Phred scale, computed from
	// the mean of the per-base error probabilities (not the arithmetic
	// mean of the per-base Q values).
	MeanQ float64
	// Channel is the flow-cell channel the read came from, 0 when unknown.
	Channel int
	// StartTime is the read's absolute start timestamp when the source
	// provides one (FASTQ header attributes). Zero when unknown.
	StartTime time.Time
	// StartOffset is the read's start in seconds since the beginning of
	// the run when the source provides offsets (sequencing summaries).
	// Negative when unknown.
	StartOffset float64
	// PassesFiltering reports whether the basecaller kept the read.
	// Sources without a pass/fail column report true.
	PassesFiltering bool
}

// Reader streams per-read metrics from a sequencing data file.
// Next returns io.EOF after the last record.
type Reader interface {
	Next() (ReadMetrics, error)
	Close() error
}

// MeanQuality converts Phred+33 encoded per-base qualities to a single
// Phred-scaled mean quality. The per-base error probabilities are
// averaged first, then converted back to the Phred scale, which is how
// basecallers report mean_qscore. Bytes outside the printable Phred+33
// range ('!' to '~') are rejected.
func MeanQuality(qual []byte) (float64, error) {
	if len(qual) == 0 {
		return 0, nil
	}
	var sum float64
	for i, q := range qual {
		if q < '!' || q > '~' {
			return 0, fmt.Errorf("invalid quality character %q at position %d", q, i+1)
		}
		sum += math.Pow(10, -float64(q-'!')/10)
	}
	return -10 * math.Log10(sum/float64(len(qual))), nil
}
