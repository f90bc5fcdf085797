package seqio

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// Format identifies the kind of sequencing data in a file.
type Format string

const (
	// FormatAuto selects the format from the file name.
	FormatAuto Format = "auto"
	// FormatFastq is FASTQ, optionally gzip-compressed.
	FormatFastq Format = "fastq"
	// FormatSummary is an Oxford Nanopore sequencing_summary TSV,
	// optionally gzip-compressed.
	FormatSummary Format = "summary"
	// FormatUnknown means the file name matches no known format.
	FormatUnknown Format = "unknown"
)

// DetectFormat determines the format of a sequencing file from its name.
func DetectFormat(path string) Format {
	name := strings.ToLower(filepath.Base(path))
	name = strings.TrimSuffix(name, ".gz")
	switch {
	case strings.HasSuffix(name, ".fastq"), strings.HasSuffix(name, ".fq"):
		return FormatFastq
	case strings.HasSuffix(name, ".txt") && strings.Contains(name, "sequencing_summary"),
		strings.HasSuffix(name, ".tsv") && strings.Contains(name, "summary"):
		return FormatSummary
	default:
		return FormatUnknown
	}
}

// Open opens a sequencing file as a metrics stream, transparently
// decompressing gzip. With FormatAuto the format is detected from the
// file name.
func Open(path string, format Format) (Reader, error) {
	if format == FormatAuto || format == "" {
		format = DetectFormat(path)
	}
	if format == FormatUnknown {
		return nil, fmt.Errorf("cannot determine format of %s (expected .fastq, .fq, optionally .gz, or a sequencing_summary file)", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}

	var r io.Reader = f
	closer := multiCloser{f}
	if strings.HasSuffix(strings.ToLower(path), ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("failed to open gzip stream %s: %w", path, err)
		}
		r = gz
		closer = multiCloser{gz, f}
	}

	switch format {
	case FormatFastq:
		return NewFastqReader(path, r, closer), nil
	case FormatSummary:
		sr, err := NewSummaryReader(path, r, closer)
		if err != nil {
			_ = closer.Close()
			return nil, err
		}
		return sr, nil
	default:
		_ = closer.Close()
		return nil, fmt.Errorf("unsupported format %q for %s", format, path)
	}
}

// multiCloser closes a decompressor before its underlying file.
type multiCloser []io.Closer

func (m multiCloser) Close() error {
	var firstErr error
	for _, c := range m {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
