package testutil

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
)

// FastqRead describes one synthetic FASTQ record for test fixtures.
type FastqRead struct {
	ID      string
	Length  int
	Quality byte // Phred value, uniform across the read
	Channel int
	Start   string // RFC3339, empty to omit
}

// fastqBytes renders reads as FASTQ text.
func fastqBytes(reads []FastqRead) []byte {
	var buf bytes.Buffer
	for _, r := range reads {
		header := "@" + r.ID
		if r.Channel > 0 {
			header += fmt.Sprintf(" ch=%d", r.Channel)
		}
		if r.Start != "" {
			header += " start_time=" + r.Start
		}
		buf.WriteString(header + "\n")
		buf.WriteString(strings.Repeat("A", r.Length) + "\n")
		buf.WriteString("+\n")
		buf.WriteString(strings.Repeat(string(rune(r.Quality+'!')), r.Length) + "\n")
	}
	return buf.Bytes()
}

// WriteFastq writes a synthetic FASTQ file and returns its path.
// Names ending in .gz are gzip-compressed.
func WriteFastq(t *testing.T, dir, name string, reads ...FastqRead) string {
	t.Helper()

	data := fastqBytes(reads)
	if strings.HasSuffix(name, ".gz") {
		var buf bytes.Buffer
		gz := gzip.NewWriter(&buf)
		if _, err := gz.Write(data); err != nil {
			t.Fatalf("failed to compress fixture: %v", err)
		}
		if err := gz.Close(); err != nil {
			t.Fatalf("failed to close gzip writer: %v", err)
		}
		data = buf.Bytes()
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("failed to write fixture %s: %v", name, err)
	}
	return path
}

// SummaryRow describes one row of a synthetic sequencing summary.
type SummaryRow struct {
	ID      string
	Length  int
	MeanQ   float64
	Channel int
	Start   float64
	Passes  bool
}

// WriteSummary writes a synthetic sequencing_summary file and returns
// its path.
func WriteSummary(t *testing.T, dir, name string, rows ...SummaryRow) string {
	t.Helper()

	var buf bytes.Buffer
	buf.WriteString("read_id\tchannel\tstart_time\tpasses_filtering\tsequence_length_template\tmean_qscore_template\n")
	for _, r := range rows {
		passes := "FALSE"
		if r.Passes {
			passes = "TRUE"
		}
		fmt.Fprintf(&buf, "%s\t%d\t%g\t%s\t%d\t%g\n", r.ID, r.Channel, r.Start, passes, r.Length, r.MeanQ)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatalf("failed to write fixture %s: %v", name, err)
	}
	return path
}
