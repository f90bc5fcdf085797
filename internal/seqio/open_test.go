package seqio

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"reads.fastq", FormatFastq},
		{"reads.fq", FormatFastq},
		{"reads.fastq.gz", FormatFastq},
		{"READS.FASTQ.GZ", FormatFastq},
		{"run1/sequencing_summary.txt", FormatSummary},
		{"sequencing_summary_FAL12345.txt.gz", FormatSummary},
		{"run_summary.tsv", FormatSummary},
		{"reads.fasta", FormatUnknown},
		{"notes.txt", FormatUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectFormat(tt.path))
		})
	}
}

func TestOpen_PlainFastq(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "reads.fastq")
	require.NoError(t, os.WriteFile(path, []byte("@r1\nACGT\n+\nIIII\n"), 0644))

	r, err := Open(path, FormatAuto)
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	m, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "r1", m.ID)
	assert.Equal(t, 4, m.Length)

	_, err = r.Next()
	assert.Equal(t, io.EOF, err)
}

func TestOpen_GzipFastq(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "reads.fastq.gz")

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err := gz.Write([]byte("@r1\nACGTACGT\n+\nIIIIIIII\n"))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))

	r, err := Open(path, FormatAuto)
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	m, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, 8, m.Length)
}

func TestOpen_ExplicitFormatOverridesName(t *testing.T) {
	dir := t.TempDir()
	// FASTQ content in a file whose name gives no hint.
	path := filepath.Join(dir, "export.dat")
	require.NoError(t, os.WriteFile(path, []byte("@r1\nACGT\n+\nIIII\n"), 0644))

	_, err := Open(path, FormatAuto)
	require.Error(t, err)

	r, err := Open(path, FormatFastq)
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	m, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "r1", m.ID)
}

func TestOpen_MissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.fastq"), FormatAuto)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open")
}
