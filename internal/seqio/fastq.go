package seqio

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// FastqReader streams reads from a FASTQ stream. Nanopore basecallers
// annotate the header line with key=value attributes (ch, start_time);
// those are picked up when present.
type FastqReader struct {
	path   string
	br     *bufio.Reader
	closer io.Closer
	line   int
}

// NewFastqReader wraps r as a FASTQ metrics stream. The path is used for
// positioned error messages only.
func NewFastqReader(path string, r io.Reader, closer io.Closer) *FastqReader {
	return &FastqReader{
		path:   path,
		br:     bufio.NewReaderSize(r, 1<<20),
		closer: closer,
	}
}

// Next returns the metrics of the next read, or io.EOF after the last one.
func (f *FastqReader) Next() (ReadMetrics, error) {
	header, err := f.readLine()
	// Blank lines between records or at the end of the file are not
	// part of any record; skip them like the summary reader does.
	for err == nil && len(header) == 0 {
		header, err = f.readLine()
	}
	if err != nil {
		if err == io.EOF {
			return ReadMetrics{}, io.EOF
		}
		return ReadMetrics{}, err
	}
	if header[0] != '@' {
		return ReadMetrics{}, f.errorf("expected FASTQ header starting with '@', got %q", truncate(header))
	}

	seq, err := f.requireLine("sequence")
	if err != nil {
		return ReadMetrics{}, err
	}

	plus, err := f.requireLine("separator")
	if err != nil {
		return ReadMetrics{}, err
	}
	if len(plus) == 0 || plus[0] != '+' {
		return ReadMetrics{}, f.errorf("expected '+' separator, got %q", truncate(plus))
	}

	qual, err := f.requireLine("quality")
	if err != nil {
		return ReadMetrics{}, err
	}
	if len(qual) != len(seq) {
		return ReadMetrics{}, f.errorf("quality length %d does not match sequence length %d", len(qual), len(seq))
	}

	meanQ, err := MeanQuality([]byte(qual))
	if err != nil {
		return ReadMetrics{}, f.errorf("%v", err)
	}

	m := ReadMetrics{
		Length:          len(seq),
		MeanQ:           meanQ,
		StartOffset:     -1,
		PassesFiltering: true,
	}
	parseFastqHeader(header, &m)
	return m, nil
}

// Close closes the underlying file, if any.
func (f *FastqReader) Close() error {
	if f.closer != nil {
		return f.closer.Close()
	}
	return nil
}

// readLine returns the next line without its terminator, tolerating CRLF.
func (f *FastqReader) readLine() (string, error) {
	line, err := f.br.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("%s:%d: %w", f.path, f.line+1, err)
	}
	if line == "" && err == io.EOF {
		return "", io.EOF
	}
	f.line++
	return strings.TrimRight(line, "\r\n"), nil
}

// requireLine reads a line that must exist inside a record.
func (f *FastqReader) requireLine(what string) (string, error) {
	line, err := f.readLine()
	if err == io.EOF {
		return "", f.errorf("truncated record: missing %s line", what)
	}
	return line, err
}

func (f *FastqReader) errorf(format string, args ...any) error {
	return fmt.Errorf("%s:%d: %s", f.path, f.line, fmt.Sprintf(format, args...))
}

// parseFastqHeader extracts the read ID and any Nanopore key=value
// attributes from a FASTQ header line.
func parseFastqHeader(header string, m *ReadMetrics) {
	fields := strings.Fields(header[1:])
	if len(fields) == 0 {
		return
	}
	m.ID = fields[0]
	for _, field := range fields[1:] {
		key, value, ok := strings.Cut(field, "=")
		if !ok {
			continue
		}
		switch key {
		case "ch", "channel":
			if ch, err := strconv.Atoi(value); err == nil {
				m.Channel = ch
			}
		case "start_time":
			if t, err := time.Parse(time.RFC3339, value); err == nil {
				m.StartTime = t
			}
		}
	}
}

func truncate(s string) string {
	const max = 40
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
