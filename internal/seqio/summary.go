package seqio

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// SummaryReader streams reads from an Oxford Nanopore sequencing_summary
// file (tab-separated, one header row). Columns are located by name so
// basecaller versions with different column orders all work.
type SummaryReader struct {
	path   string
	br     *bufio.Reader
	closer io.Closer
	line   int
	cols   summaryColumns
}

// summaryColumns holds the index of each column of interest, -1 when the
// file does not carry it.
type summaryColumns struct {
	readID  int
	channel int
	start   int
	length  int
	meanQ   int
	passes  int
}

// NewSummaryReader wraps r as a sequencing-summary metrics stream, reading
// and validating the header row immediately.
func NewSummaryReader(path string, r io.Reader, closer io.Closer) (*SummaryReader, error) {
	s := &SummaryReader{
		path:   path,
		br:     bufio.NewReaderSize(r, 1<<16),
		closer: closer,
	}
	if err := s.parseHeader(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SummaryReader) parseHeader() error {
	header, err := s.readLine()
	if err == io.EOF {
		return fmt.Errorf("%s: empty sequencing summary", s.path)
	}
	if err != nil {
		return err
	}

	cols := summaryColumns{readID: -1, channel: -1, start: -1, length: -1, meanQ: -1, passes: -1}
	for i, name := range strings.Split(header, "\t") {
		switch strings.TrimSpace(name) {
		case "read_id":
			cols.readID = i
		case "channel":
			cols.channel = i
		case "start_time":
			cols.start = i
		case "sequence_length_template":
			cols.length = i
		case "mean_qscore_template":
			cols.meanQ = i
		case "passes_filtering":
			cols.passes = i
		}
	}
	if cols.length == -1 || cols.meanQ == -1 {
		return fmt.Errorf("%s: not a sequencing summary: missing sequence_length_template or mean_qscore_template column", s.path)
	}
	s.cols = cols
	return nil
}

// Next returns the metrics of the next row, or io.EOF after the last one.
func (s *SummaryReader) Next() (ReadMetrics, error) {
	line, err := s.readLine()
	if err != nil {
		return ReadMetrics{}, err
	}
	// Tolerate a trailing blank line.
	if strings.TrimSpace(line) == "" {
		return s.Next()
	}

	fields := strings.Split(line, "\t")
	m := ReadMetrics{StartOffset: -1, PassesFiltering: true}

	if v, ok := s.field(fields, s.cols.readID); ok {
		m.ID = v
	}
	v, ok := s.field(fields, s.cols.length)
	if !ok {
		return ReadMetrics{}, s.errorf("missing sequence_length_template value")
	}
	if m.Length, err = strconv.Atoi(v); err != nil {
		return ReadMetrics{}, s.errorf("bad read length %q", v)
	}
	v, ok = s.field(fields, s.cols.meanQ)
	if !ok {
		return ReadMetrics{}, s.errorf("missing mean_qscore_template value")
	}
	if m.MeanQ, err = strconv.ParseFloat(v, 64); err != nil {
		return ReadMetrics{}, s.errorf("bad mean qscore %q", v)
	}
	if v, ok := s.field(fields, s.cols.channel); ok {
		if ch, err := strconv.Atoi(v); err == nil {
			m.Channel = ch
		}
	}
	if v, ok := s.field(fields, s.cols.start); ok {
		if off, err := strconv.ParseFloat(v, 64); err == nil {
			m.StartOffset = off
		}
	}
	if v, ok := s.field(fields, s.cols.passes); ok {
		m.PassesFiltering = strings.EqualFold(v, "TRUE") || v == "1"
	}
	return m, nil
}

// Close closes the underlying file, if any.
func (s *SummaryReader) Close() error {
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}

func (s *SummaryReader) field(fields []string, idx int) (string, bool) {
	if idx < 0 || idx >= len(fields) {
		return "", false
	}
	return strings.TrimSpace(fields[idx]), true
}

func (s *SummaryReader) readLine() (string, error) {
	line, err := s.br.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("%s:%d: %w", s.path, s.line+1, err)
	}
	if line == "" && err == io.EOF {
		return "", io.EOF
	}
	s.line++
	return strings.TrimRight(line, "\r\n"), nil
}

func (s *SummaryReader) errorf(format string, args ...any) error {
	return fmt.Errorf("%s:%d: %s", s.path, s.line, fmt.Sprintf(format, args...))
}
