// Package output renders command results in the configured format
// (terminal table, JSON, CSV, markdown) with consistent styling.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/ahcm/longread-plots/internal/stats"
)

// Mode selects the output format.
type Mode string

const (
	// ModeAuto picks text on a terminal and markdown otherwise.
	ModeAuto     Mode = "auto"
	ModeText     Mode = "text"
	ModeJSON     Mode = "json"
	ModeCSV      Mode = "csv"
	ModeMarkdown Mode = "markdown"
)

// Styles holds the lipgloss styles for status lines.
type Styles struct {
	Success lipgloss.Style
	Error   lipgloss.Style
	Warn    lipgloss.Style
	Header  lipgloss.Style
}

// DefaultStyles returns the default style set.
func DefaultStyles() Styles {
	return Styles{
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		Warn:    lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		Header:  lipgloss.NewStyle().Bold(true),
	}
}

// Renderer writes command results.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	mode   Mode
	styles Styles
}

// NewRenderer creates a renderer. ModeAuto resolves to text when out is
// a terminal and markdown otherwise.
func NewRenderer(out, errOut io.Writer, mode Mode) *Renderer {
	return NewRendererWithTTY(out, errOut, isTerminal(out), mode)
}

// NewRendererWithTTY creates a renderer with an explicit TTY state.
// Used by tests.
func NewRendererWithTTY(out, errOut io.Writer, isTTY bool, mode Mode) *Renderer {
	if mode == "" || mode == ModeAuto {
		if isTTY {
			mode = ModeText
		} else {
			mode = ModeMarkdown
		}
	}
	return &Renderer{out: out, errOut: errOut, mode: mode, styles: DefaultStyles()}
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

// Mode returns the resolved output mode.
func (r *Renderer) Mode() Mode {
	return r.mode
}

// Successf writes a styled status line to stderr so it never pollutes
// machine-readable output on stdout.
func (r *Renderer) Successf(format string, args ...any) {
	_, _ = fmt.Fprintln(r.errOut, r.styles.Success.Render(fmt.Sprintf(format, args...)))
}

// Warnf writes a styled warning line to stderr.
func (r *Renderer) Warnf(format string, args ...any) {
	_, _ = fmt.Fprintln(r.errOut, r.styles.Warn.Render(fmt.Sprintf(format, args...)))
}

// summaryRows returns the summary as ordered label/value pairs.
func summaryRows(s stats.Summary) []table.Row {
	rows := []table.Row{
		{"reads", s.Reads},
		{"total bases", s.TotalBases},
		{"min length", s.MinLength},
		{"length q10", s.LengthQ10},
		{"mean length", fmt.Sprintf("%.1f", s.MeanLength)},
		{"median length", s.MedianLength},
		{"length q90", s.LengthQ90},
		{"max length", s.MaxLength},
		{"N50", s.N50},
		{"mean qscore", fmt.Sprintf("%.2f", s.MeanQ)},
		{"median qscore", fmt.Sprintf("%.2f", s.MedianQ)},
	}
	for _, b := range s.QBins {
		rows = append(rows, table.Row{fmt.Sprintf(">= Q%g reads", b.MinQ), b.Reads})
	}
	return append(rows,
		table.Row{"passed filtering", s.Passed},
		table.Row{"failed filtering", s.Failed},
	)
}

// Summary renders one named QC summary.
func (r *Renderer) Summary(name string, s stats.Summary) error {
	if r.mode == ModeJSON {
		enc := json.NewEncoder(r.out)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{"input": name, "summary": s})
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.AppendHeader(table.Row{"metric", name})
	t.AppendRows(summaryRows(s))

	switch r.mode {
	case ModeCSV:
		t.RenderCSV()
	case ModeMarkdown:
		t.RenderMarkdown()
	default:
		t.SetStyle(table.StyleLight)
		t.Render()
	}
	return nil
}
