package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahcm/longread-plots/internal/cli/config"
	"github.com/ahcm/longread-plots/internal/stats"
	"github.com/ahcm/longread-plots/internal/testutil"
)

// execute runs the root command with args from a temporary working
// directory and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() {
		_ = os.Chdir(old)
		config.ResetConfig()
	})

	cmd := NewRootCmd()
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	execErr := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), execErr
}

func TestVersionIsSemver(t *testing.T) {
	assert.Regexp(t, regexp.MustCompile(`^\d+\.\d+\.\d+$`), Version)
}

func TestRootCommand_VersionFlag(t *testing.T) {
	out, _, err := execute(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "lrplot 0.7.0")
	assert.Contains(t, out, "Plot collection for Long Read Sequencing")
}

func fixtureReads() []testutil.FastqRead {
	reads := make([]testutil.FastqRead, 0, 30)
	for i := 1; i <= 30; i++ {
		reads = append(reads, testutil.FastqRead{
			ID:      "r" + strings.Repeat("x", i%3),
			Length:  i * 137,
			Quality: byte(6 + i%12),
		})
	}
	return reads
}

func TestPlotCommand(t *testing.T) {
	dir := t.TempDir()
	input := testutil.WriteFastq(t, dir, "sample.fastq", fixtureReads()...)
	outDir := filepath.Join(dir, "figures")

	out, _, err := execute(t, "plot", "--out-dir", outDir, "--plots", "read_lengths,qscores", input)
	require.NoError(t, err)

	for _, name := range []string{"sample.read_lengths.png", "sample.qscores.png"} {
		path := filepath.Join(outDir, name)
		assert.Contains(t, out, path)
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
	}
}

func TestPlotCommand_UnknownPlot(t *testing.T) {
	dir := t.TempDir()
	input := testutil.WriteFastq(t, dir, "sample.fastq", fixtureReads()...)

	_, _, err := execute(t, "plot", "--plots", "pie", input)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown plot")
	assert.Contains(t, err.Error(), "read_lengths")
}

func TestPlotCommand_MissingInput(t *testing.T) {
	_, _, err := execute(t, "plot", "does-not-exist.fastq")
	require.Error(t, err)
}

func TestStatsCommand_JSON(t *testing.T) {
	dir := t.TempDir()
	input := testutil.WriteFastq(t, dir, "sample.fastq", fixtureReads()...)

	out, _, err := execute(t, "stats", "-o", "json", input)
	require.NoError(t, err)

	var decoded struct {
		Input   string        `json:"input"`
		Summary stats.Summary `json:"summary"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, input, decoded.Input)
	assert.Equal(t, 30, decoded.Summary.Reads)
	assert.Greater(t, decoded.Summary.N50, 0)
}

func TestStatsCommand_FiltersApply(t *testing.T) {
	dir := t.TempDir()
	input := testutil.WriteFastq(t, dir, "sample.fastq",
		testutil.FastqRead{ID: "short", Length: 50, Quality: 12},
		testutil.FastqRead{ID: "long", Length: 5000, Quality: 12},
	)

	out, _, err := execute(t, "stats", "-o", "json", "--min-length", "1000", input)
	require.NoError(t, err)

	var decoded struct {
		Summary stats.Summary `json:"summary"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, 1, decoded.Summary.Reads)
	assert.Equal(t, 5000, decoded.Summary.MinLength)
}

func TestStatsCommand_SummaryInput(t *testing.T) {
	dir := t.TempDir()
	input := testutil.WriteSummary(t, dir, "sequencing_summary.txt",
		testutil.SummaryRow{ID: "r1", Length: 1000, MeanQ: 12, Channel: 3, Start: 5, Passes: true},
		testutil.SummaryRow{ID: "r2", Length: 3000, MeanQ: 9, Channel: 4, Start: 60, Passes: false},
	)

	out, _, err := execute(t, "stats", "-o", "json", input)
	require.NoError(t, err)

	var decoded struct {
		Summary stats.Summary `json:"summary"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, 2, decoded.Summary.Reads)
	assert.Equal(t, 1, decoded.Summary.Failed)
}

func TestRootCommand_InvalidConfigValue(t *testing.T) {
	_, _, err := execute(t, "stats", "--format", "bmp", "whatever.fastq")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}
