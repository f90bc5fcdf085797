package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		_ = os.Chdir(old)
		ResetConfig()
	})
}

func TestLoadConfig_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultOutDir, cfg.OutDir)
	assert.Equal(t, DefaultFormat, cfg.Format)
	assert.Equal(t, DefaultInputFormat, cfg.InputFormat)
	assert.Equal(t, DefaultOutput, cfg.OutputFormat)
	assert.Equal(t, DefaultServePort, cfg.Serve.Port)
	assert.Empty(t, cfg.Plots)
	assert.Zero(t, cfg.MinLength)
	assert.Empty(t, GetConfigFileUsed())
}

func TestLoadConfig_File(t *testing.T) {
	dir := t.TempDir()
	yaml := `out_dir: figures
format: svg
plots:
  - read_lengths
  - yield
min_length: 500
serve:
  port: 9000
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lrplot.yaml"), []byte(yaml), 0644))
	chdir(t, dir)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, "figures", cfg.OutDir)
	assert.Equal(t, "svg", cfg.Format)
	assert.Equal(t, []string{"read_lengths", "yield"}, cfg.Plots)
	assert.Equal(t, 500, cfg.MinLength)
	assert.Equal(t, 9000, cfg.Serve.Port)
	assert.Equal(t, "lrplot.yaml", GetConfigFileUsed())
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lrplot.yaml"), []byte("format: svg\n"), 0644))
	chdir(t, dir)

	t.Setenv("LRPLOT_FORMAT", "pdf")
	t.Setenv("LRPLOT_MIN_LENGTH", "250")

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, "pdf", cfg.Format)
	assert.Equal(t, 250, cfg.MinLength)
}

func TestLoadConfig_FlagsOverrideEverything(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lrplot.yaml"), []byte("format: svg\n"), 0644))
	chdir(t, dir)
	t.Setenv("LRPLOT_FORMAT", "pdf")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("format", "", "")
	flags.String("out-dir", "", "")
	require.NoError(t, flags.Parse([]string{"--format=png", "--out-dir=elsewhere"}))

	cfg, err := LoadConfig("", flags)
	require.NoError(t, err)
	assert.Equal(t, "png", cfg.Format)
	assert.Equal(t, "elsewhere", cfg.OutDir)
}

func TestLoadConfig_UnchangedFlagsDoNotOverride(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lrplot.yaml"), []byte("format: svg\n"), 0644))
	chdir(t, dir)

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("format", "png", "")
	require.NoError(t, flags.Parse(nil))

	cfg, err := LoadConfig("", flags)
	require.NoError(t, err)
	// The flag default must not clobber the file value.
	assert.Equal(t, "svg", cfg.Format)
}

func TestLoadConfig_ExplicitFileMissing(t *testing.T) {
	chdir(t, t.TempDir())
	_, err := LoadConfig("does-not-exist.yaml", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does-not-exist.yaml")
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			OutDir:       DefaultOutDir,
			Format:       DefaultFormat,
			InputFormat:  DefaultInputFormat,
			OutputFormat: DefaultOutput,
			Serve:        ServeConfig{Port: DefaultServePort},
		}
	}

	tests := []struct {
		name      string
		mutate    func(*Config)
		errSubstr string
	}{
		{"valid", func(*Config) {}, ""},
		{"bad format", func(c *Config) { c.Format = "jpeg" }, "invalid format"},
		{"bad output", func(c *Config) { c.OutputFormat = "xml" }, "invalid output"},
		{"bad input format", func(c *Config) { c.InputFormat = "bam" }, "invalid input_format"},
		{"unknown plot", func(c *Config) { c.Plots = []string{"pie"} }, "unknown plot"},
		{"negative min length", func(c *Config) { c.MinLength = -1 }, "min_length"},
		{"negative min qscore", func(c *Config) { c.MinQScore = -0.5 }, "min_qscore"},
		{"negative workers", func(c *Config) { c.Workers = -2 }, "workers"},
		{"bad port", func(c *Config) { c.Serve.Port = 70000 }, "serve.port"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.errSubstr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errSubstr)
			}
		})
	}
}

func TestValidate_ErrorMentionsConfigFile(t *testing.T) {
	cfg := &Config{Format: "bmp", OutputFormat: "auto", InputFormat: "auto"}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lrplot.yaml")
}
