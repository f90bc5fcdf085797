// Package config provides layered configuration for the lrplot CLI:
// defaults, lrplot.yaml, LRPLOT_* environment variables, and flags, in
// ascending precedence.
package config

// Config holds all CLI configuration options.
type Config struct {
	// OutDir is where rendered figures are written.
	OutDir string `koanf:"out_dir"`
	// Format is the figure file format (png, svg, pdf).
	Format string `koanf:"format"`
	// Plots selects figures by name; empty means the full collection.
	Plots []string `koanf:"plots"`
	// MinLength drops reads shorter than this many bases.
	MinLength int `koanf:"min_length"`
	// MinQScore drops reads with a mean quality below this.
	MinQScore float64 `koanf:"min_qscore"`
	// Workers bounds concurrent file parsing; 0 means one per CPU.
	Workers int `koanf:"workers"`
	// InputFormat forces the input format (auto, fastq, summary).
	InputFormat string `koanf:"input_format"`
	// Verbose enables debug logging.
	Verbose bool `koanf:"verbose"`
	// OutputFormat selects stats rendering (auto, text, json, csv, markdown).
	OutputFormat string `koanf:"output"`
	// Serve configures the gallery server.
	Serve ServeConfig `koanf:"serve"`
}

// ServeConfig holds gallery server options.
type ServeConfig struct {
	Port int `koanf:"port"`
}

// Default configuration values.
const (
	DefaultOutDir      = "plots"
	DefaultFormat      = "png"
	DefaultInputFormat = "auto"
	DefaultOutput      = "auto" // auto-detect: TTY=text, non-TTY=markdown
	DefaultServePort   = 8787
)
