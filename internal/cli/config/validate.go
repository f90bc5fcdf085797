package config

import (
	"fmt"

	"github.com/ahcm/longread-plots/internal/plot"
)

var (
	validFormats      = []string{"png", "svg", "pdf"}
	validOutputs      = []string{"auto", "text", "json", "csv", "markdown"}
	validInputFormats = []string{"auto", "fastq", "summary"}
)

// Validate checks the config for values no command could act on.
// Error messages name lrplot.yaml since that is where stale values
// usually live.
func (c *Config) Validate() error {
	if !contains(validFormats, c.Format) {
		return fmt.Errorf("invalid format %q (valid: %v); check lrplot.yaml or --format", c.Format, validFormats)
	}
	if !contains(validOutputs, c.OutputFormat) {
		return fmt.Errorf("invalid output %q (valid: %v); check lrplot.yaml or --output", c.OutputFormat, validOutputs)
	}
	if !contains(validInputFormats, c.InputFormat) {
		return fmt.Errorf("invalid input_format %q (valid: %v); check lrplot.yaml or --input-format", c.InputFormat, validInputFormats)
	}
	for _, name := range c.Plots {
		if _, ok := plot.Lookup(name); !ok {
			return fmt.Errorf("unknown plot %q in configuration (available: %v); check lrplot.yaml or --plots", name, plot.Names())
		}
	}
	if c.MinLength < 0 {
		return fmt.Errorf("min_length must not be negative, got %d", c.MinLength)
	}
	if c.MinQScore < 0 {
		return fmt.Errorf("min_qscore must not be negative, got %g", c.MinQScore)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if c.Serve.Port < 0 || c.Serve.Port > 65535 {
		return fmt.Errorf("serve.port must be a valid TCP port, got %d", c.Serve.Port)
	}
	return nil
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
