// Package main provides the lrplot CLI, a plot collection for long-read
// sequencing QC data.
package main

import (
	"os"

	"github.com/ahcm/longread-plots/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
