// Package commands implements the diffvec CLI commands.
package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/stemtools/diffvec"
	"github.com/stemtools/diffvec/config"
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "diffvec",
	Short: "Analysis tools for scanning electron diffraction vectors",
	Long: `diffvec - analysis tools for scanning electron diffraction data.

A vector grid file is a JSON document holding the detected peak
coordinates of every scan position:

  {"rows": 2, "cols": 2, "lists": [[[1.0, 0.0]], [], [[0.0, 1.0]], []]}

Examples:
  # Reduce a grid to its unique vectors and record the run
  diffvec reduce --config diffvec.yaml vectors.json

  # Cluster the seed position's vectors
  diffvec clusters --eps 0.05 --min-samples 2 vectors.json

  # Index magnitudes against a cubic cell
  diffvec index --config diffvec.yaml vectors.json

  # Show recorded runs
  diffvec runs --config diffvec.yaml`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to YAML configuration")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadConfig loads the configured file, or defaults when none is given.
func loadConfig() (config.Config, error) {
	if configPath == "" {
		return config.Default(), nil
	}
	return config.Load(configPath)
}

// newLogger builds the analysis logger honoring --verbose.
func newLogger() *diffvec.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return diffvec.NewTextLogger(level)
}
