// SPDX-License-Identifier: EPL-2.0

package commands

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ik5/ldsp/config"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "ldsp",
	Short: "Low-latency duplex audio harness",
	Long: `ldsp opens duplex or output-only audio streams and drives a sketch
once per audio block.

Configuration is read from a YAML file given with -f. Flags override the
file.`,
	SilenceUsage: true,
}

// Command returns the root cobra command.
func Command() *cobra.Command {
	return rootCmd
}

// Execute runs the command line.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "f", "", "YAML configuration file")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(devicesCmd)
	rootCmd.AddCommand(sketchesCmd)
}

// loadConfig reads cfgFile, or returns the defaults when none is given.
func loadConfig() (*config.Config, error) {
	if cfgFile == "" {
		return config.Default(), nil
	}
	return config.Load(cfgFile)
}

func newLogger(level config.LogLevel) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level.Level()}))
}
