// Package cmd implements the clumpsim command-line interface.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var logLevel string // Log verbosity level

var rootCmd = &cobra.Command{
	Use:   "clumpsim",
	Short: "Trace-driven block prefetch simulator",
}

// Execute runs the CLI root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(compareCmd)
}
