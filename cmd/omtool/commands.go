package main

import (
	"github.com/spf13/cobra"
)

// Environment variables read by the commands.
const (
	configEnv        = "OMTOOL_CONFIG"
	dataDirectoryEnv = "DATA_DIRECTORY"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "omtool",
		Short: "Tools for om encoded weather data",
		// Errors are logged once by main.
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	rootCmd.AddCommand(newBenchmarkCmd())
	return rootCmd
}
