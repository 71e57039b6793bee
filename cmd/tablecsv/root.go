package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "tablecsv",
	Short:        "tablecsv",
	SilenceUsage: true,
	Long:         `CLI for reading delimited files with tablecsv's streaming, type-inferring reader.`,
}

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(readCmd)
}
