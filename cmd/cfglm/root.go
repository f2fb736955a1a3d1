package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cfglm",
	Short: "Run the CFG+LM chart decoder over a rule-table fixture",
	Long: `cfglm provides two features:
- Parses a sentence against a JSON rule-table fixture with cube pruning,
  producing a translation forest.
- Prints a fixture's factor count, rule count, sentence length, and weight
  count, for debugging.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return err
	}
	return nil
}
