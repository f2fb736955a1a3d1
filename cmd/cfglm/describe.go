package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:     "describe",
		Short:   "Print a fixture's factor count, rule count, sentence length, and weight count",
		Example: `  cfglm describe fixture.json`,
		Args:    cobra.ExactArgs(1),
		RunE:    runDescribe,
	}
	rootCmd.AddCommand(cmd)
}

func runDescribe(cmd *cobra.Command, args []string) error {
	f, err := loadFixture(args[0])
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "trg_factors: %d\n", f.TrgFactors)
	fmt.Fprintf(os.Stdout, "rules: %d\n", f.NumRules)
	fmt.Fprintf(os.Stdout, "sentence length: %d\n", f.Sentence.Len())
	fmt.Fprintf(os.Stdout, "weights: %d\n", len(f.Weights))

	return nil
}
