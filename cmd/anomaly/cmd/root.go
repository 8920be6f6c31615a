// Package cmd implements the anomaly command line tool.
package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "anomaly",
	Short: "Score a value against a normal distribution",
	Long: `anomaly computes the z-score and tail probabilities of an observed
value X under N(mu, sigma) and can write the distribution chart as PNG.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(newAnalyzeCmd())
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
