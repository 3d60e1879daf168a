package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "testscope",
	Short: "Change-impact analysis and test selection for source diffs",
	Long: "Testscope maps a diff between two revisions onto logical features\n" +
		"and selects the minimal set of test files likely to validate them,\n" +
		"so a runner can execute a reduced suite instead of the full corpus.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.Version = version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
