package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "privascope",
	Short: "Transparent trust scoring for privacy policies",
	Long:  "Scores privacy-policy text per category by fusing deterministic pattern\ndetection, semantic judgments, and sentence evidence, then checks the result\nagainst the user's stated privacy preferences.",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
