package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/akorchak/privascope/internal/prefs"
)

func init() {
	rootCmd.AddCommand(prefsCmd)
}

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "List the user preference schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, p := range prefs.Schema() {
			fmt.Printf("%-24s default=%-5t %-42s %s\n", p.Key, p.Default, p.Category, p.Title)
		}
		return nil
	},
}
