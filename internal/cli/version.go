package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/akorchak/privascope/internal/version"
)

func init() {
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the privascope version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("privascope", version.Version)
	},
}
