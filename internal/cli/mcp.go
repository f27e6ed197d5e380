package cli

import (
	"github.com/spf13/cobra"

	"github.com/akorchak/privascope/internal/mcp"
)

var mcpConfig string

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().StringVar(&mcpConfig, "config", "", "Path to service config YAML")
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the MCP tool server over stdio",
	Long:  "Exposes analysis, preference schema, and rule listing as MCP tools\nover stdin/stdout for agent hosts.",
	RunE: func(cmd *cobra.Command, args []string) error {
		srv, err := mcp.New(mcp.Config{ConfigPath: mcpConfig})
		if err != nil {
			return err
		}
		return srv.Run(cmd.Context())
	},
}
