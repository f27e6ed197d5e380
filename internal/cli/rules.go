package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/akorchak/privascope/internal/heuristics"
	"github.com/akorchak/privascope/internal/server"
)

var rulesConfig string

func init() {
	rootCmd.AddCommand(rulesCmd)
	rulesCmd.Flags().StringVar(&rulesConfig, "config", "", "Path to service config YAML")
}

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the effective pattern rules",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := server.LoadConfig(rulesConfig)
		if err != nil {
			return err
		}
		rcfg, err := heuristics.LoadConfig(cfg.RulesPath)
		if err != nil {
			return err
		}
		set, err := heuristics.Build(rcfg)
		if err != nil {
			return err
		}
		for _, rule := range set.Rules() {
			fmt.Printf("%-28s %-42s %+.2f  %s\n", rule.ID, rule.Category, rule.Delta, rule.Flag)
		}
		return nil
	},
}
