package cli

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/akorchak/privascope/internal/audit"
)

var auditTailCount int

func init() {
	auditCmd.AddCommand(auditVerifyCmd)
	auditCmd.AddCommand(auditTailCmd)
	auditTailCmd.Flags().IntVarP(&auditTailCount, "count", "n", 10, "Number of entries to show")
	rootCmd.AddCommand(auditCmd)
}

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Inspect the analysis audit log",
}

var auditVerifyCmd = &cobra.Command{
	Use:   "verify <log-file>",
	Short: "Verify the audit log hash chain",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result := audit.Verify(args[0])
		if !result.Valid {
			if result.ErrorLine > 0 {
				return fmt.Errorf("audit chain broken at line %d: %s", result.ErrorLine, result.Error)
			}
			return fmt.Errorf("audit verification failed: %s", result.Error)
		}
		fmt.Printf("audit chain intact: %d entries\n", result.Lines)
		return nil
	},
}

var auditTailCmd = &cobra.Command{
	Use:   "tail <log-file>",
	Short: "Show the most recent audit entries",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		var lines []string
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
			if len(lines) > auditTailCount {
				lines = lines[1:]
			}
		}
		if err := scanner.Err(); err != nil {
			return err
		}

		for _, line := range lines {
			fmt.Println(line)
		}
		return nil
	},
}
