package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/akorchak/privascope/internal/analyzer"
	"github.com/akorchak/privascope/internal/model"
	"github.com/akorchak/privascope/internal/server"
)

var (
	analyzeConfig   string
	analyzeFile     string
	analyzePrefs    []string
	analyzeSnippets bool
	analyzeTopK     int
	analyzeOverview bool
	analyzeFormat   string
)

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVar(&analyzeConfig, "config", "", "Path to service config YAML")
	analyzeCmd.Flags().StringVar(&analyzeFile, "file", "", "Policy text file (default: stdin)")
	analyzeCmd.Flags().StringSliceVar(&analyzePrefs, "pref", nil, "Preference override key=true|false (repeatable)")
	analyzeCmd.Flags().BoolVar(&analyzeSnippets, "snippets", false, "Include evidence snippets")
	analyzeCmd.Flags().IntVar(&analyzeTopK, "top-k", 0, "Max snippets per category")
	analyzeCmd.Flags().BoolVar(&analyzeOverview, "overview", false, "Include the judge's general overview")
	analyzeCmd.Flags().StringVarP(&analyzeFormat, "format", "f", "text", "Output format (text|json)")
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a policy text once and print the result",
	Long:  "Reads policy text from a file or stdin, runs one analysis, and prints\nthe trust score, per-category breakdown, and preference conflicts.",
	RunE:  runAnalyze,
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	text, err := readText(analyzeFile)
	if err != nil {
		return err
	}

	preferences, err := parsePrefOverrides(analyzePrefs)
	if err != nil {
		return err
	}

	cfg, err := server.LoadConfig(analyzeConfig)
	if err != nil {
		return err
	}

	a, err := server.NewAnalyzer(cfg, "cli")
	if err != nil {
		return err
	}

	result, err := a.Analyze(cmd.Context(), analyzer.Request{
		Text:            text,
		Preferences:     preferences,
		ReturnSnippets:  analyzeSnippets,
		SnippetsTopK:    analyzeTopK,
		IncludeOverview: analyzeOverview,
	})
	if err != nil {
		return err
	}

	switch analyzeFormat {
	case "json":
		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
	default:
		fmt.Print(formatText(result))
	}

	return nil
}

func readText(path string) (string, error) {
	if path == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read policy text: %w", err)
	}
	return string(data), nil
}

// parsePrefOverrides turns repeated key=true|false flags into a
// preference map. Unknown keys are left for the schema validator to
// drop; malformed entries are an error.
func parsePrefOverrides(entries []string) (map[string]bool, error) {
	if len(entries) == 0 {
		return nil, nil
	}

	out := make(map[string]bool, len(entries))
	for _, entry := range entries {
		key, value, found := strings.Cut(entry, "=")
		key = strings.TrimSpace(key)
		if !found || key == "" {
			return nil, fmt.Errorf("invalid --pref %q, want key=true|false", entry)
		}
		b, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("invalid --pref %q: %w", entry, err)
		}
		out[key] = b
	}
	return out, nil
}

func formatText(result *model.Analysis) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Trust score: %.1f / 100 (%s risk)\n\n", result.TrustScore, result.RiskLevel)

	for _, cat := range model.Categories() {
		cr := result.Categories[cat]
		fmt.Fprintf(&sb, "  %-42s %.2f", cat, cr.Score)
		if cr.Reason != "" {
			fmt.Fprintf(&sb, "  %s", cr.Reason)
		}
		sb.WriteByte('\n')
		for _, flag := range cr.Heuristics.Flags {
			fmt.Fprintf(&sb, "    - %s\n", flag)
		}
	}

	if len(result.Personalized.Conflicts) > 0 {
		sb.WriteString("\nPreference conflicts:\n")
		for _, c := range result.Personalized.Conflicts {
			fmt.Fprintf(&sb, "  [%s] %s\n", c.Preference, c.Message)
		}
	}

	if len(result.Personalized.Penalties) > 0 {
		cats := make([]string, 0, len(result.Personalized.Penalties))
		for cat := range result.Personalized.Penalties {
			cats = append(cats, string(cat))
		}
		sort.Strings(cats)
		sb.WriteString("\nApplied penalties:\n")
		for _, cat := range cats {
			fmt.Fprintf(&sb, "  %-42s %+.2f\n", cat, result.Personalized.Penalties[model.Category(cat)])
		}
	}

	if result.Overview != nil {
		fmt.Fprintf(&sb, "\nOverview (%d/100, %s risk): %s\n",
			result.Overview.OverallRating, result.Overview.RiskLevel, result.Overview.Summary)
	}

	return sb.String()
}
