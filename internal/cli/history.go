package cli

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/patchcycle/bumpver/internal/history"
	"github.com/patchcycle/bumpver/internal/semver"
)

var historyKindFlag semver.Kind

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View past releases",
	Long: `View the releases recorded by 'bumpver release', newest first, with
timestamp, version, previous version, bump kind, release commit and tag.

History is stored in <state_dir>/history.yaml and pruned to
max_history_entries.`,
	Example: `  bumpver history
  bumpver history --limit 5
  bumpver history --kind major`,
	Args:         maxArgs(0),
	SilenceUsage: true,
	RunE:         runHistory,
}

func init() {
	historyCmd.GroupID = GroupInspection
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntP("limit", "n", 0, "Limit to last N entries (most recent)")
	historyCmd.Flags().Var(newKindValue(&historyKindFlag), "kind", "Only show releases of this bump kind (major, minor, patch)")
	historyCmd.Flags().Bool("clear", false, "Clear all history")
}

func runHistory(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	clearFlag, _ := cmd.Flags().GetBool("clear")

	// Validate limit
	if limit < 0 {
		return fmt.Errorf("limit must be positive, got %d", limit)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if clearFlag {
		if err := history.SaveHistory(cfg.StateDir, &history.File{}); err != nil {
			return fmt.Errorf("clearing history: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "History cleared.")
		return nil
	}

	histFile, err := history.LoadHistory(cfg.StateDir)
	if err != nil {
		return fmt.Errorf("loading history: %w", err)
	}

	entries := filterEntries(histFile.Last(0), historyKindFlag, limit)
	if len(entries) == 0 {
		if historyKindFlag != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "No %s releases recorded.\n", historyKindFlag)
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "No release history available.")
		}
		return nil
	}

	renderHistory(cmd.OutOrStdout(), entries)
	return nil
}

// filterEntries keeps entries of kind (all when empty), then the first limit.
// Entries are expected newest first.
func filterEntries(entries []history.Entry, kind semver.Kind, limit int) []history.Entry {
	var result []history.Entry
	for _, entry := range entries {
		if kind == "" || entry.Kind == string(kind) {
			result = append(result, entry)
		}
	}

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result
}

func renderHistory(out io.Writer, entries []history.Entry) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.AppendHeader(table.Row{"Released", "Version", "Previous", "Kind", "Commit", "Tag"})

	for _, e := range entries {
		t.AppendRow(table.Row{
			e.Timestamp.UTC().Format("2006-01-02 15:04:05"),
			e.Version,
			e.Previous,
			formatKind(e.Kind),
			orDash(shortHash(e.Commit)),
			orDash(e.Tag),
		})
	}

	t.SetStyle(table.StyleRounded)
	t.Render()
}

func formatKind(kind string) string {
	switch semver.Kind(kind) {
	case semver.Major:
		return text.FgRed.Sprint(kind)
	case semver.Minor:
		return text.FgYellow.Sprint(kind)
	default:
		return kind
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
