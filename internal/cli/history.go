package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/yuuuuuyu/miniapp-template/internal/history"
	"github.com/yuuuuuyu/miniapp-template/internal/output"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View recent uploads, previews and npm builds",
	Long: `View a log of mpci SDK runs with timestamp, command, version, robot,
exit code and duration, newest first.`,
	Example: `  mpci history
  mpci history --command upload --limit 5
  mpci history --clear`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runHistory,
}

func init() {
	historyCmd.GroupID = GroupConfiguration
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().String("command", "", "Filter by command (upload, preview, pack-npm)")
	historyCmd.Flags().IntP("limit", "n", 0, "Limit to the last N entries")
	historyCmd.Flags().Bool("clear", false, "Clear all history")
}

func runHistory(cmd *cobra.Command, args []string) error {
	clearFlag, _ := cmd.Flags().GetBool("clear")
	command, _ := cmd.Flags().GetString("command")
	limit, _ := cmd.Flags().GetInt("limit")

	if limit < 0 {
		return fmt.Errorf("limit must be positive, got %d", limit)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if clearFlag {
		if err := history.ClearHistory(cfg.StateDir); err != nil {
			return fmt.Errorf("clearing history: %w", err)
		}
		fmt.Fprintln(out, "History cleared.")
		return nil
	}

	histFile, err := history.LoadHistory(cfg.StateDir)
	if err != nil {
		return fmt.Errorf("loading history: %w", err)
	}

	entries := histFile.Filter(command).Recent(limit)
	if len(entries) == 0 {
		if command != "" {
			fmt.Fprintf(out, "No matching entries for command '%s'.\n", command)
		} else {
			fmt.Fprintln(out, "No history available.")
		}
		return nil
	}

	displayEntries(cmd, entries)
	return nil
}

// displayEntries formats and displays history entries.
func displayEntries(cmd *cobra.Command, entries []history.HistoryEntry) {
	out := cmd.OutOrStdout()

	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	gray := color.New(color.FgHiBlack).SprintFunc()

	for _, entry := range entries {
		timestamp := entry.Timestamp.Format("2006-01-02 15:04:05")

		exitCodeStr := fmt.Sprintf("%d", entry.ExitCode)
		if entry.ExitCode == 0 {
			exitCodeStr = green(exitCodeStr)
		} else {
			exitCodeStr = red(exitCodeStr)
		}

		version := entry.Version
		if version == "" {
			version = "-"
		}

		fmt.Fprintf(out, "%s  %-9s  %-10s  robot=%-2d  exit=%s  %s\n",
			cyan(timestamp),
			entry.Command,
			version,
			entry.Robot,
			exitCodeStr,
			entry.Duration,
		)
		if entry.Description != "" {
			fmt.Fprintf(out, "    %s\n", gray(output.Preview(firstLine(entry.Description), 72)))
		}
	}
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	return s
}
