package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yuuuuuyu/miniapp-template/internal/changelog"
	"github.com/yuuuuuyu/miniapp-template/internal/config"
	clierrors "github.com/yuuuuuyu/miniapp-template/internal/errors"
	"github.com/yuuuuuyu/miniapp-template/internal/output"
	"github.com/yuuuuuyu/miniapp-template/internal/release"
)

var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Print the upload description composed from recent commits",
	Long: `Print the description 'mpci upload' would send, composed from the most
recent commits of the project repository.

Formats:
  simple     the latest commit subject only
  detailed   a numbered list under "Recent changes:" (default)
  changelog  commits grouped by conventional-commit type

The result is cut to --desc-max-length characters, ending in "..." when cut.`,
	Example: `  # Print the description for the current settings
  mpci describe

  # Show the commits it was built from
  mpci describe --show-commits

  # Grouped changelog of the last 10 commits, without hashes
  mpci describe --desc-format changelog --commit-count 10 --include-hash=false`,
	Args: cobra.NoArgs,
	RunE: runDescribe,
}

func init() {
	describeCmd.GroupID = GroupRelease
	rootCmd.AddCommand(describeCmd)
	addDescriptionFlags(describeCmd)
	describeCmd.Flags().Bool("show-commits", false, "List the commits before the description")
}

// addDescriptionFlags registers the flags shared by describe and upload.
func addDescriptionFlags(cmd *cobra.Command) {
	cmd.Flags().String("desc-format", "", fmt.Sprintf("Description format (%s)", strings.Join(changelog.Formats(), "|")))
	cmd.Flags().Int("desc-max-length", 0, "Maximum description length in characters")
	cmd.Flags().Int("commit-count", 0, "Number of recent commits to describe")
	cmd.Flags().Bool("include-hash", true, "Append short commit hashes")
	cmd.Flags().Bool("no-include-hash", false, "Leave out commit hashes")
	cmd.Flags().MarkHidden("no-include-hash")
}

// describeOptions reads the description flags that were set on the command
// line. Unset flags keep their configured values.
func describeOptions(cmd *cobra.Command) (release.DescribeOptions, int, error) {
	var opts release.DescribeOptions
	flags := cmd.Flags()

	if flags.Changed("desc-format") {
		format, _ := flags.GetString("desc-format")
		if !isKnownFormat(format) {
			return opts, 0, clierrors.NewArgumentErrorWithUsage(
				fmt.Sprintf("invalid description format: %s", format),
				cmd.UseLine(),
				fmt.Sprintf("Use one of: %s", strings.Join(changelog.Formats(), ", ")),
			)
		}
		opts.Format = &format
	}
	if flags.Changed("desc-max-length") {
		n, _ := flags.GetInt("desc-max-length")
		if n < 0 {
			return opts, 0, clierrors.NewArgumentError(
				fmt.Sprintf("--desc-max-length must not be negative, got %d", n),
				"Use 0 for the default length of 500")
		}
		opts.MaxLength = &n
	}
	if flags.Changed("include-hash") {
		v, _ := flags.GetBool("include-hash")
		opts.IncludeHash = &v
	}
	if flags.Changed("no-include-hash") {
		v, _ := flags.GetBool("no-include-hash")
		v = !v
		opts.IncludeHash = &v
	}

	count := 0
	if flags.Changed("commit-count") {
		count, _ = flags.GetInt("commit-count")
		if count < 1 {
			return opts, 0, clierrors.NewArgumentError(
				fmt.Sprintf("--commit-count must be at least 1, got %d", count))
		}
	}
	return opts, count, nil
}

func isKnownFormat(format string) bool {
	for _, f := range changelog.Formats() {
		if f == format {
			return true
		}
	}
	return false
}

func commitCount(cfg *config.Configuration, override int) int {
	if override > 0 {
		return override
	}
	return cfg.Upload.CommitCount
}

func runDescribe(cmd *cobra.Command, args []string) error {
	showCommits, _ := cmd.Flags().GetBool("show-commits")
	overrides, count, err := describeOptions(cmd)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	commits := release.Commits(cfg.ProjectPath, commitCount(cfg, count), logger)
	desc := release.Description("", cfg.Upload.Desc, commits, release.ComposeOptions(cfg.Upload, overrides))

	out := cmd.OutOrStdout()
	if !showCommits {
		fmt.Fprintln(out, desc)
		return nil
	}

	p := output.NewPrinter(out, noColor)
	p.Separator(fmt.Sprintf("Commits (%d)", len(commits)))
	if len(commits) == 0 {
		p.Warn("No commits found in %s", cfg.ProjectPath)
	} else if err := changelog.PrintCommits(out, commits, changelog.PrintOptions{Plain: noColor}); err != nil {
		return err
	}
	p.Separator("Description")
	fmt.Fprintln(out, desc)
	p.Separator("")
	return nil
}
