package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yuuuuuyu/miniapp-template/internal/build"
	"github.com/yuuuuuyu/miniapp-template/internal/config"
	clierrors "github.com/yuuuuuyu/miniapp-template/internal/errors"
	"github.com/yuuuuuyu/miniapp-template/internal/output"
	"github.com/yuuuuuyu/miniapp-template/internal/release"
	"github.com/yuuuuuyu/miniapp-template/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show mpci build information, or read and bump the project version",
	Long: `Without a subcommand, print mpci's own build information.

The subcommands work on the project version kept in package.json:
  current   print the version uploads would use without incrementing
  next      print the version an increment would produce, without writing it
  bump      increment the version and write it to package.json

The current version is taken from the VERSION variable (upload.version_env)
when set, then package.json, then upload.version.`,
	Example: `  # mpci build info
  mpci version --plain

  # Project version
  mpci version current
  mpci version next minor
  mpci version bump auto`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		plain, _ := cmd.Flags().GetBool("plain")
		info := build.Current()
		out := cmd.OutOrStdout()

		if plain {
			fmt.Fprintf(out, "mpci %s\n", info.Version)
			fmt.Fprintf(out, "commit: %s\n", info.Commit)
			fmt.Fprintf(out, "built: %s\n", info.BuildDate)
			fmt.Fprintf(out, "go: %s\n", info.GoVersion)
			fmt.Fprintf(out, "platform: %s\n", info.Platform)
			return nil
		}

		output.NewPrinter(out, noColor).Fields("mpci "+info.Version, []output.Field{
			{Key: "Commit", Value: info.Commit},
			{Key: "Built", Value: info.BuildDate},
			{Key: "Go", Value: info.GoVersion},
			{Key: "Platform", Value: info.Platform},
		})
		return nil
	},
}

var versionCurrentCmd = &cobra.Command{
	Use:   "current",
	Short: "Print the current project version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), release.VersionState(cfg, logger).Current())
		return nil
	},
}

var versionNextCmd = &cobra.Command{
	Use:       "next [major|minor|patch|auto]",
	Short:     "Print the next project version without writing it",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: incrementKinds,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, kind, err := versionInputs(args)
		if err != nil {
			return err
		}
		current := release.VersionState(cfg, logger).Current()
		fmt.Fprintln(cmd.OutOrStdout(), version.Parse(current).Increment(kind))
		return nil
	},
}

var versionBumpCmd = &cobra.Command{
	Use:       "bump [major|minor|patch|auto]",
	Short:     "Increment the project version and write it to package.json",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: incrementKinds,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, kind, err := versionInputs(args)
		if err != nil {
			return err
		}
		current, next := release.VersionState(cfg, logger).Next(kind)

		out := cmd.OutOrStdout()
		quiet, _ := cmd.Flags().GetBool("quiet")
		if quiet {
			fmt.Fprintln(out, next)
			return nil
		}
		output.NewPrinter(out, noColor).Result("Version bumped", []output.Field{
			{Key: "From", Value: current},
			{Key: "To", Value: next},
			{Key: "Increment", Value: kind},
		})
		return nil
	},
}

var incrementKinds = []string{
	string(version.Major), string(version.Minor), string(version.Patch), string(version.Auto),
}

func init() {
	versionCmd.GroupID = GroupProject
	versionCmd.Flags().Bool("plain", false, "Plain output without formatting")
	versionBumpCmd.Flags().BoolP("quiet", "q", false, "Print only the new version")
	versionCmd.AddCommand(versionCurrentCmd, versionNextCmd, versionBumpCmd)
	rootCmd.AddCommand(versionCmd)
}

// parseKind validates a user-supplied increment kind. Empty means fallback.
func parseKind(value string, fallback string) (version.IncrementKind, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		value = fallback
	}
	for _, k := range incrementKinds {
		if value == k {
			return version.IncrementKind(value), nil
		}
	}
	return "", clierrors.InvalidIncrementType(value)
}

// versionInputs loads the config and resolves the increment kind, using
// commit history for auto.
func versionInputs(args []string) (*config.Configuration, version.IncrementKind, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, "", err
	}

	arg := ""
	if len(args) > 0 {
		arg = args[0]
	}
	kind, err := parseKind(arg, cfg.Upload.IncrementType)
	if err != nil {
		return nil, "", err
	}
	if kind == version.Auto {
		kind = release.ResolveKind(kind, release.Commits(cfg.ProjectPath, cfg.Upload.CommitCount, logger))
	}
	return cfg, kind, nil
}
