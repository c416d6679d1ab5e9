package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yuuuuuyu/miniapp-template/internal/config"
	clierrors "github.com/yuuuuuyu/miniapp-template/internal/errors"
	"github.com/yuuuuuyu/miniapp-template/internal/git"
	"github.com/yuuuuuyu/miniapp-template/internal/history"
	"github.com/yuuuuuyu/miniapp-template/internal/lifecycle"
	"github.com/yuuuuuyu/miniapp-template/internal/output"
	"github.com/yuuuuuyu/miniapp-template/internal/release"
	"github.com/yuuuuuyu/miniapp-template/internal/sdk"
)

// descPreviewLength bounds the description echoed before uploading.
const descPreviewLength = 100

var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Upload a new version with a description built from git history",
	Long: `Upload the Mini Program through the CI SDK.

Version: --version wins; otherwise the current version is incremented by
--increment-type (default from upload.increment_type) and written back to
package.json; with --no-auto-increment the current version is used as is.

Description: --desc wins; otherwise recent commits are composed in the
configured format and cut to the configured length.`,
	Example: `  # Bump the patch version and upload
  mpci upload

  # Let commit messages decide between major, minor and patch
  mpci upload --increment-type auto

  # Explicit version and description on robot 2
  mpci upload --version 2.0.0 --desc "Spring release" --robot 2

  # Re-upload the current version
  mpci upload --no-auto-increment`,
	Args: cobra.NoArgs,
	RunE: runUpload,
}

func init() {
	uploadCmd.GroupID = GroupRelease
	rootCmd.AddCommand(uploadCmd)
	uploadCmd.Flags().String("version", "", "Upload this version instead of incrementing")
	uploadCmd.Flags().String("desc", "", "Upload description (default: composed from commits)")
	uploadCmd.Flags().Int("robot", 0, "CI robot number 1-30 (default from config)")
	uploadCmd.Flags().String("increment-type", "", "Version increment: major|minor|patch|auto")
	uploadCmd.Flags().Bool("no-auto-increment", false, "Use the current version without incrementing")
	addDescriptionFlags(uploadCmd)
}

// uploadInputs holds the validated upload flags.
type uploadInputs struct {
	version  release.VersionRequest
	desc     string
	robot    int
	describe release.DescribeOptions
	commits  int
}

func readUploadInputs(cmd *cobra.Command, cfg *config.Configuration) (uploadInputs, error) {
	flags := cmd.Flags()
	var in uploadInputs

	in.version.Explicit, _ = flags.GetString("version")
	in.desc, _ = flags.GetString("desc")

	noAuto, _ := flags.GetBool("no-auto-increment")
	in.version.AutoIncrement = cfg.Upload.AutoIncrement && !noAuto

	kindFlag, _ := flags.GetString("increment-type")
	kind, err := parseKind(kindFlag, cfg.Upload.IncrementType)
	if err != nil {
		return in, err
	}
	in.version.Kind = kind

	in.robot = cfg.Robot
	if flags.Changed("robot") {
		in.robot, _ = flags.GetInt("robot")
	}
	if in.robot < 1 || in.robot > 30 {
		return in, clierrors.InvalidRobot(in.robot)
	}

	in.describe, in.commits, err = describeOptions(cmd)
	return in, err
}

func runUpload(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	p := output.NewPrinter(out, noColor)

	p.Separator("Mini Program Upload")
	p.Step(1, "Load configuration", "Read config files and check prerequisites")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	in, err := readUploadInputs(cmd, cfg)
	if err != nil {
		return err
	}
	if err := config.CheckPrerequisites(cfg); err != nil {
		return err
	}

	commits := release.Commits(cfg.ProjectPath, commitCount(cfg, in.commits), logger)

	p.Step(2, "Resolve version", "Determine the upload version")
	decision := release.ResolveUploadVersion(release.VersionState(cfg, logger), in.version, commits)
	p.Fields("Version", versionFields(decision))

	p.Step(3, "Prepare upload", "Compose the description and upload options")
	desc := release.Description(in.desc, cfg.Upload.Desc, commits, release.ComposeOptions(cfg.Upload, in.describe))
	p.Fields("Upload", []output.Field{
		{Key: "Version", Value: decision.Version},
		{Key: "Robot", Value: in.robot},
		{Key: "Developer", Value: developer(cfg.ProjectPath)},
		{Key: "Commits", Value: len(commits)},
		{Key: "Profile", Value: cfg.ActiveProfile},
	})
	p.Info("Description:")
	p.Indented(output.Preview(desc, descPreviewLength))

	p.Step(4, "Upload", "Uploading to the Mini Program platform")
	req := sdk.UploadRequest{
		Project: sdk.ProjectFromConfig(cfg),
		Version: decision.Version,
		Desc:    desc,
		Robot:   in.robot,
	}
	var result *sdk.Result
	err = lifecycle.Run(notifier(cfg), "upload", func() error {
		var runErr error
		result, runErr = runSDK(cmd.Context(), out, cfg, "upload",
			func(ctx context.Context, client sdk.Client) (*sdk.Result, error) {
				return client.Upload(ctx, req)
			})
		return runErr
	})

	run := history.Run{
		Command:     "upload",
		Version:     decision.Version,
		Description: desc,
		Robot:       in.robot,
		Profile:     cfg.ActiveProfile,
		ExitCode:    exitCodeOf(err),
	}
	if result != nil {
		run.Duration = result.Duration
	}
	recordRun(cfg, run)

	p.Separator("")
	if err != nil {
		p.Error("Upload failed")
		logger.Debug("upload failed", zap.Error(err))
		return err
	}

	p.Result("Upload succeeded", []output.Field{
		{Key: "Version", Value: decision.Version},
		{Key: "Uploaded at", Value: timestamp()},
		{Key: "Robot", Value: in.robot},
		{Key: "Duration", Value: result.Duration.Round(time.Millisecond)},
	})
	p.Separator("")
	return nil
}

func versionFields(d release.VersionDecision) []output.Field {
	switch d.Source {
	case release.SourceExplicit:
		return []output.Field{
			{Key: "Type", Value: "explicit"},
			{Key: "Version", Value: d.Version},
			{Key: "Source", Value: "--version"},
		}
	case release.SourceIncrement:
		return []output.Field{
			{Key: "Type", Value: "auto-increment"},
			{Key: "Current", Value: d.Previous},
			{Key: "New", Value: d.Version},
			{Key: "Increment", Value: d.Kind},
		}
	default:
		return []output.Field{
			{Key: "Type", Value: "current"},
			{Key: "Version", Value: d.Version},
		}
	}
}

// developer names the git user for the summary.
func developer(projectPath string) string {
	user, err := git.CurrentUser(projectPath)
	if err != nil || user.Name == "" {
		return "unknown"
	}
	if user.Email != "" {
		return fmt.Sprintf("%s <%s>", user.Name, user.Email)
	}
	return user.Name
}
