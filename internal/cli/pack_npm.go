package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yuuuuuyu/miniapp-template/internal/config"
	"github.com/yuuuuuyu/miniapp-template/internal/history"
	"github.com/yuuuuuyu/miniapp-template/internal/lifecycle"
	"github.com/yuuuuuyu/miniapp-template/internal/output"
	"github.com/yuuuuuyu/miniapp-template/internal/sdk"
)

var packNpmCmd = &cobra.Command{
	Use:     "pack-npm",
	Aliases: []string{"build-npm"},
	Short:   "Build miniprogram_npm from node_modules",
	Long: `Build miniprogram_npm the way the developer tool's "Build npm" does.

--ignores replaces the configured 'ignores' patterns for this build.`,
	Example: `  mpci pack-npm
  mpci build-npm --ignores "test/**/*,docs/**/*"`,
	Args: cobra.NoArgs,
	RunE: runPackNpm,
}

func init() {
	packNpmCmd.GroupID = GroupProject
	rootCmd.AddCommand(packNpmCmd)
	packNpmCmd.Flags().StringSlice("ignores", nil, "Patterns to exclude (comma-separated)")
}

func runPackNpm(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	p := output.NewPrinter(out, noColor)

	p.Separator("Build npm")
	p.Step(1, "Load configuration", "Read config files and check the build environment")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := config.CheckPrerequisites(cfg); err != nil {
		return err
	}

	req := sdk.PackNpmRequest{Project: sdk.ProjectFromConfig(cfg)}
	if cmd.Flags().Changed("ignores") {
		req.Ignores, _ = cmd.Flags().GetStringSlice("ignores")
	}

	ignores := "none"
	if len(req.Ignores) > 0 {
		ignores = strings.Join(req.Ignores, ", ")
	}
	p.Fields("Build", []output.Field{
		{Key: "Project", Value: cfg.ProjectPath},
		{Key: "Ignores", Value: ignores},
	})

	p.Step(2, "Build npm", "Packing node_modules into miniprogram_npm")
	var result *sdk.Result
	err = lifecycle.Run(notifier(cfg), "pack-npm", func() error {
		var runErr error
		result, runErr = runSDK(cmd.Context(), out, cfg, "pack-npm",
			func(ctx context.Context, client sdk.Client) (*sdk.Result, error) {
				return client.PackNpm(ctx, req)
			})
		return runErr
	})

	run := history.Run{Command: "pack-npm", Profile: cfg.ActiveProfile, ExitCode: exitCodeOf(err)}
	if result != nil {
		run.Duration = result.Duration
	}
	recordRun(cfg, run)

	p.Separator("")
	if err != nil {
		p.Error("npm build failed")
		return err
	}
	p.Result("npm build succeeded", []output.Field{
		{Key: "Built at", Value: timestamp()},
		{Key: "Output lines", Value: len(result.Lines)},
	})
	p.Separator("")
	return nil
}
