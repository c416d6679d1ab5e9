// Package cli implements the mpci command tree.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yuuuuuyu/miniapp-template/internal/config"
	clierrors "github.com/yuuuuuyu/miniapp-template/internal/errors"
	"github.com/yuuuuuyu/miniapp-template/internal/logging"
)

// Command groups shown in help output.
const (
	GroupRelease       = "release"
	GroupProject       = "project"
	GroupConfiguration = "configuration"
)

var (
	cfgFile     string
	projectDir  string
	profileName string
	verbose     bool
	noColor     bool

	// logger is replaced in PersistentPreRunE once --verbose is known.
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "mpci",
	Short: "Upload, preview and build Mini Programs from CI",
	Long: `mpci wraps the Mini Program CI SDK for scripted releases.

It resolves the upload version from package.json (incrementing it by
default), composes the upload description from recent git commits and
runs the SDK with its verbose output condensed.

Configuration is loaded with the following priority (highest to lowest):
  1. Environment variables (MPCI_*, e.g. MPCI_UPLOAD__DESC_FORMAT)
  2. Project config (./mpci.yml or --config)
  3. User config (~/.config/mpci/config.yml)
  4. Legacy variables (APPID, ROBOT, HTTPS_PROXY)
  5. Built-in defaults`,
	Example: `  # Upload, bumping the patch version and describing recent commits
  mpci upload

  # Upload a minor release with a changelog-style description
  mpci upload --increment-type minor --desc-format changelog

  # Preview the description without uploading
  mpci describe --show-commits

  # Generate a preview QR code and rebuild on change
  mpci preview --watch`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupRuntime,
}

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: GroupRelease, Title: "Release Commands:"},
		&cobra.Group{ID: GroupProject, Title: "Project Commands:"},
		&cobra.Group{ID: GroupConfiguration, Title: "Configuration Commands:"},
	)

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&cfgFile, "config", "c", "", "Project config file (default ./mpci.yml)")
	pf.StringVarP(&projectDir, "project", "p", "", "Mini Program project root (overrides project_path)")
	pf.StringVarP(&profileName, "env", "e", "", "Environment profile (default MPCI_ENV, NODE_ENV or development)")
	pf.BoolVar(&verbose, "verbose", false, "Enable debug logging")
	pf.BoolVar(&noColor, "no-color", false, "Disable colored output")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return clierrors.NewArgumentErrorWithUsage(err.Error(), cmd.UseLine(),
			fmt.Sprintf("Run '%s --help' for usage", cmd.CommandPath()))
	})
}

func setupRuntime(cmd *cobra.Command, args []string) error {
	if noColor || os.Getenv("NO_COLOR") != "" {
		color.NoColor = true
	}

	l, err := logging.New(verbose || logging.DebugEnabled())
	if err != nil {
		return err
	}
	logger = l
	return nil
}

// Execute runs the root command until it finishes or the process is
// interrupted, and prints any error to stderr.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	_ = logger.Sync()
	if err != nil {
		printError(rootCmd.ErrOrStderr(), err)
	}
	return err
}

func printError(w io.Writer, err error) {
	if cliErr := clierrors.AsCLIError(err); cliErr != nil {
		clierrors.FprintError(w, cliErr)
		return
	}
	fmt.Fprint(w, clierrors.FormatSimpleError(err, clierrors.Runtime))
}

// loadConfig loads the effective configuration for the global flags.
func loadConfig() (*config.Configuration, error) {
	projectConfig := cfgFile
	if projectConfig == "" && projectDir != "" {
		projectConfig = config.ProjectConfigPathIn(projectDir)
	}

	cfg, err := config.LoadWithOptions(config.LoadOptions{
		ProjectConfigPath: projectConfig,
		Profile:           profileName,
		ProjectPath:       projectDir,
	})
	if err != nil {
		return nil, clierrors.WrapWithMessage(err, clierrors.Configuration,
			"failed to load configuration",
			"Check mpci.yml for syntax errors and invalid values",
			"Run 'mpci config init' to generate a commented template",
		)
	}

	logger.Debug("configuration loaded",
		zap.String("profile", cfg.ActiveProfile),
		zap.String("project", cfg.ProjectPath))
	return cfg, nil
}
