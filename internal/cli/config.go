package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/yuuuuuyu/miniapp-template/internal/config"
	clierrors "github.com/yuuuuuyu/miniapp-template/internal/errors"
	"github.com/yuuuuuyu/miniapp-template/internal/output"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage mpci configuration",
	Long: `Manage mpci configuration settings.

Configuration is loaded with the following priority (highest to lowest):
  1. Environment variables (MPCI_*)
  2. Project config (./mpci.yml)
  3. User config (~/.config/mpci/config.yml)
  4. Legacy variables (APPID, ROBOT, HTTPS_PROXY)
  5. Built-in defaults

The active environment profile (env.<name>) is applied last.`,
	Example: `  # Create ./mpci.yml
  mpci config init --appid wx0123456789abcdef

  # Show the effective configuration for production
  mpci config show --env production`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a commented configuration template",
	Long: `Write a commented configuration template to ./mpci.yml (or the --project
directory). With --user the template goes to the user config instead.
An existing file is left unchanged unless --force is given.`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as YAML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		data, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("marshaling config: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "# profile: %s\n", cfg.ActiveProfile)
		_, err = out.Write(data)
		return err
	},
}

func init() {
	configCmd.GroupID = GroupConfiguration
	configInitCmd.Flags().Bool("user", false, "Write the user config (~/.config/mpci/config.yml)")
	configInitCmd.Flags().BoolP("force", "f", false, "Overwrite an existing config")
	configInitCmd.Flags().String("appid", "", "AppID to fill into the template")
	configCmd.AddCommand(configInitCmd, configShowCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	user, _ := cmd.Flags().GetBool("user")
	force, _ := cmd.Flags().GetBool("force")
	appID, _ := cmd.Flags().GetString("appid")

	path := config.ProjectConfigPathIn(projectDir)
	if cfgFile != "" {
		path = cfgFile
	}
	if user {
		var err error
		if path, err = config.UserConfigPath(); err != nil {
			return clierrors.WrapWithMessage(err, clierrors.Configuration, "cannot locate the user config directory")
		}
	}

	p := output.NewPrinter(cmd.OutOrStdout(), noColor)
	if _, err := os.Stat(path); err == nil && !force {
		p.Warn("Config already exists: %s (use --force to overwrite)", path)
		return nil
	}

	template := config.GetDefaultConfigTemplate()
	if appID != "" {
		template = strings.Replace(template, `appid: ""`, "appid: "+strconv.Quote(appID), 1)
	}
	if err := config.ValidateYAMLSyntaxFromBytes([]byte(template), path); err != nil {
		return fmt.Errorf("rendering template: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(template), 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	p.Success("Created %s", path)
	if appID == "" {
		p.Info("Next: set 'appid' and place private.<appid>.key in the project root")
	}
	return nil
}
