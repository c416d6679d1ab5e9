package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	clierrors "github.com/yuuuuuyu/miniapp-template/internal/errors"
	"github.com/yuuuuuyu/miniapp-template/internal/health"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that the project is ready for CI uploads",
	Long: `Check the appid, project path, private key and SDK command.

Git history and the manifest version are reported as optional: uploads
still work without them, using the fallback description and version.`,
	Example: `  mpci doctor
  mpci doctor --env production`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		report := health.RunHealthChecks(cfg)
		fmt.Fprint(cmd.OutOrStdout(), health.FormatReport(report))

		if !report.Passed {
			return clierrors.NewPrerequisiteError("some checks failed",
				"Fix the items marked ✗ above",
				"Run 'mpci config show' to inspect the effective configuration")
		}
		return nil
	},
}

func init() {
	doctorCmd.GroupID = GroupConfiguration
	rootCmd.AddCommand(doctorCmd)
}
