package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yuuuuuyu/miniapp-template/internal/config"
	clierrors "github.com/yuuuuuyu/miniapp-template/internal/errors"
	"github.com/yuuuuuyu/miniapp-template/internal/history"
	"github.com/yuuuuuyu/miniapp-template/internal/lifecycle"
	"github.com/yuuuuuyu/miniapp-template/internal/output"
	"github.com/yuuuuuyu/miniapp-template/internal/release"
	"github.com/yuuuuuyu/miniapp-template/internal/sdk"
	"github.com/yuuuuuyu/miniapp-template/internal/watch"
)

// defaultQRCodeFile is written for the terminal format, which the SDK still
// expects an output path for.
const defaultQRCodeFile = "preview-qrcode.jpg"

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Build a preview QR code",
	Long: `Build a preview of the current project and print its QR code.

With --watch the preview is rebuilt whenever project files change, except
paths matched by 'ignores' and the QR code output itself.`,
	Example: `  # QR code in the terminal
  mpci preview

  # Save the QR code as an image
  mpci preview --qrcode-format image --qrcode-output ./qr.jpg

  # Open a specific page with a query
  mpci preview --page-path pages/detail/detail --search-query "id=42"

  # Rebuild on every change
  mpci preview --watch`,
	Args: cobra.NoArgs,
	RunE: runPreview,
}

func init() {
	previewCmd.GroupID = GroupRelease
	rootCmd.AddCommand(previewCmd)
	previewCmd.Flags().String("desc", "", "Preview description (default preview.desc)")
	previewCmd.Flags().String("qrcode-format", "", "QR code format: terminal|image|base64")
	previewCmd.Flags().String("qrcode-output", "", "QR code output path")
	previewCmd.Flags().String("page-path", "", "Page to open")
	previewCmd.Flags().String("search-query", "", "Launch query, e.g. a=1&b=2")
	previewCmd.Flags().Int("scene", 0, "Launch scene value")
	previewCmd.Flags().Int("robot", 0, "CI robot number 1-30 (default from config)")
	previewCmd.Flags().BoolP("watch", "w", false, "Rebuild the preview when files change")
}

func previewRequest(cmd *cobra.Command, cfg *config.Configuration) (sdk.PreviewRequest, error) {
	flags := cmd.Flags()
	req := sdk.PreviewRequest{
		Project:          sdk.ProjectFromConfig(cfg),
		Desc:             cfg.Preview.Desc,
		Robot:            cfg.Robot,
		QRCodeFormat:     cfg.Preview.QRCodeFormat,
		QRCodeOutputDest: cfg.Preview.QRCodeOutputDest,
		PagePath:         cfg.Preview.PagePath,
		SearchQuery:      cfg.Preview.SearchQuery,
		Scene:            cfg.Preview.Scene,
	}

	if v, _ := flags.GetString("desc"); v != "" {
		req.Desc = v
	}
	if req.Desc == "" {
		req.Desc = "Preview - " + timestamp()
	}
	if v, _ := flags.GetString("qrcode-format"); v != "" {
		switch v {
		case "terminal", "image", "base64":
			req.QRCodeFormat = v
		default:
			return req, clierrors.NewArgumentErrorWithUsage(
				fmt.Sprintf("invalid QR code format: %s", v),
				cmd.UseLine(),
				"Use one of: terminal, image, base64")
		}
	}
	if v, _ := flags.GetString("qrcode-output"); v != "" {
		req.QRCodeOutputDest, _ = filepath.Abs(v)
	}
	if req.QRCodeOutputDest == "" {
		if req.QRCodeFormat == "image" {
			return req, clierrors.NewArgumentError("the image QR code format needs an output path",
				"Pass --qrcode-output or set 'preview.qrcode_output_dest'")
		}
		req.QRCodeOutputDest = filepath.Join(cfg.ProjectPath, defaultQRCodeFile)
	}
	if v, _ := flags.GetString("page-path"); v != "" {
		req.PagePath = v
	}
	if v, _ := flags.GetString("search-query"); v != "" {
		req.SearchQuery = v
	}
	if flags.Changed("scene") {
		req.Scene, _ = flags.GetInt("scene")
	}
	if flags.Changed("robot") {
		req.Robot, _ = flags.GetInt("robot")
	}
	if req.Robot < 1 || req.Robot > 30 {
		return req, clierrors.InvalidRobot(req.Robot)
	}
	return req, nil
}

func runPreview(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	p := output.NewPrinter(out, noColor)

	p.Separator("Mini Program Preview")
	p.Step(1, "Load configuration", "Read config files and preview options")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	req, err := previewRequest(cmd, cfg)
	if err != nil {
		return err
	}
	if err := config.CheckPrerequisites(cfg); err != nil {
		return err
	}

	p.Step(2, "Preview options", "")
	fields := []output.Field{
		{Key: "Description", Value: req.Desc},
		{Key: "Version", Value: release.VersionState(cfg, logger).Current()},
		{Key: "QR code", Value: req.QRCodeFormat},
		{Key: "Page", Value: valueOr(req.PagePath, "home page")},
		{Key: "Scene", Value: valueOr(sceneLabel(req.Scene), "default")},
	}
	if req.QRCodeFormat == "image" {
		fields = append(fields, output.Field{Key: "Output", Value: req.QRCodeOutputDest})
	}
	p.Fields("Preview", fields)

	notifications := notifier(cfg)
	build := func(ctx context.Context, changed []string) error {
		if len(changed) == 0 {
			return buildPreview(ctx, p, cfg, req)
		}
		p.Info("Changed: %s", strings.Join(changed, ", "))
		err := buildPreview(ctx, p, cfg, req)
		notifications.OnRebuild(err == nil, len(changed))
		return err
	}

	watchMode, _ := cmd.Flags().GetBool("watch")
	if !watchMode {
		p.Step(3, "Generate preview", "Building the preview QR code")
		return lifecycle.Run(notifications, "preview", func() error {
			return build(cmd.Context(), nil)
		})
	}

	p.Step(3, "Watch", fmt.Sprintf("Rebuilding on changes under %s, Ctrl+C to stop", cfg.ProjectPath))
	return watch.Run(cmd.Context(), watch.Options{
		Root:   cfg.ProjectPath,
		Ignore: watchIgnores(cfg, req.QRCodeOutputDest),
		Logger: logger,
	}, build)
}

func buildPreview(ctx context.Context, p *output.Printer, cfg *config.Configuration, req sdk.PreviewRequest) error {
	result, err := runSDK(ctx, p.Writer(), cfg, "preview",
		func(ctx context.Context, client sdk.Client) (*sdk.Result, error) {
			return client.Preview(ctx, req)
		})

	run := history.Run{
		Command:     "preview",
		Description: req.Desc,
		Robot:       req.Robot,
		Profile:     cfg.ActiveProfile,
		ExitCode:    exitCodeOf(err),
	}
	if result != nil {
		run.Duration = result.Duration
	}
	recordRun(cfg, run)

	p.Separator("")
	if err != nil {
		p.Error("Preview failed")
		logger.Debug("preview failed", zap.Error(err))
		return err
	}

	fields := []output.Field{
		{Key: "Generated at", Value: timestamp()},
		{Key: "QR code", Value: req.QRCodeFormat},
	}
	if req.QRCodeFormat == "image" {
		fields = append(fields, output.Field{Key: "Saved to", Value: req.QRCodeOutputDest})
	}
	p.Result("Preview ready", fields)
	p.Separator("")
	return nil
}

// watchIgnores returns the configured ignores plus the QR code output, so
// writing it does not trigger another build.
func watchIgnores(cfg *config.Configuration, qrcodeDest string) []string {
	patterns := append([]string{"node_modules/", "*.log"}, cfg.Ignores...)
	if rel, err := filepath.Rel(cfg.ProjectPath, qrcodeDest); err == nil && !strings.HasPrefix(rel, "..") {
		patterns = append(patterns, "/"+filepath.ToSlash(rel))
	}
	return patterns
}

func sceneLabel(scene int) string {
	if scene <= 0 {
		return ""
	}
	return fmt.Sprint(scene)
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
