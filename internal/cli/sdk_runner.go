package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os/exec"
	"time"

	"github.com/yuuuuuyu/miniapp-template/internal/config"
	clierrors "github.com/yuuuuuyu/miniapp-template/internal/errors"
	"github.com/yuuuuuyu/miniapp-template/internal/history"
	"github.com/yuuuuuyu/miniapp-template/internal/notify"
	"github.com/yuuuuuyu/miniapp-template/internal/output"
	"github.com/yuuuuuyu/miniapp-template/internal/progress"
	"github.com/yuuuuuyu/miniapp-template/internal/sdk"
)

// progressSink shows summarized SDK lines on the spinner and prints
// pass-through lines, such as a terminal QR code, as they arrive.
type progressSink struct {
	spinner *progress.Spinner
	out     io.Writer
}

func (s *progressSink) Progress(msg string) {
	s.spinner.Update(msg)
}

func (s *progressSink) Output(line string) {
	s.spinner.Stop()
	fmt.Fprintln(s.out, line)
}

type sdkOperation func(ctx context.Context, client sdk.Client) (*sdk.Result, error)

// runSDK runs op against the configured SDK command with progress display.
func runSDK(ctx context.Context, out io.Writer, cfg *config.Configuration, action string, op sdkOperation) (*sdk.Result, error) {
	spinner := progress.NewSpinner(out, progress.DetectTerminalCapabilities(), output.Prefix)
	defer spinner.Stop()

	client, err := sdk.NewFromCommandLine(cfg.SDK.Command,
		sdk.WithTimeout(cfg.SDKTimeout()),
		sdk.WithSink(&progressSink{spinner: spinner, out: out}),
		sdk.WithLogger(logger),
	)
	if err != nil {
		return nil, clierrors.WrapWithMessage(err, clierrors.Configuration, "invalid sdk.command",
			"Set 'sdk.command' to the SDK entry point, e.g. npx miniprogram-ci")
	}
	if verbose {
		output.PrintExecutingCommand(out, client.Command()+" "+action)
	}

	result, err := op(ctx, client)
	if err != nil {
		return result, sdkError(action, client.Command(), err)
	}
	return result, nil
}

func sdkError(action, command string, err error) error {
	switch {
	case errors.Is(err, exec.ErrNotFound), errors.Is(err, fs.ErrNotExist):
		return clierrors.SDKNotFound(command, err)
	case errors.Is(err, context.Canceled):
		return err
	}
	return clierrors.SDKFailed(action, err)
}

// notifier returns the desktop notification handler for cfg.
func notifier(cfg *config.Configuration) *notify.Handler {
	return notify.NewHandler(cfg.Notifications, logger)
}

// recordRun appends a finished SDK run to the history file.
func recordRun(cfg *config.Configuration, run history.Run) {
	history.NewWriter(cfg.StateDir, cfg.History.MaxEntries, logger).LogRun(run)
}

func exitCodeOf(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *sdk.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode
	}
	return ExitFailure
}

func timestamp() string {
	return time.Now().Format("2006-01-02 15:04:05")
}
