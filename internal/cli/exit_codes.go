package cli

import (
	"context"
	"errors"

	clierrors "github.com/yuuuuuyu/miniapp-template/internal/errors"
	"github.com/yuuuuuyu/miniapp-template/internal/sdk"
)

// Exit codes for the mpci CLI
// These codes let CI pipelines tell configuration problems from SDK failures
const (
	// ExitSuccess indicates successful command execution
	ExitSuccess = 0

	// ExitFailure indicates an unclassified runtime failure
	ExitFailure = 1

	// ExitInvalidArguments indicates invalid command arguments
	ExitInvalidArguments = 2

	// ExitConfigError indicates missing or invalid configuration
	ExitConfigError = 3

	// ExitMissingPrerequisites indicates a missing key file, project or SDK
	ExitMissingPrerequisites = 4

	// ExitSDKFailed indicates the SDK exited non-zero
	ExitSDKFailed = 5

	// ExitInterrupted indicates the run was cancelled by a signal
	ExitInterrupted = 130
)

// ExitCode maps an error returned by Execute to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	if errors.Is(err, context.Canceled) {
		return ExitInterrupted
	}

	var exitErr *sdk.ExitError
	if errors.As(err, &exitErr) {
		return ExitSDKFailed
	}

	cliErr := clierrors.AsCLIError(err)
	if cliErr == nil {
		return ExitFailure
	}
	switch cliErr.Category {
	case clierrors.Argument:
		return ExitInvalidArguments
	case clierrors.Configuration:
		return ExitConfigError
	case clierrors.Prerequisite:
		return ExitMissingPrerequisites
	default:
		return ExitFailure
	}
}
