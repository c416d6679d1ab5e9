package errors

import (
	"fmt"
	"strings"
)

// Prebuilt errors for the situations the CI commands run into most.

// MissingConfigField reports a required configuration key with no value.
func MissingConfigField(key string) *CLIError {
	return NewConfigError(
		fmt.Sprintf("missing configuration: %s", key),
		fmt.Sprintf("Set '%s' in mpci.yml", key),
		fmt.Sprintf("Or export MPCI_%s", envName(key)),
		"Run 'mpci config init' to create a starter config",
	)
}

// PrivateKeyNotFound reports a missing upload key file.
func PrivateKeyNotFound(path string) *CLIError {
	return NewPrerequisiteError(
		fmt.Sprintf("private key file not found: %s", path),
		"Download the upload key from the Mini Program admin console",
		"Place it in the project root as private.<appid>.key",
		"Or point 'private_key_path' at the file",
	)
}

// ProjectPathNotFound reports a missing project directory.
func ProjectPathNotFound(path string) *CLIError {
	return NewPrerequisiteError(
		fmt.Sprintf("project path not found: %s", path),
		"Check 'project_path' in mpci.yml",
		"Or run mpci from the project root, or pass --project",
	)
}

// InvalidIncrementType reports an unknown --type value.
func InvalidIncrementType(value string) *CLIError {
	return NewArgumentErrorWithUsage(
		fmt.Sprintf("invalid increment type: %s", value),
		"mpci version next [major|minor|patch|auto]",
		"Use one of: major, minor, patch, auto",
	)
}

// InvalidRobot reports a robot number outside 1..30.
func InvalidRobot(robot int) *CLIError {
	return NewArgumentError(
		fmt.Sprintf("invalid robot number: %d", robot),
		"Robot numbers range from 1 to 30",
	)
}

// SDKNotFound reports that the SDK command could not be started.
func SDKNotFound(command string, err error) *CLIError {
	return WrapWithMessage(err, Prerequisite,
		fmt.Sprintf("cannot run %q", command),
		"Install the SDK in the project: npm install --save-dev miniprogram-ci",
		"Or set 'sdk.command' to a working entry point",
	)
}

// SDKFailed reports a non-zero exit of the SDK command. The remediation
// follows the likely cause named in the SDK's error text.
func SDKFailed(action string, err error) *CLIError {
	return WrapWithMessage(err, Runtime, fmt.Sprintf("%s failed", action), sdkHints(err)...)
}

func sdkHints(err error) []string {
	detail := strings.ToLower(err.Error())
	var hints []string
	switch {
	case strings.Contains(detail, "privatekey") || strings.Contains(detail, "private key"):
		hints = append(hints, "Check that the private key file exists and matches the appid")
	case strings.Contains(detail, "appid"):
		hints = append(hints, "Check that 'appid' matches the project in the admin console")
	case strings.Contains(detail, "robot"):
		hints = append(hints, "Use a robot number from 1 to 30")
	case strings.Contains(detail, "version"):
		hints = append(hints, "Check the version number; it may already exist or be malformed")
	case strings.Contains(detail, "invalid ip") || strings.Contains(detail, "whitelist"):
		hints = append(hints, "Add this machine's IP to the upload whitelist")
	case strings.Contains(detail, "network") || strings.Contains(detail, "timeout") || strings.Contains(detail, "deadline"):
		hints = append(hints, "Check the network connection or 'proxy', then retry")
	default:
		hints = append(hints,
			"Check that the private key matches the appid",
			"Check that this machine's IP is on the upload whitelist",
		)
	}
	return append(hints, "Re-run with --verbose to see the full SDK output")
}

func envName(key string) string {
	return strings.ToUpper(strings.ReplaceAll(key, ".", "__"))
}
