// Package health provides environment checks for mpci. It validates that the
// project, upload key and SDK command are usable before a CI run, returning
// structured reports used by the 'mpci doctor' command.
package health

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/shlex"
	"go.uber.org/zap"

	"github.com/yuuuuuyu/miniapp-template/internal/config"
	"github.com/yuuuuuyu/miniapp-template/internal/git"
	"github.com/yuuuuuyu/miniapp-template/internal/manifest"
)

// CheckResult represents the result of a single health check
type CheckResult struct {
	Name    string
	Passed  bool
	Message string
	// Optional checks are reported but do not fail the report.
	Optional bool
}

// HealthReport contains all health check results
type HealthReport struct {
	Checks []CheckResult
	Passed bool
}

// RunHealthChecks runs all health checks against cfg and returns a report.
func RunHealthChecks(cfg *config.Configuration) *HealthReport {
	report := &HealthReport{
		Checks: []CheckResult{
			CheckAppID(cfg),
			CheckProjectPath(cfg.ProjectPath),
			CheckPrivateKey(cfg.PrivateKeyPath),
			CheckSDKCommand(cfg.SDK.Command),
			CheckGitRepository(cfg.ProjectPath),
			CheckManifest(cfg.ManifestPath()),
		},
		Passed: true,
	}

	for _, check := range report.Checks {
		if !check.Passed && !check.Optional {
			report.Passed = false
		}
	}
	return report
}

// CheckAppID checks that an appid is configured.
func CheckAppID(cfg *config.Configuration) CheckResult {
	if strings.TrimSpace(cfg.AppID) == "" {
		return CheckResult{Name: "AppID", Passed: false, Message: "appid is not set"}
	}
	return CheckResult{Name: "AppID", Passed: true, Message: cfg.AppID}
}

// CheckProjectPath checks that the project root is a directory.
func CheckProjectPath(path string) CheckResult {
	info, err := os.Stat(path)
	switch {
	case err != nil:
		return CheckResult{Name: "Project path", Passed: false, Message: fmt.Sprintf("%s not found", path)}
	case !info.IsDir():
		return CheckResult{Name: "Project path", Passed: false, Message: fmt.Sprintf("%s is not a directory", path)}
	}
	return CheckResult{Name: "Project path", Passed: true, Message: path}
}

// CheckPrivateKey checks that the upload key file exists.
func CheckPrivateKey(path string) CheckResult {
	if path == "" {
		return CheckResult{Name: "Private key", Passed: false, Message: "private_key_path is not set"}
	}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return CheckResult{Name: "Private key", Passed: false, Message: fmt.Sprintf("%s not found", path)}
	}
	return CheckResult{Name: "Private key", Passed: true, Message: filepath.Base(path)}
}

// CheckSDKCommand checks that the SDK entry point can be started.
func CheckSDKCommand(command string) CheckResult {
	argv, err := shlex.Split(command)
	if err != nil || len(argv) == 0 {
		return CheckResult{Name: "SDK command", Passed: false, Message: fmt.Sprintf("cannot parse %q", command)}
	}
	path, err := exec.LookPath(argv[0])
	if err != nil {
		return CheckResult{Name: "SDK command", Passed: false, Message: fmt.Sprintf("%s not found in PATH", argv[0])}
	}
	return CheckResult{Name: "SDK command", Passed: true, Message: path}
}

// CheckGitRepository reports whether commit history is available for
// descriptions. A project without history still uploads.
func CheckGitRepository(path string) CheckResult {
	if !git.IsGitRepository(path) {
		return CheckResult{Name: "Git history", Passed: false, Optional: true,
			Message: "not a git repository, uploads use the fallback description"}
	}
	msg := "repository found"
	if branch, err := git.GetCurrentBranch(path); err == nil && branch != "" {
		msg = "on branch " + branch
	}
	return CheckResult{Name: "Git history", Passed: true, Optional: true, Message: msg + enclosingRoot(path)}
}

// enclosingRoot names the repository root when the project sits below it,
// as in a monorepo. Commits are then read from the whole repository.
func enclosingRoot(path string) string {
	root, err := git.GetRepositoryRoot(path)
	if err != nil {
		return ""
	}
	abs, err := filepath.Abs(path)
	if err != nil || filepath.Clean(root) == abs {
		return ""
	}
	return ", repository root " + root
}

// CheckManifest reports the version stored in the manifest.
func CheckManifest(path string) CheckResult {
	v, ok := manifest.NewStore(path, zap.NewNop()).Read()
	if !ok {
		return CheckResult{Name: "Manifest version", Passed: false, Optional: true,
			Message: fmt.Sprintf("no version in %s, the configured fallback is used", filepath.Base(path))}
	}
	return CheckResult{Name: "Manifest version", Passed: true, Optional: true, Message: v}
}

// FormatReport formats the health report for console output
func FormatReport(report *HealthReport) string {
	var output string

	for _, check := range report.Checks {
		switch {
		case check.Passed:
			output += fmt.Sprintf("✓ %s: %s\n", check.Name, check.Message)
		case check.Optional:
			output += fmt.Sprintf("○ %s: %s\n", check.Name, check.Message)
		default:
			output += fmt.Sprintf("✗ %s: %s\n", check.Name, check.Message)
		}
	}

	return output
}
