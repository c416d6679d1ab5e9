// Package testutil provides test utilities and helpers for mpci tests.
package testutil

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"testing"
)

// FakeSDKConfig configures the behavior of the fake SDK process.
type FakeSDKConfig struct {
	// ExitCode is the exit code to return (default 0).
	ExitCode int `json:"exit_code"`
	// Stdout is the content to write to stdout.
	Stdout string `json:"stdout"`
	// Stderr is the content to write to stderr.
	Stderr string `json:"stderr"`
	// ArgsFile receives the arguments as a JSON array when set.
	ArgsFile string `json:"args_file"`
}

// EnvFakeSDK holds the JSON-encoded FakeSDKConfig. When set, the test binary
// runs as the fake SDK instead of running tests.
const EnvFakeSDK = "MPCI_TESTUTIL_FAKE_SDK"

// RunFakeSDKIfRequested must be called first in TestMain. When EnvFakeSDK is
// set it behaves as the SDK command and exits without returning.
//
// Usage in test file:
//
//	func TestMain(m *testing.M) {
//	    testutil.RunFakeSDKIfRequested()
//	    os.Exit(m.Run())
//	}
func RunFakeSDKIfRequested() {
	raw, ok := os.LookupEnv(EnvFakeSDK)
	if !ok {
		return
	}

	config := FakeSDKConfig{}
	// Ignore parse errors; use defaults on failure
	_ = json.Unmarshal([]byte(raw), &config)
	runFakeSDK(config, os.Args[1:])
}

// runFakeSDK writes the configured output and always exits.
func runFakeSDK(config FakeSDKConfig, args []string) {
	if config.ArgsFile != "" {
		data, _ := json.Marshal(args)
		if err := os.WriteFile(config.ArgsFile, data, 0o644); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(98)
		}
	}
	if config.Stdout != "" {
		fmt.Fprint(os.Stdout, config.Stdout)
	}
	if config.Stderr != "" {
		fmt.Fprint(os.Stderr, config.Stderr)
	}
	os.Exit(config.ExitCode)
}

// FakeSDKCommand enables the fake SDK for the current test and returns a
// command line suitable for sdk.command. The test must not be parallel.
func FakeSDKCommand(t *testing.T, config FakeSDKConfig) string {
	t.Helper()

	data, err := json.Marshal(config)
	if err != nil {
		t.Fatalf("encoding fake sdk config: %v", err)
	}
	t.Setenv(EnvFakeSDK, string(data))

	return `"` + strings.ReplaceAll(os.Args[0], `"`, `\"`) + `"`
}

// ReadArgs returns the arguments recorded by the fake SDK.
func ReadArgs(t *testing.T, argsFile string) []string {
	t.Helper()

	data, err := os.ReadFile(argsFile)
	if err != nil {
		t.Fatalf("reading fake sdk args: %v", err)
	}
	var args []string
	if err := json.Unmarshal(data, &args); err != nil {
		t.Fatalf("decoding fake sdk args: %v", err)
	}
	return args
}
