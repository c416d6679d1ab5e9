package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/yuuuuuyu/miniapp-template/internal/testutil"
)

func TestMain(m *testing.M) {
	testutil.RunFakeSDKIfRequested()
	os.Exit(m.Run())
}

// isolatedEnv keeps the host's config and environment out of a test.
func isolatedEnv(t *testing.T) {
	t.Helper()

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("NO_COLOR", "1")

	for _, name := range []string{
		"APPID", "ROBOT", "VERSION", "NODE_ENV", "DEBUG",
		"HTTPS_PROXY", "HTTP_PROXY", "https_proxy", "http_proxy",
		"MPCI_ENV", "MPCI_DEBUG", "MPCI_APPID", "MPCI_ROBOT",
		testutil.EnvFakeSDK,
	} {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
}

// resetFlags restores every flag in the tree to its default so the shared
// command tree can run more than once per process.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

// execute runs mpci with args and returns what it printed to stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	resetFlags(rootCmd)
	t.Cleanup(func() { resetFlags(rootCmd) })

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(append([]string{"--no-color"}, args...))
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.ExecuteContext(context.Background())
	return stdout.String(), err
}

// sdkProject creates a project fixture whose sdk.command is the fake SDK.
// The returned args file receives the SDK arguments of the last run.
func sdkProject(t *testing.T, opts testutil.ProjectOptions, sdk testutil.FakeSDKConfig) (dir, argsFile string) {
	t.Helper()

	argsFile = filepath.Join(t.TempDir(), "args.json")
	sdk.ArgsFile = argsFile
	command := testutil.FakeSDKCommand(t, sdk)

	opts.Config += fmt.Sprintf("sdk:\n  command: '%s'\n  timeout: 1m\n", command)
	return testutil.NewProject(t, opts), argsFile
}

func readManifest(t *testing.T, dir string) string {
	t.Helper()

	data, err := os.ReadFile(filepath.Join(dir, "package.json"))
	require.NoError(t, err)
	return string(data)
}

// argAfter returns the value following flag in args.
func argAfter(args []string, flag string) string {
	for i := 0; i < len(args)-1; i++ {
		if args[i] == flag {
			return args[i+1]
		}
	}
	return ""
}
