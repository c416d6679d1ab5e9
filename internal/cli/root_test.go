package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	clierrors "github.com/yuuuuuyu/miniapp-template/internal/errors"
	"github.com/yuuuuuyu/miniapp-template/internal/sdk"
)

func TestRootCmd_Structure(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "mpci", rootCmd.Use)
	assert.True(t, rootCmd.SilenceUsage)
	assert.True(t, rootCmd.SilenceErrors)

	groups := make(map[string]bool)
	for _, g := range rootCmd.Groups() {
		groups[g.ID] = true
	}
	for _, id := range []string{GroupRelease, GroupProject, GroupConfiguration} {
		assert.True(t, groups[id], "missing group %s", id)
	}
}

func TestRootCmd_PersistentFlags(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		shorthand string
	}{
		"config":   {shorthand: "c"},
		"project":  {shorthand: "p"},
		"env":      {shorthand: "e"},
		"verbose":  {},
		"no-color": {},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			f := rootCmd.PersistentFlags().Lookup(name)
			require.NotNil(t, f, "flag --%s not registered", name)
			assert.Equal(t, tt.shorthand, f.Shorthand)
		})
	}
}

func TestRootCmd_Subcommands(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		group string
	}{
		"upload":   {group: GroupRelease},
		"preview":  {group: GroupRelease},
		"describe": {group: GroupRelease},
		"version":  {group: GroupProject},
		"pack-npm": {group: GroupProject},
		"config":   {group: GroupConfiguration},
		"history":  {group: GroupConfiguration},
		"doctor":   {group: GroupConfiguration},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			cmd, _, err := rootCmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, cmd.Name())
			assert.Equal(t, tt.group, cmd.GroupID)
			assert.NotEmpty(t, cmd.Short)
		})
	}
}

func TestPackNpm_BuildNpmAlias(t *testing.T) {
	t.Parallel()

	cmd, _, err := rootCmd.Find([]string{"build-npm"})
	require.NoError(t, err)
	assert.Equal(t, "pack-npm", cmd.Name())
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	sdkExit := &sdk.ExitError{Action: "upload", ExitCode: 3, Stderr: "boom"}

	tests := map[string]struct {
		err  error
		want int
	}{
		"nil":               {err: nil, want: ExitSuccess},
		"plain error":       {err: errors.New("boom"), want: ExitFailure},
		"argument error":    {err: clierrors.InvalidRobot(31), want: ExitInvalidArguments},
		"config error":      {err: clierrors.MissingConfigField("appid"), want: ExitConfigError},
		"prerequisite":      {err: clierrors.PrivateKeyNotFound("/tmp/key"), want: ExitMissingPrerequisites},
		"runtime error":     {err: clierrors.NewRuntimeError("boom"), want: ExitFailure},
		"sdk exit":          {err: sdkExit, want: ExitSDKFailed},
		"wrapped sdk exit":  {err: clierrors.SDKFailed("upload", sdkExit), want: ExitSDKFailed},
		"canceled":          {err: context.Canceled, want: ExitInterrupted},
		"wrapped cancel":    {err: fmt.Errorf("upload aborted: %w", context.Canceled), want: ExitInterrupted},
		"sdk not found":     {err: clierrors.SDKNotFound("npx miniprogram-ci", errors.New("not found")), want: ExitMissingPrerequisites},
		"wrapped arg error": {err: fmt.Errorf("reading flags: %w", clierrors.InvalidIncrementType("huge")), want: ExitInvalidArguments},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}

func TestPrintError(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		err  error
		want string
	}{
		"cli error": {
			err:  clierrors.InvalidRobot(0),
			want: "invalid robot number: 0",
		},
		"plain error": {
			err:  errors.New("disk full"),
			want: "disk full",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			printError(&buf, tt.err)
			assert.Contains(t, buf.String(), tt.want)
		})
	}
}

func TestUnknownFlag_IsArgumentError(t *testing.T) {
	isolatedEnv(t)

	_, err := execute(t, "describe", "--no-such-flag")
	require.Error(t, err)
	assert.Equal(t, ExitInvalidArguments, ExitCode(err))
}

func TestExitCodeOf(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, exitCodeOf(nil))
	assert.Equal(t, 7, exitCodeOf(clierrors.SDKFailed("preview", &sdk.ExitError{Action: "preview", ExitCode: 7})))
	assert.Equal(t, ExitFailure, exitCodeOf(errors.New("boom")))
}
