package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yuuuuuyu/miniapp-template/internal/build"
	"github.com/yuuuuuyu/miniapp-template/internal/testutil"
)

func TestVersionCmd_Plain(t *testing.T) {
	isolatedEnv(t)

	out, err := execute(t, "version", "--plain")
	require.NoError(t, err)

	info := build.Current()
	assert.Contains(t, out, "mpci "+info.Version+"\n")
	assert.Contains(t, out, "commit: "+info.Commit+"\n")
	assert.Contains(t, out, "go: "+info.GoVersion+"\n")
	assert.Contains(t, out, "platform: "+info.Platform+"\n")
}

func TestVersionCmd_Formatted(t *testing.T) {
	isolatedEnv(t)

	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "mpci "+build.Current().Version)
	assert.Contains(t, out, "Platform: ")
}

func TestVersionCurrent(t *testing.T) {
	tests := map[string]struct {
		version  string
		config   string
		override string
		want     string
	}{
		"manifest": {
			version: "1.2.3",
			want:    "1.2.3\n",
		},
		"fallback without manifest": {
			config: "upload:\n  version: 0.9.0\n",
			want:   "0.9.0\n",
		},
		"env override verbatim": {
			version:  "1.2.3",
			override: "2024.10.1-rc",
			want:     "2024.10.1-rc\n",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			isolatedEnv(t)
			if tt.override != "" {
				t.Setenv("VERSION", tt.override)
			}
			dir := testutil.NewProject(t, testutil.ProjectOptions{Version: tt.version, Config: tt.config})

			out, err := execute(t, "version", "current", "--project", dir)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestVersionNext_DoesNotPersist(t *testing.T) {
	tests := map[string]struct {
		args []string
		want string
	}{
		"config default is patch": {want: "1.2.4\n"},
		"minor":                   {args: []string{"minor"}, want: "1.3.0\n"},
		"major":                   {args: []string{"major"}, want: "2.0.0\n"},
		"case insensitive":        {args: []string{"MINOR"}, want: "1.3.0\n"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			isolatedEnv(t)
			dir := testutil.NewProject(t, testutil.ProjectOptions{Version: "1.2.3"})
			before := readManifest(t, dir)

			out, err := execute(t, append([]string{"version", "next", "--project", dir}, tt.args...)...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
			assert.Equal(t, before, readManifest(t, dir))
		})
	}
}

func TestVersionNext_InvalidKind(t *testing.T) {
	isolatedEnv(t)
	dir := testutil.NewProject(t, testutil.ProjectOptions{Version: "1.2.3"})

	_, err := execute(t, "version", "next", "huge", "--project", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid increment type: huge")
	assert.Equal(t, ExitInvalidArguments, ExitCode(err))
}

func TestVersionBump(t *testing.T) {
	tests := map[string]struct {
		commits []string
		args    []string
		want    string
	}{
		"major": {
			args: []string{"major"},
			want: "2.0.0",
		},
		"auto picks minor for features": {
			commits: []string{"chore: init", "feat: add coupons"},
			args:    []string{"auto"},
			want:    "1.3.0",
		},
		"auto picks major for breaking changes": {
			commits: []string{"fix: typo", "feat!: drop legacy login"},
			args:    []string{"auto"},
			want:    "2.0.0",
		},
		"auto picks patch otherwise": {
			commits: []string{"docs: readme"},
			args:    []string{"auto"},
			want:    "1.2.4",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			isolatedEnv(t)
			dir := testutil.NewProject(t, testutil.ProjectOptions{Version: "1.2.3", Commits: tt.commits})

			out, err := execute(t, append([]string{"version", "bump", "--quiet", "--project", dir}, tt.args...)...)
			require.NoError(t, err)
			assert.Equal(t, tt.want+"\n", out)
			assert.Contains(t, readManifest(t, dir), `"version": "`+tt.want+`"`)
		})
	}
}

func TestVersionBump_Summary(t *testing.T) {
	isolatedEnv(t)
	dir := testutil.NewProject(t, testutil.ProjectOptions{Version: "1.2.3"})

	out, err := execute(t, "version", "bump", "minor", "--project", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Version bumped")
	assert.Contains(t, out, "From: 1.2.3")
	assert.Contains(t, out, "To: 1.3.0")
	assert.Contains(t, out, "Increment: minor")
	assert.Equal(t, "{\n  \"name\": \"fixture\",\n  \"version\": \"1.3.0\"\n}\n", readManifest(t, dir))
}

func TestParseKind(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		value    string
		fallback string
		want     string
		wantErr  bool
	}{
		"explicit":       {value: "major", fallback: "patch", want: "major"},
		"fallback":       {value: "", fallback: "minor", want: "minor"},
		"trimmed":        {value: "  auto ", fallback: "patch", want: "auto"},
		"invalid":        {value: "huge", fallback: "patch", wantErr: true},
		"invalid config": {value: "", fallback: "weekly", wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, err := parseKind(tt.value, tt.fallback)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}
