package cli

import (
	"regexp"
	"strings"
	"testing"

	"github.com/google/shlex"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yuuuuuyu/miniapp-template/internal/testutil"
)

var helpFlagPattern = regexp.MustCompile(`--([a-z][a-z0-9-]*)`)

func allCommands(cmd *cobra.Command) []*cobra.Command {
	cmds := []*cobra.Command{cmd}
	for _, c := range cmd.Commands() {
		cmds = append(cmds, allCommands(c)...)
	}
	return cmds
}

func hasFlag(cmd *cobra.Command, name string) bool {
	return cmd.Flags().Lookup(name) != nil ||
		cmd.PersistentFlags().Lookup(name) != nil ||
		cmd.InheritedFlags().Lookup(name) != nil
}

func TestHelp_ExamplesUseExistingFlags(t *testing.T) {
	for _, cmd := range allCommands(rootCmd) {
		for _, line := range strings.Split(cmd.Example, "\n") {
			line = strings.TrimSpace(line)
			if !strings.HasPrefix(line, "mpci ") {
				continue
			}

			tokens, err := shlex.Split(line)
			require.NoError(t, err, line)

			target, rest, err := rootCmd.Find(tokens[1:])
			require.NoError(t, err, line)

			for _, tok := range rest {
				if !strings.HasPrefix(tok, "--") {
					continue
				}
				name, _, _ := strings.Cut(strings.TrimPrefix(tok, "--"), "=")
				assert.True(t, hasFlag(target, name), "%q: %s has no flag --%s", line, target.CommandPath(), name)
			}
		}
	}
}

func TestHelp_LongTextNamesExistingFlags(t *testing.T) {
	for _, cmd := range allCommands(rootCmd) {
		for _, m := range helpFlagPattern.FindAllStringSubmatch(cmd.Long, -1) {
			assert.True(t, hasFlag(cmd, m[1]), "%s help mentions unknown flag --%s", cmd.CommandPath(), m[1])
		}
	}
}

func TestDescribe_ChangelogExample(t *testing.T) {
	isolatedEnv(t)
	dir := testutil.NewProject(t, testutil.ProjectOptions{Commits: []string{"feat(api): add export", "fix: login"}})

	out, err := execute(t, "describe", "--project", dir,
		"--desc-format", "changelog", "--commit-count", "10", "--include-hash=false")
	require.NoError(t, err)
	assert.Equal(t, "✨ Features\n- (api)add export\n\n🐛 Bug Fixes\n- login\n", out)
}
