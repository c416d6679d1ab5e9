// Package git tests commit history, author and branch lookups.
// Related: internal/git/git.go
// Tags: git, history, commits, vcs

package git

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// initRepo creates a repository in a temp dir with one commit per message.
// Commits are one day apart, starting 2024-01-10.
func initRepo(t *testing.T, messages ...string) string {
	t.Helper()

	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	worktree, err := repo.Worktree()
	require.NoError(t, err)

	start := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	for i, msg := range messages {
		name := fmt.Sprintf("file-%d.txt", i)
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(msg), 0o644))
		_, err = worktree.Add(name)
		require.NoError(t, err)

		sig := &object.Signature{
			Name:  fmt.Sprintf("Author %d", i),
			Email: fmt.Sprintf("author%d@example.com", i),
			When:  start.Add(time.Duration(i) * 24 * time.Hour),
		}
		_, err = worktree.Commit(msg, &git.CommitOptions{Author: sig, Committer: sig})
		require.NoError(t, err)
	}

	return dir
}

func TestRecentCommits(t *testing.T) {
	t.Parallel()

	dir := initRepo(t,
		"chore: initial commit",
		"feat(api): add export\n\nLonger body that should not appear.",
		"fix: login bug",
	)

	commits, err := RecentCommits(dir, 5)
	require.NoError(t, err)
	require.Len(t, commits, 3)

	assert.Equal(t, "fix: login bug", commits[0].Subject)
	assert.Equal(t, "Author 2", commits[0].Author)
	assert.Equal(t, "2024-01-12", commits[0].Date)
	assert.Len(t, commits[0].Hash, 7)

	assert.Equal(t, "feat(api): add export", commits[1].Subject)
	assert.Equal(t, "chore: initial commit", commits[2].Subject)
}

func TestRecentCommits_Limit(t *testing.T) {
	t.Parallel()

	dir := initRepo(t, "one", "two", "three", "four")

	tests := map[string]struct {
		n    int
		want []string
	}{
		"fewer than history": {n: 2, want: []string{"four", "three"}},
		"more than history":  {n: 10, want: []string{"four", "three", "two", "one"}},
		"default when zero":  {n: 0, want: []string{"four", "three", "two", "one"}},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			commits, err := RecentCommits(dir, tt.n)
			require.NoError(t, err)

			subjects := make([]string, len(commits))
			for i, c := range commits {
				subjects[i] = c.Subject
			}
			assert.Equal(t, tt.want, subjects)
		})
	}
}

func TestRecentCommits_FromSubdirectory(t *testing.T) {
	t.Parallel()

	dir := initRepo(t, "feat: nested lookup")
	sub := filepath.Join(dir, "miniprogram", "pages")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	commits, err := RecentCommits(sub, 1)
	require.NoError(t, err)
	require.Len(t, commits, 1)
	assert.Equal(t, "feat: nested lookup", commits[0].Subject)
}

func TestRecentCommits_NotARepository(t *testing.T) {
	t.Parallel()

	commits, err := RecentCommits(t.TempDir(), 5)
	require.NoError(t, err)
	assert.Empty(t, commits)
}

func TestRecentCommits_EmptyRepository(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	_, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	commits, err := RecentCommits(dir, 5)
	require.NoError(t, err)
	assert.Empty(t, commits)
}

func TestSubjectLine(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		message string
		want    string
	}{
		"single line":        {message: "fix: typo", want: "fix: typo"},
		"with body":          {message: "feat: x\n\nbody text", want: "feat: x"},
		"trailing newline":   {message: "docs: readme\n", want: "docs: readme"},
		"leading whitespace": {message: "\n  chore: tidy  \nmore", want: "chore: tidy"},
		"empty":              {message: "", want: ""},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, subjectLine(tt.message))
		})
	}
}

func TestCurrentUser_RepositoryLocalConfig(t *testing.T) {
	t.Parallel()

	dir := initRepo(t, "chore: init")
	repo, err := git.PlainOpen(dir)
	require.NoError(t, err)

	cfg, err := repo.Config()
	require.NoError(t, err)
	cfg.User.Name = "Local Dev"
	cfg.User.Email = "dev@example.com"
	require.NoError(t, repo.SetConfig(cfg))

	user, err := CurrentUser(dir)
	require.NoError(t, err)
	assert.Equal(t, "Local Dev", user.Name)
	assert.Equal(t, "dev@example.com", user.Email)
}

func TestGetCurrentBranch(t *testing.T) {
	t.Parallel()

	dir := initRepo(t, "chore: init")
	repo, err := git.PlainOpen(dir)
	require.NoError(t, err)

	head, err := repo.Head()
	require.NoError(t, err)

	branch, err := GetCurrentBranch(dir)
	require.NoError(t, err)
	assert.Equal(t, head.Name().Short(), branch)

	// Detach HEAD.
	worktree, err := repo.Worktree()
	require.NoError(t, err)
	require.NoError(t, worktree.Checkout(&git.CheckoutOptions{Hash: head.Hash(), Keep: true}))

	branch, err = GetCurrentBranch(dir)
	require.NoError(t, err)
	assert.Empty(t, branch)
}

func TestGetRepositoryRoot(t *testing.T) {
	t.Parallel()

	dir := initRepo(t, "chore: init")
	sub := filepath.Join(dir, "src")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	root, err := GetRepositoryRoot(sub)
	require.NoError(t, err)

	want, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	got, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestIsGitRepository(t *testing.T) {
	t.Parallel()

	assert.True(t, IsGitRepository(initRepo(t, "chore: init")))
	assert.False(t, IsGitRepository(t.TempDir()))
}

func TestSetDebugLogger(t *testing.T) {
	var lines []string
	SetDebugLogger(func(format string, args ...any) {
		lines = append(lines, fmt.Sprintf(format, args...))
	})
	defer SetDebugLogger(nil)

	_ = IsGitRepository(t.TempDir())
	assert.NotEmpty(t, lines)
}
