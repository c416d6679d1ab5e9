package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

// InitRepo creates a repository in a temp dir with one commit per message.
// Commits are one day apart, starting 2024-01-10.
func InitRepo(t *testing.T, messages ...string) string {
	t.Helper()

	dir := t.TempDir()
	_, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	Commit(t, dir, messages...)
	return dir
}

// Commit adds one commit per message to the repository at dir.
func Commit(t *testing.T, dir string, messages ...string) {
	t.Helper()

	repo, err := git.PlainOpen(dir)
	require.NoError(t, err)
	worktree, err := repo.Worktree()
	require.NoError(t, err)

	start := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	offset := 0
	if head, err := repo.Head(); err == nil {
		if c, err := repo.CommitObject(head.Hash()); err == nil {
			start = c.Author.When
			offset = 1
		}
	}

	for i, msg := range messages {
		when := start.Add(time.Duration(i+offset) * 24 * time.Hour)
		name := "change-" + when.Format("20060102") + ".txt"
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(msg), 0o644))
		_, err = worktree.Add(name)
		require.NoError(t, err)

		sig := &object.Signature{
			Name:  fmt.Sprintf("Author %d", i),
			Email: fmt.Sprintf("author%d@example.com", i),
			When:  when,
		}
		_, err = worktree.Commit(msg, &git.CommitOptions{Author: sig, Committer: sig})
		require.NoError(t, err)
	}
}
