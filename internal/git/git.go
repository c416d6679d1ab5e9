// Package git reads repository metadata for mpci: recent commit history,
// the configured author and the current branch. It uses the go-git library
// so that no git executable is required on CI machines.
package git

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
)

// DefaultCommitCount is used when RecentCommits is asked for n <= 0 commits.
const DefaultCommitCount = 5

// shortHashLen matches git's default abbreviated hash length.
const shortHashLen = 7

// debugLogger is a function that logs debug messages when debug mode is enabled.
// By default, it's a no-op. Set it via SetDebugLogger to enable debug output.
var debugLogger func(format string, args ...any)

// SetDebugLogger configures the debug logger for git operations.
// Pass nil to disable debug logging.
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger(format, args...)
	}
}

// openRepo opens the repository containing path, walking up to find .git.
// If path is empty, the current working directory is used.
func openRepo(path string) (*git.Repository, error) {
	if path == "" {
		var err error
		path, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
	}

	logDebug("[git] opening repository at %s", path)

	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}
	return repo, nil
}

// Commit is the summary of one commit: abbreviated hash, author name,
// author date (YYYY-MM-DD) and subject line.
type Commit struct {
	Hash    string
	Author  string
	Date    string
	Subject string
}

// RecentCommits returns up to n commits reachable from HEAD, newest first.
// A path outside any repository, or a repository without commits, yields
// an empty slice and no error.
func RecentCommits(path string, n int) ([]Commit, error) {
	if n <= 0 {
		n = DefaultCommitCount
	}

	repo, err := openRepo(path)
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			logDebug("[git] RecentCommits: not a repository")
			return nil, nil
		}
		return nil, err
	}

	head, err := repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			logDebug("[git] RecentCommits: repository has no commits")
			return nil, nil
		}
		return nil, fmt.Errorf("getting HEAD reference: %w", err)
	}

	iter, err := repo.Log(&git.LogOptions{From: head.Hash(), Order: git.LogOrderCommitterTime})
	if err != nil {
		return nil, fmt.Errorf("reading log: %w", err)
	}
	defer iter.Close()

	commits := make([]Commit, 0, n)
	err = iter.ForEach(func(c *object.Commit) error {
		if len(commits) >= n {
			return storer.ErrStop
		}
		commits = append(commits, summarize(c))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterating log: %w", err)
	}

	logDebug("[git] RecentCommits: read %d commits", len(commits))
	return commits, nil
}

func summarize(c *object.Commit) Commit {
	hash := c.Hash.String()
	if len(hash) > shortHashLen {
		hash = hash[:shortHashLen]
	}
	return Commit{
		Hash:    hash,
		Author:  c.Author.Name,
		Date:    c.Author.When.Format("2006-01-02"),
		Subject: subjectLine(c.Message),
	}
}

// subjectLine returns the first line of a commit message.
func subjectLine(message string) string {
	message = strings.TrimSpace(message)
	if i := strings.IndexByte(message, '\n'); i >= 0 {
		message = message[:i]
	}
	return strings.TrimSpace(message)
}

// User is the committer identity from git configuration.
type User struct {
	Name  string
	Email string
}

// CurrentUser returns user.name and user.email, preferring repository-local
// settings over global ones. Outside a repository only global settings apply.
func CurrentUser(path string) (User, error) {
	var cfg *config.Config

	repo, err := openRepo(path)
	if err == nil {
		cfg, err = repo.ConfigScoped(config.GlobalScope)
	} else {
		cfg, err = config.LoadConfig(config.GlobalScope)
	}
	if err != nil {
		return User{}, fmt.Errorf("loading git config: %w", err)
	}

	user := User{Name: cfg.User.Name, Email: cfg.User.Email}
	logDebug("[git] CurrentUser: %q", user.Name)
	return user, nil
}

// GetCurrentBranch returns the name of the current branch, or an empty
// string when HEAD is detached.
func GetCurrentBranch(path string) (string, error) {
	repo, err := openRepo(path)
	if err != nil {
		return "", err
	}

	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("getting HEAD reference: %w", err)
	}

	if !head.Name().IsBranch() {
		logDebug("[git] GetCurrentBranch: detached HEAD state")
		return "", nil
	}

	branch := head.Name().Short()
	logDebug("[git] GetCurrentBranch: %s", branch)
	return branch, nil
}

// GetRepositoryRoot returns the absolute path to the repository root.
func GetRepositoryRoot(path string) (string, error) {
	repo, err := openRepo(path)
	if err != nil {
		return "", err
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("getting worktree: %w", err)
	}

	root := worktree.Filesystem.Root()
	logDebug("[git] GetRepositoryRoot: %s", root)
	return root, nil
}

// IsGitRepository checks if path is within a git repository.
func IsGitRepository(path string) bool {
	_, err := openRepo(path)
	result := err == nil
	logDebug("[git] IsGitRepository: %v", result)
	return result
}
