// Package release ties configuration, commit history and the version store
// together for the upload, preview and describe commands.
package release

import (
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/yuuuuuyu/miniapp-template/internal/changelog"
	"github.com/yuuuuuyu/miniapp-template/internal/config"
	"github.com/yuuuuuyu/miniapp-template/internal/git"
	"github.com/yuuuuuyu/miniapp-template/internal/manifest"
	"github.com/yuuuuuyu/miniapp-template/internal/version"
)

// Commits reads up to n recent commits from the project repository.
// Read failures are logged and yield no commits.
func Commits(projectPath string, n int, logger *zap.Logger) []changelog.Commit {
	records, err := git.RecentCommits(projectPath, n)
	if err != nil {
		logger.Warn("failed to read commit history", zap.String("path", projectPath), zap.Error(err))
		return nil
	}

	commits := make([]changelog.Commit, 0, len(records))
	for _, r := range records {
		commits = append(commits, changelog.Commit{
			Hash:    r.Hash,
			Author:  r.Author,
			Date:    r.Date,
			Message: r.Subject,
		})
	}
	return commits
}

// DescribeOptions overrides the configured description settings. Nil fields
// keep the configured value.
type DescribeOptions struct {
	Format      *string
	MaxLength   *int
	IncludeHash *bool
}

// ComposeOptions merges the upload config with overrides.
func ComposeOptions(cfg config.UploadConfig, o DescribeOptions) changelog.Options {
	format := cfg.DescFormat
	if o.Format != nil {
		format = *o.Format
	}
	opts := changelog.Options{
		Format:      changelog.ParseFormat(format),
		MaxLength:   cfg.DescMaxLength,
		IncludeHash: cfg.IncludeHash,
	}
	if o.MaxLength != nil {
		opts.MaxLength = *o.MaxLength
	}
	if o.IncludeHash != nil {
		opts.IncludeHash = *o.IncludeHash
	}
	opts.GroupByType = opts.Format == changelog.FormatChangelog
	return opts
}

// VersionState returns the version state for the configured project:
// the manifest store, the version override variable and the fallback.
func VersionState(cfg *config.Configuration, logger *zap.Logger) *version.State {
	store := manifest.NewStore(cfg.ManifestPath(), logger)
	return version.NewState(store,
		version.WithOverride(Override(cfg.Upload.VersionEnv)),
		version.WithFallback(cfg.Upload.Version),
		version.WithLogger(logger),
	)
}

// Override returns the value of the version override variable.
func Override(envName string) string {
	if envName == "" {
		envName = "VERSION"
	}
	return strings.TrimSpace(os.Getenv(envName))
}

// ResolveKind turns Auto into a concrete kind using the commit subjects.
func ResolveKind(kind version.IncrementKind, commits []changelog.Commit) version.IncrementKind {
	if kind != version.Auto {
		return kind
	}
	messages := make([]string, 0, len(commits))
	for _, c := range commits {
		messages = append(messages, c.Message)
	}
	return version.SuggestKind(messages)
}
