package release

import (
	"strings"

	"github.com/yuuuuuyu/miniapp-template/internal/changelog"
	"github.com/yuuuuuyu/miniapp-template/internal/version"
)

// VersionSource says where the upload version came from.
type VersionSource string

const (
	SourceExplicit  VersionSource = "explicit"
	SourceIncrement VersionSource = "auto-increment"
	SourceCurrent   VersionSource = "current"
)

// VersionDecision is the outcome of ResolveUploadVersion.
type VersionDecision struct {
	Source  VersionSource
	Version string
	// Previous and Kind are set for SourceIncrement.
	Previous string
	Kind     version.IncrementKind
}

// VersionRequest holds the upload command's version inputs.
type VersionRequest struct {
	Explicit      string
	AutoIncrement bool
	Kind          version.IncrementKind
}

// ResolveUploadVersion picks the upload version: an explicit version wins,
// then an increment (persisted to the store), then the current version.
func ResolveUploadVersion(state *version.State, req VersionRequest, commits []changelog.Commit) VersionDecision {
	if v := strings.TrimSpace(req.Explicit); v != "" {
		return VersionDecision{Source: SourceExplicit, Version: v}
	}

	if req.AutoIncrement {
		kind := ResolveKind(req.Kind, commits)
		current, next := state.Next(kind)
		return VersionDecision{Source: SourceIncrement, Version: next, Previous: current, Kind: kind}
	}

	return VersionDecision{Source: SourceCurrent, Version: state.Current()}
}

// Description picks the upload description: explicit when set, otherwise
// the composed commit summary. Without commits, fallback is used when set.
func Description(explicit, fallback string, commits []changelog.Commit, opts changelog.Options) string {
	if strings.TrimSpace(explicit) != "" {
		return explicit
	}
	if len(commits) == 0 && strings.TrimSpace(fallback) != "" {
		return fallback
	}
	return changelog.Compose(commits, opts)
}
