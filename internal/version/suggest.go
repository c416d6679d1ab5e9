package version

import (
	"strings"

	cc "github.com/leodido/go-conventionalcommits"
	"github.com/leodido/go-conventionalcommits/parser"
)

// SuggestKind derives an increment kind from commit messages: Major when any
// message marks a breaking change, Minor when any is a feature, else Patch.
// Messages that are not conventional commits count as patches.
func SuggestKind(messages []string) IncrementKind {
	machine := parser.NewMachine(parser.WithTypes(cc.TypesFreeForm))

	kind := Patch
	for _, msg := range messages {
		commit := parseCommit(machine, msg)
		if commit == nil {
			continue
		}
		if isBreaking(commit) {
			return Major
		}
		if strings.EqualFold(commit.Type, "feat") {
			kind = Minor
		}
	}
	return kind
}

func parseCommit(machine cc.Machine, msg string) *cc.ConventionalCommit {
	res, err := machine.Parse([]byte(strings.TrimSpace(msg)))
	if err != nil || res == nil {
		return nil
	}
	commit, ok := res.(*cc.ConventionalCommit)
	if !ok || commit.Type == "" {
		return nil
	}
	return commit
}

func isBreaking(c *cc.ConventionalCommit) bool {
	if c.Exclamation {
		return true
	}
	for key := range c.Footers {
		if strings.EqualFold(key, "breaking change") || strings.EqualFold(key, "breaking-change") {
			return true
		}
	}
	return false
}
