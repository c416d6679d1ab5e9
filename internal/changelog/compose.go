package changelog

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Compose renders commits into a description no longer than opts.MaxLength
// characters. It never fails; with no commits it returns FallbackDescription.
func Compose(commits []Commit, opts Options) string {
	if len(commits) == 0 {
		return FallbackDescription
	}

	var text string
	switch resolveFormat(opts) {
	case FormatSimple:
		text = composeSimple(commits[0], opts)
	case FormatChangelog:
		text = composeChangelog(commits, opts)
		if text == "" {
			return FallbackDescription
		}
	default:
		text = composeDetailed(commits, opts)
	}

	return Truncate(text, maxLength(opts))
}

// resolveFormat applies GroupByType on top of the requested format.
func resolveFormat(opts Options) Format {
	f := ParseFormat(string(opts.Format))
	if f == FormatDetailed && opts.GroupByType {
		return FormatChangelog
	}
	return f
}

func maxLength(opts Options) int {
	if opts.MaxLength <= 0 {
		return DefaultMaxLength
	}
	return opts.MaxLength
}

func hashSuffix(c Commit, opts Options) string {
	if !opts.IncludeHash || c.Hash == "" {
		return ""
	}
	return fmt.Sprintf(" (%s)", c.Hash)
}

func composeSimple(c Commit, opts Options) string {
	return c.Message + hashSuffix(c, opts)
}

func composeDetailed(commits []Commit, opts Options) string {
	lines := make([]string, 0, len(commits)+1)
	lines = append(lines, DetailedHeader)
	for i, c := range commits {
		lines = append(lines, fmt.Sprintf("%d. %s%s", i+1, c.Message, hashSuffix(c, opts)))
	}
	return strings.Join(lines, "\n")
}

func composeChangelog(commits []Commit, opts Options) string {
	var sb strings.Builder
	for _, g := range GroupCommits(commits, opts) {
		sb.WriteString(g.Title)
		sb.WriteString("\n")
		for _, item := range g.Items {
			sb.WriteString("- ")
			sb.WriteString(item)
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}
	return strings.TrimSpace(sb.String())
}

// GroupCommits buckets commits by subject type. Only non-empty groups are
// returned, in display order; items keep input order.
func GroupCommits(commits []Commit, opts Options) []Group {
	items := make(map[string][]string, len(groupTitles))
	for _, c := range commits {
		s := ParseSubject(c.Message)
		items[s.Group()] = append(items[s.Group()], s.Item()+hashSuffix(c, opts))
	}

	var groups []Group
	for _, g := range groupTitles {
		if len(items[g.typ]) == 0 {
			continue
		}
		groups = append(groups, Group{Type: g.typ, Title: g.title, Items: items[g.typ]})
	}
	return groups
}

// Truncate cuts text to limit characters, replacing the tail with "...".
// When limit is 3 or less the result is the first limit characters of "...".
func Truncate(text string, limit int) string {
	if utf8.RuneCountInString(text) <= limit {
		return text
	}
	if limit <= len(ellipsis) {
		return ellipsis[:max(limit, 0)]
	}
	runes := []rune(text)
	return string(runes[:limit-len(ellipsis)]) + ellipsis
}
