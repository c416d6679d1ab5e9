package changelog

// Commit is one version-control commit, as supplied by the history reader.
// Commits are expected newest first.
type Commit struct {
	Hash    string
	Author  string
	Date    string
	Message string
}

// Format selects how commits are rendered.
type Format string

const (
	// FormatSimple renders only the most recent commit.
	FormatSimple Format = "simple"
	// FormatDetailed renders a numbered list under a header line.
	FormatDetailed Format = "detailed"
	// FormatChangelog groups commits by conventional-commit type.
	FormatChangelog Format = "changelog"
)

// ParseFormat maps s to a known format, defaulting to FormatDetailed.
func ParseFormat(s string) Format {
	switch f := Format(s); f {
	case FormatSimple, FormatDetailed, FormatChangelog:
		return f
	default:
		return FormatDetailed
	}
}

// Formats lists the accepted format names.
func Formats() []string {
	return []string{string(FormatSimple), string(FormatDetailed), string(FormatChangelog)}
}

const (
	// DefaultMaxLength bounds the composed description when Options.MaxLength <= 0.
	DefaultMaxLength = 500

	// FallbackDescription is returned when there is nothing to describe.
	FallbackDescription = "Automated upload, no commit information available"

	// DetailedHeader is the first line of a detailed description.
	DetailedHeader = "Recent changes:"

	ellipsis = "..."
)

// Options controls Compose.
type Options struct {
	Format      Format
	MaxLength   int
	IncludeHash bool
	// GroupByType forces grouped rendering for the detailed format.
	// It is implied by FormatChangelog.
	GroupByType bool
}

// DefaultOptions returns the detailed format with hashes and a 500 character budget.
func DefaultOptions() Options {
	return Options{
		Format:      FormatDetailed,
		MaxLength:   DefaultMaxLength,
		IncludeHash: true,
	}
}

// Group is one changelog bucket with its display title.
type Group struct {
	Type  string
	Title string
	Items []string
}

// groupTitles holds the recognized commit types in display order.
var groupTitles = []struct {
	typ   string
	title string
}{
	{"feat", "✨ Features"},
	{"fix", "🐛 Bug Fixes"},
	{"docs", "📝 Documentation"},
	{"style", "💄 Styles"},
	{"refactor", "♻️ Refactoring"},
	{"perf", "⚡ Performance"},
	{"test", "✅ Tests"},
	{"build", "📦 Build"},
	{"ci", "👷 CI"},
	{"chore", "🔧 Chores"},
}

// defaultGroup receives unrecognized types and free-form subjects.
const defaultGroup = "chore"

// IsGroupType reports whether t is one of the recognized commit types.
func IsGroupType(t string) bool {
	for _, g := range groupTitles {
		if g.typ == t {
			return true
		}
	}
	return false
}
