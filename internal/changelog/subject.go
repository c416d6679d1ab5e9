package changelog

import "regexp"

// subjectPattern is type, optional parenthesized scope, colon, description.
var subjectPattern = regexp.MustCompile(`^(\w+)(\([^)]*\))?:\s*(.+)$`)

// Subject is a parsed commit subject. When Conventional is false only Raw
// is meaningful.
type Subject struct {
	Raw          string
	Conventional bool
	Type         string
	// Scope keeps its surrounding parentheses, e.g. "(api)".
	Scope       string
	Description string
}

// ParseSubject matches message against the conventional-commit grammar.
func ParseSubject(message string) Subject {
	m := subjectPattern.FindStringSubmatch(message)
	if m == nil {
		return Subject{Raw: message}
	}
	return Subject{
		Raw:          message,
		Conventional: true,
		Type:         m[1],
		Scope:        m[2],
		Description:  m[3],
	}
}

// Group returns the changelog bucket for the subject.
func (s Subject) Group() string {
	if s.Conventional && IsGroupType(s.Type) {
		return s.Type
	}
	return defaultGroup
}

// Item renders the subject as a changelog line body, without bullet or hash.
// The scope is joined to the description as is: "(api)add export".
func (s Subject) Item() string {
	if !s.Conventional {
		return s.Raw
	}
	return s.Scope + s.Description
}
