package version

import (
	"fmt"
	"strconv"
	"strings"
)

// SemanticVersion is a major.minor.patch triple. All components are >= 0.
type SemanticVersion struct {
	Major int
	Minor int
	Patch int
}

// Parse splits s on "." and converts the first three parts to integers.
// Missing, non-numeric and negative parts become 0.
func Parse(s string) SemanticVersion {
	parts := strings.Split(s, ".")
	return SemanticVersion{
		Major: component(parts, 0),
		Minor: component(parts, 1),
		Patch: component(parts, 2),
	}
}

func component(parts []string, i int) int {
	if i >= len(parts) {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(parts[i]))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// String renders the version as "major.minor.patch".
func (v SemanticVersion) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// IncrementKind selects which component Increment advances.
type IncrementKind string

const (
	Major IncrementKind = "major"
	Minor IncrementKind = "minor"
	Patch IncrementKind = "patch"
	// Auto derives the kind from commit subjects, see SuggestKind.
	Auto IncrementKind = "auto"
)

// ParseIncrementKind maps s to a known kind. Unknown values become Patch.
func ParseIncrementKind(s string) IncrementKind {
	switch k := IncrementKind(strings.TrimSpace(s)); k {
	case Major, Minor, Patch, Auto:
		return k
	default:
		return Patch
	}
}

// Increment returns the next version. Lower components reset to zero;
// anything other than Major or Minor bumps the patch component.
func (v SemanticVersion) Increment(kind IncrementKind) SemanticVersion {
	switch kind {
	case Major:
		return SemanticVersion{Major: v.Major + 1}
	case Minor:
		return SemanticVersion{Major: v.Major, Minor: v.Minor + 1}
	default:
		return SemanticVersion{Major: v.Major, Minor: v.Minor, Patch: v.Patch + 1}
	}
}
