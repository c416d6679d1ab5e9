// Package version tracks the project's semantic version.
//
// A SemanticVersion is parsed leniently: malformed components become zero
// instead of producing an error. State resolves the current version from an
// override, a persisted Store and a fallback, and advances it with
// best-effort persistence.
package version
