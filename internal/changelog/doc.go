// Package changelog turns recent commits into the free-text description
// attached to a Mini Program upload.
//
// This package implements:
//   - a small conventional-commit subject grammar (type, optional scope, description)
//   - three output modes: the latest commit only, a numbered list, or a
//     changelog grouped by commit type in a fixed order
//   - a hard length budget that always ends in an ellipsis when it cuts
//
// Composition never fails: empty input and unparsable subjects degrade to a
// fallback string and the chore group respectively.
package changelog
