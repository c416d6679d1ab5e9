package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		input string
		want  SemanticVersion
	}{
		"full version":           {input: "1.2.3", want: SemanticVersion{1, 2, 3}},
		"non-numeric component":  {input: "2.x.1", want: SemanticVersion{2, 0, 1}},
		"missing patch":          {input: "1.4", want: SemanticVersion{1, 4, 0}},
		"single component":       {input: "7", want: SemanticVersion{7, 0, 0}},
		"empty string":           {input: "", want: SemanticVersion{}},
		"garbage":                {input: "not-a-version", want: SemanticVersion{}},
		"prerelease suffix":      {input: "1.2.3-beta", want: SemanticVersion{1, 2, 0}},
		"v prefix":               {input: "v1.2.3", want: SemanticVersion{0, 2, 3}},
		"negative component":     {input: "1.-2.3", want: SemanticVersion{1, 0, 3}},
		"surrounding whitespace": {input: " 1. 2 .3 ", want: SemanticVersion{1, 2, 3}},
		"extra components":       {input: "1.2.3.4", want: SemanticVersion{1, 2, 3}},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Parse(tt.input))
		})
	}
}

func TestParse_RoundTrip(t *testing.T) {
	t.Parallel()

	for _, v := range []SemanticVersion{
		{0, 0, 0},
		{1, 0, 0},
		{0, 1, 0},
		{12, 34, 56},
		{2024, 1, 999},
	} {
		assert.Equal(t, v, Parse(v.String()), "round trip of %s", v)
	}
}

func TestSemanticVersion_String(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "3.0.12", SemanticVersion{3, 0, 12}.String())
}

func TestIncrement(t *testing.T) {
	t.Parallel()

	base := SemanticVersion{Major: 1, Minor: 4, Patch: 9}

	tests := map[string]struct {
		kind IncrementKind
		want SemanticVersion
	}{
		"patch":   {kind: Patch, want: SemanticVersion{1, 4, 10}},
		"minor":   {kind: Minor, want: SemanticVersion{1, 5, 0}},
		"major":   {kind: Major, want: SemanticVersion{2, 0, 0}},
		"unknown": {kind: IncrementKind("huge"), want: SemanticVersion{1, 4, 10}},
		"empty":   {kind: "", want: SemanticVersion{1, 4, 10}},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, base.Increment(tt.kind))
		})
	}
}

func TestIncrement_Properties(t *testing.T) {
	t.Parallel()

	for _, v := range []SemanticVersion{{0, 0, 0}, {1, 2, 3}, {9, 99, 999}} {
		p := v.Increment(Patch)
		assert.Equal(t, v.Patch+1, p.Patch)
		assert.Equal(t, v.Major, p.Major)
		assert.Equal(t, v.Minor, p.Minor)

		assert.Equal(t, SemanticVersion{v.Major, v.Minor + 1, 0}, v.Increment(Minor))
		assert.Equal(t, SemanticVersion{v.Major + 1, 0, 0}, v.Increment(Major))
	}
}

func TestParseIncrementKind(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		input string
		want  IncrementKind
	}{
		"major":      {input: "major", want: Major},
		"minor":      {input: "minor", want: Minor},
		"patch":      {input: "patch", want: Patch},
		"auto":       {input: "auto", want: Auto},
		"padded":     {input: " minor ", want: Minor},
		"unknown":    {input: "premajor", want: Patch},
		"empty":      {input: "", want: Patch},
		"wrong case": {input: "MAJOR", want: Patch},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ParseIncrementKind(tt.input))
		})
	}
}
