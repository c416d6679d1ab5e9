package changelog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSubject(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		message   string
		want      Subject
		wantGroup string
		wantItem  string
	}{
		"type scope description": {
			message:   "feat(api): add export",
			want:      Subject{Raw: "feat(api): add export", Conventional: true, Type: "feat", Scope: "(api)", Description: "add export"},
			wantGroup: "feat",
			wantItem:  "(api)add export",
		},
		"type without scope": {
			message:   "docs: update readme",
			want:      Subject{Raw: "docs: update readme", Conventional: true, Type: "docs", Description: "update readme"},
			wantGroup: "docs",
			wantItem:  "update readme",
		},
		"no space after colon": {
			message:   "fix:typo",
			want:      Subject{Raw: "fix:typo", Conventional: true, Type: "fix", Description: "typo"},
			wantGroup: "fix",
			wantItem:  "typo",
		},
		"empty scope": {
			message:   "perf(): faster",
			want:      Subject{Raw: "perf(): faster", Conventional: true, Type: "perf", Scope: "()", Description: "faster"},
			wantGroup: "perf",
			wantItem:  "()faster",
		},
		"unknown type": {
			message:   "security: patch CVE",
			want:      Subject{Raw: "security: patch CVE", Conventional: true, Type: "security", Description: "patch CVE"},
			wantGroup: "chore",
			wantItem:  "patch CVE",
		},
		"free text": {
			message:   "random text",
			want:      Subject{Raw: "random text"},
			wantGroup: "chore",
			wantItem:  "random text",
		},
		"breaking marker is not in the grammar": {
			message:   "feat!: drop v1",
			want:      Subject{Raw: "feat!: drop v1"},
			wantGroup: "chore",
			wantItem:  "feat!: drop v1",
		},
		"missing description": {
			message:   "fix:",
			want:      Subject{Raw: "fix:"},
			wantGroup: "chore",
			wantItem:  "fix:",
		},
		"type is case sensitive": {
			message:   "Feat: shout",
			want:      Subject{Raw: "Feat: shout", Conventional: true, Type: "Feat", Description: "shout"},
			wantGroup: "chore",
			wantItem:  "shout",
		},
		"cjk description": {
			message:   "fix(api): 修复登录接口超时问题",
			want:      Subject{Raw: "fix(api): 修复登录接口超时问题", Conventional: true, Type: "fix", Scope: "(api)", Description: "修复登录接口超时问题"},
			wantGroup: "fix",
			wantItem:  "(api)修复登录接口超时问题",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got := ParseSubject(tt.message)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantGroup, got.Group())
			assert.Equal(t, tt.wantItem, got.Item())
		})
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	assert.Equal(t, FormatSimple, ParseFormat("simple"))
	assert.Equal(t, FormatChangelog, ParseFormat("changelog"))
	assert.Equal(t, FormatDetailed, ParseFormat("detailed"))
	assert.Equal(t, FormatDetailed, ParseFormat(""))
	assert.Equal(t, FormatDetailed, ParseFormat("markdown"))
}

func TestIsGroupType(t *testing.T) {
	t.Parallel()

	for _, typ := range []string{"feat", "fix", "docs", "style", "refactor", "perf", "test", "build", "ci", "chore"} {
		assert.True(t, IsGroupType(typ), typ)
	}
	assert.False(t, IsGroupType("security"))
}
