package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuggestKind(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		messages []string
		want     IncrementKind
	}{
		"no messages": {
			messages: nil,
			want:     Patch,
		},
		"only fixes": {
			messages: []string{"fix: handle nil config", "docs: update readme"},
			want:     Patch,
		},
		"feature present": {
			messages: []string{"fix(api): timeout", "feat(pages): add profile page"},
			want:     Minor,
		},
		"breaking marker": {
			messages: []string{"feat(api)!: drop v1 endpoints", "fix: typo"},
			want:     Major,
		},
		"free text only": {
			messages: []string{"random text", "WIP"},
			want:     Patch,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, SuggestKind(tt.messages))
		})
	}
}
