package build

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShortCommit(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		commit string
		want   string
	}{
		"full hash":  {commit: "0123456789abcdef", want: "0123456"},
		"short hash": {commit: "abc", want: "abc"},
		"unknown":    {commit: "unknown", want: "unknown"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ShortCommit(tt.commit))
		})
	}
}

func TestCurrent(t *testing.T) {
	t.Parallel()

	info := Current()
	assert.Equal(t, Version, info.Version)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, info.Platform)
	assert.True(t, IsDevBuild())
}
