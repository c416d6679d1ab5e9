package version

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// memStore is an in-memory Store.
type memStore struct {
	version  string
	present  bool
	writeErr error
	writes   []SemanticVersion
}

func (m *memStore) Read() (string, bool) {
	return m.version, m.present
}

func (m *memStore) Write(v SemanticVersion) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	m.writes = append(m.writes, v)
	m.version = v.String()
	m.present = true
	return nil
}

func TestState_Current(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		store Store
		opts  []Option
		want  string
	}{
		"override wins over store": {
			store: &memStore{version: "2.0.0", present: true},
			opts:  []Option{WithOverride("9.9.9-rc1")},
			want:  "9.9.9-rc1",
		},
		"store used when no override": {
			store: &memStore{version: "2.3.4", present: true},
			want:  "2.3.4",
		},
		"stored prerelease returned verbatim": {
			store: &memStore{version: "1.2.3-beta.1", present: true},
			want:  "1.2.3-beta.1",
		},
		"stored short version not padded": {
			store: &memStore{version: "2.1", present: true},
			want:  "2.1",
		},
		"fallback when store empty": {
			store: &memStore{},
			want:  DefaultFallback,
		},
		"custom fallback": {
			store: &memStore{},
			opts:  []Option{WithFallback("0.1.0")},
			want:  "0.1.0",
		},
		"empty override ignored": {
			store: &memStore{version: "1.1.1", present: true},
			opts:  []Option{WithOverride("")},
			want:  "1.1.1",
		},
		"nil store falls back": {
			store: nil,
			want:  DefaultFallback,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, NewState(tt.store, tt.opts...).Current())
		})
	}
}

func TestState_Next(t *testing.T) {
	t.Parallel()

	store := &memStore{version: "1.2.3", present: true}
	state := NewState(store)

	current, next := state.Next(Minor)
	assert.Equal(t, "1.2.3", current)
	assert.Equal(t, "1.3.0", next)
	assert.Equal(t, []SemanticVersion{{1, 3, 0}}, store.writes)

	// A second call reads the persisted value.
	current, next = state.Next(Patch)
	assert.Equal(t, "1.3.0", current)
	assert.Equal(t, "1.3.1", next)
}

func TestState_Next_WriteFailureStillReturnsNewVersion(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	store := &memStore{
		version:  "1.0.0",
		present:  true,
		writeErr: errors.New("read-only file system"),
	}
	state := NewState(store, WithLogger(zap.New(core)))

	current, next := state.Next(Patch)
	assert.Equal(t, "1.0.0", current)
	assert.Equal(t, "1.0.1", next)

	warnings := logs.FilterLevelExact(zapcore.WarnLevel).All()
	if assert.Len(t, warnings, 1) {
		assert.Contains(t, warnings[0].Message, "failed to persist version")
	}
}

func TestState_Next_MissingStoreLogsDebugOnly(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	store := &memStore{writeErr: fmt.Errorf("manifest: %w", fs.ErrNotExist)}
	state := NewState(store, WithLogger(zap.New(core)))

	_, next := state.Next(Major)
	assert.Equal(t, "2.0.0", next)
	assert.Empty(t, logs.FilterLevelExact(zapcore.WarnLevel).All())
	assert.Len(t, logs.FilterLevelExact(zapcore.DebugLevel).All(), 1)
}

func TestState_Next_FromOverride(t *testing.T) {
	t.Parallel()

	store := &memStore{version: "5.0.0", present: true}
	state := NewState(store, WithOverride("3.1.4"))

	current, next := state.Next(Patch)
	assert.Equal(t, "3.1.4", current)
	assert.Equal(t, "3.1.5", next)
	assert.Equal(t, []SemanticVersion{{3, 1, 5}}, store.writes)
}

func TestState_Next_ParsesVerbatimStoredVersion(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		stored      string
		kind        IncrementKind
		wantCurrent string
		wantNext    string
	}{
		"prerelease": {stored: "1.2.3-beta.1", kind: Patch, wantCurrent: "1.2.3-beta.1", wantNext: "1.2.1"},
		"short":      {stored: "2.1", kind: Minor, wantCurrent: "2.1", wantNext: "2.2.0"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			store := &memStore{version: tt.stored, present: true}

			current, next := NewState(store).Next(tt.kind)
			assert.Equal(t, tt.wantCurrent, current)
			assert.Equal(t, tt.wantNext, next)
		})
	}
}
