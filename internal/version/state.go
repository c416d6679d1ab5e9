package version

import (
	"errors"
	"io/fs"

	"go.uber.org/zap"
)

// DefaultFallback is used when neither the override nor the store has a version.
const DefaultFallback = "1.0.0"

// Store persists the project version.
// Read returns the stored version exactly as written and reports false when
// none is present; it never fails.
type Store interface {
	Read() (string, bool)
	Write(SemanticVersion) error
}

// State resolves and advances the project version.
// The read-then-write in Next is not locked; concurrent runs against the
// same store must be serialized by the caller.
type State struct {
	store    Store
	override string
	fallback string
	logger   *zap.Logger
}

// Option configures a State.
type Option func(*State)

// WithOverride sets an explicit version that takes precedence over the store.
// An empty value is ignored.
func WithOverride(v string) Option {
	return func(s *State) {
		s.override = v
	}
}

// WithFallback sets the version used when nothing else is available.
func WithFallback(v string) Option {
	return func(s *State) {
		if v != "" {
			s.fallback = v
		}
	}
}

// WithLogger sets the logger used for persistence warnings.
func WithLogger(l *zap.Logger) Option {
	return func(s *State) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewState creates a State backed by store. A nil store behaves as empty.
func NewState(store Store, opts ...Option) *State {
	s := &State{
		store:    store,
		fallback: DefaultFallback,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Current returns the override if set, then the stored version, then the
// fallback. Override and stored values are returned verbatim; only Next
// parses them.
func (s *State) Current() string {
	if s.override != "" {
		return s.override
	}
	if s.store != nil {
		if v, ok := s.store.Read(); ok {
			return v
		}
	}
	return s.fallback
}

// Next resolves the current version, increments it by kind and tries to
// persist the result. A failed write is logged; next is returned regardless.
func (s *State) Next(kind IncrementKind) (current, next string) {
	current = s.Current()
	next = Parse(current).Increment(kind).String()

	if s.store == nil {
		return current, next
	}

	if err := s.store.Write(Parse(next)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Debug("version store absent, new version not persisted",
				zap.String("version", next))
		} else {
			s.logger.Warn("failed to persist version, continuing with new version",
				zap.String("version", next), zap.Error(err))
		}
		return current, next
	}

	s.logger.Info("version updated", zap.String("from", current), zap.String("to", next))
	return current, next
}
