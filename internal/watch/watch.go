// Package watch re-runs a build whenever files under a project change.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultDebounce is how long changes must settle before a rebuild.
const DefaultDebounce = 500 * time.Millisecond

// BuildFunc is called once at start with no changes and then with each
// settled batch of changed paths, relative to the root.
type BuildFunc func(ctx context.Context, changed []string) error

// Options configures Run.
type Options struct {
	Root string
	// Ignore holds gitignore-style patterns relative to Root.
	Ignore   []string
	Debounce time.Duration
	Logger   *zap.Logger
}

// Run watches opts.Root recursively and calls build until ctx is done.
// Build errors are logged and watching continues. Run returns nil when ctx
// is cancelled.
func Run(parent context.Context, opts Options, build BuildFunc) error {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return fmt.Errorf("resolving watch root: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	w := &projectWatcher{
		root:    root,
		matcher: NewMatcher(opts.Ignore),
		watcher: watcher,
		logger:  opts.Logger,
	}
	if err := w.addTree(root); err != nil {
		return err
	}

	changes := make(chan string, 64)
	g, ctx := errgroup.WithContext(parent)

	g.Go(func() error {
		defer close(changes)
		return w.forward(ctx, changes)
	})
	g.Go(func() error {
		return w.rebuildLoop(ctx, changes, opts.Debounce, build)
	})

	if err := g.Wait(); err != nil && parent.Err() == nil {
		return err
	}
	return nil
}

type projectWatcher struct {
	root    string
	matcher *Matcher
	watcher *fsnotify.Watcher
	logger  *zap.Logger
}

// addTree watches dir and every non-ignored directory below it.
func (w *projectWatcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return fmt.Errorf("walking %s: %w", path, err)
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.root && w.ignored(path, true) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
}

func (w *projectWatcher) rel(path string) string {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}

func (w *projectWatcher) ignored(path string, isDir bool) bool {
	return w.matcher.Match(w.rel(path), isDir)
}

// forward turns fsnotify events into relative paths of interest.
func (w *projectWatcher) forward(ctx context.Context, changes chan<- string) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}

			info, statErr := os.Stat(event.Name)
			isDir := statErr == nil && info.IsDir()
			if w.ignored(event.Name, isDir) {
				continue
			}
			if isDir && event.Op&fsnotify.Create != 0 {
				if err := w.addTree(event.Name); err != nil {
					w.logger.Warn("failed to watch new directory", zap.String("path", event.Name), zap.Error(err))
				}
			}

			w.logger.Debug("file changed", zap.String("path", w.rel(event.Name)), zap.Stringer("op", event.Op))
			select {
			case changes <- w.rel(event.Name):
			case <-ctx.Done():
				return ctx.Err()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", zap.Error(err))
		}
	}
}

// rebuildLoop builds once, then again after each quiet period that follows
// at least one change.
func (w *projectWatcher) rebuildLoop(ctx context.Context, changes <-chan string, debounce time.Duration, build BuildFunc) error {
	w.runBuild(ctx, build, nil)

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	var pending []string
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case path, ok := <-changes:
			if !ok {
				return nil
			}
			if !slices.Contains(pending, path) {
				pending = append(pending, path)
			}
			timer.Reset(debounce)

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			batch := pending
			pending = nil
			slices.Sort(batch)
			w.runBuild(ctx, build, batch)
		}
	}
}

func (w *projectWatcher) runBuild(ctx context.Context, build BuildFunc, changed []string) {
	if err := build(ctx, changed); err != nil && ctx.Err() == nil {
		w.logger.Warn("rebuild failed", zap.Strings("changed", changed), zap.Error(err))
	}
}

// Matcher applies gitignore-style patterns to slash-separated relative paths.
// The .git directory is always ignored.
type Matcher struct {
	m gitignore.Matcher
}

// NewMatcher compiles patterns such as "node_modules/**/*" or "*.log".
func NewMatcher(patterns []string) *Matcher {
	ps := make([]gitignore.Pattern, 0, len(patterns)+1)
	ps = append(ps, gitignore.ParsePattern(".git", nil))
	for _, p := range patterns {
		if p = strings.TrimSpace(p); p != "" {
			ps = append(ps, gitignore.ParsePattern(p, nil))
		}
	}
	return &Matcher{m: gitignore.NewMatcher(ps)}
}

// Match reports whether rel is ignored.
func (m *Matcher) Match(rel string, isDir bool) bool {
	if rel == "" || rel == "." {
		return false
	}
	return m.m.Match(strings.Split(rel, "/"), isDir)
}
