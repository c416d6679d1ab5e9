// Package history records uploads and previews in a YAML file under the
// state directory.
package history

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// FileName is the history file name inside the state directory.
const FileName = "history.yaml"

// DefaultMaxEntries is the retention used when none is configured.
const DefaultMaxEntries = 100

// HistoryEntry is one recorded SDK run.
type HistoryEntry struct {
	ID          string    `yaml:"id"`
	Timestamp   time.Time `yaml:"timestamp"`
	Command     string    `yaml:"command"`
	Version     string    `yaml:"version,omitempty"`
	Description string    `yaml:"description,omitempty"`
	Robot       int       `yaml:"robot,omitempty"`
	Profile     string    `yaml:"profile,omitempty"`
	ExitCode    int       `yaml:"exit_code"`
	Duration    string    `yaml:"duration"`
}

// HistoryFile is the on-disk layout.
type HistoryFile struct {
	Entries []HistoryEntry `yaml:"entries"`
}

// Path returns the history file path for stateDir.
func Path(stateDir string) string {
	return filepath.Join(stateDir, FileName)
}

// LoadHistory reads the history file. A missing file yields an empty history.
func LoadHistory(stateDir string) (*HistoryFile, error) {
	data, err := os.ReadFile(Path(stateDir))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &HistoryFile{}, nil
		}
		return nil, fmt.Errorf("reading history file: %w", err)
	}

	var history HistoryFile
	if err := yaml.Unmarshal(data, &history); err != nil {
		return nil, fmt.Errorf("parsing history file: %w", err)
	}
	return &history, nil
}

// SaveHistory writes the history file atomically, creating stateDir if needed.
func SaveHistory(stateDir string, history *HistoryFile) error {
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}

	data, err := yaml.Marshal(history)
	if err != nil {
		return fmt.Errorf("marshaling history: %w", err)
	}

	tmp, err := os.CreateTemp(stateDir, FileName+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing history: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, Path(stateDir)); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replacing history file: %w", err)
	}
	return nil
}

// ClearHistory removes the history file. A missing file is not an error.
func ClearHistory(stateDir string) error {
	if err := os.Remove(Path(stateDir)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing history file: %w", err)
	}
	return nil
}

// Recent returns up to n entries, newest first. n <= 0 returns all of them.
func (h *HistoryFile) Recent(n int) []HistoryEntry {
	count := len(h.Entries)
	if n > 0 && n < count {
		count = n
	}
	out := make([]HistoryEntry, 0, count)
	for i := len(h.Entries) - 1; i >= 0 && len(out) < count; i-- {
		out = append(out, h.Entries[i])
	}
	return out
}

// Filter returns the entries whose command matches. An empty command matches all.
func (h *HistoryFile) Filter(command string) *HistoryFile {
	if command == "" {
		return h
	}
	filtered := &HistoryFile{}
	for _, e := range h.Entries {
		if e.Command == command {
			filtered.Entries = append(filtered.Entries, e)
		}
	}
	return filtered
}

func newID() string {
	return uuid.NewString()
}
