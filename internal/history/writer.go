package history

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Writer appends entries to the history file, pruning the oldest ones.
type Writer struct {
	// StateDir is the directory containing the history file.
	StateDir string
	// MaxEntries is the number of entries kept; 0 keeps everything.
	MaxEntries int

	logger *zap.Logger
	mu     sync.Mutex
}

// NewWriter creates a history writer. A nil logger discards warnings.
func NewWriter(stateDir string, maxEntries int, logger *zap.Logger) *Writer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Writer{
		StateDir:   stateDir,
		MaxEntries: maxEntries,
		logger:     logger,
	}
}

// LogEntry records entry. Failures are logged as warnings and never fail
// the command that produced the entry.
func (w *Writer) LogEntry(entry HistoryEntry) {
	if err := w.logEntry(entry); err != nil {
		w.logger.Warn("failed to record history", zap.String("dir", w.StateDir), zap.Error(err))
	}
}

func (w *Writer) logEntry(entry HistoryEntry) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	history, err := LoadHistory(w.StateDir)
	if err != nil {
		return fmt.Errorf("loading history: %w", err)
	}

	if entry.ID == "" {
		entry.ID = newID()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	history.Entries = append(history.Entries, entry)

	if w.MaxEntries > 0 && len(history.Entries) > w.MaxEntries {
		excess := len(history.Entries) - w.MaxEntries
		history.Entries = history.Entries[excess:]
	}

	if err := SaveHistory(w.StateDir, history); err != nil {
		return fmt.Errorf("saving history: %w", err)
	}
	return nil
}

// Run describes a finished SDK command for LogRun.
type Run struct {
	Command     string
	Version     string
	Description string
	Robot       int
	Profile     string
	ExitCode    int
	Duration    time.Duration
}

// LogRun records a finished command.
func (w *Writer) LogRun(r Run) {
	w.LogEntry(HistoryEntry{
		Timestamp:   time.Now(),
		Command:     r.Command,
		Version:     r.Version,
		Description: r.Description,
		Robot:       r.Robot,
		Profile:     r.Profile,
		ExitCode:    r.ExitCode,
		Duration:    r.Duration.Round(time.Millisecond).String(),
	})
}
