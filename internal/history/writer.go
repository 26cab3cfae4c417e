package history

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Writer appends release entries to the history file in StateDir, keeping at
// most MaxEntries (zero keeps everything). It is safe for concurrent use.
type Writer struct {
	StateDir   string
	MaxEntries int

	logger *zap.Logger
	mu     sync.Mutex
}

// NewWriter returns a Writer. A nil logger discards warnings.
func NewWriter(stateDir string, maxEntries int, logger *zap.Logger) *Writer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Writer{StateDir: stateDir, MaxEntries: maxEntries, logger: logger}
}

// Record appends entry. A release has already happened when this runs, so a
// failure is only logged.
func (w *Writer) Record(entry Entry) {
	if err := w.add(entry); err != nil {
		w.logger.Warn("failed to record release history",
			zap.String("version", entry.Version),
			zap.Error(err))
	}
}

func (w *Writer) add(entry Entry) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	file, err := LoadHistory(w.StateDir)
	if err != nil {
		return fmt.Errorf("loading history: %w", err)
	}
	file.Entries = keepNewest(append(file.Entries, entry), w.MaxEntries)

	if err := SaveHistory(w.StateDir, file); err != nil {
		return fmt.Errorf("saving history: %w", err)
	}
	return nil
}

// keepNewest drops the oldest entries beyond limit.
func keepNewest(entries []Entry, limit int) []Entry {
	if limit <= 0 || len(entries) <= limit {
		return entries
	}
	return entries[len(entries)-limit:]
}
