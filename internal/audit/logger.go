package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Record is one request-log entry. It carries request metadata only,
// never conversation content.
type Record struct {
	Timestamp  string `json:"ts"`
	Remote     string `json:"remote"`
	Mode       string `json:"mode"`
	Model      string `json:"model"`
	Status     string `json:"status"`
	DurationMS int64  `json:"duration_ms"`
	Error      string `json:"error,omitempty"`
}

// Logger writes JSONL request records. A Logger with an empty path is
// disabled and writes nothing.
type Logger struct {
	mu   sync.Mutex
	path string
}

func NewLogger(path string) *Logger {
	return &Logger{path: path}
}

func (l *Logger) Enabled() bool {
	return l != nil && l.path != ""
}

func (l *Logger) Write(remote, mode, model, status string, duration time.Duration, err error) error {
	if !l.Enabled() {
		return nil
	}

	rec := Record{
		Timestamp:  time.Now().UTC().Format(time.RFC3339Nano),
		Remote:     remote,
		Mode:       mode,
		Model:      model,
		Status:     status,
		DurationMS: duration.Milliseconds(),
	}
	if err != nil {
		rec.Error = err.Error()
	}
	b, mErr := json.Marshal(rec)
	if mErr != nil {
		return fmt.Errorf("audit marshal: %w", mErr)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if mkErr := os.MkdirAll(filepath.Dir(l.path), 0o755); mkErr != nil {
		return fmt.Errorf("audit mkdir: %w", mkErr)
	}
	f, openErr := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if openErr != nil {
		return fmt.Errorf("audit open: %w", openErr)
	}
	defer func() { _ = f.Close() }()

	if _, wErr := f.Write(append(b, '\n')); wErr != nil {
		return fmt.Errorf("audit write: %w", wErr)
	}
	return nil
}
