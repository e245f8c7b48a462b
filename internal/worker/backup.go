package worker

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// BackupRecord is one line in the local fail backup. It mirrors the fail
// event minus anything bulky; the payload is never written.
type BackupRecord struct {
	RequestID    string `json:"requestId"`
	Source       string `json:"source"`
	ErrorCode    string `json:"errorCode"`
	ErrorMessage string `json:"errorMessage"`
	OccurredAt   string `json:"occurredAt"`
	PublishError string `json:"publishError,omitempty"`
	WorkerHost   string `json:"workerHost"`
}

// BackupWriter appends fail records to one JSONL file per UTC date. It is
// the last resort when the fail topic itself is unreachable, so it must not
// depend on anything but the local filesystem.
type BackupWriter struct {
	mu     sync.Mutex
	dir    string
	logger *slog.Logger
}

// NewBackupWriter returns a writer rooted at dir. The directory is created
// lazily on first write.
func NewBackupWriter(dir string, logger *slog.Logger) *BackupWriter {
	if logger == nil {
		logger = slog.Default()
	}

	return &BackupWriter{dir: dir, logger: logger}
}

// Write appends one record to today's backup file.
func (w *BackupWriter) Write(rec BackupRecord) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := time.Now().UTC()

	if rec.OccurredAt == "" {
		rec.OccurredAt = now.Format(time.RFC3339)
	}

	if rec.WorkerHost == "" {
		rec.WorkerHost = hostname()
	}

	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("create backup dir %s: %w", w.dir, err)
	}

	path := filepath.Join(w.dir, "fail_"+now.Format("2006-01-02")+".jsonl")

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open backup file %s: %w", path, err)
	}
	defer f.Close()

	line, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal backup record: %w", err)
	}

	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("append backup record: %w", err)
	}

	w.logger.Warn("fail event written to local backup",
		"requestId", rec.RequestID, "errorCode", rec.ErrorCode, "file", path)

	return nil
}
