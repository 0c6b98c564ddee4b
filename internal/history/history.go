// Package history keeps a JSON-lines audit trail of scans and trash
// actions, so users can see what the tool did and when.
package history

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// maxItemsPerEntry caps recorded paths so one big cleanup cannot
// bloat the log file.
const maxItemsPerEntry = 20

// Actions recorded in history
const (
	ActionScan  = "scan"
	ActionTrash = "trash"
)

// Entry is one recorded action
type Entry struct {
	Timestamp      time.Time `json:"timestamp"`
	Action         string    `json:"action"`
	RunID          uuid.UUID `json:"run_id"`
	Count          int       `json:"count"`
	TotalSizeBytes int64     `json:"total_size_bytes"`
	Items          []string  `json:"items,omitempty"`
}

// Log appends entries to a JSON-lines file, one object per line
type Log struct {
	path string
	fs   afero.Fs
}

// NewLog creates a log backed by the real filesystem
func NewLog(path string) *Log {
	return &Log{path: path, fs: afero.NewOsFs()}
}

// NewLogFs creates a log on the given filesystem, for testing
func NewLogFs(path string, fs afero.Fs) *Log {
	return &Log{path: path, fs: fs}
}

// Append writes one entry to the end of the log. Items beyond the cap
// are dropped; the Count field keeps the real total.
func (l *Log) Append(e Entry) error {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	if len(e.Items) > maxItemsPerEntry {
		e.Items = e.Items[:maxItemsPerEntry]
	}

	if err := l.fs.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("creating history directory: %w", err)
	}

	f, err := l.fs.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening history file: %w", err)
	}
	defer f.Close()

	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encoding history entry: %w", err)
	}
	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("writing history entry: %w", err)
	}
	return nil
}

// Tail returns the most recent n entries, oldest first. A missing
// file is an empty history, not an error. Corrupt lines are skipped.
func (l *Log) Tail(n int) ([]Entry, error) {
	f, err := l.fs.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening history file: %w", err)
	}
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var e Entry
		if err := json.Unmarshal(line, &e); err != nil {
			continue
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading history file: %w", err)
	}

	if n > 0 && len(entries) > n {
		entries = entries[len(entries)-n:]
	}
	return entries, nil
}
