package history

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

func newMemLog() *Log {
	return NewLogFs("/home/test/.config/clean-my-mac/history.jsonl", afero.NewMemMapFs())
}

func TestAppendAndTail(t *testing.T) {
	log := newMemLog()
	runID := uuid.New()

	entry := Entry{
		Timestamp:      time.Date(2026, 8, 1, 10, 30, 0, 0, time.UTC),
		Action:         ActionScan,
		RunID:          runID,
		Count:          42,
		TotalSizeBytes: 1 << 30,
	}
	if err := log.Append(entry); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	entries, err := log.Tail(10)
	if err != nil {
		t.Fatalf("Tail() error = %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}

	got := entries[0]
	if !got.Timestamp.Equal(entry.Timestamp) {
		t.Errorf("Timestamp = %v, want %v", got.Timestamp, entry.Timestamp)
	}
	if got.Action != ActionScan {
		t.Errorf("Action = %q, want %q", got.Action, ActionScan)
	}
	if got.RunID != runID {
		t.Errorf("RunID = %v, want %v", got.RunID, runID)
	}
	if got.Count != 42 {
		t.Errorf("Count = %d, want 42", got.Count)
	}
	if got.TotalSizeBytes != 1<<30 {
		t.Errorf("TotalSizeBytes = %d, want %d", got.TotalSizeBytes, int64(1<<30))
	}
}

func TestAppendFillsTimestamp(t *testing.T) {
	log := newMemLog()

	before := time.Now()
	if err := log.Append(Entry{Action: ActionTrash, Count: 1}); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	after := time.Now()

	entries, err := log.Tail(1)
	if err != nil {
		t.Fatalf("Tail() error = %v", err)
	}
	ts := entries[0].Timestamp
	if ts.Before(before.Truncate(time.Second)) || ts.After(after.Add(time.Second)) {
		t.Errorf("Timestamp %v not filled with current time", ts)
	}
}

func TestAppendCapsItems(t *testing.T) {
	log := newMemLog()

	items := make([]string, 50)
	for i := range items {
		items[i] = fmt.Sprintf("/Users/test/Downloads/file-%d.zip", i)
	}

	err := log.Append(Entry{Action: ActionTrash, Count: 50, Items: items})
	if err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	entries, err := log.Tail(1)
	if err != nil {
		t.Fatalf("Tail() error = %v", err)
	}
	got := entries[0]
	if len(got.Items) != maxItemsPerEntry {
		t.Errorf("Items len = %d, want %d", len(got.Items), maxItemsPerEntry)
	}
	// The cap drops items, never the real count.
	if got.Count != 50 {
		t.Errorf("Count = %d, want 50", got.Count)
	}
	if got.Items[0] != items[0] {
		t.Errorf("Items[0] = %q, want %q", got.Items[0], items[0])
	}
}

func TestTailReturnsLastNOldestFirst(t *testing.T) {
	log := newMemLog()

	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		err := log.Append(Entry{
			Timestamp: base.Add(time.Duration(i) * time.Hour),
			Action:    ActionScan,
			Count:     i,
		})
		if err != nil {
			t.Fatalf("Append(%d) error = %v", i, err)
		}
	}

	entries, err := log.Tail(3)
	if err != nil {
		t.Fatalf("Tail() error = %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	for i, want := range []int{2, 3, 4} {
		if entries[i].Count != want {
			t.Errorf("entries[%d].Count = %d, want %d", i, entries[i].Count, want)
		}
	}
}

func TestTailZeroReturnsAll(t *testing.T) {
	log := newMemLog()
	for i := 0; i < 4; i++ {
		if err := log.Append(Entry{Action: ActionScan, Count: i}); err != nil {
			t.Fatalf("Append(%d) error = %v", i, err)
		}
	}

	entries, err := log.Tail(0)
	if err != nil {
		t.Fatalf("Tail() error = %v", err)
	}
	if len(entries) != 4 {
		t.Errorf("got %d entries, want 4", len(entries))
	}
}

func TestTailMissingFile(t *testing.T) {
	log := newMemLog()

	entries, err := log.Tail(10)
	if err != nil {
		t.Errorf("missing file should not error, got %v", err)
	}
	if entries != nil {
		t.Errorf("missing file should yield nil entries, got %v", entries)
	}
}

func TestTailSkipsCorruptLines(t *testing.T) {
	fs := afero.NewMemMapFs()
	path := "/history.jsonl"

	good1 := `{"timestamp":"2026-08-01T10:00:00Z","action":"scan","run_id":"` + uuid.New().String() + `","count":1,"total_size_bytes":100}`
	good2 := `{"timestamp":"2026-08-01T11:00:00Z","action":"trash","run_id":"` + uuid.New().String() + `","count":2,"total_size_bytes":200}`
	content := strings.Join([]string{good1, "{not json", "", "   ", good2}, "\n") + "\n"

	if err := afero.WriteFile(fs, path, []byte(content), 0o644); err != nil {
		t.Fatalf("seeding file: %v", err)
	}

	log := NewLogFs(path, fs)
	entries, err := log.Tail(10)
	if err != nil {
		t.Fatalf("Tail() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Action != ActionScan || entries[1].Action != ActionTrash {
		t.Errorf("entries out of order: %v, %v", entries[0].Action, entries[1].Action)
	}
}

func TestAppendIsJSONLines(t *testing.T) {
	fs := afero.NewMemMapFs()
	log := NewLogFs("/history.jsonl", fs)

	for i := 0; i < 3; i++ {
		if err := log.Append(Entry{Action: ActionScan, Count: i}); err != nil {
			t.Fatalf("Append(%d) error = %v", i, err)
		}
	}

	data, err := afero.ReadFile(fs, "/history.jsonl")
	if err != nil {
		t.Fatalf("reading log: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}
	for i, line := range lines {
		if !strings.HasPrefix(line, "{") || !strings.HasSuffix(line, "}") {
			t.Errorf("line %d is not a JSON object: %q", i, line)
		}
	}
}
