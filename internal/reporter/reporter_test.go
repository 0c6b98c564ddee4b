package reporter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/ketan18710/clean-my-mac/internal/scan"
)

func sampleData() (*scan.Summary, []scan.FileRecord) {
	used := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)
	mod := time.Date(2025, 12, 1, 8, 30, 0, 0, time.UTC)

	files := []scan.FileRecord{
		{
			Path:           "/Users/test/Downloads/big-video.mov",
			DisplayName:    "big-video.mov",
			SizeBytes:      2 << 30,
			LastUsedAt:     used,
			LastModifiedAt: mod,
			ContentType:    "com.apple.quicktime-movie",
			Group:          scan.GroupVideo,
		},
		{
			Path:           "/Users/test/Downloads/photos-backup.zip",
			DisplayName:    "photos-backup.zip",
			SizeBytes:      500 << 20,
			LastModifiedAt: mod,
			ContentType:    "public.zip-archive",
			Group:          scan.GroupArchive,
		},
	}

	sum := &scan.Summary{
		RunID:          uuid.New(),
		Outcome:        scan.OutcomeCompleted,
		Found:          2,
		TotalSizeBytes: files[0].SizeBytes + files[1].SizeBytes,
		RootsScanned:   2,
		Warnings: []scan.RootWarning{
			{Root: "/Users/test/Missing", Err: errors.New("root does not exist")},
		},
		CandidateErrs: 3,
	}
	return sum, files
}

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"table", "json", "yaml", "csv", "summary"} {
		t.Run(s, func(t *testing.T) {
			format, err := ParseFormat(s)
			if err != nil {
				t.Fatalf("ParseFormat(%q) error = %v", s, err)
			}
			if string(format) != s {
				t.Errorf("ParseFormat(%q) = %q", s, format)
			}
		})
	}

	t.Run("invalid", func(t *testing.T) {
		if _, err := ParseFormat("xml"); err == nil {
			t.Error("expected error for unsupported format")
		} else if !strings.Contains(err.Error(), "unsupported format") {
			t.Errorf("error = %v, want mention of unsupported format", err)
		}
	})
}

func TestReportSummary(t *testing.T) {
	sum, files := sampleData()
	var buf bytes.Buffer

	if err := New(&buf, FormatSummary).Report(sum, files); err != nil {
		t.Fatalf("Report() error = %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"=== Scan Summary ===",
		"Outcome: completed",
		"Files Found: 2",
		"Reclaimable: 2.49 GB",
		"Roots Scanned: 2",
		"video: 1 files, 2.00 GB",
		"archive: 1 files, 500.00 MB",
		"Skipped Roots: 1",
		"/Users/test/Missing: root does not exist",
		"Unreadable candidates skipped: 3",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestReportTable(t *testing.T) {
	sum, files := sampleData()
	var buf bytes.Buffer

	if err := New(&buf, FormatTable).Report(sum, files); err != nil {
		t.Fatalf("Report() error = %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "Path") || !strings.Contains(out, "Last Used") {
		t.Error("table missing header row")
	}
	if !strings.Contains(out, "/Users/test/Downloads/big-video.mov") {
		t.Error("table missing file row")
	}
	if !strings.Contains(out, "Total: 2 files, 2.49 GB") {
		t.Errorf("table missing totals line:\n%s", out)
	}
}

func TestReportTableTruncatesLongPaths(t *testing.T) {
	long := "/Users/test/Library/Mobile Documents/com~apple~CloudDocs/Projects/archive/really-old-recording.mov"
	files := []scan.FileRecord{{
		Path:           long,
		SizeBytes:      10,
		LastModifiedAt: time.Now(),
		Group:          scan.GroupVideo,
	}}
	sum := &scan.Summary{Outcome: scan.OutcomeCompleted, Found: 1, TotalSizeBytes: 10}

	var buf bytes.Buffer
	if err := New(&buf, FormatTable).Report(sum, files); err != nil {
		t.Fatalf("Report() error = %v", err)
	}

	out := buf.String()
	if strings.Contains(out, long) {
		t.Error("path over 60 chars should be truncated")
	}
	if !strings.Contains(out, "..."+long[len(long)-57:]) {
		t.Errorf("truncated path should keep the tail:\n%s", out)
	}
}

func TestReportJSON(t *testing.T) {
	sum, files := sampleData()
	var buf bytes.Buffer

	if err := New(&buf, FormatJSON).Report(sum, files); err != nil {
		t.Fatalf("Report() error = %v", err)
	}

	var report struct {
		RunID             string `json:"run_id"`
		Outcome           string `json:"outcome"`
		TotalFiles        int64  `json:"total_files"`
		TotalSize         int64  `json:"total_size"`
		RootsScanned      int      `json:"roots_scanned"`
		SkippedRoots      []string `json:"skipped_roots"`
		DroppedCandidates int64    `json:"dropped_candidates"`
		Files             []struct {
			Path      string `json:"path"`
			Name      string `json:"name"`
			SizeBytes int64  `json:"size_bytes"`
			Group     string `json:"group"`
			LastUsed  string `json:"last_used"`
		} `json:"files"`
	}
	if err := json.Unmarshal(buf.Bytes(), &report); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}

	if report.RunID != sum.RunID.String() {
		t.Errorf("run_id = %q, want %q", report.RunID, sum.RunID)
	}
	if report.Outcome != "completed" {
		t.Errorf("outcome = %q, want completed", report.Outcome)
	}
	if report.TotalFiles != 2 || report.TotalSize != sum.TotalSizeBytes {
		t.Errorf("totals = (%d, %d), want (2, %d)", report.TotalFiles, report.TotalSize, sum.TotalSizeBytes)
	}
	if report.DroppedCandidates != 3 {
		t.Errorf("dropped_candidates = %d, want 3", report.DroppedCandidates)
	}
	if len(report.SkippedRoots) != 1 || report.SkippedRoots[0] != "/Users/test/Missing" {
		t.Errorf("skipped_roots = %v", report.SkippedRoots)
	}
	if len(report.Files) != 2 {
		t.Fatalf("files len = %d, want 2", len(report.Files))
	}
	if report.Files[0].Path != files[0].Path || report.Files[0].Group != "video" {
		t.Errorf("files[0] = %+v", report.Files[0])
	}
	if report.Files[0].LastUsed == "" {
		t.Error("files[0].last_used should be set")
	}
	if report.Files[1].LastUsed != "" {
		t.Error("files[1].last_used should be omitted when never used")
	}
}

func TestReportYAML(t *testing.T) {
	sum, files := sampleData()
	var buf bytes.Buffer

	if err := New(&buf, FormatYAML).Report(sum, files); err != nil {
		t.Fatalf("Report() error = %v", err)
	}

	var report map[string]interface{}
	if err := yaml.Unmarshal(buf.Bytes(), &report); err != nil {
		t.Fatalf("output is not valid YAML: %v\n%s", err, buf.String())
	}

	if report["outcome"] != "completed" {
		t.Errorf("outcome = %v, want completed", report["outcome"])
	}
	fileList, ok := report["files"].([]interface{})
	if !ok || len(fileList) != 2 {
		t.Errorf("files = %v, want 2 entries", report["files"])
	}
}

func TestReportCSV(t *testing.T) {
	sum, files := sampleData()
	var buf bytes.Buffer

	if err := New(&buf, FormatCSV).Report(sum, files); err != nil {
		t.Fatalf("Report() error = %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want header + 2", len(rows))
	}

	wantHeader := []string{"path", "name", "size_bytes", "group", "content_type", "last_used", "modified"}
	for i, col := range wantHeader {
		if rows[0][i] != col {
			t.Errorf("header[%d] = %q, want %q", i, rows[0][i], col)
		}
	}

	if rows[1][0] != files[0].Path {
		t.Errorf("row 1 path = %q, want %q", rows[1][0], files[0].Path)
	}
	if rows[1][2] != "2147483648" {
		t.Errorf("row 1 size = %q, want 2147483648", rows[1][2])
	}
	if rows[2][5] != "" {
		t.Errorf("row 2 last_used = %q, want empty", rows[2][5])
	}
}

func TestReportUnknownFormat(t *testing.T) {
	sum, files := sampleData()
	var buf bytes.Buffer

	if err := New(&buf, OutputFormat("bogus")).Report(sum, files); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestDefaultFilename(t *testing.T) {
	tests := []struct {
		runID  string
		format OutputFormat
		want   string
	}{
		{"1a2b3c4d-0000-0000-0000-000000000000", FormatJSON, "report-1a2b3c4d.json"},
		{"1a2b3c4d-0000-0000-0000-000000000000", FormatYAML, "report-1a2b3c4d.yaml"},
		{"1a2b3c4d-0000-0000-0000-000000000000", FormatCSV, "report-1a2b3c4d.csv"},
		{"1a2b3c4d-0000-0000-0000-000000000000", FormatTable, "report-1a2b3c4d.txt"},
		{"1a2b3c4d-0000-0000-0000-000000000000", FormatSummary, "report-1a2b3c4d.txt"},
		{"short", FormatJSON, "report-short.json"},
	}
	for _, tt := range tests {
		if got := DefaultFilename(tt.runID, tt.format); got != tt.want {
			t.Errorf("DefaultFilename(%q, %s) = %q, want %q", tt.runID, tt.format, got, tt.want)
		}
	}
}

func TestSaveToFile(t *testing.T) {
	sum, files := sampleData()
	path := filepath.Join(t.TempDir(), "scan.json")

	if err := SaveToFile(sum, files, path, FormatJSON); err != nil {
		t.Fatalf("SaveToFile() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading saved report: %v", err)
	}
	var report map[string]interface{}
	if err := json.Unmarshal(data, &report); err != nil {
		t.Fatalf("saved report is not valid JSON: %v", err)
	}
	if report["outcome"] != "completed" {
		t.Errorf("outcome = %v, want completed", report["outcome"])
	}
}
