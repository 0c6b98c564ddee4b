// Package reporter renders scan results for non-interactive use, in
// formats meant for humans (table, summary) or pipelines (json, yaml,
// csv).
package reporter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ketan18710/clean-my-mac/internal/scan"
	"github.com/ketan18710/clean-my-mac/pkg/utils"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatTable   OutputFormat = "table"
	FormatJSON    OutputFormat = "json"
	FormatYAML    OutputFormat = "yaml"
	FormatCSV     OutputFormat = "csv"
	FormatSummary OutputFormat = "summary"
)

// ParseFormat validates a format string from a CLI flag
func ParseFormat(s string) (OutputFormat, error) {
	switch OutputFormat(s) {
	case FormatTable, FormatJSON, FormatYAML, FormatCSV, FormatSummary:
		return OutputFormat(s), nil
	default:
		return "", fmt.Errorf("unsupported format %q (want table, json, yaml, csv or summary)", s)
	}
}

// Reporter handles report generation
type Reporter struct {
	writer io.Writer
	format OutputFormat
}

// New creates a new Reporter
func New(writer io.Writer, format OutputFormat) *Reporter {
	return &Reporter{
		writer: writer,
		format: format,
	}
}

// Report renders the files found by a scan along with its summary
func (r *Reporter) Report(sum *scan.Summary, files []scan.FileRecord) error {
	switch r.format {
	case FormatTable:
		return r.reportTable(sum, files)
	case FormatJSON:
		return r.reportJSON(sum, files)
	case FormatYAML:
		return r.reportYAML(sum, files)
	case FormatCSV:
		return r.reportCSV(files)
	case FormatSummary:
		return r.reportSummary(sum, files)
	default:
		return fmt.Errorf("unsupported format: %s", r.format)
	}
}

// reportSummary generates a summary report
func (r *Reporter) reportSummary(sum *scan.Summary, files []scan.FileRecord) error {
	fmt.Fprintf(r.writer, "=== Scan Summary ===\n")
	fmt.Fprintf(r.writer, "Outcome: %s\n", sum.Outcome)
	fmt.Fprintf(r.writer, "Files Found: %d\n", sum.Found)
	fmt.Fprintf(r.writer, "Reclaimable: %s\n", utils.FormatBytes(sum.TotalSizeBytes))
	fmt.Fprintf(r.writer, "Roots Scanned: %d\n", sum.RootsScanned)

	fmt.Fprintf(r.writer, "\nBreakdown by Type:\n")
	for group, agg := range groupTotals(files) {
		fmt.Fprintf(r.writer, "  %s: %d files, %s\n",
			group, agg.count, utils.FormatBytes(agg.size))
	}

	if len(sum.Warnings) > 0 {
		fmt.Fprintf(r.writer, "\nSkipped Roots: %d\n", len(sum.Warnings))
		for _, w := range sum.Warnings {
			fmt.Fprintf(r.writer, "  %s: %v\n", w.Root, w.Err)
		}
	}
	if sum.CandidateErrs > 0 {
		fmt.Fprintf(r.writer, "\nUnreadable candidates skipped: %d\n", sum.CandidateErrs)
	}

	return nil
}

// reportTable generates a table report
func (r *Reporter) reportTable(sum *scan.Summary, files []scan.FileRecord) error {
	fmt.Fprintf(r.writer, "%-60s | %-10s | %-8s | %s\n", "Path", "Size", "Type", "Last Used")
	fmt.Fprintf(r.writer, "%s\n", strings.Repeat("-", 100))

	for _, f := range files {
		path := f.Path
		if len(path) > 60 {
			path = "..." + path[len(path)-57:]
		}

		fmt.Fprintf(r.writer, "%-60s | %-10s | %-8s | %s\n",
			path,
			utils.FormatBytes(f.SizeBytes),
			f.Group,
			f.EffectiveRecency().Format("2006-01-02 15:04:05"))
	}

	fmt.Fprintf(r.writer, "%s\n", strings.Repeat("-", 100))
	fmt.Fprintf(r.writer, "Total: %d files, %s\n", sum.Found, utils.FormatBytes(sum.TotalSizeBytes))

	return nil
}

// fileRow is the serialized shape of one found file
type fileRow struct {
	Path        string `json:"path" yaml:"path"`
	Name        string `json:"name" yaml:"name"`
	SizeBytes   int64  `json:"size_bytes" yaml:"size_bytes"`
	Size        string `json:"size" yaml:"size"`
	Group       string `json:"group" yaml:"group"`
	ContentType string `json:"content_type" yaml:"content_type"`
	LastUsed    string `json:"last_used,omitempty" yaml:"last_used,omitempty"`
	Modified    string `json:"modified" yaml:"modified"`
}

// structuredReport is the shape shared by the JSON and YAML formats
type structuredReport struct {
	Timestamp          string    `json:"timestamp" yaml:"timestamp"`
	RunID              string    `json:"run_id" yaml:"run_id"`
	Outcome            string    `json:"outcome" yaml:"outcome"`
	TotalFiles         int64     `json:"total_files" yaml:"total_files"`
	TotalSize          int64     `json:"total_size" yaml:"total_size"`
	TotalSizeFormatted string    `json:"total_size_formatted" yaml:"total_size_formatted"`
	RootsScanned       int       `json:"roots_scanned" yaml:"roots_scanned"`
	SkippedRoots       []string  `json:"skipped_roots,omitempty" yaml:"skipped_roots,omitempty"`
	DroppedCandidates  int64     `json:"dropped_candidates" yaml:"dropped_candidates"`
	Files              []fileRow `json:"files" yaml:"files"`
}

func buildStructured(sum *scan.Summary, files []scan.FileRecord) structuredReport {
	rows := make([]fileRow, 0, len(files))
	for _, f := range files {
		row := fileRow{
			Path:        f.Path,
			Name:        f.DisplayName,
			SizeBytes:   f.SizeBytes,
			Size:        utils.FormatBytes(f.SizeBytes),
			Group:       string(f.Group),
			ContentType: f.ContentType,
			Modified:    f.LastModifiedAt.Format(time.RFC3339),
		}
		if !f.LastUsedAt.IsZero() {
			row.LastUsed = f.LastUsedAt.Format(time.RFC3339)
		}
		rows = append(rows, row)
	}

	skipped := make([]string, 0, len(sum.Warnings))
	for _, w := range sum.Warnings {
		skipped = append(skipped, w.Root)
	}

	return structuredReport{
		Timestamp:          time.Now().Format(time.RFC3339),
		RunID:              sum.RunID.String(),
		Outcome:            string(sum.Outcome),
		TotalFiles:         sum.Found,
		TotalSize:          sum.TotalSizeBytes,
		TotalSizeFormatted: utils.FormatBytes(sum.TotalSizeBytes),
		RootsScanned:       sum.RootsScanned,
		SkippedRoots:       skipped,
		DroppedCandidates:  sum.CandidateErrs,
		Files:              rows,
	}
}

// reportJSON generates a JSON report
func (r *Reporter) reportJSON(sum *scan.Summary, files []scan.FileRecord) error {
	encoder := json.NewEncoder(r.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(buildStructured(sum, files))
}

// reportYAML generates a YAML report
func (r *Reporter) reportYAML(sum *scan.Summary, files []scan.FileRecord) error {
	encoder := yaml.NewEncoder(r.writer)
	defer encoder.Close()
	return encoder.Encode(buildStructured(sum, files))
}

// reportCSV generates a CSV report, one row per file
func (r *Reporter) reportCSV(files []scan.FileRecord) error {
	w := csv.NewWriter(r.writer)
	if err := w.Write([]string{"path", "name", "size_bytes", "group", "content_type", "last_used", "modified"}); err != nil {
		return err
	}
	for _, f := range files {
		lastUsed := ""
		if !f.LastUsedAt.IsZero() {
			lastUsed = f.LastUsedAt.Format(time.RFC3339)
		}
		row := []string{
			f.Path,
			f.DisplayName,
			strconv.FormatInt(f.SizeBytes, 10),
			string(f.Group),
			f.ContentType,
			lastUsed,
			f.LastModifiedAt.Format(time.RFC3339),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

type groupAgg struct {
	count int
	size  int64
}

func groupTotals(files []scan.FileRecord) map[scan.TypeGroup]groupAgg {
	totals := make(map[scan.TypeGroup]groupAgg)
	for _, f := range files {
		agg := totals[f.Group]
		agg.count++
		agg.size += f.SizeBytes
		totals[f.Group] = agg
	}
	return totals
}

// DefaultFilename builds a report filename stamped with the run ID, so
// repeated runs into the same directory never overwrite each other.
func DefaultFilename(runID string, format OutputFormat) string {
	if len(runID) > 8 {
		runID = runID[:8]
	}
	ext := "txt"
	switch format {
	case FormatJSON:
		ext = "json"
	case FormatYAML:
		ext = "yaml"
	case FormatCSV:
		ext = "csv"
	}
	return fmt.Sprintf("report-%s.%s", runID, ext)
}

// SaveToFile saves the report to a file
func SaveToFile(sum *scan.Summary, files []scan.FileRecord, path string, format OutputFormat) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	reporter := New(file, format)
	return reporter.Report(sum, files)
}
