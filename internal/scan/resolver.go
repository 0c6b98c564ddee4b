package scan

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ketan18710/clean-my-mac/internal/spotlight"
)

// attrsFunc looks up raw index metadata for one path. Production use binds
// spotlight.RawAttrs; tests substitute a fake.
type attrsFunc func(ctx context.Context, path string, names ...string) (map[string]string, error)

// MetadataResolver turns surviving candidates into FileRecords. Every
// failure mode collapses to a fallback value or "drop this candidate";
// Resolve never returns an error, so one bad path can never abort a scan.
type MetadataResolver struct {
	attrs attrsFunc
	stat  func(string) (os.FileInfo, error)
}

// NewMetadataResolver returns a resolver backed by the Spotlight metadata
// tool with direct stat fallback.
func NewMetadataResolver() *MetadataResolver {
	return &MetadataResolver{
		attrs: spotlight.RawAttrs,
		stat:  os.Stat,
	}
}

// Resolve builds the record for path. ok is false when the candidate must
// be dropped: the file vanished or its attributes are unreadable. Absent
// index metadata alone never drops a candidate; size falls back to stat,
// last-used stays unset, and the content type defaults.
func (m *MetadataResolver) Resolve(ctx context.Context, path string) (FileRecord, bool) {
	attrs, err := m.attrs(ctx, path,
		spotlight.AttrSize, spotlight.AttrLastUsed, spotlight.AttrContentType)
	if err != nil {
		// Index lookup failed outright; proceed on stat alone.
		attrs = nil
	}

	info, err := m.stat(path)
	if err != nil {
		// Vanished or unreadable between discovery and now.
		return FileRecord{}, false
	}

	size := int64(-1)
	if raw, ok := attrs[spotlight.AttrSize]; ok {
		if n, perr := strconv.ParseInt(raw, 10, 64); perr == nil && n >= 0 {
			size = n
		}
	}
	if size < 0 {
		size = info.Size()
	}

	var lastUsed time.Time
	if raw, ok := attrs[spotlight.AttrLastUsed]; ok {
		if t, parsed := spotlight.ParseTime(raw); parsed {
			lastUsed = t
		}
	}

	contentType := DefaultContentType
	if raw, ok := attrs[spotlight.AttrContentType]; ok {
		contentType = strings.ToLower(raw)
	}

	return FileRecord{
		Path:           path,
		DisplayName:    filepath.Base(path),
		SizeBytes:      size,
		LastUsedAt:     lastUsed,
		LastModifiedAt: info.ModTime(),
		ContentType:    contentType,
		Group:          InferGroup(path, contentType),
	}, true
}
