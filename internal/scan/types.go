package scan

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TypeGroup is the coarse content classification of a record
type TypeGroup string

const (
	GroupImage   TypeGroup = "image"
	GroupVideo   TypeGroup = "video"
	GroupArchive TypeGroup = "archive"
	GroupOther   TypeGroup = "other"
)

// AllGroups lists every type group, in display order
func AllGroups() []TypeGroup {
	return []TypeGroup{GroupImage, GroupVideo, GroupArchive, GroupOther}
}

// ParseGroups converts configured group names into TypeGroups
func ParseGroups(names []string) ([]TypeGroup, error) {
	groups := make([]TypeGroup, 0, len(names))
	for _, name := range names {
		switch g := TypeGroup(strings.ToLower(strings.TrimSpace(name))); g {
		case GroupImage, GroupVideo, GroupArchive, GroupOther:
			groups = append(groups, g)
		default:
			return nil, fmt.Errorf("unknown type group: %q", name)
		}
	}
	return groups, nil
}

// DefaultContentType is used when the index has no classification for a path
const DefaultContentType = "public.data"

// FileRecord is one fully resolved scan candidate. Records are built once by
// the resolver and never mutated afterwards; the pipeline hands them off by
// value and keeps no reference.
type FileRecord struct {
	Path           string
	DisplayName    string
	SizeBytes      int64
	LastUsedAt     time.Time // zero when the index has no usage record
	LastModifiedAt time.Time
	ContentType    string
	Group          TypeGroup
}

// EffectiveRecency is the only date ever compared against the age cutoff:
// last used when known, otherwise last modified.
func (r FileRecord) EffectiveRecency() time.Time {
	if !r.LastUsedAt.IsZero() {
		return r.LastUsedAt
	}
	return r.LastModifiedAt
}

// IsPDF reports whether the record is a PDF by content type or extension.
// PDFs share the image exemption from the size floor.
func (r FileRecord) IsPDF() bool {
	if strings.Contains(strings.ToLower(r.ContentType), "pdf") {
		return true
	}
	return strings.ToLower(filepath.Ext(r.Path)) == ".pdf"
}

// Outcome is the terminal state of a scan run
type Outcome string

const (
	OutcomeCompleted Outcome = "completed"
	OutcomeCancelled Outcome = "cancelled"
	OutcomeFailed    Outcome = "failed"
)

// RootWarning records a root that had to be skipped: the root is missing or
// its discovery query could not run. Other roots proceed; the warning is
// surfaced alongside results so "skipped" is distinguishable from "scanned
// with zero matches".
type RootWarning struct {
	Root string
	Err  error
}

// Summary is the final accounting of one scan run
type Summary struct {
	RunID          uuid.UUID
	Outcome        Outcome
	Found          int64
	TotalSizeBytes int64
	RootsScanned   int
	Warnings       []RootWarning
	CandidateErrs  int64 // candidates silently dropped (vanished, unreadable)
	Err            error // set only when Outcome is OutcomeFailed
	Duration       time.Duration
}
