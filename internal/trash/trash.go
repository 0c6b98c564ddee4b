// Package trash moves files into the user's Trash folder instead of
// unlinking them, so every action stays reversible from Finder.
package trash

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ketan18710/clean-my-mac/internal/progress"
	"github.com/ketan18710/clean-my-mac/internal/safety"
	"github.com/ketan18710/clean-my-mac/internal/scan"
)

const maxRetries = 3

// retryDelays defines wait times between retry attempts
var retryDelays = []time.Duration{
	100 * time.Millisecond,
	500 * time.Millisecond,
	2 * time.Second,
}

// Result holds the outcome of a trash operation
type Result struct {
	Trashed     []string
	AlreadyGone []string
	FreedSize   int64
	Errors      []*TrashError
	Duration    time.Duration
}

// Trasher moves validated files into a Trash directory
type Trasher struct {
	trashDir   string
	classifier *safety.Classifier
	reporter   *progress.Reporter
	logger     *zap.Logger
}

// New creates a Trasher that moves files into trashDir. The
// destination is injectable so tests never touch the real Trash.
func New(trashDir string, classifier *safety.Classifier, reporter *progress.Reporter, logger *zap.Logger) *Trasher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Trasher{
		trashDir:   trashDir,
		classifier: classifier,
		reporter:   reporter,
		logger:     logger,
	}
}

// Trash moves the given records into the Trash folder one at a time.
// Individual failures are collected, not fatal; a missing file counts
// as already gone. The context aborts the remaining files only, moves
// already completed are not rolled back.
func (t *Trasher) Trash(ctx context.Context, records []scan.FileRecord) (*Result, error) {
	start := time.Now()
	result := &Result{}

	if err := os.MkdirAll(t.trashDir, 0o755); err != nil {
		return result, fmt.Errorf("preparing trash folder %s: %w", t.trashDir, err)
	}

	t.updateProgress(progress.TrashProgress{
		Phase:      progress.PhaseTrashing,
		TotalFiles: len(records),
		StartTime:  start,
	})

	for _, rec := range records {
		if ctx.Err() != nil {
			result.Duration = time.Since(start)
			return result, ctx.Err()
		}

		t.updateProgress(progress.TrashProgress{
			Phase:       progress.PhaseTrashing,
			CurrentFile: rec.Path,
			Trashed:     len(result.Trashed),
			TotalFiles:  len(records),
			FreedSize:   result.FreedSize,
			ErrorCount:  len(result.Errors),
			StartTime:   start,
		})

		switch err := t.trashOne(rec.Path); {
		case err == nil:
			result.Trashed = append(result.Trashed, rec.Path)
			result.FreedSize += rec.SizeBytes
			t.logger.Debug("moved to trash",
				zap.String("path", rec.Path),
				zap.Int64("size", rec.SizeBytes))
		case err.Reason == ErrorFileNotFound:
			result.AlreadyGone = append(result.AlreadyGone, rec.Path)
			t.logger.Debug("file already gone", zap.String("path", rec.Path))
		default:
			result.Errors = append(result.Errors, err)
			t.logger.Warn("trash failed",
				zap.String("path", rec.Path),
				zap.String("reason", err.Reason.String()),
				zap.Error(err.Original))
		}
	}

	result.Duration = time.Since(start)
	t.updateProgress(progress.TrashProgress{
		Phase:      progress.PhaseComplete,
		Trashed:    len(result.Trashed),
		TotalFiles: len(records),
		FreedSize:  result.FreedSize,
		ErrorCount: len(result.Errors),
		StartTime:  start,
	})
	return result, nil
}

// trashOne validates and moves a single file, retrying transient
// failures. Returns nil on success.
func (t *Trasher) trashOne(path string) *TrashError {
	if t.classifier != nil {
		if err := t.classifier.ValidateForTrash(path); err != nil {
			return &TrashError{Path: path, Reason: ErrorInvalidPath, Original: err}
		}
	}

	// Re-check right before acting. The record may be stale by now.
	info, err := os.Lstat(path)
	if err != nil {
		return CategorizeError(path, err)
	}
	if info.Mode()&os.ModeSymlink != 0 {
		return &TrashError{
			Path:     path,
			Reason:   ErrorInvalidPath,
			Original: fmt.Errorf("refusing to trash symlink"),
		}
	}

	var lastErr *TrashError
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(retryDelays[attempt-1])
			t.logger.Debug("retrying trash",
				zap.String("path", path),
				zap.Int("attempt", attempt))
		}

		dest := t.destination(filepath.Base(path))
		err := os.Rename(path, dest)
		if err == nil {
			return nil
		}

		lastErr = CategorizeError(path, err)
		if !lastErr.Retryable || attempt == maxRetries {
			return lastErr
		}
	}
	return lastErr
}

// destination picks a collision-free name inside the Trash folder,
// following Finder's "name 2.ext" convention.
func (t *Trasher) destination(name string) string {
	dest := filepath.Join(t.trashDir, name)
	if _, err := os.Lstat(dest); os.IsNotExist(err) {
		return dest
	}

	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	for n := 2; ; n++ {
		dest = filepath.Join(t.trashDir, fmt.Sprintf("%s %d%s", base, n, ext))
		if _, err := os.Lstat(dest); os.IsNotExist(err) {
			return dest
		}
	}
}

func (t *Trasher) updateProgress(p progress.TrashProgress) {
	if t.reporter != nil {
		t.reporter.UpdateTrashProgress(&p)
	}
}
