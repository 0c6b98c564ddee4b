package progress

import (
	"fmt"
	"sync"
	"time"
)

// Phase represents the current phase of operation
type Phase string

const (
	PhaseScanning Phase = "scanning"
	PhaseTrashing Phase = "trashing"
	PhaseComplete Phase = "complete"
	PhaseError    Phase = "error"
)

// ScanProgress represents progress during a scan run
type ScanProgress struct {
	Phase      Phase
	RunID      string
	Root       string
	RootsDone  int
	RootsTotal int
	Found      int64
	TotalSize  int64
	StartTime  time.Time
	Error      error
}

// RootSkipped reports a root the scan had to skip: it does not exist or its
// index query could not start. Delivered alongside regular progress so the
// consumer can tell a skipped root from one with zero matches.
type RootSkipped struct {
	Root string
	Err  error
}

// TrashProgress represents progress while moving files to the Trash
type TrashProgress struct {
	Phase       Phase
	CurrentFile string
	Trashed     int
	TotalFiles  int
	FreedSize   int64
	ErrorCount  int
	StartTime   time.Time
	Error       error
}

// Reporter provides thread-safe progress reporting
type Reporter struct {
	scanProgress  *ScanProgress
	trashProgress *TrashProgress
	mu            sync.RWMutex
	listeners     []chan interface{}
}

// NewReporter creates a new progress reporter
func NewReporter() *Reporter {
	return &Reporter{
		listeners: make([]chan interface{}, 0),
	}
}

// Subscribe returns a channel that receives progress updates
func (pr *Reporter) Subscribe() <-chan interface{} {
	pr.mu.Lock()
	defer pr.mu.Unlock()

	ch := make(chan interface{}, 10)
	pr.listeners = append(pr.listeners, ch)
	return ch
}

// Unsubscribe closes and removes a listener channel
func (pr *Reporter) Unsubscribe(ch <-chan interface{}) {
	pr.mu.Lock()
	defer pr.mu.Unlock()

	for i, listener := range pr.listeners {
		if listener == ch {
			close(listener)
			pr.listeners = append(pr.listeners[:i], pr.listeners[i+1:]...)
			return
		}
	}
}

// UpdateScanProgress updates scan progress and notifies listeners
func (pr *Reporter) UpdateScanProgress(update *ScanProgress) {
	pr.mu.Lock()
	pr.scanProgress = update
	pr.mu.Unlock()

	pr.notify(update)
}

// UpdateTrashProgress updates trash progress and notifies listeners
func (pr *Reporter) UpdateTrashProgress(update *TrashProgress) {
	pr.mu.Lock()
	pr.trashProgress = update
	pr.mu.Unlock()

	pr.notify(update)
}

// ReportRootSkipped notifies listeners that a root was skipped
func (pr *Reporter) ReportRootSkipped(root string, err error) {
	pr.notify(&RootSkipped{Root: root, Err: err})
}

// notify fans an update out to all listeners without blocking; a listener
// that has fallen behind misses intermediate updates, never the scan itself.
func (pr *Reporter) notify(update interface{}) {
	pr.mu.RLock()
	listeners := make([]chan interface{}, len(pr.listeners))
	copy(listeners, pr.listeners)
	pr.mu.RUnlock()

	for _, listener := range listeners {
		select {
		case listener <- update:
		default:
			// Skip if channel is full
		}
	}
}

// GetScanProgress returns the current scan progress
func (pr *Reporter) GetScanProgress() *ScanProgress {
	pr.mu.RLock()
	defer pr.mu.RUnlock()
	return pr.scanProgress
}

// GetTrashProgress returns the current trash progress
func (pr *Reporter) GetTrashProgress() *TrashProgress {
	pr.mu.RLock()
	defer pr.mu.RUnlock()
	return pr.trashProgress
}

// FormatScanProgress returns a human-readable scan progress string
func FormatScanProgress(p *ScanProgress) string {
	if p == nil {
		return "Initializing..."
	}

	elapsed := time.Since(p.StartTime)

	switch p.Phase {
	case PhaseScanning:
		return fmt.Sprintf("Scanning %s (%d/%d)... Found %d files (%s) [%s]",
			p.Root,
			p.RootsDone,
			p.RootsTotal,
			p.Found,
			FormatBytes(p.TotalSize),
			FormatDuration(elapsed))
	case PhaseComplete:
		return fmt.Sprintf("Scan complete: %d files (%s) in %s",
			p.Found,
			FormatBytes(p.TotalSize),
			FormatDuration(elapsed))
	case PhaseError:
		return fmt.Sprintf("Scan error: %v", p.Error)
	default:
		return "Scanning..."
	}
}

// FormatTrashProgress returns a human-readable trash progress string
func FormatTrashProgress(p *TrashProgress) string {
	if p == nil {
		return "Preparing..."
	}

	elapsed := time.Since(p.StartTime)

	switch p.Phase {
	case PhaseTrashing:
		percentage := 0
		if p.TotalFiles > 0 {
			percentage = (p.Trashed * 100) / p.TotalFiles
		}
		return fmt.Sprintf("Moving to Trash... %d/%d files (%d%%) - %s",
			p.Trashed,
			p.TotalFiles,
			percentage,
			FormatBytes(p.FreedSize))
	case PhaseComplete:
		return fmt.Sprintf("Done: %d files moved to Trash (%s) in %s",
			p.Trashed,
			FormatBytes(p.FreedSize),
			FormatDuration(elapsed))
	case PhaseError:
		return fmt.Sprintf("Trash error: %v", p.Error)
	default:
		return "Preparing..."
	}
}

// FormatBytes formats bytes in human-readable format
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %cB", float64(bytes)/float64(div), "KMGT"[exp])
}

// FormatDuration formats duration in human-readable format
func FormatDuration(d time.Duration) string {
	d = d.Round(time.Second)

	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%dm%ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm%ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}
