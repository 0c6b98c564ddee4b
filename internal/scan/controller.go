package scan

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ketan18710/clean-my-mac/internal/progress"
	"github.com/ketan18710/clean-my-mac/internal/safety"
	"github.com/ketan18710/clean-my-mac/internal/spotlight"
)

// DefaultQueueCapacity bounds the discovery-to-resolution channel. Large
// enough to smooth bursty index output, small enough that a slow consumer
// throttles discovery instead of growing memory.
const DefaultQueueCapacity = 1000

// Config is the immutable configuration of one scan run
type Config struct {
	Roots           []string
	IncludeGroups   []TypeGroup
	MinAgeDays      int
	MinSizeBytes    int64
	ExcludePaths    []string
	ExcludePatterns []string
	SkipDevFolders  bool
	QueueCapacity   int
}

// Source streams candidate paths for one root. An error means discovery
// failed for that root; it must not be conflated with zero matches.
type Source interface {
	Discover(ctx context.Context, root string, emit func(path string) bool) error
}

// Resolver turns one candidate path into a record; ok=false drops the
// candidate without aborting anything.
type Resolver interface {
	Resolve(ctx context.Context, path string) (FileRecord, bool)
}

// Sink receives accepted records. Implementations must return promptly; the
// pipeline is never allowed to wait on presentation.
type Sink interface {
	Deliver(rec FileRecord)
}

// State of a scan run
type State int32

const (
	StateIdle State = iota
	StateRunning
	StateCompleted
	StateCancelled
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateCancelled:
		return "cancelled"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// Run is the mutable orchestration state of one scan invocation. Aggregates
// are atomic so the presentation side can read them while the consuming
// stage writes.
type Run struct {
	ID        uuid.UUID
	state     atomic.Int32
	found     atomic.Int64
	size      atomic.Int64
	curRoot   atomic.Value // string
	rootsDone atomic.Int32
	started   time.Time
}

// State returns the run's current state
func (r *Run) State() State {
	return State(r.state.Load())
}

// Counts returns the running aggregates
func (r *Run) Counts() (found, totalSize int64) {
	return r.found.Load(), r.size.Load()
}

// Controller owns the end-to-end pipeline: discovery fanned over the
// configured roots into one bounded channel, drained through resolution and
// filtering into the sink. One Controller serves many runs; each Run is
// fresh state.
type Controller struct {
	cfg        Config
	classifier *safety.Classifier
	source     Source
	resolver   Resolver
	sink       Sink
	reporter   *progress.Reporter
	logger     *zap.Logger

	mu  sync.Mutex
	run *Run
}

// NewController wires the production pipeline: Spotlight discovery and
// metadata resolution behind the safety classifier built from cfg.
func NewController(cfg Config, sink Sink, reporter *progress.Reporter, logger *zap.Logger) *Controller {
	if cfg.QueueCapacity <= 0 {
		cfg.QueueCapacity = DefaultQueueCapacity
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		cfg: cfg,
		classifier: safety.NewClassifier(safety.Options{
			ExcludePaths:    cfg.ExcludePaths,
			ExcludePatterns: cfg.ExcludePatterns,
			SkipDevFolders:  cfg.SkipDevFolders,
		}),
		source:   NewSpotlightSource(),
		resolver: NewMetadataResolver(),
		sink:     sink,
		reporter: reporter,
		logger:   logger,
	}
}

// CurrentRun returns the active or most recent run, nil before the first
func (c *Controller) CurrentRun() *Run {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.run
}

// Run executes one scan to a terminal state and returns its summary.
// Cancelling ctx moves the run to Cancelled with the partial aggregates;
// that is a normal outcome, not an error. Only a run that could not proceed
// at all reports Failed.
func (c *Controller) Run(ctx context.Context) *Summary {
	run := &Run{ID: uuid.New(), started: time.Now()}
	run.state.Store(int32(StateRunning))
	c.mu.Lock()
	c.run = run
	c.mu.Unlock()

	criteria := NewCriteria(c.cfg.IncludeGroups, c.cfg.MinAgeDays, c.cfg.MinSizeBytes, run.started)
	roots := normalizeRoots(c.cfg.Roots)

	c.logger.Info("scan starting",
		zap.String("run_id", run.ID.String()),
		zap.Strings("roots", roots),
		zap.Int("min_age_days", c.cfg.MinAgeDays),
		zap.Int64("min_size_bytes", c.cfg.MinSizeBytes))

	paths := make(chan string, c.cfg.QueueCapacity)

	// Written only by the producer goroutine, read after wg.Wait.
	var (
		warnings     []RootWarning
		rootsScanned int
		fatalErr     error
	)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(paths)

		for i, root := range roots {
			if ctx.Err() != nil {
				return
			}
			run.curRoot.Store(root)
			run.rootsDone.Store(int32(i))
			found, size := run.Counts()
			c.reporter.UpdateScanProgress(&progress.ScanProgress{
				Phase:      progress.PhaseScanning,
				RunID:      run.ID.String(),
				Root:       root,
				RootsDone:  i,
				RootsTotal: len(roots),
				Found:      found,
				TotalSize:  size,
				StartTime:  run.started,
			})

			if _, err := os.Stat(root); err != nil {
				c.logger.Warn("skipping root", zap.String("root", root), zap.Error(err))
				warnings = append(warnings, RootWarning{Root: root, Err: err})
				c.reporter.ReportRootSkipped(root, err)
				continue
			}

			err := c.source.Discover(ctx, root, func(path string) bool {
				if c.classifier.ShouldSkip(path) {
					return true
				}
				select {
				case paths <- path:
					return true
				case <-ctx.Done():
					return false
				}
			})
			switch {
			case err == nil:
				rootsScanned++
			case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
				return
			case spotlight.IsNotInstalled(err):
				c.logger.Error("index query tool unavailable", zap.Error(err))
				fatalErr = err
				return
			default:
				c.logger.Warn("discovery failed for root", zap.String("root", root), zap.Error(err))
				warnings = append(warnings, RootWarning{Root: root, Err: err})
				c.reporter.ReportRootSkipped(root, err)
			}
		}
	}()

	var candidateErrs int64
	for path := range paths {
		if ctx.Err() != nil {
			break
		}
		rec, ok := c.resolver.Resolve(ctx, path)
		if !ok {
			candidateErrs++
			continue
		}
		if ctx.Err() != nil {
			break
		}
		if !criteria.Accepts(rec) {
			continue
		}
		run.found.Add(1)
		run.size.Add(rec.SizeBytes)
		c.sink.Deliver(rec)

		found, size := run.Counts()
		curRoot, _ := run.curRoot.Load().(string)
		c.reporter.UpdateScanProgress(&progress.ScanProgress{
			Phase:      progress.PhaseScanning,
			RunID:      run.ID.String(),
			Root:       curRoot,
			RootsDone:  int(run.rootsDone.Load()),
			RootsTotal: len(roots),
			Found:      found,
			TotalSize:  size,
			StartTime:  run.started,
		})
	}
	wg.Wait()

	found, totalSize := run.Counts()
	summary := &Summary{
		RunID:          run.ID,
		Found:          found,
		TotalSizeBytes: totalSize,
		RootsScanned:   rootsScanned,
		Warnings:       warnings,
		CandidateErrs:  candidateErrs,
		Duration:       time.Since(run.started),
	}

	switch {
	case fatalErr != nil:
		run.state.Store(int32(StateFailed))
		summary.Outcome = OutcomeFailed
		summary.Err = fatalErr
		c.reporter.UpdateScanProgress(&progress.ScanProgress{
			Phase:     progress.PhaseError,
			RunID:     run.ID.String(),
			Found:     found,
			TotalSize: totalSize,
			StartTime: run.started,
			Error:     fatalErr,
		})
		c.logger.Error("scan failed",
			zap.String("run_id", run.ID.String()),
			zap.Error(fatalErr))
	case ctx.Err() != nil:
		run.state.Store(int32(StateCancelled))
		summary.Outcome = OutcomeCancelled
		c.reporter.UpdateScanProgress(&progress.ScanProgress{
			Phase:     progress.PhaseComplete,
			RunID:     run.ID.String(),
			Found:     found,
			TotalSize: totalSize,
			StartTime: run.started,
		})
		c.logger.Info("scan cancelled",
			zap.String("run_id", run.ID.String()),
			zap.Int64("found", found),
			zap.Int64("total_size", totalSize))
	default:
		run.state.Store(int32(StateCompleted))
		summary.Outcome = OutcomeCompleted
		c.reporter.UpdateScanProgress(&progress.ScanProgress{
			Phase:     progress.PhaseComplete,
			RunID:     run.ID.String(),
			Found:     found,
			TotalSize: totalSize,
			StartTime: run.started,
		})
		c.logger.Info("scan completed",
			zap.String("run_id", run.ID.String()),
			zap.Int("roots_scanned", rootsScanned),
			zap.Int64("found", found),
			zap.Int64("total_size", totalSize),
			zap.Int64("dropped_candidates", candidateErrs),
			zap.Duration("duration", summary.Duration))
	}

	return summary
}

// isWithin reports whether child equals parent or sits below it
func isWithin(child, parent string) bool {
	if parent == "/" {
		return true
	}
	return child == parent || strings.HasPrefix(child, parent+"/")
}

// normalizeRoots cleans, absolutizes, and symlink-resolves the configured
// roots, then drops duplicates and any root covered by another so no path
// can be discovered twice across roots.
func normalizeRoots(roots []string) []string {
	var out []string
	for _, root := range roots {
		clean := filepath.Clean(root)
		if abs, err := filepath.Abs(clean); err == nil {
			clean = abs
		}
		if resolved, err := filepath.EvalSymlinks(clean); err == nil {
			clean = resolved
		}

		covered := false
		for _, kept := range out {
			if isWithin(clean, kept) {
				covered = true
				break
			}
		}
		if covered {
			continue
		}

		// A broader root supersedes narrower ones already kept.
		kept := out[:0]
		for _, existing := range out {
			if !isWithin(existing, clean) {
				kept = append(kept, existing)
			}
		}
		out = append(kept, clean)
	}
	return out
}
