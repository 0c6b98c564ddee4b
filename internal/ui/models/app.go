package models

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ketan18710/clean-my-mac/internal/config"
	"github.com/ketan18710/clean-my-mac/internal/history"
	"github.com/ketan18710/clean-my-mac/internal/platform"
	"github.com/ketan18710/clean-my-mac/internal/progress"
	"github.com/ketan18710/clean-my-mac/internal/safety"
	"github.com/ketan18710/clean-my-mac/internal/scan"
	"github.com/ketan18710/clean-my-mac/internal/trash"
	"github.com/ketan18710/clean-my-mac/internal/ui/styles"
)

// ViewState represents the current view in the app
type ViewState int

const (
	ViewScanning ViewState = iota
	ViewResults
	ViewConfirm
	ViewTrashing
	ViewSummary
	ViewHelp
)

// AppModel is the root model for the interactive TUI
type AppModel struct {
	state         ViewState
	previousState ViewState

	config       *config.Config
	platformInfo *platform.Info
	logger       *zap.Logger

	collector *scan.Collector
	reporter  *progress.Reporter
	ctrl      *scan.Controller
	trasher   *trash.Trasher
	histLog   *history.Log

	lastScan *scan.Summary

	scanView     *ScanViewModel
	resultsView  *ResultsViewModel
	confirmView  *ConfirmViewModel
	trashingView *TrashingViewModel
	summaryView  *SummaryViewModel

	width  int
	height int
	err    error
}

// NewAppModel wires the scan pipeline, trasher and history log into
// the root TUI model
func NewAppModel(cfg *config.Config, platformInfo *platform.Info, logger *zap.Logger) (*AppModel, error) {
	scanCfg, err := cfg.ToScanConfig()
	if err != nil {
		return nil, fmt.Errorf("invalid scan settings: %w", err)
	}

	collector := scan.NewCollector()
	reporter := progress.NewReporter()
	ctrl := scan.NewController(scanCfg, collector, reporter, logger)

	classifier := safety.NewClassifier(safety.Options{
		ExcludePaths:    scanCfg.ExcludePaths,
		ExcludePatterns: scanCfg.ExcludePatterns,
		SkipDevFolders:  scanCfg.SkipDevFolders,
	})
	trasher := trash.New(platformInfo.TrashDir, classifier, reporter, logger)

	var histLog *history.Log
	if histPath, err := config.GetHistoryPath(); err == nil {
		histLog = history.NewLog(histPath)
	} else {
		logger.Warn("history disabled", zap.Error(err))
	}

	return &AppModel{
		state:        ViewScanning,
		config:       cfg,
		platformInfo: platformInfo,
		logger:       logger,
		collector:    collector,
		reporter:     reporter,
		ctrl:         ctrl,
		trasher:      trasher,
		histLog:      histLog,
	}, nil
}

// Init starts the scan immediately
func (m *AppModel) Init() tea.Cmd {
	m.scanView = NewScanViewModel(m.ctrl, m.collector, m.reporter, m.width, m.height)
	return m.scanView.Init()
}

// Update handles messages
func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.err != nil {
			switch msg.String() {
			case "q", "enter", "ctrl+c":
				return m, tea.Quit
			}
			return m, nil
		}

		switch msg.String() {
		case "ctrl+c", "q":
			// Scanning and trashing own their teardown, let the
			// active view cancel cleanly instead of quitting hard.
			if m.state != ViewScanning && m.state != ViewTrashing {
				return m, tea.Quit
			}
		case "?":
			if m.state != ViewHelp {
				m.previousState = m.state
				m.state = ViewHelp
			} else {
				m.state = m.previousState
			}
			return m, nil
		case "esc":
			switch m.state {
			case ViewHelp:
				m.state = m.previousState
				return m, nil
			case ViewConfirm:
				m.state = ViewResults
				return m, nil
			}
		default:
			if m.state == ViewHelp {
				m.state = m.previousState
				return m, nil
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case ScanFinishedMsg:
		m.lastScan = msg.Summary
		m.recordScan(msg.Summary)

		switch msg.Summary.Outcome {
		case scan.OutcomeFailed:
			m.err = fmt.Errorf("scan failed: %w", msg.Summary.Err)
			return m, nil
		case scan.OutcomeCancelled:
			m.resultsView = NewResultsViewModel(msg.Files, true, m.width, m.height)
		default:
			m.resultsView = NewResultsViewModel(msg.Files, false, m.width, m.height)
		}
		m.state = ViewResults
		return m, nil

	case FilesSelectedMsg:
		m.confirmView = NewConfirmViewModel(msg.Files, m.width, m.height)
		m.state = ViewConfirm
		return m, nil

	case ConfirmedMsg:
		m.trashingView = NewTrashingViewModel(m.confirmView.files, m.trasher, m.reporter, m.width, m.height)
		m.state = ViewTrashing
		return m, m.trashingView.Init()

	case ReviewSelectionMsg:
		m.state = ViewResults
		return m, nil

	case TrashCompleteMsg:
		m.recordTrash(msg.Result)
		m.summaryView = NewSummaryViewModel(msg.Result, msg.Err, m.trasher.OpenTrash)
		m.state = ViewSummary
		return m, nil
	}

	return m.delegateUpdate(msg)
}

// recordScan appends a scan entry to the history log
func (m *AppModel) recordScan(sum *scan.Summary) {
	if m.histLog == nil || sum == nil {
		return
	}
	err := m.histLog.Append(history.Entry{
		Action:         history.ActionScan,
		RunID:          sum.RunID,
		Count:          int(sum.Found),
		TotalSizeBytes: sum.TotalSizeBytes,
	})
	if err != nil {
		m.logger.Warn("recording scan history", zap.Error(err))
	}
}

// recordTrash appends a trash entry to the history log
func (m *AppModel) recordTrash(res *trash.Result) {
	if m.histLog == nil || res == nil {
		return
	}
	var runID uuid.UUID
	if m.lastScan != nil {
		runID = m.lastScan.RunID
	}
	err := m.histLog.Append(history.Entry{
		Action:         history.ActionTrash,
		RunID:          runID,
		Count:          len(res.Trashed),
		TotalSizeBytes: res.FreedSize,
		Items:          res.Trashed,
	})
	if err != nil {
		m.logger.Warn("recording trash history", zap.Error(err))
	}
}

// delegateUpdate delegates the update to the current view
func (m *AppModel) delegateUpdate(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.state {
	case ViewScanning:
		if m.scanView != nil {
			m.scanView, cmd = m.scanView.Update(msg)
		}
	case ViewResults:
		if m.resultsView != nil {
			m.resultsView, cmd = m.resultsView.Update(msg)
		}
	case ViewConfirm:
		if m.confirmView != nil {
			m.confirmView, cmd = m.confirmView.Update(msg)
		}
	case ViewTrashing:
		if m.trashingView != nil {
			m.trashingView, cmd = m.trashingView.Update(msg)
		}
	case ViewSummary:
		if m.summaryView != nil {
			m.summaryView, cmd = m.summaryView.Update(msg)
		}
	}

	return m, cmd
}

// View renders the current view
func (m *AppModel) View() string {
	if m.err != nil {
		return styles.ErrorStyle.Render("Error: "+m.err.Error()) + "\n\nPress q to quit."
	}

	switch m.state {
	case ViewScanning:
		if m.scanView != nil {
			return m.scanView.View()
		}
	case ViewResults:
		if m.resultsView != nil {
			return m.resultsView.View()
		}
	case ViewConfirm:
		if m.confirmView != nil {
			return m.confirmView.View()
		}
	case ViewTrashing:
		if m.trashingView != nil {
			return m.trashingView.View()
		}
	case ViewSummary:
		if m.summaryView != nil {
			return m.summaryView.View()
		}
	case ViewHelp:
		return m.renderHelp()
	}

	return "Loading..."
}

// renderHelp renders the help view with context-aware content
func (m *AppModel) renderHelp() string {
	var b strings.Builder

	var viewName string
	var helpContent string

	switch m.previousState {
	case ViewScanning:
		viewName = "Scan"
		helpContent = helpForScan
	case ViewResults:
		viewName = "Results"
		helpContent = helpForResults
	case ViewConfirm:
		viewName = "Confirmation"
		helpContent = helpForConfirm
	case ViewTrashing:
		viewName = "Trashing"
		helpContent = helpForTrashing
	case ViewSummary:
		viewName = "Summary"
		helpContent = helpForSummary
	default:
		viewName = "General"
		helpContent = helpGeneral
	}

	b.WriteString(styles.TitleStyle.Render(fmt.Sprintf("Help - %s", viewName)))
	b.WriteString("\n\n")
	b.WriteString(helpContent)
	b.WriteString("\n\n")
	b.WriteString(styles.HelpStyle.Render("Press any key to close"))

	return styles.PanelStyle.Render(b.String())
}

const helpForScan = `Searching the Spotlight index for files you have not opened
in a long time.

Actions:
  ctrl+c  - Cancel scan, keep what was found so far
  q       - Same as ctrl+c

Results appear as soon as the scan finishes.`

const helpForResults = `Browse the files the scan found and pick what to trash.

Navigation               Selection
  ↑/k     Move up          space    Toggle item
  ↓/j     Move down        x        Toggle + down
  home    Top              ctrl+a   Select all visible
  end     Bottom           ctrl+d   Deselect all
  ctrl+f  Page down
  ctrl+b  Page up

Actions
  g       Cycle type filter (all/image/video/archive/other)
  s       Cycle sort (size/oldest/name)
  i       File details
  o       Reveal in Finder
  p       Quick Look preview
  enter   Continue to confirmation
  q       Quit`

const helpForConfirm = `Review what will be moved to the Trash.

Navigation:
  ←/→/h/l - Switch between buttons

Actions:
  enter   - Activate highlighted button
  y       - Yes, move to Trash
  e       - Edit selection (go back)
  n       - Cancel and quit
  esc     - Go back

Nothing is deleted permanently. Files go to the Trash and can
be restored from Finder.`

const helpForTrashing = `Moving the selected files to the Trash.

Actions:
  ctrl+c  - Stop after the current file

Files already moved stay in the Trash either way.`

const helpForSummary = `The cleanup is done.

Actions:
  o       - Open the Trash in Finder
  enter   - Exit
  q       - Exit

To undo, open the Trash and put items back.`

const helpGeneral = `clean-my-mac interactive mode

Global Shortcuts:
  ?       - Toggle this help
  esc     - Go back / close help
  q       - Quit (from most views)
  ctrl+c  - Cancel current operation

The flow:
  1. Scan        - Find files unused past your threshold
  2. Results     - Browse and select files
  3. Confirm     - Review the selection
  4. Trashing    - Files move to the Trash
  5. Summary     - Totals, errors and undo hints`

// Custom messages

// ScanFinishedMsg carries the completed scan's summary and records
type ScanFinishedMsg struct {
	Summary *scan.Summary
	Files   []scan.FileRecord
}

// FilesSelectedMsg carries the records picked in the results view
type FilesSelectedMsg struct {
	Files []scan.FileRecord
}

// ConfirmedMsg means the user approved the trash operation
type ConfirmedMsg struct{}

// ReviewSelectionMsg returns the user to the results view
type ReviewSelectionMsg struct{}

// TrashCompleteMsg carries the finished trash operation's result
type TrashCompleteMsg struct {
	Result *trash.Result
	Err    error
}
