package models

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ketan18710/clean-my-mac/internal/progress"
	"github.com/ketan18710/clean-my-mac/internal/scan"
	"github.com/ketan18710/clean-my-mac/internal/ui/components"
	"github.com/ketan18710/clean-my-mac/internal/ui/styles"
	uiutils "github.com/ketan18710/clean-my-mac/internal/ui/utils"
	"github.com/ketan18710/clean-my-mac/pkg/utils"
)

// drainInterval is how often the view pulls buffered records out of
// the collector while the scan runs.
const drainInterval = 100 * time.Millisecond

// ScanViewModel handles the scanning progress view
type ScanViewModel struct {
	ctrl      *scan.Controller
	collector *scan.Collector
	reporter  *progress.Reporter

	ctx    context.Context
	cancel context.CancelFunc

	spinner    spinner.Model
	files      []scan.FileRecord
	prog       progress.ScanProgress
	startTime  time.Time
	cancelling bool
	done       bool
	summary    *scan.Summary
	width      int
	height     int
}

// scanTickMsg triggers a collector drain
type scanTickMsg time.Time

// scanDoneMsg carries the finished run's summary
type scanDoneMsg struct {
	summary *scan.Summary
}

// NewScanViewModel creates a new scan view model
func NewScanViewModel(ctrl *scan.Controller, collector *scan.Collector, reporter *progress.Reporter, width, height int) *ScanViewModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.SelectedStyle

	ctx, cancel := context.WithCancel(context.Background())

	return &ScanViewModel{
		ctrl:      ctrl,
		collector: collector,
		reporter:  reporter,
		ctx:       ctx,
		cancel:    cancel,
		spinner:   s,
		startTime: time.Now(),
		width:     width,
		height:    height,
	}
}

// Init starts the scan and the drain loop
func (m *ScanViewModel) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.performScan,
		m.tick(),
	)
}

// performScan runs the pipeline to completion
func (m *ScanViewModel) performScan() tea.Msg {
	return scanDoneMsg{summary: m.ctrl.Run(m.ctx)}
}

func (m *ScanViewModel) tick() tea.Cmd {
	return tea.Tick(drainInterval, func(t time.Time) tea.Msg {
		return scanTickMsg(t)
	})
}

// Cancel asks the running scan to stop. Records already delivered are
// kept as partial results.
func (m *ScanViewModel) Cancel() {
	m.cancelling = true
	m.cancel()
}

// Update handles messages
func (m *ScanViewModel) Update(msg tea.Msg) (*ScanViewModel, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.Cancel()
		}
		return m, nil

	case scanTickMsg:
		m.files = append(m.files, m.collector.Drain()...)
		if p := m.reporter.GetScanProgress(); p != nil {
			m.prog = *p
		}
		if m.done {
			return m, nil
		}
		return m, m.tick()

	case scanDoneMsg:
		m.done = true
		m.summary = msg.summary
		m.files = append(m.files, m.collector.Drain()...)
		return m, func() tea.Msg {
			return ScanFinishedMsg{Summary: msg.summary, Files: m.files}
		}
	}

	return m, nil
}

// View renders the scan view
func (m *ScanViewModel) View() string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render("🔍 Scanning for Unused Files"))
	b.WriteString("\n\n")

	found, totalSize := m.collector.Totals()

	if m.done {
		b.WriteString(styles.SuccessStyle.Render("✓ Scan Complete!"))
		b.WriteString("\n\n")
		b.WriteString(fmt.Sprintf("Found %s files totaling %s\n",
			styles.BoldStyle.Render(fmt.Sprintf("%d", found)),
			styles.FileSizeStyle.Render(utils.FormatBytes(totalSize)),
		))
		return b.String()
	}

	b.WriteString(m.spinner.View())
	if m.cancelling {
		b.WriteString(" Cancelling... ")
	} else {
		b.WriteString(" Scanning... ")
	}
	b.WriteString(styles.DimStyle.Render(fmt.Sprintf("(%s)", time.Since(m.startTime).Round(time.Second))))
	b.WriteString("\n\n")

	if m.prog.Root != "" {
		b.WriteString(styles.DimStyle.Render(fmt.Sprintf("Root %d/%d: ", m.prog.RootsDone+1, m.prog.RootsTotal)))
		b.WriteString(styles.FilePathStyle.Render(uiutils.TruncatePath(m.prog.Root, 60)))
		b.WriteString("\n\n")
	}

	b.WriteString(styles.BoldStyle.Render(fmt.Sprintf("Found: %d files, %s",
		found, utils.FormatBytes(totalSize))))
	b.WriteString("\n\n")

	b.WriteString(components.RenderSimple("Press q or ctrl+c to cancel and keep partial results", m.width))

	return b.String()
}
