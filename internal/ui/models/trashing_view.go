package models

import (
	"context"
	"fmt"
	"strings"
	"time"

	progressbar "github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ketan18710/clean-my-mac/internal/progress"
	"github.com/ketan18710/clean-my-mac/internal/scan"
	"github.com/ketan18710/clean-my-mac/internal/trash"
	"github.com/ketan18710/clean-my-mac/internal/ui/styles"
	uiutils "github.com/ketan18710/clean-my-mac/internal/ui/utils"
	"github.com/ketan18710/clean-my-mac/pkg/utils"
)

// TrashingViewModel shows progress while files move to the Trash
type TrashingViewModel struct {
	files    []scan.FileRecord
	trasher  *trash.Trasher
	reporter *progress.Reporter

	ctx    context.Context
	cancel context.CancelFunc

	spinner   spinner.Model
	bar       progressbar.Model
	prog      progress.TrashProgress
	startTime time.Time
	result    *trash.Result
	done      bool
	width     int
	height    int
}

type trashTickMsg time.Time

type trashDoneMsg struct {
	result *trash.Result
	err    error
}

// NewTrashingViewModel creates a new trashing progress view
func NewTrashingViewModel(files []scan.FileRecord, trasher *trash.Trasher, reporter *progress.Reporter, width, height int) *TrashingViewModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.SelectedStyle

	ctx, cancel := context.WithCancel(context.Background())

	return &TrashingViewModel{
		files:     files,
		trasher:   trasher,
		reporter:  reporter,
		ctx:       ctx,
		cancel:    cancel,
		spinner:   s,
		bar:       progressbar.New(progressbar.WithDefaultGradient()),
		startTime: time.Now(),
		width:     width,
		height:    height,
	}
}

// Init starts the trash operation
func (m *TrashingViewModel) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.performTrash,
		m.tick(),
	)
}

// performTrash moves the files, blocking until done or cancelled
func (m *TrashingViewModel) performTrash() tea.Msg {
	result, err := m.trasher.Trash(m.ctx, m.files)
	return trashDoneMsg{result: result, err: err}
}

func (m *TrashingViewModel) tick() tea.Cmd {
	return tea.Tick(drainInterval, func(t time.Time) tea.Msg {
		return trashTickMsg(t)
	})
}

// Update handles messages
func (m *TrashingViewModel) Update(msg tea.Msg) (*TrashingViewModel, tea.Cmd) {
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
		case "ctrl+c":
			// Stop the remaining files. What is in the Trash stays.
			m.cancel()
		}
		return m, nil

	case trashTickMsg:
		if p := m.reporter.GetTrashProgress(); p != nil {
			m.prog = *p
		}
		if m.done {
			return m, nil
		}
		return m, m.tick()

	case trashDoneMsg:
		m.done = true
		m.result = msg.result
		return m, func() tea.Msg {
			return TrashCompleteMsg{Result: msg.result, Err: msg.err}
		}
	}

	return m, nil
}

// View renders the trashing view
func (m *TrashingViewModel) View() string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render("🗑  Moving to Trash"))
	b.WriteString("\n\n")

	if !m.done {
		b.WriteString(m.spinner.View())
		b.WriteString(" Moving files... ")
		b.WriteString(styles.DimStyle.Render(fmt.Sprintf("(%s)", time.Since(m.startTime).Round(time.Second))))
		b.WriteString("\n\n")

		var percent float64
		if len(m.files) > 0 {
			percent = float64(m.prog.Trashed) / float64(len(m.files))
		}
		b.WriteString(m.bar.ViewAs(percent))
		b.WriteString("\n\n")

		b.WriteString(fmt.Sprintf("Progress: %d/%d files", m.prog.Trashed, len(m.files)))
		if m.prog.CurrentFile != "" {
			b.WriteString("\n")
			b.WriteString(styles.FilePathStyle.Render(uiutils.TruncatePath(m.prog.CurrentFile, 60)))
		}

		b.WriteString("\n\n")
		b.WriteString(styles.HelpStyle.Render("Press ctrl+c to stop the remaining files"))
	} else {
		b.WriteString(styles.SuccessStyle.Render("✓ Done!"))
		b.WriteString("\n\n")

		if m.result != nil {
			b.WriteString(fmt.Sprintf("Trashed: %d files\n", len(m.result.Trashed)))
			if len(m.result.AlreadyGone) > 0 {
				b.WriteString(fmt.Sprintf("Already gone: %d files\n", len(m.result.AlreadyGone)))
			}
			b.WriteString(fmt.Sprintf("Space freed: %s\n", utils.FormatBytes(m.result.FreedSize)))
		}

		b.WriteString("\n")
		b.WriteString(styles.HelpStyle.Render("Moving to summary..."))
	}

	return b.String()
}
