package models

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ketan18710/clean-my-mac/internal/trash"
	"github.com/ketan18710/clean-my-mac/internal/ui/styles"
	"github.com/ketan18710/clean-my-mac/pkg/utils"
)

// SummaryViewModel handles the final results view
type SummaryViewModel struct {
	result    *trash.Result
	runErr    error
	openTrash func() error
	opened    bool
	openErr   error
}

// NewSummaryViewModel creates a new summary view model. openTrash is
// called when the user asks to see the trashed files in Finder.
func NewSummaryViewModel(result *trash.Result, runErr error, openTrash func() error) *SummaryViewModel {
	return &SummaryViewModel{
		result:    result,
		runErr:    runErr,
		openTrash: openTrash,
	}
}

// Init initializes the summary view
func (m *SummaryViewModel) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m *SummaryViewModel) Update(msg tea.Msg) (*SummaryViewModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "enter":
			return m, tea.Quit
		case "o":
			if m.openTrash != nil {
				m.openErr = m.openTrash()
				m.opened = m.openErr == nil
			}
		}
	}

	return m, nil
}

// View renders the summary view
func (m *SummaryViewModel) View() string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render("✨ Cleanup Summary"))
	b.WriteString("\n\n")

	if m.result != nil {
		b.WriteString(styles.SuccessStyle.Render(fmt.Sprintf("✓ Moved %d files to the Trash",
			len(m.result.Trashed))))
		b.WriteString("\n")

		b.WriteString(styles.BoldStyle.Render(fmt.Sprintf("Space freed: %s",
			utils.FormatBytes(m.result.FreedSize))))
		b.WriteString("\n\n")

		if len(m.result.AlreadyGone) > 0 {
			b.WriteString(styles.DimStyle.Render(fmt.Sprintf("ℹ %d files were already gone",
				len(m.result.AlreadyGone))))
			b.WriteString("\n")
		}

		if len(m.result.Errors) > 0 {
			b.WriteString(styles.ErrorStyle.Render(fmt.Sprintf("✗ %d files could not be moved",
				len(m.result.Errors))))
			b.WriteString("\n")
			b.WriteString(styles.DimStyle.Render(trash.FormatErrorSummary(m.result.Errors)))
			b.WriteString("\n")
		}
	}

	if m.runErr != nil {
		b.WriteString("\n")
		b.WriteString(styles.WarningStyle.Render(fmt.Sprintf("⚠ Stopped early: %v", m.runErr)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.InfoStyle.Render("Changed your mind? Everything is still in the Trash."))
	b.WriteString("\n")
	if m.opened {
		b.WriteString(styles.DimStyle.Render("Opened the Trash in Finder."))
		b.WriteString("\n")
	} else if m.openErr != nil {
		b.WriteString(styles.ErrorStyle.Render(fmt.Sprintf("Could not open Trash: %v", m.openErr)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.HelpStyle.Render("o: open Trash in Finder  |  q or enter: exit"))

	return b.String()
}
