package models

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ketan18710/clean-my-mac/internal/scan"
	"github.com/ketan18710/clean-my-mac/internal/ui/styles"
	uiutils "github.com/ketan18710/clean-my-mac/internal/ui/utils"
	"github.com/ketan18710/clean-my-mac/pkg/utils"
)

// RiskLevel represents how much a trash operation asks the user to
// give up at once
type RiskLevel int

const (
	RiskLow RiskLevel = iota
	RiskMedium
	RiskHigh
)

const (
	riskHighFileCount = 500
	riskHighBytes     = int64(10) << 30
	riskMediumCount   = 50
)

// ConfirmViewModel handles the confirmation screen
type ConfirmViewModel struct {
	files     []scan.FileRecord
	cursor    int // 0 = Yes, 1 = Review, 2 = Cancel
	riskLevel RiskLevel
	width     int
	height    int
}

// NewConfirmViewModel creates a new confirm view model
func NewConfirmViewModel(files []scan.FileRecord, width, height int) *ConfirmViewModel {
	risk := calculateRiskLevel(files)
	defaultCursor := 0
	if risk == RiskHigh {
		defaultCursor = 2
	}

	if width == 0 {
		width = 80
	}
	if height == 0 {
		height = 24
	}

	return &ConfirmViewModel{
		files:     files,
		cursor:    defaultCursor,
		riskLevel: risk,
		width:     width,
		height:    height,
	}
}

// calculateRiskLevel sizes up the selection by count and volume
func calculateRiskLevel(files []scan.FileRecord) RiskLevel {
	var totalSize int64
	for _, f := range files {
		totalSize += f.SizeBytes
	}

	if len(files) > riskHighFileCount || totalSize > riskHighBytes {
		return RiskHigh
	}
	if len(files) >= riskMediumCount {
		return RiskMedium
	}
	return RiskLow
}

// Init initializes the confirm view
func (m *ConfirmViewModel) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m *ConfirmViewModel) Update(msg tea.Msg) (*ConfirmViewModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "left", "h":
			if m.cursor > 0 {
				m.cursor--
			}
		case "right", "l":
			if m.cursor < 2 {
				m.cursor++
			}
		case "tab":
			m.cursor = (m.cursor + 1) % 3
		case "enter":
			switch m.cursor {
			case 0:
				return m, func() tea.Msg { return ConfirmedMsg{} }
			case 1:
				return m, func() tea.Msg { return ReviewSelectionMsg{} }
			case 2:
				return m, tea.Quit
			}
		case "y":
			return m, func() tea.Msg { return ConfirmedMsg{} }
		case "e":
			return m, func() tea.Msg { return ReviewSelectionMsg{} }
		case "n":
			return m, tea.Quit
		}
	}

	return m, nil
}

// View renders the confirmation view
func (m *ConfirmViewModel) View() string {
	var b strings.Builder

	if warning := uiutils.GetSizeWarningBanner(m.width, m.height); warning != "" {
		b.WriteString(warning)
	}

	b.WriteString(styles.TitleStyle.Render("🗑  Move to Trash?"))
	b.WriteString("\n\n")

	var totalSize int64
	groupBreakdown := make(map[scan.TypeGroup]struct {
		count int
		size  int64
	})

	for _, file := range m.files {
		totalSize += file.SizeBytes
		entry := groupBreakdown[file.Group]
		entry.count++
		entry.size += file.SizeBytes
		groupBreakdown[file.Group] = entry
	}

	b.WriteString(styles.BoldStyle.Render(fmt.Sprintf("You are about to move %d files (%s) to the Trash",
		len(m.files), utils.FormatBytes(totalSize))))
	b.WriteString("\n\n")

	b.WriteString(styles.SubtitleStyle.Render("Breakdown:"))
	b.WriteString("\n")

	for _, group := range scan.AllGroups() {
		if entry, ok := groupBreakdown[group]; ok {
			share := 0
			if totalSize > 0 {
				share = int(entry.size * 100 / totalSize)
			}
			b.WriteString(fmt.Sprintf("  %s %-10s %4d files (%s)  %s\n",
				styles.GroupIcon(string(group)),
				styles.GroupStyle.Render(string(group)+":"),
				entry.count,
				styles.FileSizeStyle.Render(utils.FormatBytes(entry.size)),
				styles.ProgressBar(share, 100, 12)))
		}
	}

	b.WriteString("\n")

	riskText, riskStyle, riskIcon := m.getRiskDisplay()
	b.WriteString(fmt.Sprintf("Risk Level: %s %s\n", riskIcon, riskStyle(riskText)))

	if m.riskLevel == RiskHigh {
		b.WriteString("\n")
		b.WriteString(styles.WarningStyle.Render("That is a lot at once. Consider reviewing the selection first."))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.DimStyle.Render("Files go to the Trash, you can restore them from Finder."))
	b.WriteString("\n\n")

	yesBtn := "[ Yes, trash them ]"
	reviewBtn := "[ Review ]"
	cancelBtn := "[ Cancel ]"

	switch m.cursor {
	case 0:
		yesBtn = styles.HighlightStyle.Render("[ Yes, trash them ]")
	case 1:
		reviewBtn = styles.HighlightStyle.Render("[ Review ]")
	case 2:
		cancelBtn = styles.HighlightStyle.Render("[ Cancel ]")
	}

	b.WriteString(fmt.Sprintf("%s  %s  %s", yesBtn, reviewBtn, cancelBtn))
	b.WriteString("\n\n")

	helpText := "y:confirm  e:edit selection  n:cancel  ←/→:navigate"
	if m.width < 60 {
		helpText = "y:yes  e:edit  n:no  ←/→"
	}
	b.WriteString(styles.HelpStyle.Render(helpText))

	return b.String()
}

// getRiskDisplay returns the text, style and icon for the risk level
func (m *ConfirmViewModel) getRiskDisplay() (string, func(string) string, string) {
	switch m.riskLevel {
	case RiskHigh:
		return "HIGH (hundreds of files or over 10GB)", func(s string) string { return styles.ErrorStyle.Render(s) }, "🔴"
	case RiskMedium:
		return "MEDIUM (a sizeable batch)", func(s string) string { return styles.WarningStyle.Render(s) }, "⚠️"
	default:
		return "LOW (small batch, all reversible)", func(s string) string { return styles.SuccessStyle.Render(s) }, "✓"
	}
}
