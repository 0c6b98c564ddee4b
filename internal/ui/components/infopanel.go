package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/ketan18710/clean-my-mac/internal/scan"
	"github.com/ketan18710/clean-my-mac/internal/ui/styles"
	uiutils "github.com/ketan18710/clean-my-mac/internal/ui/utils"
	"github.com/ketan18710/clean-my-mac/pkg/utils"
)

// InfoPanel represents a contextual information panel
type InfoPanel struct {
	title   string
	content []InfoItem
	visible bool
	width   int
}

// InfoItem represents a single piece of information
type InfoItem struct {
	Label string
	Value string
	Icon  string
}

// NewInfoPanel creates a new info panel
func NewInfoPanel(title string, width int) *InfoPanel {
	return &InfoPanel{
		title:   title,
		content: []InfoItem{},
		width:   width,
	}
}

// AddItem adds an information item to the panel
func (p *InfoPanel) AddItem(label, value, icon string) {
	p.content = append(p.content, InfoItem{
		Label: label,
		Value: value,
		Icon:  icon,
	})
}

// SetVisible sets the visibility of the panel
func (p *InfoPanel) SetVisible(visible bool) {
	p.visible = visible
}

// IsVisible returns whether the panel is visible
func (p *InfoPanel) IsVisible() bool {
	return p.visible
}

// Toggle toggles the visibility of the panel
func (p *InfoPanel) Toggle() {
	p.visible = !p.visible
}

// SetWidth sets the width of the panel
func (p *InfoPanel) SetWidth(width int) {
	p.width = width
}

// Render renders the info panel
func (p *InfoPanel) Render() string {
	if !p.visible || len(p.content) == 0 {
		return ""
	}

	panelWidth := p.width / 2
	if panelWidth < 40 {
		panelWidth = 40
	}
	if panelWidth > 80 {
		panelWidth = 80
	}

	panelStyle := lipgloss.NewStyle().
		Border(lipgloss.ThickBorder()).
		BorderForeground(styles.FocusBorder).
		Padding(1, 2).
		Width(panelWidth).
		Background(styles.BgDark)

	titleStyle := lipgloss.NewStyle().
		Foreground(styles.Primary).
		Bold(true).
		Underline(true)

	labelStyle := lipgloss.NewStyle().
		Foreground(styles.Secondary).
		Bold(true)

	valueStyle := lipgloss.NewStyle().
		Foreground(styles.Text)

	var content strings.Builder
	content.WriteString(titleStyle.Render(p.title))
	content.WriteString("\n\n")

	for i, item := range p.content {
		if item.Icon != "" {
			content.WriteString(item.Icon + " ")
		}
		content.WriteString(labelStyle.Render(item.Label) + ": ")
		content.WriteString(valueStyle.Render(item.Value))

		if i < len(p.content)-1 {
			content.WriteString("\n")
		}
	}

	content.WriteString("\n\n")
	footerStyle := lipgloss.NewStyle().
		Foreground(styles.TextDim).
		Italic(true)
	content.WriteString(footerStyle.Render("Press 'i' or 'esc' to close"))

	return panelStyle.Render(content.String())
}

// RenderAsOverlay renders the panel centered on screen
func (p *InfoPanel) RenderAsOverlay(terminalWidth, terminalHeight int) string {
	if !p.visible || len(p.content) == 0 {
		return ""
	}

	panelContent := p.Render()

	lines := strings.Split(panelContent, "\n")
	panelHeight := len(lines)
	panelWidth := 0
	for _, line := range lines {
		if len(line) > panelWidth {
			panelWidth = len(line)
		}
	}

	topPadding := (terminalHeight - panelHeight) / 2
	if topPadding < 0 {
		topPadding = 0
	}

	leftPadding := (terminalWidth - panelWidth) / 2
	if leftPadding < 0 {
		leftPadding = 0
	}

	var b strings.Builder
	for i := 0; i < topPadding; i++ {
		b.WriteString("\n")
	}
	for _, line := range lines {
		b.WriteString(strings.Repeat(" ", leftPadding))
		b.WriteString(line)
		b.WriteString("\n")
	}

	return b.String()
}

// FileInfoPanel creates an info panel describing one found file
func FileInfoPanel(rec scan.FileRecord, width int) *InfoPanel {
	panel := NewInfoPanel("File Information", width)

	panel.AddItem("Name", rec.DisplayName, "📄")
	panel.AddItem("Path", uiutils.TruncateMiddle(rec.Path, 60), "📁")
	panel.AddItem("Size", utils.FormatBytes(rec.SizeBytes), "💾")
	panel.AddItem("Type", string(rec.Group), styles.GroupIcon(string(rec.Group)))
	panel.AddItem("Content Type", rec.ContentType, "🏷")

	if rec.LastUsedAt.IsZero() {
		panel.AddItem("Last Used", "no Spotlight record", "🕒")
	} else {
		panel.AddItem("Last Used", humanize.Time(rec.LastUsedAt), "🕒")
	}
	panel.AddItem("Modified", humanize.Time(rec.LastModifiedAt), "✏️")

	return panel
}
