package models

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/ketan18710/clean-my-mac/internal/scan"
	"github.com/ketan18710/clean-my-mac/internal/trash"
	"github.com/ketan18710/clean-my-mac/internal/ui/components"
	"github.com/ketan18710/clean-my-mac/internal/ui/styles"
	uiutils "github.com/ketan18710/clean-my-mac/internal/ui/utils"
	"github.com/ketan18710/clean-my-mac/pkg/utils"
)

type sortMode int

const (
	sortBySize sortMode = iota
	sortByAge
	sortByName
)

func (s sortMode) String() string {
	switch s {
	case sortByAge:
		return "oldest"
	case sortByName:
		return "name"
	default:
		return "size"
	}
}

// groupFilterAll means no group filter is applied
const groupFilterAll = scan.TypeGroup("")

// ResultsViewModel lets the user browse found files and pick which
// ones to move to the Trash
type ResultsViewModel struct {
	files    []scan.FileRecord
	visible  []int
	selected map[int]bool

	cursor      int
	offset      int
	groupFilter scan.TypeGroup
	sort        sortMode
	partial     bool
	notice      string

	statusBar *components.StatusBar
	infoPanel *components.InfoPanel

	width  int
	height int
}

// NewResultsViewModel creates a results browser over the scan output
func NewResultsViewModel(files []scan.FileRecord, partial bool, width, height int) *ResultsViewModel {
	m := &ResultsViewModel{
		files:     files,
		selected:  make(map[int]bool),
		partial:   partial,
		statusBar: components.NewStatusBar(),
		width:     width,
		height:    height,
	}
	m.statusBar.SetView("Results")
	m.statusBar.SetShortcuts(map[string]string{
		"↑/↓":   "navigate",
		"space": "toggle",
		"g":     "filter",
		"s":     "sort",
		"i":     "details",
		"enter": "continue",
		"q":     "quit",
	})
	m.rebuild()
	return m
}

// rebuild recomputes the visible index list from the current filter
// and sort mode
func (m *ResultsViewModel) rebuild() {
	m.visible = m.visible[:0]
	for i, f := range m.files {
		if m.groupFilter == groupFilterAll || f.Group == m.groupFilter {
			m.visible = append(m.visible, i)
		}
	}

	switch m.sort {
	case sortByAge:
		sort.Slice(m.visible, func(a, b int) bool {
			return m.files[m.visible[a]].EffectiveRecency().Before(m.files[m.visible[b]].EffectiveRecency())
		})
	case sortByName:
		sort.Slice(m.visible, func(a, b int) bool {
			return strings.ToLower(m.files[m.visible[a]].DisplayName) < strings.ToLower(m.files[m.visible[b]].DisplayName)
		})
	default:
		sort.Slice(m.visible, func(a, b int) bool {
			return m.files[m.visible[a]].SizeBytes > m.files[m.visible[b]].SizeBytes
		})
	}

	if m.cursor >= len(m.visible) {
		m.cursor = len(m.visible) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.offset = 0
}

func (m *ResultsViewModel) pageSize() int {
	return uiutils.CalculatePageSize(m.height)
}

// Init initializes the results view
func (m *ResultsViewModel) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m *ResultsViewModel) Update(msg tea.Msg) (*ResultsViewModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.infoPanel != nil {
			m.infoPanel.SetWidth(msg.Width)
		}
		return m, nil

	case tea.KeyMsg:
		// Info panel swallows keys while open
		if m.infoPanel != nil && m.infoPanel.IsVisible() {
			switch msg.String() {
			case "i":
				m.infoPanel.Toggle()
			case "esc", "enter", "q":
				m.infoPanel.SetVisible(false)
			}
			return m, nil
		}

		m.notice = ""
		switch msg.String() {
		case "up", "k":
			m.moveCursor(-1)
		case "down", "j":
			m.moveCursor(1)
		case "ctrl+b", "pgup":
			m.moveCursor(-m.pageSize())
		case "ctrl+f", "pgdown":
			m.moveCursor(m.pageSize())
		case "home":
			m.cursor = 0
			m.offset = 0
		case "end":
			m.moveCursor(len(m.visible))
		case "space":
			m.toggleCurrent()
		case "x":
			m.toggleCurrent()
			m.moveCursor(1)
		case "ctrl+a":
			for _, idx := range m.visible {
				m.selected[idx] = true
			}
		case "ctrl+d":
			m.selected = make(map[int]bool)
		case "g":
			m.groupFilter = nextGroupFilter(m.groupFilter)
			m.rebuild()
		case "s":
			m.sort = (m.sort + 1) % 3
			m.rebuild()
		case "i":
			if len(m.visible) > 0 {
				m.infoPanel = components.FileInfoPanel(m.files[m.visible[m.cursor]], m.width)
				m.infoPanel.SetVisible(true)
			}
		case "o":
			if len(m.visible) > 0 {
				if err := trash.RevealInFinder(m.files[m.visible[m.cursor]].Path); err != nil {
					m.notice = "Could not open Finder"
				}
			}
		case "p":
			if len(m.visible) > 0 {
				if err := trash.QuickLook(m.files[m.visible[m.cursor]].Path); err != nil {
					m.notice = "Could not launch Quick Look"
				}
			}
		case "enter":
			return m, m.proceedToConfirmation()
		}
	}

	return m, nil
}

func (m *ResultsViewModel) moveCursor(delta int) {
	m.cursor += delta
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor > len(m.visible)-1 {
		m.cursor = len(m.visible) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}

	page := m.pageSize()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+page {
		m.offset = m.cursor - page + 1
	}
}

func (m *ResultsViewModel) toggleCurrent() {
	if len(m.visible) == 0 {
		return
	}
	idx := m.visible[m.cursor]
	if m.selected[idx] {
		delete(m.selected, idx)
	} else {
		m.selected[idx] = true
	}
}

func nextGroupFilter(current scan.TypeGroup) scan.TypeGroup {
	order := []scan.TypeGroup{groupFilterAll, scan.GroupImage, scan.GroupVideo, scan.GroupArchive, scan.GroupOther}
	for i, g := range order {
		if g == current {
			return order[(i+1)%len(order)]
		}
	}
	return groupFilterAll
}

// selectionTotals sums up the current selection
func (m *ResultsViewModel) selectionTotals() (int, int64) {
	var count int
	var size int64
	for idx, on := range m.selected {
		if on && idx < len(m.files) {
			count++
			size += m.files[idx].SizeBytes
		}
	}
	return count, size
}

// View renders the results view
func (m *ResultsViewModel) View() string {
	if m.infoPanel != nil && m.infoPanel.IsVisible() {
		return m.infoPanel.RenderAsOverlay(m.width, m.height)
	}

	var b strings.Builder

	if warning := uiutils.GetSizeWarningBanner(m.width, m.height); warning != "" {
		b.WriteString(warning)
	}

	title := "🗂  Unused Files"
	if m.partial {
		title += "  (partial, scan was cancelled)"
	}
	b.WriteString(styles.TitleStyle.Render(title))
	b.WriteString("\n\n")

	filterLabel := "all"
	if m.groupFilter != groupFilterAll {
		filterLabel = string(m.groupFilter)
	}
	b.WriteString(styles.SubtitleStyle.Render(fmt.Sprintf("%d files  |  filter: %s  |  sort: %s",
		len(m.visible), filterLabel, m.sort)))
	b.WriteString("\n\n")

	if len(m.visible) == 0 {
		b.WriteString(styles.DimStyle.Render("Nothing matches the current filter."))
		b.WriteString("\n")
	}

	end := m.offset + m.pageSize()
	if end > len(m.visible) {
		end = len(m.visible)
	}

	for i := m.offset; i < end; i++ {
		file := m.files[m.visible[i]]

		cursor := "  "
		if i == m.cursor {
			cursor = styles.SelectedStyle.Render("→ ")
		}

		checkbox := styles.UncheckedBox()
		if m.selected[m.visible[i]] {
			checkbox = styles.CheckedBox()
		}

		name := uiutils.TruncateMiddle(file.DisplayName, 40)

		line := fmt.Sprintf("%s%s %s %-42s %10s  %s",
			cursor,
			checkbox,
			styles.GroupIcon(string(file.Group)),
			styles.FilePathStyle.Render(name),
			styles.FileSizeStyle.Render(utils.FormatBytes(file.SizeBytes)),
			styles.DimStyle.Render(humanize.Time(file.EffectiveRecency())),
		)

		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.notice != "" {
		b.WriteString(styles.WarningStyle.Render(m.notice))
		b.WriteString("\n")
	}

	count, size := m.selectionTotals()
	m.statusBar.SetSelection(count, len(m.files), size)
	b.WriteString(m.statusBar.Render(m.width))

	return b.String()
}

// proceedToConfirmation sends the selected files onward
func (m *ResultsViewModel) proceedToConfirmation() tea.Cmd {
	var selected []scan.FileRecord
	for idx := range m.files {
		if m.selected[idx] {
			selected = append(selected, m.files[idx])
		}
	}

	if len(selected) == 0 {
		m.notice = "Select at least one file first (space toggles)"
		return nil
	}

	return func() tea.Msg {
		return FilesSelectedMsg{Files: selected}
	}
}
