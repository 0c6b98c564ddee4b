package utils

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ketan18710/clean-my-mac/internal/ui/styles"
)

const (
	// MinTerminalWidth is the minimum recommended terminal width
	MinTerminalWidth = 80
	// MinTerminalHeight is the minimum recommended terminal height
	MinTerminalHeight = 24
)

// TruncatePath truncates a file path to fit within maxWidth, keeping
// the filename and as much of the directory as fits
func TruncatePath(path string, maxWidth int) string {
	if len(path) <= maxWidth {
		return path
	}

	if maxWidth < 10 {
		return "..."
	}

	dir, file := filepath.Split(path)

	if len(file) > maxWidth-4 {
		return "..." + file[len(file)-(maxWidth-4):]
	}

	availableForDir := maxWidth - len(file) - 3
	if availableForDir <= 0 {
		return "..." + file
	}

	dir = filepath.Clean(dir)
	if len(dir) <= availableForDir {
		return filepath.Join(dir, file)
	}

	parts := strings.Split(dir, string(filepath.Separator))
	if len(parts) <= 2 {
		truncatedDir := "..." + dir[len(dir)-availableForDir:]
		return truncatedDir + string(filepath.Separator) + file
	}

	lastPart := parts[len(parts)-1]
	return "..." + string(filepath.Separator) + lastPart + string(filepath.Separator) + file
}

// TruncateMiddle truncates a string from the middle, preserving start and end
func TruncateMiddle(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}

	if maxLen < 10 {
		if maxLen < 3 {
			return "..."
		}
		return s[:maxLen-3] + "..."
	}

	sideLen := (maxLen - 3) / 2
	return s[:sideLen] + "..." + s[len(s)-sideLen:]
}

// CalculatePageSize calculates how many list rows fit on screen after
// the title, header and footer take their share
func CalculatePageSize(terminalHeight int) int {
	const reservedLines = 10

	pageSize := terminalHeight - reservedLines
	if pageSize < 5 {
		pageSize = 5
	}

	return pageSize
}

// IsTerminalTooSmall checks if the terminal is below minimum recommended size
func IsTerminalTooSmall(width, height int) bool {
	return width < MinTerminalWidth || height < MinTerminalHeight
}

// GetSizeWarningBanner returns a warning banner if terminal is too small
func GetSizeWarningBanner(width, height int) string {
	if !IsTerminalTooSmall(width, height) {
		return ""
	}

	warning := "⚠️  Terminal too small! Recommended: 80x24 or larger"
	if width > 0 && height > 0 {
		warning += styles.DimStyle.Render(" (current: ") +
			styles.WarningStyle.Render(fmt.Sprintf("%dx%d", width, height)) +
			styles.DimStyle.Render(")")
	}

	return styles.WarningStyle.Render(warning) + "\n\n"
}
