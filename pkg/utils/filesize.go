// Package utils provides small formatting helpers shared by the CLI and
// the TUI.
package utils

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	B  int64 = 1
	KB       = 1024 * B
	MB       = 1024 * KB
	GB       = 1024 * MB
	TB       = 1024 * GB
)

// FormatBytes converts bytes to human-readable format
func FormatBytes(bytes int64) string {
	if bytes < 0 {
		return "0 B"
	}

	switch {
	case bytes >= TB:
		return fmt.Sprintf("%.2f TB", float64(bytes)/float64(TB))
	case bytes >= GB:
		return fmt.Sprintf("%.2f GB", float64(bytes)/float64(GB))
	case bytes >= MB:
		return fmt.Sprintf("%.2f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.2f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

var sizeUnits = map[string]int64{
	"": B, "B": B,
	"K": KB, "KB": KB,
	"M": MB, "MB": MB,
	"G": GB, "GB": GB,
	"T": TB, "TB": TB,
}

// ParseSize converts a human-readable size like "50MB", "1.5G", or a bare
// byte count into bytes. Units are case-insensitive and 1024-based.
func ParseSize(size string) (int64, error) {
	s := strings.TrimSpace(size)
	if s == "" {
		return 0, fmt.Errorf("empty size")
	}

	cut := len(s)
	for cut > 0 && !isDigit(s[cut-1]) && s[cut-1] != '.' {
		cut--
	}
	numPart := strings.TrimSpace(s[:cut])
	unitPart := strings.ToUpper(strings.TrimSpace(s[cut:]))

	value, err := strconv.ParseFloat(numPart, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size format: %s", size)
	}
	if value < 0 {
		return 0, fmt.Errorf("size must not be negative: %s", size)
	}

	mult, ok := sizeUnits[unitPart]
	if !ok {
		return 0, fmt.Errorf("unknown unit %q in size: %s", unitPart, size)
	}
	return int64(value * float64(mult)), nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
