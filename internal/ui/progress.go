package ui

import (
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"golang.org/x/term"

	"github.com/ketan18710/clean-my-mac/internal/scan"
	"github.com/ketan18710/clean-my-mac/pkg/utils"
)

// LiveProgress renders scan progress on stderr while a headless
// command runs, leaving stdout clean for the actual output.
type LiveProgress struct {
	mu          sync.Mutex
	root        string
	currentPath string
	filesFound  int64
	totalSize   int64
	startTime   time.Time
	lastUpdate  time.Time
	termWidth   int
	enabled     bool
	statusLines int
}

// NewLiveProgress creates a new live progress display. It disables
// itself when stderr is not a terminal.
func NewLiveProgress() *LiveProgress {
	fd := int(os.Stderr.Fd())
	width := 80
	enabled := term.IsTerminal(fd)
	if w, _, err := term.GetSize(fd); err == nil && w > 0 {
		width = w
	}

	return &LiveProgress{
		startTime:   time.Now(),
		termWidth:   width,
		enabled:     enabled,
		statusLines: 2,
	}
}

// Start initializes the progress display area
func (lp *LiveProgress) Start() {
	if !lp.enabled {
		return
	}
	fmt.Fprint(os.Stderr, "\n\n")
	fmt.Fprintf(os.Stderr, "\033[%dA", lp.statusLines)
}

// Update updates the progress display
func (lp *LiveProgress) Update(root, currentPath string, filesFound, totalSize int64) {
	lp.mu.Lock()
	defer lp.mu.Unlock()

	if !lp.enabled {
		return
	}

	// Throttle redraws to avoid flicker
	now := time.Now()
	if now.Sub(lp.lastUpdate) < 100*time.Millisecond {
		return
	}
	lp.lastUpdate = now

	lp.root = root
	lp.currentPath = currentPath
	lp.filesFound = filesFound
	lp.totalSize = totalSize

	lp.render()
}

// render draws the progress display
func (lp *LiveProgress) render() {
	fmt.Fprint(os.Stderr, "\033[s")

	width := lp.termWidth - 2

	elapsed := time.Since(lp.startTime).Round(time.Second)
	line1 := fmt.Sprintf("🔍 Scanning: %-30s | Found: %d files | %s | %s",
		lp.root, lp.filesFound, utils.FormatBytes(lp.totalSize), elapsed)
	fmt.Fprintf(os.Stderr, "\033[K%s\n", truncate(line1, width))

	spinnerFrames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	spinIdx := int(time.Now().UnixMilli()/100) % len(spinnerFrames)
	path := lp.currentPath
	if len(path) > width-10 {
		path = "..." + path[len(path)-(width-13):]
	}
	line2 := fmt.Sprintf("%s %s", spinnerFrames[spinIdx], path)
	fmt.Fprintf(os.Stderr, "\033[K%s", truncate(line2, width))

	fmt.Fprint(os.Stderr, "\033[u")
}

// Note prints a message line above the status area. The line stays in
// the scrollback; the status area rebuilds itself below it.
func (lp *LiveProgress) Note(msg string) {
	lp.mu.Lock()
	defer lp.mu.Unlock()

	if !lp.enabled {
		fmt.Fprintln(os.Stderr, msg)
		return
	}

	fmt.Fprintf(os.Stderr, "\033[K%s\n", truncate(msg, lp.termWidth-2))
	fmt.Fprint(os.Stderr, "\n\n")
	fmt.Fprintf(os.Stderr, "\033[%dA", lp.statusLines)
	lp.render()
}

// Enabled reports whether the display is drawing to a terminal
func (lp *LiveProgress) Enabled() bool {
	lp.mu.Lock()
	defer lp.mu.Unlock()
	return lp.enabled
}

// Finish completes the progress display
func (lp *LiveProgress) Finish() {
	if !lp.enabled {
		return
	}
	lp.mu.Lock()
	defer lp.mu.Unlock()

	fmt.Fprintf(os.Stderr, "\033[%dB", lp.statusLines)
	fmt.Fprint(os.Stderr, "\033[K\n")
}

// SetEnabled enables or disables live progress
func (lp *LiveProgress) SetEnabled(enabled bool) {
	lp.mu.Lock()
	defer lp.mu.Unlock()
	lp.enabled = enabled
}

// truncate truncates a string to fit width
func truncate(s string, width int) string {
	if len(s) <= width {
		return s
	}
	return s[:width-3] + "..."
}

// PrintDetailedTree prints found files as a tree, grouped by type and
// then by parent directory
func PrintDetailedTree(files []scan.FileRecord, totalSize int64) {
	byGroup := make(map[scan.TypeGroup][]scan.FileRecord)
	groupSizes := make(map[scan.TypeGroup]int64)

	for _, f := range files {
		byGroup[f.Group] = append(byGroup[f.Group], f)
		groupSizes[f.Group] += f.SizeBytes
	}

	for _, group := range scan.AllGroups() {
		groupFiles, ok := byGroup[group]
		if !ok {
			continue
		}

		fmt.Printf("\n╭─ %s (%s)\n", groupHeading(group), utils.FormatBytes(groupSizes[group]))

		dirs := make(map[string][]scan.FileRecord)
		for _, f := range groupFiles {
			dir := parentDir(f.Path)
			dirs[dir] = append(dirs[dir], f)
		}

		dirNames := make([]string, 0, len(dirs))
		for dir := range dirs {
			dirNames = append(dirNames, dir)
		}
		sort.Strings(dirNames)

		for dirIdx, dir := range dirNames {
			dirFiles := dirs[dir]
			isLastDir := dirIdx == len(dirNames)-1

			connector := "├"
			if isLastDir {
				connector = "╰"
			}

			var dirSize int64
			for _, f := range dirFiles {
				dirSize += f.SizeBytes
			}

			fmt.Printf("%s── 📁 %s (%s)\n", connector, dir, utils.FormatBytes(dirSize))

			maxFiles := 5
			fileCount := len(dirFiles)
			showCount := fileCount
			if showCount > maxFiles {
				showCount = maxFiles
			}

			for i := 0; i < showCount; i++ {
				f := dirFiles[i]
				fileConnector := "│   ├"
				if isLastDir {
					fileConnector = "    ├"
				}
				if i == showCount-1 && fileCount <= maxFiles {
					if isLastDir {
						fileConnector = "    ╰"
					} else {
						fileConnector = "│   ╰"
					}
				}
				fmt.Printf("%s── %s (%s)\n", fileConnector, f.DisplayName, utils.FormatBytes(f.SizeBytes))
			}

			if fileCount > maxFiles {
				moreConnector := "│   ╰"
				if isLastDir {
					moreConnector = "    ╰"
				}
				fmt.Printf("%s── ... and %d more files\n", moreConnector, fileCount-maxFiles)
			}
		}
	}

	fmt.Printf("\n════════════════════════════════════════════════════════\n")
	fmt.Printf("Total: %d items | %s\n", len(files), utils.FormatBytes(totalSize))
}

// groupHeading returns a friendly heading for a type group
func groupHeading(group scan.TypeGroup) string {
	switch group {
	case scan.GroupImage:
		return "🖼 Images"
	case scan.GroupVideo:
		return "🎬 Videos"
	case scan.GroupArchive:
		return "📦 Archives"
	default:
		return "📄 Other Files"
	}
}

// parentDir extracts the parent directory from a path
func parentDir(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			if i == 0 {
				return "/"
			}
			return path[:i]
		}
	}
	return path
}
