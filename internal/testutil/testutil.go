// Package testutil provides test helpers and fixtures for
// clean-my-mac tests. All file operations use t.TempDir() for safe,
// isolated testing.
package testutil

import (
	"crypto/rand"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// TestFixture holds paths to test directories and files
type TestFixture struct {
	T       *testing.T
	RootDir string // Root temp directory (auto-cleaned)

	// Standard test directories
	Downloads string
	Desktop   string
	Pictures  string
	TrashDir  string
}

// NewFixture creates a new test fixture with standard directory structure
func NewFixture(t *testing.T) *TestFixture {
	t.Helper()

	root := t.TempDir()

	f := &TestFixture{
		T:         t,
		RootDir:   root,
		Downloads: filepath.Join(root, "Downloads"),
		Desktop:   filepath.Join(root, "Desktop"),
		Pictures:  filepath.Join(root, "Pictures"),
		TrashDir:  filepath.Join(root, ".Trash"),
	}

	dirs := []string{f.Downloads, f.Desktop, f.Pictures, f.TrashDir}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("failed to create directory %s: %v", dir, err)
		}
	}

	return f
}

// =============================================================================
// File Creation Helpers
// =============================================================================

// CreateFile creates a file with specified content and returns its path
func (f *TestFixture) CreateFile(relPath string, content []byte) string {
	f.T.Helper()

	fullPath := filepath.Join(f.RootDir, relPath)
	dir := filepath.Dir(fullPath)

	if err := os.MkdirAll(dir, 0755); err != nil {
		f.T.Fatalf("failed to create directory %s: %v", dir, err)
	}

	if err := os.WriteFile(fullPath, content, 0644); err != nil {
		f.T.Fatalf("failed to create file %s: %v", fullPath, err)
	}

	return fullPath
}

// CreateFileWithAge creates a file and sets its modification time to the past
func (f *TestFixture) CreateFileWithAge(relPath string, content []byte, age time.Duration) string {
	f.T.Helper()

	fullPath := f.CreateFile(relPath, content)
	oldTime := time.Now().Add(-age)

	if err := os.Chtimes(fullPath, oldTime, oldTime); err != nil {
		f.T.Fatalf("failed to set file time for %s: %v", fullPath, err)
	}

	return fullPath
}

// CreateFileOfSize creates a file filled with zeros of the given size
func (f *TestFixture) CreateFileOfSize(relPath string, size int) string {
	f.T.Helper()
	return f.CreateFile(relPath, make([]byte, size))
}

// CreateRandomFile creates a file with random content
func (f *TestFixture) CreateRandomFile(relPath string, size int) string {
	f.T.Helper()
	content := make([]byte, size)
	rand.Read(content)
	return f.CreateFile(relPath, content)
}

// =============================================================================
// Directory Helpers
// =============================================================================

// CreateDir creates a directory and returns its path
func (f *TestFixture) CreateDir(relPath string) string {
	f.T.Helper()

	fullPath := filepath.Join(f.RootDir, relPath)
	if err := os.MkdirAll(fullPath, 0755); err != nil {
		f.T.Fatalf("failed to create directory %s: %v", fullPath, err)
	}

	return fullPath
}

// CreateReadOnlyDir creates a read-only directory so files inside
// cannot be renamed away. Permissions are restored on cleanup.
func (f *TestFixture) CreateReadOnlyDir(relPath string) string {
	f.T.Helper()

	dirPath := f.CreateDir(relPath)
	f.CreateFile(filepath.Join(relPath, "trapped.txt"), []byte("trapped"))
	if err := os.Chmod(dirPath, 0555); err != nil {
		f.T.Fatalf("failed to chmod directory %s: %v", dirPath, err)
	}

	f.T.Cleanup(func() {
		os.Chmod(dirPath, 0755)
	})

	return dirPath
}

// =============================================================================
// Symlink Helpers
// =============================================================================

// CreateSymlink creates a symbolic link
func (f *TestFixture) CreateSymlink(target, linkPath string) string {
	f.T.Helper()

	fullLinkPath := filepath.Join(f.RootDir, linkPath)
	dir := filepath.Dir(fullLinkPath)

	if err := os.MkdirAll(dir, 0755); err != nil {
		f.T.Fatalf("failed to create directory %s: %v", dir, err)
	}

	if err := os.Symlink(target, fullLinkPath); err != nil {
		f.T.Fatalf("failed to create symlink %s -> %s: %v", fullLinkPath, target, err)
	}

	return fullLinkPath
}

// CreateBrokenSymlink creates a symlink pointing to a non-existent target
func (f *TestFixture) CreateBrokenSymlink(linkPath string) string {
	f.T.Helper()
	return f.CreateSymlink("/nonexistent/target/"+randomString(8), linkPath)
}

// =============================================================================
// Path Helpers
// =============================================================================

// Path returns the full path for a relative path within the fixture
func (f *TestFixture) Path(relPath string) string {
	return filepath.Join(f.RootDir, relPath)
}

// =============================================================================
// Assertion Helpers
// =============================================================================

// FileExists checks if a file exists
func (f *TestFixture) FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// AssertFileExists fails the test if the file doesn't exist
func (f *TestFixture) AssertFileExists(path string) {
	f.T.Helper()
	if !f.FileExists(path) {
		f.T.Errorf("expected file to exist: %s", path)
	}
}

// AssertFileNotExists fails the test if the file exists
func (f *TestFixture) AssertFileNotExists(path string) {
	f.T.Helper()
	if f.FileExists(path) {
		f.T.Errorf("expected file to not exist: %s", path)
	}
}

// TrashContents lists the names currently in the fixture's trash dir
func (f *TestFixture) TrashContents() []string {
	f.T.Helper()
	entries, err := os.ReadDir(f.TrashDir)
	if err != nil {
		f.T.Fatalf("failed to read trash dir: %v", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

// =============================================================================
// Test Table Helpers
// =============================================================================

// PathTestCase represents a test case for trash path validation
type PathTestCase struct {
	Name        string
	Path        string
	ShouldPass  bool
	Description string
}

// StandardPathTestCases returns common test cases for path validation.
// Cases that depend on the current user's home are added by the tests
// themselves.
func StandardPathTestCases() []PathTestCase {
	return []PathTestCase{
		// Valid paths
		{Name: "absolute_path", Path: "/tmp/test.txt", ShouldPass: true, Description: "normal absolute path"},
		{Name: "path_with_dots", Path: "/tmp/file.name.with.dots.txt", ShouldPass: true, Description: "filename with dots"},
		{Name: "path_with_dashes", Path: "/tmp/file-name-with-dashes", ShouldPass: true, Description: "filename with dashes"},

		// Invalid paths - not absolute
		{Name: "traversal_simple", Path: "../etc/passwd", ShouldPass: false, Description: "simple path traversal"},
		{Name: "relative", Path: "relative/path", ShouldPass: false, Description: "relative path"},
		{Name: "empty", Path: "", ShouldPass: false, Description: "empty path"},

		// Invalid paths - injection
		{Name: "null_byte", Path: "/tmp/file\x00.txt", ShouldPass: false, Description: "null byte injection"},
		{Name: "newline", Path: "/tmp/file\n.txt", ShouldPass: false, Description: "newline injection"},
		{Name: "semicolon", Path: "/tmp/file;rm -rf /", ShouldPass: false, Description: "command injection with semicolon"},
		{Name: "pipe", Path: "/tmp/file|cat", ShouldPass: false, Description: "pipe injection"},
		{Name: "backtick", Path: "/tmp/`whoami`", ShouldPass: false, Description: "backtick injection"},
		{Name: "dollar_paren", Path: "/tmp/$(whoami)", ShouldPass: false, Description: "dollar paren injection"},

		// Invalid paths - protected locations
		{Name: "root", Path: "/", ShouldPass: false, Description: "filesystem root"},
		{Name: "system", Path: "/System/Library/CoreServices", ShouldPass: false, Description: "macOS system tree"},
		{Name: "applications", Path: "/Applications/Safari.app", ShouldPass: false, Description: "installed application"},
		{Name: "usr", Path: "/usr/local/bin/tool", ShouldPass: false, Description: "usr tree"},
		{Name: "bin", Path: "/bin/ls", ShouldPass: false, Description: "bin tree"},
	}
}

// ContainsString checks if a string contains a substring (case-insensitive)
func ContainsString(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// randomString generates a random string of specified length
func randomString(length int) string {
	b := make([]byte, length)
	rand.Read(b)
	return fmt.Sprintf("%x", b)[:length]
}
