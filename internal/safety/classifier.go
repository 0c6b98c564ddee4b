package safety

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// systemPrefixes are roots the scanner never descends into. A path equal to
// or under any of these is skipped unconditionally.
var systemPrefixes = []string{
	"/System",
	"/Library",
	"/Applications",
	"/usr",
	"/bin",
	"/sbin",
	"/opt",
}

// bundleSuffixes mark path segments that are really opaque containers
// (application bundles, frameworks, media libraries). Files inside them look
// like ordinary files to the index but must never be offered for cleanup.
var bundleSuffixes = []string{
	".app",
	".framework",
	".photoslibrary",
	".aplibrary",
	".appbundle",
	".kext",
}

// devIgnoreNames lists build, dependency, and VCS folder names across
// toolchains. Anything inside them is tooling output, not user files.
var devIgnoreNames = map[string]struct{}{
	// JS/TS
	"node_modules": {}, "bower_components": {}, "dist": {}, "build": {}, "coverage": {},
	".next": {}, ".nuxt": {}, ".svelte-kit": {}, ".vite": {}, ".angular": {}, ".storybook": {},
	"storybook-static": {}, ".turbo": {}, ".nx": {}, ".expo": {}, ".vercel": {}, ".output": {},
	// Python
	"venv": {}, ".venv": {}, "env": {}, ".env": {}, "__pycache__": {}, ".mypy_cache": {},
	".pytest_cache": {}, ".ruff_cache": {}, ".ipynb_checkpoints": {},
	// Java/Kotlin/Android
	"target": {}, "out": {}, ".gradle": {}, ".mvn": {},
	// Swift/iOS
	"DerivedData": {}, ".build": {}, ".swiftpm": {}, "Pods": {}, "Carthage": {},
	// Go
	"vendor": {}, "bin": {}, "pkg": {},
	// Ruby
	".bundle": {}, "tmp": {}, "log": {}, ".yardoc": {},
	// PHP
	"var": {}, "bootstrap": {}, "storage": {},
	// .NET
	"obj": {}, "packages": {}, "TestResults": {},
	// C/C++/CMake
	"CMakeFiles": {}, ".deps": {},
	// Haskell
	"dist-newstyle": {}, ".stack-work": {},
	// Elixir/Erlang
	"_build": {}, "deps": {}, "cover": {},
	// Scala/Metals
	"project": {}, ".bloop": {}, ".metals": {},
	// Monorepo tools
	"bazel-bin": {}, "bazel-out": {}, "buck-out": {},
	// VCS
	".git": {}, ".hg": {}, ".svn": {},
}

// Options configures the user-controlled part of a Classifier. The built-in
// system, bundle, and hidden-segment rules are not configurable.
type Options struct {
	ExcludePaths    []string
	ExcludePatterns []string
	SkipDevFolders  bool
}

// Classifier decides whether a discovered path may become a scan candidate.
// Construct once per scan; ShouldSkip is then pure string inspection, safe
// to call from the discovery hot path.
type Classifier struct {
	excludePaths    []string
	excludePatterns []string
	skipDevFolders  bool
}

// NewClassifier builds a Classifier from user options. Exclude paths are
// cleaned and symlink-resolved here, once, so ShouldSkip never touches the
// filesystem.
func NewClassifier(opts Options) *Classifier {
	c := &Classifier{
		excludePatterns: opts.ExcludePatterns,
		skipDevFolders:  opts.SkipDevFolders,
	}
	for _, p := range opts.ExcludePaths {
		c.excludePaths = append(c.excludePaths, resolveBase(p))
	}
	return c
}

// resolveBase normalizes a configured exclude path. Symlink resolution is
// best effort; a base that does not exist is kept in cleaned form.
func resolveBase(path string) string {
	clean := filepath.Clean(path)
	if resolved, err := filepath.EvalSymlinks(clean); err == nil {
		return resolved
	}
	return clean
}

// ShouldSkip reports whether path must never be scanned. Rules are ORed:
// system prefix, bundle-suffixed segment, hidden segment, photo library
// anywhere in the ancestry, development folder (when enabled), or a user
// exclude. Pure and total: no I/O, no error.
func (c *Classifier) ShouldSkip(path string) bool {
	clean := filepath.Clean(path)

	for _, prefix := range systemPrefixes {
		if clean == prefix || strings.HasPrefix(clean, prefix+"/") {
			return true
		}
	}

	for _, segment := range splitSegments(clean) {
		// Photo libraries are protected on their own, independent of the
		// generic bundle list. Editing bundleSuffixes must not weaken this.
		if strings.HasSuffix(segment, ".photoslibrary") {
			return true
		}
		for _, suffix := range bundleSuffixes {
			if strings.HasSuffix(segment, suffix) {
				return true
			}
		}
		if strings.HasPrefix(segment, ".") {
			return true
		}
		if c.skipDevFolders {
			if _, ok := devIgnoreNames[segment]; ok {
				return true
			}
		}
	}

	return c.isExcluded(clean)
}

// isExcluded checks the user denylist: prefix containment for exclude paths,
// glob match against the full path and the base name for patterns.
func (c *Classifier) isExcluded(clean string) bool {
	for _, base := range c.excludePaths {
		if clean == base || strings.HasPrefix(clean, base+"/") {
			return true
		}
	}
	name := filepath.Base(clean)
	for _, pattern := range c.excludePatterns {
		if ok, err := filepath.Match(pattern, clean); err == nil && ok {
			return true
		}
		if ok, err := filepath.Match(pattern, name); err == nil && ok {
			return true
		}
	}
	return false
}

func splitSegments(clean string) []string {
	trimmed := strings.TrimPrefix(clean, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

// ValidateForTrash performs the pre-action check on a user-selected path.
// Scanning already excluded unsafe paths; this re-checks right before the
// move so a stale or hand-constructed selection cannot slip through.
func (c *Classifier) ValidateForTrash(path string) error {
	if !filepath.IsAbs(path) {
		return fmt.Errorf("path must be absolute: %s", path)
	}

	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		if os.IsNotExist(err) {
			resolved = path
		} else {
			return fmt.Errorf("failed to resolve symlinks: %w", err)
		}
	}
	clean := filepath.Clean(resolved)

	dangerousChars := []string{";", "&", "|", "$", "`", "(", ")", "<", ">", "\n", "\r"}
	for _, char := range dangerousChars {
		if strings.Contains(clean, char) {
			return fmt.Errorf("path contains dangerous characters: %s", clean)
		}
	}

	if clean == "/" {
		return fmt.Errorf("refusing to trash filesystem root")
	}
	if home, herr := os.UserHomeDir(); herr == nil && clean == filepath.Clean(home) {
		return fmt.Errorf("refusing to trash home directory")
	}
	if c.ShouldSkip(clean) {
		return fmt.Errorf("refusing to trash protected path: %s", clean)
	}

	return nil
}

// ValidateGlobPattern validates that an exclude pattern is well formed
func ValidateGlobPattern(pattern string) error {
	if strings.Contains(pattern, "..") {
		return fmt.Errorf("glob pattern contains directory traversal: %s", pattern)
	}
	if _, err := filepath.Match(pattern, "test"); err != nil {
		return fmt.Errorf("invalid glob pattern: %w", err)
	}
	return nil
}
