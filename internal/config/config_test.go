package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ketan18710/clean-my-mac/internal/scan"
)

// =============================================================================
// GetDefault Tests
// =============================================================================

func TestGetDefault(t *testing.T) {
	cfg := GetDefault()

	if cfg == nil {
		t.Fatal("GetDefault returned nil")
	}

	wantRoots := []string{"~/Downloads", "~/Desktop", "~/Documents", "~/Pictures"}
	if len(cfg.Scan.Roots) != len(wantRoots) {
		t.Fatalf("default roots = %v, want %v", cfg.Scan.Roots, wantRoots)
	}
	for i, root := range wantRoots {
		if cfg.Scan.Roots[i] != root {
			t.Errorf("default roots[%d] = %q, want %q", i, cfg.Scan.Roots[i], root)
		}
	}

	if cfg.Scan.MinAgeDays != 180 {
		t.Errorf("expected MinAgeDays 180, got %d", cfg.Scan.MinAgeDays)
	}
	if cfg.Scan.MinSize != "50MB" {
		t.Errorf("expected MinSize '50MB', got %q", cfg.Scan.MinSize)
	}
	if len(cfg.Scan.IncludeGroups) != 4 {
		t.Errorf("expected all four groups included, got %v", cfg.Scan.IncludeGroups)
	}
	if cfg.Scan.QueueCapacity != 1000 {
		t.Errorf("expected QueueCapacity 1000, got %d", cfg.Scan.QueueCapacity)
	}
	if !cfg.Safety.SkipDevFolders {
		t.Error("expected SkipDevFolders to be enabled by default")
	}
	if cfg.Logging.Verbose {
		t.Error("expected Verbose to be disabled by default")
	}
}

func TestGetDefaultValidates(t *testing.T) {
	if err := GetDefault().Validate(); err != nil {
		t.Errorf("default config does not validate: %v", err)
	}
}

// =============================================================================
// Load Tests
// =============================================================================

func TestLoadNonExistentFile(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.yaml")
	if err != nil {
		t.Fatalf("Load should not error for non-existent file: %v", err)
	}

	// Should return default config
	if cfg == nil {
		t.Fatal("Load returned nil config")
	}
	if cfg.Scan.MinAgeDays != 180 {
		t.Errorf("expected default MinAgeDays 180, got %d", cfg.Scan.MinAgeDays)
	}
}

func TestLoadValidConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
scan:
  roots:
    - "~/Downloads"
    - "/Volumes/External/Stash"
  min_age_days: 90
  min_size: "100MB"
  include_groups:
    - video
    - archive
  queue_capacity: 500
safety:
  exclude_paths:
    - "~/Documents/Taxes"
  exclude_patterns:
    - "*.keep"
  skip_dev_folders: false
logging:
  verbose: true
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(cfg.Scan.Roots) != 2 || cfg.Scan.Roots[1] != "/Volumes/External/Stash" {
		t.Errorf("roots = %v, want two with external volume second", cfg.Scan.Roots)
	}
	if cfg.Scan.MinAgeDays != 90 {
		t.Errorf("expected MinAgeDays 90, got %d", cfg.Scan.MinAgeDays)
	}
	if cfg.Scan.MinSize != "100MB" {
		t.Errorf("expected MinSize '100MB', got %q", cfg.Scan.MinSize)
	}
	if len(cfg.Scan.IncludeGroups) != 2 {
		t.Errorf("expected two groups, got %v", cfg.Scan.IncludeGroups)
	}
	if cfg.Scan.QueueCapacity != 500 {
		t.Errorf("expected QueueCapacity 500, got %d", cfg.Scan.QueueCapacity)
	}
	if len(cfg.Safety.ExcludePaths) != 1 {
		t.Errorf("expected one exclude path, got %v", cfg.Safety.ExcludePaths)
	}
	if cfg.Safety.SkipDevFolders {
		t.Error("expected SkipDevFolders to be false")
	}
	if !cfg.Logging.Verbose {
		t.Error("expected Verbose to be true")
	}
}

func TestLoadPartialConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	// Only override one value; everything else keeps its default.
	configContent := `
scan:
  min_age_days: 30
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Scan.MinAgeDays != 30 {
		t.Errorf("expected MinAgeDays 30 (overridden), got %d", cfg.Scan.MinAgeDays)
	}
	if len(cfg.Scan.Roots) != 4 {
		t.Errorf("expected default roots preserved, got %v", cfg.Scan.Roots)
	}
	if cfg.Scan.MinSize != "50MB" {
		t.Errorf("expected default MinSize preserved, got %q", cfg.Scan.MinSize)
	}
	if !cfg.Safety.SkipDevFolders {
		t.Error("expected default SkipDevFolders preserved")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
scan:
  roots: [invalid
  min_age_days: 30
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	if _, err := Load(configPath); err == nil {
		t.Error("Load should fail on malformed YAML")
	}
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantMsg string
	}{
		{
			"empty roots",
			"scan:\n  roots: []\n",
			"at least one scan root",
		},
		{
			"relative root",
			"scan:\n  roots:\n    - \"Downloads\"\n",
			"absolute or start with ~",
		},
		{
			"negative age",
			"scan:\n  min_age_days: -1\n",
			"min_age_days",
		},
		{
			"bad size",
			"scan:\n  min_size: \"fifty\"\n",
			"invalid min_size",
		},
		{
			"negative queue",
			"scan:\n  queue_capacity: -5\n",
			"queue_capacity",
		},
		{
			"unknown group",
			"scan:\n  include_groups:\n    - image\n    - music\n",
			"unknown type group",
		},
		{
			"bad exclude pattern",
			"safety:\n  exclude_patterns:\n    - \"[abc\"\n",
			"invalid exclude pattern",
		},
		{
			"relative exclude path",
			"safety:\n  exclude_paths:\n    - \"Documents/Taxes\"\n",
			"exclude path must be absolute",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			configPath := filepath.Join(tmpDir, "config.yaml")
			if err := os.WriteFile(configPath, []byte(tt.content), 0644); err != nil {
				t.Fatalf("failed to write test config: %v", err)
			}

			_, err := Load(configPath)
			if err == nil {
				t.Fatalf("Load accepted invalid config, want error containing %q", tt.wantMsg)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error = %q, want it to contain %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

// =============================================================================
// Save Tests
// =============================================================================

func TestSaveAndReload(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "nested", "dir", "config.yaml")

	cfg := GetDefault()
	cfg.Scan.MinAgeDays = 365
	cfg.Scan.Roots = []string{"~/Downloads"}
	cfg.Safety.ExcludePatterns = []string{"*.keep"}

	if err := Save(cfg, configPath); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load after Save failed: %v", err)
	}

	if loaded.Scan.MinAgeDays != 365 {
		t.Errorf("MinAgeDays = %d, want 365", loaded.Scan.MinAgeDays)
	}
	if len(loaded.Scan.Roots) != 1 || loaded.Scan.Roots[0] != "~/Downloads" {
		t.Errorf("Roots = %v, want [~/Downloads]", loaded.Scan.Roots)
	}
	if len(loaded.Safety.ExcludePatterns) != 1 || loaded.Safety.ExcludePatterns[0] != "*.keep" {
		t.Errorf("ExcludePatterns = %v, want [*.keep]", loaded.Safety.ExcludePatterns)
	}
}

func TestExampleConfigMatchesDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	if err := os.WriteFile(configPath, []byte(GetExampleConfig()), 0644); err != nil {
		t.Fatalf("failed to write example config: %v", err)
	}

	loaded, err := Load(configPath)
	if err != nil {
		t.Fatalf("example config does not load: %v", err)
	}

	def := GetDefault()
	if loaded.Scan.MinAgeDays != def.Scan.MinAgeDays {
		t.Errorf("MinAgeDays = %d, want default %d", loaded.Scan.MinAgeDays, def.Scan.MinAgeDays)
	}
	if loaded.Scan.MinSize != def.Scan.MinSize {
		t.Errorf("MinSize = %q, want default %q", loaded.Scan.MinSize, def.Scan.MinSize)
	}
	if len(loaded.Scan.Roots) != len(def.Scan.Roots) {
		t.Errorf("Roots = %v, want defaults %v", loaded.Scan.Roots, def.Scan.Roots)
	}
	if len(loaded.Scan.IncludeGroups) != len(def.Scan.IncludeGroups) {
		t.Errorf("IncludeGroups = %v, want defaults %v", loaded.Scan.IncludeGroups, def.Scan.IncludeGroups)
	}
	if loaded.Scan.QueueCapacity != def.Scan.QueueCapacity {
		t.Errorf("QueueCapacity = %d, want default %d", loaded.Scan.QueueCapacity, def.Scan.QueueCapacity)
	}
	if loaded.Safety.SkipDevFolders != def.Safety.SkipDevFolders {
		t.Errorf("SkipDevFolders = %v, want default %v", loaded.Safety.SkipDevFolders, def.Safety.SkipDevFolders)
	}
}

// =============================================================================
// ToScanConfig Tests
// =============================================================================

func TestToScanConfig(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}

	cfg := GetDefault()
	cfg.Scan.Roots = []string{"~/Downloads", "/Volumes/External"}
	cfg.Scan.MinSize = "1MB"
	cfg.Scan.IncludeGroups = []string{"image", "video"}
	cfg.Safety.ExcludePaths = []string{"~/Documents/Taxes"}

	sc, err := cfg.ToScanConfig()
	if err != nil {
		t.Fatalf("ToScanConfig failed: %v", err)
	}

	if sc.Roots[0] != filepath.Join(home, "Downloads") {
		t.Errorf("tilde root not expanded: %q", sc.Roots[0])
	}
	if sc.Roots[1] != "/Volumes/External" {
		t.Errorf("absolute root altered: %q", sc.Roots[1])
	}
	if sc.MinSizeBytes != 1<<20 {
		t.Errorf("MinSizeBytes = %d, want %d", sc.MinSizeBytes, int64(1<<20))
	}
	if len(sc.IncludeGroups) != 2 || sc.IncludeGroups[0] != scan.GroupImage || sc.IncludeGroups[1] != scan.GroupVideo {
		t.Errorf("IncludeGroups = %v, want [image video]", sc.IncludeGroups)
	}
	if sc.ExcludePaths[0] != filepath.Join(home, "Documents", "Taxes") {
		t.Errorf("tilde exclude not expanded: %q", sc.ExcludePaths[0])
	}
	if sc.MinAgeDays != 180 {
		t.Errorf("MinAgeDays = %d, want 180", sc.MinAgeDays)
	}
	if sc.QueueCapacity != 1000 {
		t.Errorf("QueueCapacity = %d, want 1000", sc.QueueCapacity)
	}
	if !sc.SkipDevFolders {
		t.Error("SkipDevFolders not carried through")
	}
}

func TestMinSizeBytes(t *testing.T) {
	tests := []struct {
		name    string
		minSize string
		want    int64
		wantErr bool
	}{
		{"empty means no floor", "", 0, false},
		{"megabytes", "50MB", 50 << 20, false},
		{"gigabytes", "2GB", 2 << 30, false},
		{"bare bytes", "1024", 1024, false},
		{"garbage", "fifty", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := GetDefault()
			cfg.Scan.MinSize = tt.minSize

			got, err := cfg.MinSizeBytes()
			if tt.wantErr {
				if err == nil {
					t.Fatalf("MinSizeBytes() = nil error for %q, want error", tt.minSize)
				}
				return
			}
			if err != nil {
				t.Fatalf("MinSizeBytes() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("MinSizeBytes() = %d, want %d", got, tt.want)
			}
		})
	}
}

// =============================================================================
// Path expansion Tests
// =============================================================================

func TestExpandPath(t *testing.T) {
	home := "/Users/dev"

	tests := []struct {
		in   string
		want string
	}{
		{"~", "/Users/dev"},
		{"~/Downloads", "/Users/dev/Downloads"},
		{"~/a/b", "/Users/dev/a/b"},
		{"/absolute/path", "/absolute/path"},
		{"~user/path", "~user/path"},
	}

	for _, tt := range tests {
		if got := expandPath(tt.in, home); got != tt.want {
			t.Errorf("expandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
