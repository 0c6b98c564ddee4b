package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ketan18710/clean-my-mac/internal/platform"
	"github.com/ketan18710/clean-my-mac/internal/safety"
	"github.com/ketan18710/clean-my-mac/internal/scan"
	"github.com/ketan18710/clean-my-mac/pkg/utils"
)

// Config represents the application configuration
type Config struct {
	Scan    ScanSettings    `yaml:"scan"`
	Safety  SafetySettings  `yaml:"safety"`
	Logging LoggingSettings `yaml:"logging"`
}

// ScanSettings selects what the scanner looks for and where
type ScanSettings struct {
	Roots         []string `yaml:"roots"`
	MinAgeDays    int      `yaml:"min_age_days"`
	MinSize       string   `yaml:"min_size"` // e.g. "50MB"
	IncludeGroups []string `yaml:"include_groups"`
	QueueCapacity int      `yaml:"queue_capacity"`
}

// SafetySettings holds the user-controlled exclusion rules. The built-in
// system and bundle protections are not configurable.
type SafetySettings struct {
	ExcludePaths    []string `yaml:"exclude_paths"`
	ExcludePatterns []string `yaml:"exclude_patterns"`
	SkipDevFolders  bool     `yaml:"skip_dev_folders"`
}

// LoggingSettings controls log output
type LoggingSettings struct {
	Verbose bool `yaml:"verbose"`
}

// Load loads configuration from a file
func Load(configPath string) (*Config, error) {
	// If config doesn't exist, return default config
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return GetDefault(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Unmarshal over the defaults so a partial file only overrides what it
	// names.
	config := GetDefault()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// Save saves configuration to a file
func Save(config *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if len(c.Scan.Roots) == 0 {
		return fmt.Errorf("at least one scan root is required")
	}
	for _, root := range c.Scan.Roots {
		if !filepath.IsAbs(root) && !strings.HasPrefix(root, "~") {
			return fmt.Errorf("scan root must be absolute or start with ~: %s", root)
		}
	}

	if c.Scan.MinAgeDays < 0 {
		return fmt.Errorf("min_age_days must be >= 0")
	}
	if c.Scan.MinSize != "" {
		if _, err := utils.ParseSize(c.Scan.MinSize); err != nil {
			return fmt.Errorf("invalid min_size: %w", err)
		}
	}
	if c.Scan.QueueCapacity < 0 {
		return fmt.Errorf("queue_capacity must be >= 0")
	}
	if _, err := scan.ParseGroups(c.Scan.IncludeGroups); err != nil {
		return err
	}

	for _, pattern := range c.Safety.ExcludePatterns {
		if err := safety.ValidateGlobPattern(pattern); err != nil {
			return fmt.Errorf("invalid exclude pattern '%s': %w", pattern, err)
		}
	}
	for _, path := range c.Safety.ExcludePaths {
		if !filepath.IsAbs(path) && !strings.HasPrefix(path, "~") {
			return fmt.Errorf("exclude path must be absolute or start with ~: %s", path)
		}
	}

	return nil
}

// MinSizeBytes parses the configured size floor
func (c *Config) MinSizeBytes() (int64, error) {
	if c.Scan.MinSize == "" {
		return 0, nil
	}
	return utils.ParseSize(c.Scan.MinSize)
}

// ToScanConfig resolves the settings into a runnable scan configuration:
// tildes expanded, group names parsed, the size floor in bytes.
func (c *Config) ToScanConfig() (scan.Config, error) {
	minSize, err := c.MinSizeBytes()
	if err != nil {
		return scan.Config{}, err
	}
	groups, err := scan.ParseGroups(c.Scan.IncludeGroups)
	if err != nil {
		return scan.Config{}, err
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return scan.Config{}, fmt.Errorf("failed to locate home directory: %w", err)
	}

	roots := make([]string, 0, len(c.Scan.Roots))
	for _, root := range c.Scan.Roots {
		roots = append(roots, expandPath(root, home))
	}
	excludes := make([]string, 0, len(c.Safety.ExcludePaths))
	for _, path := range c.Safety.ExcludePaths {
		excludes = append(excludes, expandPath(path, home))
	}

	return scan.Config{
		Roots:           roots,
		IncludeGroups:   groups,
		MinAgeDays:      c.Scan.MinAgeDays,
		MinSizeBytes:    minSize,
		ExcludePaths:    excludes,
		ExcludePatterns: c.Safety.ExcludePatterns,
		SkipDevFolders:  c.Safety.SkipDevFolders,
		QueueCapacity:   c.Scan.QueueCapacity,
	}, nil
}

// expandPath substitutes a leading ~ with the home directory
func expandPath(path, home string) string {
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}

// GetConfigPath returns the default config path
func GetConfigPath() (string, error) {
	dataDir, err := platform.GetDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, "config.yaml"), nil
}

// GetHistoryPath returns the default action-history path
func GetHistoryPath() (string, error) {
	dataDir, err := platform.GetDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, "history.jsonl"), nil
}

// EnsureConfigExists creates a commented default config file if none
// exists yet. An existing file is left untouched.
func EnsureConfigExists() (string, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return "", err
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
			return "", fmt.Errorf("failed to create config directory: %w", err)
		}
		if err := os.WriteFile(configPath, []byte(GetExampleConfig()), 0644); err != nil {
			return "", fmt.Errorf("failed to write config file: %w", err)
		}
	}

	return configPath, nil
}
