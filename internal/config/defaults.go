package config

// GetDefault returns the default configuration
func GetDefault() *Config {
	return &Config{
		Scan: ScanSettings{
			Roots: []string{
				"~/Downloads",
				"~/Desktop",
				"~/Documents",
				"~/Pictures",
			},
			MinAgeDays:    180, // 6 months
			MinSize:       "50MB",
			IncludeGroups: []string{"image", "video", "archive", "other"},
			QueueCapacity: 1000,
		},
		Safety: SafetySettings{
			ExcludePaths:    []string{},
			ExcludePatterns: []string{},
			SkipDevFolders:  true,
		},
		Logging: LoggingSettings{
			Verbose: false,
		},
	}
}

// GetExampleConfig returns an example configuration with comments
func GetExampleConfig() string {
	return `# clean-my-mac configuration
# Location: ~/.config/clean-my-mac/config.yaml

scan:
  # Directories to scan for unused files
  roots:
    - "~/Downloads"
    - "~/Desktop"
    - "~/Documents"
    - "~/Pictures"

  # Only report files not used (or, when usage is unknown, not modified)
  # for at least this many days
  min_age_days: 180

  # Ignore files smaller than this. Images and PDFs are always reported
  # regardless of size: they reclaim space by count, not per-file size.
  min_size: "50MB"

  # Type groups to include: image, video, archive, other
  include_groups:
    - image
    - video
    - archive
    - other

  # Discovery-to-resolution queue bound. Raising it trades memory for
  # less backpressure on fast disks.
  queue_capacity: 1000

safety:
  # Directories never scanned, in addition to the built-in protections
  # (system paths, app bundles, photo libraries, hidden files)
  exclude_paths: []
  #  - "~/Documents/Taxes"

  # Glob patterns never scanned (matched against full path and file name)
  exclude_patterns: []
  #  - "*.keep"

  # Skip development folders (node_modules, venv, target, DerivedData, ...)
  skip_dev_folders: true

logging:
  verbose: false
`
}
