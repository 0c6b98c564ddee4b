package platform

import "path/filepath"

// getLinuxInfo returns platform-specific information for Linux.
// There is no Spotlight index here, so scanning is unavailable, but the
// config and history commands still need sane paths.
func getLinuxInfo(homeDir, username string) *Info {
	return &Info{
		OS:       Linux,
		HomeDir:  homeDir,
		Username: username,
		DefaultRoots: []string{
			filepath.Join(homeDir, "Downloads"),
			filepath.Join(homeDir, "Desktop"),
			filepath.Join(homeDir, "Documents"),
			filepath.Join(homeDir, "Pictures"),
		},
		TrashDir: filepath.Join(homeDir, ".local/share/Trash/files"),
	}
}
