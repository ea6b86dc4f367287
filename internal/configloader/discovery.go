package configloader

import (
	"os"
	"path/filepath"
)

// projectConfigFiles are the config file names we search for, in order of
// preference.
//
//nolint:gochecknoglobals // Read-only lookup table.
var projectConfigFiles = []string{
	".grepl.yml",
	".grepl.yaml",
}

// vcsRootMarkers are directories that indicate a VCS root and bound the
// upward search.
//
//nolint:gochecknoglobals // Read-only lookup table.
var vcsRootMarkers = []string{".git", ".hg", ".svn"}

// UserConfigPath returns the user-level config path under $XDG_CONFIG_HOME
// (or ~/.config), or "" when no such file exists.
func UserConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}

	for _, name := range []string{"config.yaml", "config.yml"} {
		path := filepath.Join(configHome, "grepl", name)
		if fileExists(path) {
			return path
		}
	}
	return ""
}

// FindProjectConfig searches upward from workDir for a project config file,
// stopping at a VCS root or the filesystem root.
func FindProjectConfig(workDir string) string {
	dir, err := filepath.Abs(workDir)
	if err != nil {
		return ""
	}

	for {
		for _, name := range projectConfigFiles {
			path := filepath.Join(dir, name)
			if fileExists(path) {
				return path
			}
		}

		atVCSRoot := false
		for _, marker := range vcsRootMarkers {
			if info, err := os.Stat(filepath.Join(dir, marker)); err == nil && info.IsDir() {
				atVCSRoot = true
				break
			}
		}

		parent := filepath.Dir(dir)
		if atVCSRoot || parent == dir {
			return ""
		}
		dir = parent
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
