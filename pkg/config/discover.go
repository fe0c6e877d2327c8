package config

import (
	"os"
	"path/filepath"
	"strings"
)

// UserDir returns the per-user config directory: $XDG_CONFIG_HOME/mindmap,
// falling back to ~/.config/mindmap.
func UserDir() (string, bool) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "mindmap"), true
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "", false
	}
	return filepath.Join(home, ".config", "mindmap"), true
}

// FindProjectDir walks up from dir looking for a .mindmap/ directory and
// returns the directory that contains it. The walk stops at the home
// directory and the filesystem root.
func FindProjectDir(dir string) (string, bool) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", false
		}
		dir = wd
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", false
	}
	home, _ := os.UserHomeDir()

	for {
		candidate := filepath.Join(dir, ProjectDirName)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() && dir != home {
			return dir, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		// ~/.mindmap holds the library and logs, not project settings.
		if home != "" && dir == home {
			break
		}
		dir = parent
	}
	return "", false
}

// expandHome replaces a leading ~ with the user's home directory.
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
