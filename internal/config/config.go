package config

import (
	"os"
	"path/filepath"
)

const (
	// DefaultDataRoot is the data root used when none is configured,
	// relative to the working directory.
	DefaultDataRoot = "data/plugins"
	// DefaultPluginID names the per-plugin directory under the data root.
	DefaultPluginID = "memo"
	// MemoFile is the name of the memo document.
	MemoFile = "memos.json"
)

// PluginDir returns <dataRoot>/<pluginID>.
func PluginDir(dataRoot, pluginID string) string {
	return filepath.Join(dataRoot, pluginID)
}

// MemoPath returns <dataRoot>/<pluginID>/memos.json.
func MemoPath(dataRoot, pluginID string) string {
	return filepath.Join(PluginDir(dataRoot, pluginID), MemoFile)
}

// MemoPath returns the memo document location for this configuration.
func (c *GlobalConfig) MemoPath() string {
	return MemoPath(c.DataRoot, c.PluginID)
}

// ExpandPath expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path // Return original if we can't get home directory
	}

	return filepath.Join(home, path[1:])
}
