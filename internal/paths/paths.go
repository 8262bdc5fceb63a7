package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const (

	// Name used for directory and file naming.
	toolName = "quarry"

	// Default permission mode for directories.
	DefaultDirMode os.FileMode = 0755

	// Default permission mode for files.
	DefaultFileMode os.FileMode = 0644
)

// Path to the directory searched first for the configuration file.
//
//	Linux:   $XDG_CONFIG_HOME/quarry or ~/.config/quarry
//	macOS:   ~/Library/Application Support/quarry
func Config() string {
	return filepath.Join(xdg.ConfigHome, toolName)
}

// Default root for all mutable state: repository caches, build
// workspaces, and finished packages.
//
//	Linux:   $XDG_DATA_HOME/quarry or ~/.local/share/quarry
//	macOS:   ~/Library/Application Support/quarry
func DataRoot() string {
	return filepath.Join(xdg.DataHome, toolName)
}

// Default path to the configuration file.
func ConfigFile() string {
	return filepath.Join(Config(), "config.toml")
}
