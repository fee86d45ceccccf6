// Package config provides XDG path helpers.
package config

import (
	"os"
	"path/filepath"
)

const appName = "wordsprint"

// XDGConfigHome returns the XDG config home or a default fallback.
func XDGConfigHome() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".config")
}

// XDGDataHome returns the XDG data home or a default fallback.
func XDGDataHome() string {
	if v := os.Getenv("XDG_DATA_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".local", "share")
}

// XDGStateHome returns the XDG state home or a default fallback.
func XDGStateHome() string {
	if v := os.Getenv("XDG_STATE_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".local", "state")
}

// DefaultDictionaryDir returns the directory searched for word lists.
func DefaultDictionaryDir() string {
	return filepath.Join(XDGConfigHome(), appName, "dictionaries")
}

// DefaultDictionaryPath builds the word list path for a dictionary id.
func DefaultDictionaryPath(id string) string {
	return filepath.Join(DefaultDictionaryDir(), id+DictionaryExt)
}

// DefaultLogPath returns the default progress log path, without extension.
func DefaultLogPath() string {
	return filepath.Join(XDGDataHome(), appName, "progress")
}

// DefaultDebugLogPath returns the file that receives diagnostics while the TUI runs.
func DefaultDebugLogPath() string {
	return filepath.Join(XDGStateHome(), appName, "debug.log")
}

// DefaultConfigPath returns the default TOML config path.
func DefaultConfigPath() string {
	return filepath.Join(XDGConfigHome(), appName, "config.toml")
}

// DefaultEnvFilePath returns the optional dotenv file with WORDSPRINT_* values.
func DefaultEnvFilePath() string {
	return filepath.Join(XDGConfigHome(), appName, "env")
}
