// Package globalconfig provides global configuration management for shipctl.
// Configuration is stored at ~/.config/shipctl/config.yaml and includes
// the project path and the deploy/build helper settings.
package globalconfig

import (
	"os"
	"path/filepath"
)

const (
	// ConfigDirName is the name of the config directory under ~/.config.
	ConfigDirName = "shipctl"
	// ConfigFileName is the name of the main config file.
	ConfigFileName = "config.yaml"
	// LegacySettingsFileName is the admin panel's JSON config to migrate from.
	LegacySettingsFileName = "cheshire_admin_config.json"
	// StateDirName is the name of the state subdirectory.
	StateDirName = "state"
	// HistoryFileName is the name of the run history file.
	HistoryFileName = "runs.json"
	// LogFileName is the name of the default run log.
	LogFileName = "shipctl.log"
)

// configPathOverride is set by SetConfigPath (the --config flag).
var configPathOverride string

// SetConfigPath makes Load and Save use path instead of the default location.
// An empty path restores the default.
func SetConfigPath(path string) {
	configPathOverride = path
}

// GetConfigDir returns the config directory path (~/.config/shipctl).
// Respects XDG_CONFIG_HOME if set.
func GetConfigDir() (string, error) {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, ConfigDirName), nil
}

// GetConfigPath returns the full path to the config file.
func GetConfigPath() (string, error) {
	if configPathOverride != "" {
		return configPathOverride, nil
	}
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, ConfigFileName), nil
}

// GetLegacySettingsPath returns the path to the legacy JSON config.
func GetLegacySettingsPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, LegacySettingsFileName), nil
}

// GetStateDir returns the path to the state directory.
func GetStateDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, StateDirName), nil
}

// GetHistoryPath returns the path to the run history file.
func GetHistoryPath() (string, error) {
	stateDir, err := GetStateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(stateDir, HistoryFileName), nil
}

// GetLogPath returns the path to the default run log.
func GetLogPath() (string, error) {
	stateDir, err := GetStateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(stateDir, LogFileName), nil
}

// EnsureConfigDir creates the config directory if it doesn't exist.
func EnsureConfigDir() error {
	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return err
	}
	// Also ensure state directory exists
	stateDir, err := GetStateDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(stateDir, 0755)
}
