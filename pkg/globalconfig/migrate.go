package globalconfig

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// legacySettings represents the admin panel's JSON config.
type legacySettings struct {
	ProjectPath   string `json:"project_path"`
	DeployCommand string `json:"deploy_command"`
}

// MigrateFromLegacy checks for the legacy JSON config and migrates it to config.yaml.
// Returns true if migration was performed, false if no migration needed.
func MigrateFromLegacy() (bool, error) {
	needed, err := NeedsMigration()
	if err != nil || !needed {
		return false, err
	}

	legacyPath, err := GetLegacySettingsPath()
	if err != nil {
		return false, err
	}

	data, err := os.ReadFile(legacyPath)
	if err != nil {
		return false, fmt.Errorf("failed to read legacy settings: %w", err)
	}

	var legacy legacySettings
	if err := json.Unmarshal(data, &legacy); err != nil {
		return false, fmt.Errorf("failed to parse legacy settings: %w", err)
	}

	cfg := convertLegacyToConfig(&legacy)

	if err := cfg.Save(); err != nil {
		return false, fmt.Errorf("failed to save migrated config: %w", err)
	}

	// Rename legacy file to .bak
	backupPath := legacyPath + ".bak"
	if err := os.Rename(legacyPath, backupPath); err != nil {
		// Config was saved successfully; leave the legacy file in place.
		fmt.Printf("Warning: could not rename %s to %s: %v\n", legacyPath, backupPath, err)
	}

	return true, nil
}

// convertLegacyToConfig converts legacy settings to the new config format.
// The old deploy_command named a helper script (deploy.bat); anything else
// is taken as the deployment CLI itself.
func convertLegacyToConfig(legacy *legacySettings) *Config {
	cfg := NewConfig()
	cfg.ProjectPath = legacy.ProjectPath

	fields := strings.Fields(legacy.DeployCommand)
	if len(fields) > 0 && !isHelperScript(fields[0]) {
		cfg.Deploy.CLI = fields[0]
	}

	return cfg
}

func isHelperScript(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".bat", ".cmd", ".sh", ".ps1":
		return true
	}
	return false
}

// NeedsMigration checks if a migration from the legacy JSON config is needed.
func NeedsMigration() (bool, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return false, err
	}

	legacyPath, err := GetLegacySettingsPath()
	if err != nil {
		return false, err
	}

	// If config.yaml exists, no migration needed
	if _, err := os.Stat(configPath); err == nil {
		return false, nil
	}

	if _, err := os.Stat(legacyPath); err == nil {
		return true, nil
	}

	return false, nil
}
