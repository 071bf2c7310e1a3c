package globalconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeLegacy(t *testing.T, home, content string) string {
	t.Helper()
	dir := filepath.Join(home, ConfigDirName)
	require.NoError(t, os.MkdirAll(dir, 0755))
	path := filepath.Join(dir, LegacySettingsFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestMigrateFromLegacy_NoLegacyFile(t *testing.T) {
	withConfigHome(t)

	migrated, err := MigrateFromLegacy()
	require.NoError(t, err)
	assert.False(t, migrated)

	needs, err := NeedsMigration()
	require.NoError(t, err)
	assert.False(t, needs)
}

func TestMigrateFromLegacy_HelperScript(t *testing.T) {
	home := withConfigHome(t)
	legacyPath := writeLegacy(t, home, `{
		"project_path": "/srv/fc-bot",
		"deploy_command": "deploy.bat",
		"birthdays_api_url": ""
	}`)

	needs, err := NeedsMigration()
	require.NoError(t, err)
	assert.True(t, needs)

	migrated, err := MigrateFromLegacy()
	require.NoError(t, err)
	assert.True(t, migrated)

	configPath, err := GetConfigPath()
	require.NoError(t, err)
	cfg, err := ReadFile(configPath)
	require.NoError(t, err)
	assert.Equal(t, "/srv/fc-bot", cfg.ProjectPath)
	assert.Equal(t, DefaultDeployCLI, cfg.Deploy.CLI)

	_, err = os.Stat(legacyPath)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(legacyPath + ".bak")
	assert.NoError(t, err)

	// Second run is a no-op.
	migrated, err = MigrateFromLegacy()
	require.NoError(t, err)
	assert.False(t, migrated)
}

func TestMigrateFromLegacy_CustomCLI(t *testing.T) {
	home := withConfigHome(t)
	writeLegacy(t, home, `{"project_path": "/srv/bot", "deploy_command": "flyctl deploy"}`)

	migrated, err := MigrateFromLegacy()
	require.NoError(t, err)
	require.True(t, migrated)

	configPath, err := GetConfigPath()
	require.NoError(t, err)
	cfg, err := ReadFile(configPath)
	require.NoError(t, err)
	assert.Equal(t, "flyctl", cfg.Deploy.CLI)
}

func TestMigrateFromLegacy_BadJSON(t *testing.T) {
	home := withConfigHome(t)
	writeLegacy(t, home, `{not json`)

	_, err := MigrateFromLegacy()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse legacy settings")
}

func TestIsHelperScript(t *testing.T) {
	assert.True(t, isHelperScript("deploy.bat"))
	assert.True(t, isHelperScript("DEPLOY.CMD"))
	assert.True(t, isHelperScript("deploy.sh"))
	assert.False(t, isHelperScript("railway"))
}
