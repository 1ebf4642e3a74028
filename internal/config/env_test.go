package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalYAML = `
rosterSheetID: "sheet123"
peopleTab: "People"
exportTab: "Groups"
fields:
  - key: id
    label: ID
    type: text
  - key: lead
    label: Lead
    type: checkbox
identityField: id
nameField: id
leaderField: lead
`

// unsetEnv clears key for the test and restores it afterwards
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}

func TestLoadWithEnv_DatabaseURLFromDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	unsetEnv(t, DatabaseURLEnv)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "organizer_config.test.yaml"), []byte(minimalYAML), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.test"), []byte(DatabaseURLEnv+"=postgres://db.internal/carpool\n"), 0600))

	cfg, err := LoadWithEnv("test")
	require.NoError(t, err)

	assert.Equal(t, "postgres://db.internal/carpool", cfg.DatabaseURL)
}

func TestLoadFromPath_EnvOverridesDatabaseURL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "organizer_config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(minimalYAML+"databaseURL: postgres://localhost/organizer\n"), 0644))
	t.Setenv(DatabaseURLEnv, "postgres://override/organizer")

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres://override/organizer", cfg.DatabaseURL)
}

func TestLoadDotEnv_MissingFile(t *testing.T) {
	t.Chdir(t.TempDir())

	assert.NoError(t, loadDotEnv("nowhere"))
}
