package app

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobasettings/bobasettings/internal/db/models"
	"github.com/bobasettings/bobasettings/internal/seed"
)

// setupConfig writes a main.toml using a sqlite file below a temp directory.
func setupConfig(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	main := `
[DB]
Engine = "sqlite"
Path = "` + filepath.ToSlash(filepath.Join(dir, "settings.db")) + `"

[Webserver]
Port = 8080
URL = "http://localhost:8080"

[Log]
logLevel = "error"
appName = "bobasettings"
serviceName = "bobasettings-test"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.toml"), []byte(main), 0o600))

	return dir
}

func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()

	listRegistered = false
	importMissingOnly = false

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append(args, "--config", dir))

	err := rootCmd.Execute()

	return out.String(), err
}

func TestSettingsCommands(t *testing.T) {
	dir := setupConfig(t)

	_, err := run(t, dir, "settings", "set", "TestSettings.DefaultColor", "Blue")
	require.NoError(t, err)

	out, err := run(t, dir, "settings", "get", "testsettings.defaultcolor")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1,"name":"testsettings.defaultcolor","value":"Blue"}`, out)

	out, err = run(t, dir, "settings", "list")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":1,"name":"testsettings.defaultcolor","value":"Blue"}]`, out)

	out, err = run(t, dir, "settings", "list", "--registered")
	require.NoError(t, err)
	assert.Contains(t, out, `"key": "TestSettings.DefaultColor"`)

	_, err = run(t, dir, "settings", "delete", "1")
	require.NoError(t, err)

	_, err = run(t, dir, "settings", "get", "testsettings.defaultcolor")
	require.Error(t, err)

	_, err = run(t, dir, "settings", "delete", "x")
	require.Error(t, err)
}

func TestImportExport(t *testing.T) {
	dir := setupConfig(t)

	seedFile := filepath.Join(dir, "seed.yaml")
	require.NoError(t, seed.WriteFile(seedFile, &seed.File{Settings: []models.Setting{
		{Name: "a.one", Value: "1"},
		{Name: "a.two", Value: "2"},
	}}))

	out, err := run(t, dir, "settings", "import", seedFile)
	require.NoError(t, err)
	assert.Equal(t, "2 written, 0 skipped\n", out)

	out, err = run(t, dir, "settings", "import", seedFile, "--missing-only")
	require.NoError(t, err)
	assert.Equal(t, "0 written, 2 skipped\n", out)

	exported := filepath.Join(dir, "export.yaml")
	_, err = run(t, dir, "settings", "export", exported)
	require.NoError(t, err)

	f, err := seed.LoadFile(exported)
	require.NoError(t, err)
	assert.Equal(t, []models.Setting{{Name: "a.one", Value: "1"}, {Name: "a.two", Value: "2"}}, f.Settings)

	out, err = run(t, dir, "settings", "export")
	require.NoError(t, err)
	assert.Contains(t, out, "name: a.one")
}

func TestGroupsCommands(t *testing.T) {
	dir := setupConfig(t)

	out, err := run(t, dir, "groups", "show", "TestSettings")
	require.NoError(t, err)
	assert.JSONEq(t, `{"enabled":true,"defaultLangId":0,"defaultColor":"Red"}`, out)

	_, err = run(t, dir, "settings", "set", "testsettings.defaultcolor", "Blue")
	require.NoError(t, err)

	out, err = run(t, dir, "groups", "show", "testsettings")
	require.NoError(t, err)
	assert.JSONEq(t, `{"enabled":true,"defaultLangId":0,"defaultColor":"Blue"}`, out)

	_, err = run(t, dir, "groups", "reset", "TestSettings")
	require.NoError(t, err)

	out, err = run(t, dir, "groups", "show", "TestSettings")
	require.NoError(t, err)
	assert.JSONEq(t, `{"enabled":true,"defaultLangId":0,"defaultColor":"Red"}`, out)

	out, err = run(t, dir, "groups", "list")
	require.NoError(t, err)
	assert.Contains(t, out, `"MaintenanceSettings"`)

	_, err = run(t, dir, "groups", "show", "Nope")
	require.Error(t, err)
}

func TestMissingConfig(t *testing.T) {
	_, err := run(t, t.TempDir(), "settings", "list")
	require.Error(t, err)
}
