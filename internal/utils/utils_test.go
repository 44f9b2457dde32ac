package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadConfigResolvesRelativePaths(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte("db_path: data/store.db\nexport_dir: /abs/out\nai:\n  model: local-model\n"), 0644))

	config, err := ReadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, dir, config.Root)
	assert.Equal(t, filepath.Join(dir, "data", "store.db"), config.DBPath)
	assert.Equal(t, "/abs/out", config.ExportDir)
	assert.Equal(t, filepath.Join(dir, "sqtab.log"), config.LogPath, "unset fields keep their defaults")
	assert.Equal(t, "local-model", config.AI.Model)
}

func TestReadConfigErrors(t *testing.T) {
	t.Parallel()

	_, err := ReadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	bad := filepath.Join(t.TempDir(), ConfigFileName)
	require.NoError(t, os.WriteFile(bad, []byte("db_path: [unclosed"), 0644))
	_, err = ReadConfig(bad)
	require.ErrorContains(t, err, "parsing config file")
}

func TestWriteThenParseConfig(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), ConfigFileName)
	config := DefaultConfig()
	config.DBPath = "custom.db"
	config.SeqURL = "http://localhost:5341"
	config.Root = "/ignored"
	require.NoError(t, WriteConfig(path, config))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "ignored")

	parsed, err := ParseConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, "custom.db", parsed.DBPath)
	assert.Equal(t, "http://localhost:5341", parsed.SeqURL)
	assert.Empty(t, parsed.Root)
}

func TestLoadConfigExplicitPath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "other.yaml")
	require.NoError(t, os.WriteFile(path, []byte("db_path: x.db\n"), 0644))

	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "x.db"), config.DBPath)
	assert.Equal(t, filepath.Join(dir, "exports"), config.ExportDir)
}

func TestGetExportPath(t *testing.T) {
	t.Parallel()
	assert.Equal(t, filepath.Join("exports", "people.csv"), GetExportPath("exports", "people"))
}
