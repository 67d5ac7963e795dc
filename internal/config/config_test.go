package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	s := Default()
	assert.Equal(t, 8080, s.Server.Port)
	assert.Equal(t, "local", s.Storage.Provider)
	assert.Equal(t, "sqlite", s.Database.Driver)
	assert.True(t, s.Extraction.EnableParallel)
	assert.Equal(t, 30, s.Extraction.PerExtractorSecs)
	assert.Equal(t, 120, s.Extraction.OverallSecs)
	assert.Equal(t, "info", s.Log.Level)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	base := filepath.Join(t.TempDir(), "assets")
	t.Setenv("SLIDECONV_STORAGE_LOCAL_PATH", base)

	s, err := Load(filepath.Join(t.TempDir(), "does-not-exist.json"))
	require.NoError(t, err)
	assert.Equal(t, 8080, s.Server.Port)
	assert.DirExists(t, base)
}

func TestLoadJSONFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "slideconv.json")
	content := `{
		"server": {"host": "127.0.0.1", "port": 9999, "shutdownTimeout": 30},
		"storage": {"provider": "local", "localBasePath": "` + filepath.ToSlash(filepath.Join(dir, "store")) + `"},
		"log": {"level": "debug", "format": "console"}
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1", s.Server.Host)
	assert.Equal(t, 9999, s.Server.Port)
	assert.Equal(t, "debug", s.Log.Level)
	assert.Equal(t, "console", s.Log.Format)
	// Fields the file omits keep the defaults.
	assert.Equal(t, "sqlite", s.Database.Driver)
	assert.Equal(t, 120, s.Extraction.OverallSecs)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "slideconv.json")
	content := `{"server": {"port": 9999}, "storage": {"provider": "local", "localBasePath": "` +
		filepath.ToSlash(filepath.Join(dir, "store")) + `"}}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	t.Setenv("SLIDECONV_PORT", "7777")
	t.Setenv("SLIDECONV_LOG_LEVEL", "warn")

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7777, s.Server.Port)
	assert.Equal(t, "warn", s.Log.Level)
}

func TestLoadInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestProviderConfig(t *testing.T) {
	cfg := StorageConfig{
		Provider:      "s3",
		Bucket:        "deck-assets",
		Region:        "eu-west-1",
		LocalBasePath: "/tmp/x",
	}
	m := cfg.ProviderConfig()
	assert.Equal(t, "deck-assets", m["bucket"])
	assert.Equal(t, "eu-west-1", m["region"])
	assert.Equal(t, "/tmp/x", m["basePath"])
}
