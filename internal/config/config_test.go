package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ngrash/go-tzinfo/zoneinfo"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tzinfo.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(EnvZoneinfo, "")
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
	assert.Equal(t, zoneinfo.DefaultSearchPaths, c.SearchPaths)
}

func TestLoad_File(t *testing.T) {
	t.Setenv(EnvZoneinfo, "")
	path := writeConfig(t, `
search_paths:
  - /opt/zoneinfo
cache_size: 16
log_level: debug
`)
	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Config{
		SearchPaths: []string{"/opt/zoneinfo"},
		CacheSize:   16,
		Workers:     8,
		LogLevel:    "debug",
	}, c)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv(EnvZoneinfo, "/srv/zoneinfo")
	path := writeConfig(t, "search_paths: [/opt/zoneinfo]\n")
	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"/srv/zoneinfo", "/opt/zoneinfo"}, c.SearchPaths)
}

func TestLoad_RelativeEnv(t *testing.T) {
	t.Setenv(EnvZoneinfo, "./zi")
	want, err := filepath.Abs("zi")
	require.NoError(t, err)

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, want, c.SearchPaths[0])
	assert.Equal(t, zoneinfo.DefaultSearchPaths, c.SearchPaths[1:])
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv(EnvZoneinfo, "")
	path := writeConfig(t, "search_paths: [zoneinfo]\ncache_size: 0\nworkers: -1\n")
	_, err := Load(path)
	require.Error(t, err)
	for _, want := range []string{`"zoneinfo" is not absolute`, "cache_size: must be positive, got 0", "workers: must be positive, got -1"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Setenv(EnvZoneinfo, "")
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(writeConfig(t, "cache_size: [1, 2]\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")
}

func TestDefault_DoesNotShareSearchPaths(t *testing.T) {
	c := Default()
	c.SearchPaths[0] = "/tmp"
	assert.Equal(t, "/usr/share/zoneinfo", zoneinfo.DefaultSearchPaths[0])
}
