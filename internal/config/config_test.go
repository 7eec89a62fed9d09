package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{"REGION", "ENDPOINT", "LOCAL", "DB_PATH", "PROBE", "ADDR", "LOG_LEVEL", "ENV"} {
		key := EnvPrefix + "_" + name
		// t.Setenv restores the original value after the test.
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.False(t, cfg.Development())
}

func TestLoad_YAMLFromParentDir(t *testing.T) {
	clearEnv(t)
	root := t.TempDir()
	writeFile(t, filepath.Join(root, FileName), `
region: eu-north-1
endpoint: aws
probe: false
logLevel: debug
`)
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	cfg, err := Load(nested)
	require.NoError(t, err)
	assert.Equal(t, "eu-north-1", cfg.Region)
	assert.Equal(t, "aws", cfg.Endpoint)
	assert.False(t, cfg.Probe)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, ":8080", cfg.Addr, "unset yaml keys keep defaults")
	assert.Equal(t, filepath.Join(root, FileName), cfg.File)
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, FileName), "region: eu-north-1\naddr: \":9000\"\n")
	t.Setenv("COURSES_REGION", "ap-southeast-1")
	t.Setenv("COURSES_LOCAL", "true")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "ap-southeast-1", cfg.Region)
	assert.True(t, cfg.Local)
	assert.Equal(t, ":9000", cfg.Addr)
}

func TestLoad_DotEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".env"), "COURSES_ENV=development\nCOURSES_DB_PATH=/tmp/courses\n")
	t.Cleanup(func() {
		os.Unsetenv("COURSES_ENV")
		os.Unsetenv("COURSES_DB_PATH")
	})

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.True(t, cfg.Development())
	assert.Equal(t, "/tmp/courses", cfg.DBPath)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("bad yaml", func(t *testing.T) {
		clearEnv(t)
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, FileName), "region: [unterminated\n")
		_, err := Load(dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), FileName)
	})

	t.Run("bad env value", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("COURSES_PROBE", "maybe")
		_, err := Load(t.TempDir())
		require.Error(t, err)
	})
}
