package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearSettingsEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"HOOKCFG_LOG_LEVEL", "HOOKCFG_LOG_FORMAT", "HOOKCFG_CACHE_DIR", "HOOKCFG_JOBS", "HOOKCFG_LOGGING_LEVEL"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadSettingsDefaults(t *testing.T) {
	clearSettingsEnv(t)

	s, err := LoadSettings(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 4, s.Jobs)
	assert.Empty(t, s.CacheDir)
	assert.Empty(t, s.LoggingConfig().Level)
}

func TestLoadSettingsFromFile(t *testing.T) {
	clearSettingsEnv(t)

	path := filepath.Join(t.TempDir(), SettingsFile)
	require.NoError(t, os.WriteFile(path, []byte(`log_level: debug
cache_dir: /tmp/hookcfg-cache
jobs: 8
logging:
  report_caller: true
  format:
    preset: json
    structured_to_stderr: always
`), 0644))

	s, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/hookcfg-cache", s.CacheDir)
	assert.Equal(t, 8, s.Jobs)

	logCfg := s.LoggingConfig()
	assert.Equal(t, "debug", logCfg.Level)
	assert.True(t, logCfg.ReportCaller)
	assert.Equal(t, "json", logCfg.Format.Preset)
	assert.Equal(t, "always", logCfg.Format.StructuredToStderr)
}

func TestLoadSettingsEnvOverrides(t *testing.T) {
	clearSettingsEnv(t)

	path := filepath.Join(t.TempDir(), SettingsFile)
	require.NoError(t, os.WriteFile(path, []byte("jobs: 2\nlog_format: simple\n"), 0644))

	t.Setenv("HOOKCFG_JOBS", "6")
	t.Setenv("HOOKCFG_CACHE_DIR", "/var/cache/hookcfg")
	t.Setenv("HOOKCFG_LOGGING_LEVEL", "warn")

	s, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, 6, s.Jobs)
	assert.Equal(t, "/var/cache/hookcfg", s.CacheDir)
	assert.Equal(t, "warn", s.LoggingConfig().Level)
	assert.Equal(t, "simple", s.LoggingConfig().Format.Preset)
}

func TestLoadSettingsInvalidFile(t *testing.T) {
	clearSettingsEnv(t)

	path := filepath.Join(t.TempDir(), SettingsFile)
	require.NoError(t, os.WriteFile(path, []byte("jobs: [unterminated\n"), 0644))

	_, err := LoadSettings(path)
	assert.Error(t, err)
}

func TestSettingsPathUsesHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOOKCFG_HOME", home)

	assert.Equal(t, filepath.Join(home, "config", SettingsFile), SettingsPath())
}

func TestLoadSettingsExpandsCacheDir(t *testing.T) {
	clearSettingsEnv(t)
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), SettingsFile)
	require.NoError(t, os.WriteFile(path, []byte("cache_dir: ~/hook-cache\n"), 0644))

	s, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "hook-cache"), s.CacheDir)
}
