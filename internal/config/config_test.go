package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	Testing = true
	os.Exit(m.Run())
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.True(t, cfg.Deobfuscation.DeadCode.Enabled)
	assert.True(t, cfg.Deobfuscation.ControlFlow.Enabled)
	assert.True(t, cfg.Deobfuscation.Strings.Enabled)
	assert.True(t, cfg.Deobfuscation.Expressions.Enabled)
	assert.True(t, cfg.Deobfuscation.Rename.Enabled)

	assert.False(t, cfg.Silent)
	assert.False(t, cfg.AbortOnError)
	assert.Contains(t, cfg.JsExtensions, "js")
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadConfig(t *testing.T) {
	t.Run("explicit missing path is an error", func(t *testing.T) {
		cfg, err := LoadConfig(filepath.Join(t.TempDir(), "config.yaml"))
		require.Error(t, err, "explicit missing path is an error")
		assert.Nil(t, cfg)
	})

	t.Run("file overrides defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "jsmix.yaml")
		content := `
silent: true
deobfuscation:
  dead_code:
    enabled: false
  strings:
    placeholder: "UNKNOWN"
logging:
  level: debug
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		cfg, err := LoadConfig(path)
		require.NoError(t, err)

		assert.True(t, cfg.Silent)
		assert.False(t, cfg.Deobfuscation.DeadCode.Enabled)
		assert.Equal(t, "UNKNOWN", cfg.Deobfuscation.Strings.Placeholder)
		assert.Equal(t, "debug", cfg.Logging.Level)

		// Untouched keys keep their defaults.
		assert.True(t, cfg.Deobfuscation.ControlFlow.Enabled)
		assert.True(t, cfg.Deobfuscation.Rename.Enabled)
	})

	t.Run("malformed yaml is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("silent: [unclosed"), 0o644))

		_, err := LoadConfig(path)
		assert.Error(t, err)
	})

	t.Run("environment overrides file", func(t *testing.T) {
		t.Setenv("JSMIX_SILENT", "true")
		t.Setenv("JSMIX_LOG_LEVEL", "warn")

		path := filepath.Join(t.TempDir(), "jsmix.yaml")
		require.NoError(t, os.WriteFile(path, []byte("silent: false\n"), 0o644))

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.True(t, cfg.Silent)
		assert.Equal(t, "warn", cfg.Logging.Level)
	})
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	require.NoError(t, SaveConfig(path))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Deobfuscation, cfg.Deobfuscation)
	assert.Equal(t, DefaultConfig().JsExtensions, cfg.JsExtensions)
}
