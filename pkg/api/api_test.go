package api

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whit3rabbit/jsmix/internal/config"
)

func TestMain(m *testing.M) {
	config.Testing = true
	os.Exit(m.Run())
}

func newTestDeobfuscator(t *testing.T) *Deobfuscator {
	t.Helper()
	d, err := NewDeobfuscator(Options{Silent: true})
	require.NoError(t, err)
	return d
}

func TestNewDeobfuscator(t *testing.T) {
	t.Run("defaults when no config file", func(t *testing.T) {
		d := newTestDeobfuscator(t)
		assert.NotNil(t, d.Config)
		assert.NotNil(t, d.Context)
		assert.True(t, d.Config.Silent)
	})

	t.Run("missing explicit config path fails", func(t *testing.T) {
		_, err := NewDeobfuscator(Options{ConfigPath: filepath.Join(t.TempDir(), "nope.yaml")})
		assert.Error(t, err)
	})

	t.Run("config file is honored", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "jsmix.yaml")
		require.NoError(t, os.WriteFile(path, []byte("deobfuscation:\n  rename:\n    enabled: false\n"), 0o644))

		d, err := NewDeobfuscator(Options{ConfigPath: path, Silent: true})
		require.NoError(t, err)
		assert.False(t, d.Config.Deobfuscation.Rename.Enabled)
	})
}

func TestDeobfuscateCode(t *testing.T) {
	d := newTestDeobfuscator(t)

	result := d.DeobfuscateCode("debugger; if (true) { real(); } else { junk(); }")

	require.True(t, result.Success)
	assert.NotContains(t, result.Code, "debugger")
	assert.NotContains(t, result.Code, "junk")
	assert.Contains(t, result.Code, "real")
	assert.Len(t, result.Transformations, 2)
	assert.Greater(t, result.Confidence, 0.0)
}

func TestDeobfuscateCodeNeverErrors(t *testing.T) {
	d := newTestDeobfuscator(t)

	result := d.DeobfuscateCode("not (((( valid {{{ javascript")

	assert.False(t, result.Success)
	assert.Zero(t, result.Confidence)
	assert.NotEmpty(t, result.Warnings)
}

func TestDeobfuscateFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "payload.js")
	require.NoError(t, os.WriteFile(input, []byte("debugger; var x = 1 + 2;"), 0o644))

	d := newTestDeobfuscator(t)

	result, err := d.DeobfuscateFile(input)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Contains(t, result.Code, "3")

	output := filepath.Join(dir, "out", "payload.js")
	_, err = d.DeobfuscateFileToFile(input, output)
	require.NoError(t, err)
	written, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.NotContains(t, string(written), "debugger")
}

func TestDeobfuscateFileMissing(t *testing.T) {
	d := newTestDeobfuscator(t)
	_, err := d.DeobfuscateFile(filepath.Join(t.TempDir(), "absent.js"))
	assert.Error(t, err)
}

func TestLookupOriginalName(t *testing.T) {
	d := newTestDeobfuscator(t)

	result := d.DeobfuscateCode("var _0xcafe = 7; use(_0xcafe);")
	require.True(t, result.Success)

	original, err := d.LookupOriginalName("v1")
	require.NoError(t, err)
	assert.Equal(t, "_0xcafe", original)

	_, err = d.LookupOriginalName("v42")
	assert.Error(t, err)
}

func TestContextPersistenceAcrossInstances(t *testing.T) {
	dir := t.TempDir()

	first := newTestDeobfuscator(t)
	result := first.DeobfuscateCode("var _0xbeef = 1; use(_0xbeef);")
	require.True(t, result.Success)
	require.NoError(t, first.SaveContext(dir))

	second := newTestDeobfuscator(t)
	require.NoError(t, second.LoadContext(dir))

	original, err := second.LookupOriginalName("v1")
	require.NoError(t, err)
	assert.Equal(t, "_0xbeef", original)
}
