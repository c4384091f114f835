package renamer

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsObfuscated(t *testing.T) {
	testCases := []struct {
		name string
		want bool
	}{
		{"_0x1a2b", true},
		{"_0xdeadbeef", true},
		{"_0xABCDEF", true},
		{"__0x12ab", true},
		{"_0x3f2a_", true},
		{"total", false},
		{"_private", false},
		{"_0xmsg", false},
		{"_0xwait", false},
		{"x0", false},
		{"hex0x12", false},
		{"", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsObfuscated(tc.name))
		})
	}
}

func TestRenamerAssignsSequentialNames(t *testing.T) {
	r := New()

	assert.Equal(t, "v1", r.Rename("_0xaaaa", KindVariable))
	assert.Equal(t, "v2", r.Rename("_0xbbbb", KindVariable))
	assert.Equal(t, "f1", r.Rename("_0xcccc", KindFunction))
	assert.Equal(t, "f2", r.Rename("_0xdddd", KindFunction))

	// Same input, same output.
	assert.Equal(t, "v1", r.Rename("_0xaaaa", KindVariable))
	assert.Equal(t, 4, r.Count())
}

func TestRenamerLookups(t *testing.T) {
	r := New()
	r.Rename("_0x1111", KindVariable)

	readable, ok := r.Lookup("_0x1111")
	require.True(t, ok)
	assert.Equal(t, "v1", readable)

	original, ok := r.ReverseLookup("v1")
	require.True(t, ok)
	assert.Equal(t, "_0x1111", original)

	_, ok = r.Lookup("_0x2222")
	assert.False(t, ok)
	_, ok = r.ReverseLookup("v99")
	assert.False(t, ok)
}

func TestRenamerNeverEmitsReservedWords(t *testing.T) {
	r := New()
	for i := 0; i < 200; i++ {
		name := r.Rename(fmt.Sprintf("_0x%04x", i), KindVariable)
		assert.False(t, IsReservedWord(name), "generated %q is reserved", name)
	}
}

func TestRenamerStatePersistence(t *testing.T) {
	dir := t.TempDir()

	r := New()
	r.Rename("_0xaaaa", KindVariable)
	r.Rename("_0xbbbb", KindFunction)
	require.NoError(t, r.SaveState(dir))

	loaded := New()
	require.NoError(t, loaded.LoadState(dir))

	readable, ok := loaded.Lookup("_0xaaaa")
	require.True(t, ok)
	assert.Equal(t, "v1", readable)

	original, ok := loaded.ReverseLookup("f1")
	require.True(t, ok)
	assert.Equal(t, "_0xbbbb", original)

	// Counters resume, no collisions with restored names.
	assert.Equal(t, "v2", loaded.Rename("_0xcccc", KindVariable))
}

func TestRenamerLoadStateMissingFile(t *testing.T) {
	r := New()
	require.NoError(t, r.LoadState(t.TempDir()))
	assert.Zero(t, r.Count())
}
