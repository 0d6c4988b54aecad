package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func mustTouch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("data"), 0o644))
}

func TestGetCachedTranscodeMissThenHit(t *testing.T) {
	c, err := New(t.TempDir(), 2)
	require.NoError(t, err)

	path, present := c.GetCachedTranscode("trk1", 5)
	require.False(t, present, "expected miss before file exists")
	mustTouch(t, path)

	path2, present2 := c.GetCachedTranscode("trk1", 5)
	require.True(t, present2, "expected hit after file written")
	require.Equal(t, path, path2)
}

func TestEvictionDeletesTailFile(t *testing.T) {
	dir := t.TempDir()
	c, err := New(dir, 1)
	require.NoError(t, err)

	p1, _ := c.GetCachedTranscode("a", 1)
	mustTouch(t, p1)

	p2, _ := c.GetCachedTranscode("b", 1)
	mustTouch(t, p2)

	_, statErr := os.Stat(p1)
	require.True(t, os.IsNotExist(statErr), "expected %s evicted from disk", p1)
	require.False(t, c.Contains("a", 1), "expected evicted key absent from index")
	require.True(t, c.Contains("b", 1), "expected most-recent key present in index")
}

func TestPutMovesExistingToFront(t *testing.T) {
	dir := t.TempDir()
	c, err := New(dir, 2)
	require.NoError(t, err)

	c.GetCachedTranscode("a", 1)
	c.GetCachedTranscode("b", 1)
	// touch "a" again, moving it to front; "b" becomes tail.
	c.GetCachedTranscode("a", 1)
	c.GetCachedTranscode("c", 1)

	require.False(t, c.Contains("b", 1), "expected b evicted as least-recently-used")
	require.True(t, c.Contains("a", 1))
	require.True(t, c.Contains("c", 1))
}

func TestPathDeterministic(t *testing.T) {
	c, err := New(t.TempDir(), 4)
	require.NoError(t, err)
	want := filepath.Join(c.dir, "trk.3.mp3")
	require.Equal(t, want, c.Path("trk", 3))
}
