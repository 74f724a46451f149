package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, root string, rel ...string) {
	t.Helper()
	for _, r := range rel {
		p := filepath.Join(root, r)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, nil, 0o644))
	}
}

func TestScan_Directory(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "b.MKV", "a.mp4", "notes.txt", "sub/c.mov", "sub/deeper/d.ts", "sub/cover.jpg")

	got, err := Scan(root)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "a.mp4"),
		filepath.Join(root, "b.MKV"),
		filepath.Join(root, "sub", "c.mov"),
		filepath.Join(root, "sub", "deeper", "d.ts"),
	}, got)
}

func TestScan_SingleFile(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "clip.webm", "readme.md")

	got, err := Scan(filepath.Join(root, "clip.webm"))
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "clip.webm")}, got)

	got, err = Scan(filepath.Join(root, "readme.md"))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestScan_Missing(t *testing.T) {
	_, err := Scan(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestScanAll_Dedupes(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "a.mp4", "sub/b.avi")

	got, err := ScanAll([]string{filepath.Join(root, "sub", "b.avi"), root})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "sub", "b.avi"),
		filepath.Join(root, "a.mp4"),
	}, got)
}
