package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettled(t *testing.T) {
	now := time.Now()
	pending := map[string]time.Time{
		"b.mp4": now.Add(-3 * time.Second),
		"a.mp4": now.Add(-2 * time.Second),
		"c.mp4": now.Add(-time.Second),
	}
	got := settled(pending, now, 2*time.Second)
	assert.Equal(t, []string{"a.mp4", "b.mp4"}, got)
	assert.Len(t, pending, 1)
	assert.Contains(t, pending, "c.mp4")
}

func TestWatcher_DeliversNewVideos(t *testing.T) {
	root := t.TempDir()
	out := filepath.Join(root, "encoded")
	require.NoError(t, os.MkdirAll(out, 0o755))

	w, err := New(root, WithDebounce(100*time.Millisecond), WithIgnore(out))
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var mu sync.Mutex
	var got []string
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.Run(ctx, func(_ context.Context, files []string) {
			mu.Lock()
			got = append(got, files...)
			n := len(got)
			mu.Unlock()
			if n >= 2 {
				cancel()
			}
		})
	}()

	// Give the watcher a moment to start its loop.
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(out, "ignored.mp4"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "clip.mkv"), []byte("x"), 0o644))
	sub := filepath.Join(root, "sub")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(sub, "more.mov"), []byte("x"), 0o644))

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("watcher did not deliver files")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.ElementsMatch(t, []string{filepath.Join(root, "clip.mkv"), filepath.Join(sub, "more.mov")}, got)
}
