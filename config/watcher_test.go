package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWatcher(t *testing.T, content string) (*Watcher, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "tuning.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	w, err := NewWatcher(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	return w, path
}

func TestWatcher_PublishesChanges(t *testing.T) {
	w, path := newTestWatcher(t, "vehicle:\n  scale: 1\n")

	require.NoError(t, os.WriteFile(path, []byte("vehicle:\n  scale: 3\n"), 0644))

	select {
	case tuning := <-w.Updates:
		assert.Equal(t, 3.0, tuning.Vehicle.Scale)
	case err := <-w.Errors:
		t.Fatalf("unexpected error: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("no update")
	}
}

func TestWatcher_SkipsUnchangedContent(t *testing.T) {
	content := "vehicle:\n  scale: 1\n"
	w, path := newTestWatcher(t, content)

	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	select {
	case <-w.Updates:
		t.Fatal("unchanged content was published")
	case <-time.After(500 * time.Millisecond):
	}
}

func TestWatcher_ReportsInvalidTuning(t *testing.T) {
	w, path := newTestWatcher(t, "")

	require.NoError(t, os.WriteFile(path, []byte("vehicle:\n  scale: -1\n"), 0644))

	select {
	case <-w.Updates:
		t.Fatal("invalid tuning was published")
	case err := <-w.Errors:
		assert.ErrorIs(t, err, ErrInvalidTuning)
	case <-time.After(5 * time.Second):
		t.Fatal("no error")
	}
}

func TestWatcher_IgnoresSiblings(t *testing.T) {
	w, path := newTestWatcher(t, "")

	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(path), "other.yaml"), []byte("vehicle:\n  scale: 3\n"), 0644))

	select {
	case <-w.Updates:
		t.Fatal("sibling file was published")
	case <-time.After(500 * time.Millisecond):
	}
}

func TestWatcher_CloseIsIdempotent(t *testing.T) {
	w, _ := newTestWatcher(t, "")

	assert.NoError(t, w.Close())
	assert.NoError(t, w.Close())

	_, ok := <-w.Updates
	assert.False(t, ok)
}
