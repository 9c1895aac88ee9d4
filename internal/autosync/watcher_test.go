package autosync_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/require"

	"github.com/christianjann/gittasks/internal/autosync"
)

func TestChangeMessage(t *testing.T) {
	require.Equal(t, "Add a.md", autosync.Change{Path: "a.md", Op: fsnotify.Create}.Message())
	require.Equal(t, "Update a.md", autosync.Change{Path: "a.md", Op: fsnotify.Write}.Message())
	require.Equal(t, "Delete a.md", autosync.Change{Path: "a.md", Op: fsnotify.Remove}.Message())
	require.Equal(t, "Delete a.md", autosync.Change{Path: "a.md", Op: fsnotify.Rename}.Message())
}

func TestWatcherReportsWorkingTreeEdits(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".git"), 0750))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "lists"), 0750))

	w, err := autosync.NewWatcher(root, nil)
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	changes := make(chan autosync.Change, 64)
	go func() { _ = w.Run(ctx, func(c autosync.Change) { changes <- c }) }()

	require.NoError(t, os.WriteFile(filepath.Join(root, ".git", "index.lock"), []byte("x"), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(root, "lists", "todo.md"), []byte("- [ ] a"), 0600))

	deadline := time.After(5 * time.Second)
	for {
		select {
		case c := <-changes:
			require.NotContains(t, c.Path, ".git")
			if c.Path == "lists/todo.md" {
				return
			}
		case <-deadline:
			t.Fatal("no event for lists/todo.md")
		}
	}
}

func TestWatcherStopsWithContext(t *testing.T) {
	w, err := autosync.NewWatcher(t.TempDir(), nil)
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, w.Run(ctx, func(autosync.Change) {}), context.Canceled)
}
