package autosync

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/christianjann/gittasks/internal/output"
)

// Change is one file system event inside the working tree
type Change struct {
	// Path is relative to the working tree root, slash separated
	Path string
	Op   fsnotify.Op
}

// Message describes the change as a commit message line
func (c Change) Message() string {
	switch {
	case c.Op&fsnotify.Remove != 0, c.Op&fsnotify.Rename != 0:
		return "Delete " + c.Path
	case c.Op&fsnotify.Create != 0:
		return "Add " + c.Path
	default:
		return "Update " + c.Path
	}
}

// Watcher reports edits in a working tree. fsnotify is not recursive, so
// every directory is watched individually and new directories are added as
// they appear.
type Watcher struct {
	root    string
	watcher *fsnotify.Watcher
	splog   *output.Splog
}

// NewWatcher watches every directory below root except .git
func NewWatcher(root string, splog *output.Splog) (*Watcher, error) {
	if splog == nil {
		splog = output.Discard()
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsnotify: %w", err)
	}

	w := &Watcher{root: root, watcher: fw, splog: splog}
	if err := w.addTree(root); err != nil {
		return nil, errors.Join(err, fw.Close())
	}
	return w, nil
}

func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if d.Name() == ".git" {
			return filepath.SkipDir
		}
		w.splog.Debug("Watching %s", path)
		if err := w.watcher.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

// Run delivers changes to onChange until ctx ends or the watcher is closed
func (w *Watcher) Run(ctx context.Context, onChange func(Change)) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			rel, ok := w.relative(ev.Name)
			if !ok || shouldIgnore(rel) {
				continue
			}
			if ev.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := w.addTree(ev.Name); err != nil {
						w.splog.Warn("Cannot watch %s: %v", rel, err)
					}
					continue
				}
			}
			w.splog.Debug("fsnotify %s %s", ev.Op, rel)
			onChange(Change{Path: rel, Op: ev.Op})
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.splog.Warn("File watcher error: %v", err)
		}
	}
}

// Close stops watching
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

func (w *Watcher) relative(path string) (string, bool) {
	rel, err := filepath.Rel(w.root, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

func shouldIgnore(rel string) bool {
	if rel == ".git" || strings.HasPrefix(rel, ".git/") {
		return true
	}
	base := filepath.Base(rel)
	ext := strings.ToLower(filepath.Ext(base))
	switch {
	case ext == ".lock", ext == ".swp", ext == ".swx", ext == ".tmp":
		return true
	case strings.HasSuffix(base, "~"), strings.HasPrefix(base, ".#"):
		return true
	}
	return false
}
