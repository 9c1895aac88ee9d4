package git

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"

	gterrors "github.com/christianjann/gittasks/internal/errors"
)

// MergeMessage formats the message of a merge commit
func MergeMessage(incoming, local plumbing.Hash) string {
	return fmt.Sprintf("Merge: %s into %s", incoming, local)
}

// MergeNoCommit merges incoming into the index and working tree without
// committing. Conflicts leave unmerged index entries and an error.
func (r *Repo) MergeNoCommit(ctx context.Context, sig Signature, incoming plumbing.Hash) error {
	args := []string{"merge", "--no-ff", "--no-commit", "--no-edit", "--no-verify", "--allow-unrelated-histories", incoming.String()}
	if _, err := r.runner.WithEnv(sig.env()...).Run(ctx, args...); err != nil {
		return fmt.Errorf("merge of %s failed: %w", incoming, err)
	}
	return nil
}

// AddedPaths lists the paths present in to but not in from
func (r *Repo) AddedPaths(ctx context.Context, from, to plumbing.Hash) ([]string, error) {
	out, err := r.runner.RunRaw(ctx, "diff", "--name-only", "-z", "--no-renames", "--diff-filter=A", from.String(), to.String())
	if err != nil {
		return nil, fmt.Errorf("failed to list paths added by %s: %w", to, err)
	}
	var paths []string
	for _, p := range strings.Split(out, "\x00") {
		if p != "" {
			paths = append(paths, p)
		}
	}
	return paths, nil
}

// RemoveUntracked deletes the working tree files at paths that are not in
// the index and returns the ones it removed
func (r *Repo) RemoveUntracked(ctx context.Context, paths []string) ([]string, error) {
	if len(paths) == 0 {
		return nil, nil
	}
	args := append([]string{"ls-files", "-z", "--others", "--"}, paths...)
	out, err := r.runner.RunRaw(ctx, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list untracked files: %w", err)
	}

	var removed []string
	for _, p := range strings.Split(out, "\x00") {
		if p == "" {
			continue
		}
		path := filepath.Join(r.root, filepath.FromSlash(p))
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return removed, gterrors.NewIOError(path, err)
		}
		removed = append(removed, p)
	}
	return removed, nil
}

// ReadBlob returns the content of a blob
func (r *Repo) ReadBlob(id plumbing.Hash) ([]byte, error) {
	blob, err := r.BlobObject(id)
	if err != nil {
		return nil, fmt.Errorf("failed to read blob %s: %w", id, err)
	}
	reader, err := blob.Reader()
	if err != nil {
		return nil, fmt.Errorf("failed to open blob %s: %w", id, err)
	}
	defer func() { _ = reader.Close() }()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read blob %s: %w", id, err)
	}
	return data, nil
}

// WriteSide materializes one conflict side in the working tree, creating
// parent directories as needed
func (r *Repo) WriteSide(side *ConflictSide) error {
	data, err := r.ReadBlob(side.ID)
	if err != nil {
		return err
	}

	path := filepath.Join(r.root, filepath.FromSlash(side.Path))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return gterrors.NewIOError(path, err)
	}

	mode, err := filemode.New(side.Mode)
	if err != nil {
		return fmt.Errorf("invalid mode %s for %s: %w", side.Mode, side.Path, err)
	}

	switch mode {
	case filemode.Symlink:
		if err := os.RemoveAll(path); err != nil {
			return gterrors.NewIOError(path, err)
		}
		if err := os.Symlink(string(data), path); err != nil {
			return gterrors.NewIOError(path, err)
		}
	case filemode.Submodule:
		return fmt.Errorf("cannot materialize submodule %s", side.Path)
	default:
		perm := os.FileMode(0644)
		if mode == filemode.Executable {
			perm = 0755
		}
		if err := os.WriteFile(path, data, perm); err != nil {
			return gterrors.NewIOError(path, err)
		}
		if err := os.Chmod(path, perm); err != nil {
			return gterrors.NewIOError(path, err)
		}
	}
	return nil
}
