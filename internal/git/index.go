package git

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"
)

// ConflictSide is one version of a conflicted path
type ConflictSide struct {
	ID   plumbing.Hash
	Mode string
	Path string
}

// ConflictEntry is an unmerged index path. A nil side means the path is
// absent (deleted) on that side; at least one side is always present.
type ConflictEntry struct {
	Path     string
	Ancestor *ConflictSide
	Ours     *ConflictSide
	Theirs   *ConflictSide
}

// Conflicts lists the unmerged index entries, one per path, sorted by path
func (r *Repo) Conflicts(ctx context.Context) ([]ConflictEntry, error) {
	out, err := r.runner.RunRaw(ctx, "ls-files", "-u", "-z")
	if err != nil {
		return nil, fmt.Errorf("failed to list conflicts: %w", err)
	}
	return parseUnmerged(out)
}

// parseUnmerged parses `git ls-files -u -z` records of the form
// "<mode> <id> <stage>\t<path>"
func parseUnmerged(out string) ([]ConflictEntry, error) {
	byPath := map[string]*ConflictEntry{}
	for _, record := range strings.Split(out, "\x00") {
		if record == "" {
			continue
		}
		meta, path, ok := strings.Cut(record, "\t")
		if !ok {
			return nil, fmt.Errorf("malformed unmerged entry %q", record)
		}
		fields := strings.Fields(meta)
		if len(fields) != 3 {
			return nil, fmt.Errorf("malformed unmerged entry %q", record)
		}

		entry, ok := byPath[path]
		if !ok {
			entry = &ConflictEntry{Path: path}
			byPath[path] = entry
		}
		side := &ConflictSide{ID: plumbing.NewHash(fields[1]), Mode: fields[0], Path: path}
		switch fields[2] {
		case "1":
			entry.Ancestor = side
		case "2":
			entry.Ours = side
		case "3":
			entry.Theirs = side
		default:
			return nil, fmt.Errorf("unexpected stage %s for %s", fields[2], path)
		}
	}

	entries := make([]ConflictEntry, 0, len(byPath))
	for _, entry := range byPath {
		entries = append(entries, *entry)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
	return entries, nil
}

// HasConflicts reports whether the index holds unmerged entries
func (r *Repo) HasConflicts(ctx context.Context) (bool, error) {
	out, err := r.runner.Run(ctx, "ls-files", "-u")
	if err != nil {
		return false, fmt.Errorf("failed to check conflicts: %w", err)
	}
	return out != "", nil
}

// StageAll stages all changes including untracked files and deletions
func (r *Repo) StageAll(ctx context.Context) error {
	if _, err := r.runner.Run(ctx, "add", "-A"); err != nil {
		return fmt.Errorf("failed to stage all changes: %w", err)
	}
	return nil
}

// StagePaths stages the given paths
func (r *Repo) StagePaths(ctx context.Context, paths ...string) error {
	if len(paths) == 0 {
		return nil
	}
	args := append([]string{"add", "--"}, paths...)
	if _, err := r.runner.Run(ctx, args...); err != nil {
		return fmt.Errorf("failed to stage %v: %w", paths, err)
	}
	return nil
}

// RemoveFromIndex drops paths from the index, leaving the working tree alone
func (r *Repo) RemoveFromIndex(ctx context.Context, paths ...string) error {
	if len(paths) == 0 {
		return nil
	}
	args := append([]string{"rm", "--cached", "-q", "--ignore-unmatch", "--"}, paths...)
	if _, err := r.runner.Run(ctx, args...); err != nil {
		return fmt.Errorf("failed to remove %v from index: %w", paths, err)
	}
	return nil
}

// HasStagedChanges checks if the index differs from HEAD
func (r *Repo) HasStagedChanges(ctx context.Context) (bool, error) {
	// Raw output: the leading column is significant
	output, err := r.runner.RunRaw(ctx, "status", "--porcelain", "--untracked-files=no")
	if err != nil {
		return false, fmt.Errorf("failed to check staged changes: %w", err)
	}
	for _, line := range strings.Split(output, "\n") {
		if len(line) >= 2 && line[0] != ' ' && line[0] != '?' {
			return true, nil
		}
	}
	return false, nil
}

// HasTrackedChanges checks for modifications to tracked files, staged or not
func (r *Repo) HasTrackedChanges(ctx context.Context) (bool, error) {
	output, err := r.runner.Run(ctx, "status", "--porcelain", "--untracked-files=no")
	if err != nil {
		return false, fmt.Errorf("failed to check tracked changes: %w", err)
	}
	return output != "", nil
}

// IsDirty checks for any change, untracked files included
func (r *Repo) IsDirty(ctx context.Context) (bool, error) {
	output, err := r.runner.Run(ctx, "status", "--porcelain", "--untracked-files=all")
	if err != nil {
		return false, fmt.Errorf("failed to check working tree: %w", err)
	}
	return output != "", nil
}

// WriteTree writes the index to a tree object
func (r *Repo) WriteTree(ctx context.Context) (plumbing.Hash, error) {
	out, err := r.runner.Run(ctx, "write-tree")
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("failed to write tree: %w", err)
	}
	return plumbing.NewHash(out), nil
}
