package git

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
)

// LogDateFormat is the layout of LogEntry.Date
const LogDateFormat = "2006-01-02 15:04:05"

// LogEntry summarizes one commit
type LogEntry struct {
	ID      string
	Message string
	Author  string
	Date    string
}

// RecentLog returns up to limit commits reachable from HEAD, newest first.
// An unborn HEAD yields an empty list.
func (r *Repo) RecentLog(limit int) ([]LogEntry, error) {
	entries := []LogEntry{}
	if limit <= 0 {
		return entries, nil
	}
	head, ok, err := r.HeadHash()
	if err != nil || !ok {
		return entries, err
	}

	iter, err := r.Log(&git.LogOptions{From: head, Order: git.LogOrderCommitterTime})
	if err != nil {
		return nil, fmt.Errorf("failed to walk history: %w", err)
	}
	defer iter.Close()

	err = iter.ForEach(func(c *object.Commit) error {
		entries = append(entries, LogEntry{
			ID:      c.Hash.String(),
			Message: strings.TrimSpace(c.Message),
			Author:  c.Author.Name,
			Date:    c.Author.When.Local().Format(LogDateFormat),
		})
		if len(entries) >= limit {
			return storer.ErrStop
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk history: %w", err)
	}
	return entries, nil
}

// LastModifiedTimes maps each path in HEAD's tree accepted by include to the
// commit time, in Unix milliseconds, of the newest commit that changed it.
func (r *Repo) LastModifiedTimes(include func(path string) bool) (map[string]int64, error) {
	times := map[string]int64{}
	head, ok, err := r.HeadHash()
	if err != nil || !ok {
		return times, err
	}

	headCommit, err := r.CommitObject(head)
	if err != nil {
		return nil, fmt.Errorf("failed to read HEAD commit: %w", err)
	}
	tree, err := headCommit.Tree()
	if err != nil {
		return nil, fmt.Errorf("failed to read HEAD tree: %w", err)
	}

	pending := map[string]bool{}
	err = tree.Files().ForEach(func(f *object.File) error {
		if include == nil || include(f.Name) {
			pending[f.Name] = true
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list HEAD tree: %w", err)
	}
	if len(pending) == 0 {
		return times, nil
	}

	iter, err := r.Log(&git.LogOptions{From: head, Order: git.LogOrderCommitterTime})
	if err != nil {
		return nil, fmt.Errorf("failed to walk history: %w", err)
	}
	defer iter.Close()

	err = iter.ForEach(func(c *object.Commit) error {
		when := c.Committer.When.UnixMilli()
		assign := func(path string) {
			if pending[path] {
				times[path] = when
				delete(pending, path)
			}
		}

		changed, err := changedPaths(c)
		if err != nil {
			return err
		}
		for _, path := range changed {
			assign(path)
		}
		if len(pending) == 0 {
			return storer.ErrStop
		}
		return nil
	})
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to walk history: %w", err)
	}
	return times, nil
}

// changedPaths lists the paths c changed relative to its first parent. A
// root commit changes every path in its tree.
func changedPaths(c *object.Commit) ([]string, error) {
	tree, err := c.Tree()
	if err != nil {
		return nil, err
	}

	var parentTree *object.Tree
	if c.NumParents() > 0 {
		parent, err := c.Parent(0)
		if err != nil {
			return nil, err
		}
		if parentTree, err = parent.Tree(); err != nil {
			return nil, err
		}
	}

	changes, err := object.DiffTree(parentTree, tree)
	if err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(changes))
	for _, change := range changes {
		if change.To.Name != "" {
			paths = append(paths, change.To.Name)
		}
	}
	return paths, nil
}
