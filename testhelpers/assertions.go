// Package testhelpers provides testing utilities for gittasks,
// including a scene system, Git repository helpers, and custom assertions.
package testhelpers

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// Must is a generic helper function that panics if err is not nil,
// otherwise returns the value. This is useful for test setup code
// where errors are not expected and should halt execution immediately.
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// ExpectCommits asserts that the newest commit subjects on the current
// branch match expected.
func ExpectCommits(t *testing.T, repo *GitRepo, expected []string) {
	t.Helper()

	messages, err := repo.ListCurrentBranchCommitMessages()
	require.NoError(t, err, "Failed to list commits")

	if len(messages) < len(expected) {
		require.Fail(t, "Not enough commits", "Expected %d commits, got %d", len(expected), len(messages))
		return
	}
	require.Equal(t, expected, messages[:len(expected)], "Commits do not match")
}

// ExpectFile asserts the content of a working tree file
func ExpectFile(t *testing.T, repo *GitRepo, name, expected string) {
	t.Helper()
	content, err := repo.ReadFile(name)
	require.NoError(t, err, "Failed to read %s", name)
	require.Equal(t, expected, content, "Content of %s does not match", name)
}

// ExpectClean asserts a clean working tree with no unmerged paths
func ExpectClean(t *testing.T, repo *GitRepo) {
	t.Helper()
	status, err := repo.Status()
	require.NoError(t, err)
	require.Empty(t, status, "working tree is not clean")

	unmerged, err := repo.UnmergedPaths()
	require.NoError(t, err)
	require.Empty(t, unmerged, "index has unmerged paths")
}

// ExpectSameRevision asserts two repositories point rev at the same commit
func ExpectSameRevision(t *testing.T, a, b *GitRepo, rev string) {
	t.Helper()
	left, err := a.GetRevision(rev)
	require.NoError(t, err)
	right, err := b.GetRevision(rev)
	require.NoError(t, err)
	require.Equal(t, left, right, "%s differs", rev)
}
