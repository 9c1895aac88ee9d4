package git_test

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/christianjann/gittasks/internal/git"
	"github.com/christianjann/gittasks/testhelpers"
)

func TestRecentLog(t *testing.T) {
	scene := testhelpers.NewScene(t, func(s *testhelpers.Scene) error {
		for _, msg := range []string{"one", "two", "three"} {
			if err := s.Repo.CommitFile(msg+".md", msg, msg); err != nil {
				return err
			}
		}
		return nil
	})
	repo, err := git.Open(scene.Dir)
	require.NoError(t, err)

	entries, err := repo.RecentLog(2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "three", entries[0].Message)
	require.Equal(t, "two", entries[1].Message)
	require.Equal(t, "Test User", entries[0].Author)
	require.Equal(t, testhelpers.Must(scene.Repo.GetRevision("HEAD")), entries[0].ID)
	_, err = time.ParseInLocation(git.LogDateFormat, entries[0].Date, time.Local)
	require.NoError(t, err)

	all, err := repo.RecentLog(10)
	require.NoError(t, err)
	require.Len(t, all, 3)

	none, err := repo.RecentLog(0)
	require.NoError(t, err)
	require.Empty(t, none)

	t.Run("unborn HEAD has no history", func(t *testing.T) {
		repo, err := git.Init(filepath.Join(t.TempDir(), "notes"))
		require.NoError(t, err)
		entries, err := repo.RecentLog(5)
		require.NoError(t, err)
		require.Empty(t, entries)
	})
}

func TestLastModifiedTimes(t *testing.T) {
	commitAt := func(repo *testhelpers.GitRepo, when, name, content string) error {
		if err := repo.WriteFile(name, content); err != nil {
			return err
		}
		if err := repo.RunGitCommand("add", "-A"); err != nil {
			return err
		}
		return repo.RunGitCommand("commit", "-q", "-m", name, "--date", when)
	}

	scene := testhelpers.NewScene(t, nil)

	steps := []struct{ when, name, content string }{
		{"2024-01-01T10:00:00Z", "a.md", "a1"},
		{"2024-01-02T10:00:00Z", "b.md", "b1"},
		{"2024-01-03T10:00:00Z", "notes/c.txt", "c1"},
		{"2024-01-04T10:00:00Z", "a.md", "a2"},
		{"2024-01-05T10:00:00Z", "image.png", "png"},
	}
	for _, step := range steps {
		t.Setenv("GIT_COMMITTER_DATE", step.when)
		require.NoError(t, commitAt(scene.Repo, step.when, step.name, step.content))
	}

	repo, err := git.Open(scene.Dir)
	require.NoError(t, err)

	isNote := func(path string) bool {
		return strings.HasSuffix(path, ".md") || strings.HasSuffix(path, ".txt")
	}
	times, err := repo.LastModifiedTimes(isNote)
	require.NoError(t, err)

	ms := func(s string) int64 {
		ts, err := time.Parse(time.RFC3339, s)
		require.NoError(t, err)
		return ts.UnixMilli()
	}
	require.Equal(t, map[string]int64{
		"a.md":        ms("2024-01-04T10:00:00Z"),
		"b.md":        ms("2024-01-02T10:00:00Z"),
		"notes/c.txt": ms("2024-01-03T10:00:00Z"),
	}, times)

	t.Run("unborn HEAD yields no timestamps", func(t *testing.T) {
		repo, err := git.Init(filepath.Join(t.TempDir(), "notes"))
		require.NoError(t, err)
		times, err := repo.LastModifiedTimes(nil)
		require.NoError(t, err)
		require.Empty(t, times)
	})
}
