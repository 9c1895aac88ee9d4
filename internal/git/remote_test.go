package git_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	gterrors "github.com/christianjann/gittasks/internal/errors"
	"github.com/christianjann/gittasks/internal/git"
	"github.com/christianjann/gittasks/testhelpers"
	"github.com/christianjann/gittasks/testhelpers/scenario"
)

func TestFetch(t *testing.T) {
	ctx := context.Background()

	t.Run("updates the tracking ref and FETCH_HEAD", func(t *testing.T) {
		s := scenario.NewScenario(t).RemoteCommits("remote.md", "remote", "remote change")
		repo, err := git.Open(s.Scene.Dir)
		require.NoError(t, err)

		require.NoError(t, repo.Fetch(ctx, "origin", "main", nil))

		tip, ok, err := repo.RemoteTrackingTip("origin", "main")
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, s.RemoteRevision("main"), tip.String())

		fetched, ok, err := repo.FetchHead()
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, tip, fetched)

		data, err := os.ReadFile(filepath.Join(repo.GitDir(), "FETCH_HEAD"))
		require.NoError(t, err)
		require.Contains(t, string(data), "branch 'main' of ")
	})

	t.Run("up to date fetch succeeds", func(t *testing.T) {
		s := scenario.NewScenario(t)
		repo, err := git.Open(s.Scene.Dir)
		require.NoError(t, err)

		require.NoError(t, repo.Fetch(ctx, "origin", "main", nil))
		require.NoError(t, repo.Fetch(ctx, "origin", "main", nil))
	})

	t.Run("missing remote branch", func(t *testing.T) {
		s := scenario.NewScenario(t)
		repo, err := git.Open(s.Scene.Dir)
		require.NoError(t, err)

		err = repo.Fetch(ctx, "origin", "does-not-exist", nil)
		require.ErrorIs(t, err, git.ErrRemoteBranchMissing)
	})

	t.Run("unreachable remote is a transport failure", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		require.NoError(t, scene.Repo.RunGitCommand("remote", "add", "origin", filepath.Join(t.TempDir(), "missing.git")))
		repo, err := git.Open(scene.Dir)
		require.NoError(t, err)

		err = repo.Fetch(ctx, "origin", "main", nil)
		require.ErrorIs(t, err, gterrors.ErrTransport)
	})

	t.Run("FETCH_HEAD removal", func(t *testing.T) {
		s := scenario.NewScenario(t)
		repo, err := git.Open(s.Scene.Dir)
		require.NoError(t, err)
		require.NoError(t, repo.Fetch(ctx, "origin", "main", nil))

		require.NoError(t, repo.RemoveFetchHead())
		require.NoError(t, repo.RemoveFetchHead())
		_, ok, err := repo.FetchHead()
		require.NoError(t, err)
		require.False(t, ok)
	})
}

func TestPush(t *testing.T) {
	ctx := context.Background()

	t.Run("pushes local commits", func(t *testing.T) {
		s := scenario.NewScenario(t).LocalCommits("local.md", "local", "local change")
		repo, err := git.Open(s.Scene.Dir)
		require.NoError(t, err)

		require.NoError(t, repo.Push(ctx, "origin", "main", nil))
		require.Equal(t, s.Revision("main"), s.RemoteRevision("main"))

		// nothing left to push
		require.NoError(t, repo.Push(ctx, "origin", "main", nil))
	})

	t.Run("rejects a non-fast-forward update", func(t *testing.T) {
		s := scenario.NewScenario(t).
			RemoteCommits("remote.md", "remote", "remote change").
			LocalCommits("local.md", "local", "local change")
		remoteTip := s.RemoteRevision("main")
		repo, err := git.Open(s.Scene.Dir)
		require.NoError(t, err)

		err = repo.Push(ctx, "origin", "main", nil)
		require.ErrorIs(t, err, gterrors.ErrNonFastForward)
		require.Equal(t, remoteTip, s.RemoteRevision("main"), "remote must not be overwritten")
	})
}

func TestClone(t *testing.T) {
	ctx := context.Background()

	t.Run("clones and reports progress", func(t *testing.T) {
		s := scenario.NewScenario(t)
		var progress []int

		dir := filepath.Join(t.TempDir(), "clone")
		repo, err := git.Clone(ctx, dir, s.Scene.RemoteDir("origin"), nil, func(pct int) {
			progress = append(progress, pct)
		})
		require.NoError(t, err)

		head, ok, err := repo.HeadHash()
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, s.RemoteRevision("main"), head.String())
		require.NotEmpty(t, progress)
		require.Equal(t, 100, progress[len(progress)-1])

		url, err := repo.RemoteURL("origin")
		require.NoError(t, err)
		require.Equal(t, s.Scene.RemoteDir("origin"), url)
	})

	t.Run("empty remote gets an initial commit", func(t *testing.T) {
		scene := testhelpers.NewScene(t, nil)
		remote, err := scene.Repo.CreateBareRemote("origin")
		require.NoError(t, err)

		dir := filepath.Join(t.TempDir(), "clone")
		repo, err := git.Clone(ctx, dir, remote, nil, nil)
		require.NoError(t, err)

		branch, err := repo.CurrentBranch()
		require.NoError(t, err)
		require.Equal(t, "main", branch)

		commit, err := repo.CommitObject(testhelpers.Must(repo.Head()).Hash())
		require.NoError(t, err)
		require.Equal(t, git.InitialCommitMessage, strings.TrimSpace(commit.Message))
		require.Equal(t, "gittasks", commit.Author.Name)
		require.FileExists(t, filepath.Join(dir, ".gitkeep"))

		url, err := repo.RemoteURL("origin")
		require.NoError(t, err)
		require.Equal(t, remote, url)
	})

	t.Run("creates main when the remote has neither main nor master", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		require.NoError(t, scene.Repo.RunGitCommand("branch", "-m", "main", "trunk"))
		remote, err := scene.Repo.CreateBareRemote("origin")
		require.NoError(t, err)
		require.NoError(t, scene.Repo.PushBranch("origin", "trunk"))
		require.NoError(t, (&testhelpers.GitRepo{Dir: remote}).RunGitCommand("symbolic-ref", "HEAD", "refs/heads/trunk"))

		dir := filepath.Join(t.TempDir(), "clone")
		repo, err := git.Clone(ctx, dir, remote, nil, nil)
		require.NoError(t, err)

		branch, err := repo.CurrentBranch()
		require.NoError(t, err)
		require.Equal(t, "main", branch)
		tip, ok, err := repo.BranchTip("main")
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, testhelpers.Must(scene.Repo.GetRevision("trunk")), tip.String())
	})

	t.Run("unreachable remote is a transport failure", func(t *testing.T) {
		_, err := git.Clone(ctx, filepath.Join(t.TempDir(), "clone"), filepath.Join(t.TempDir(), "missing.git"), nil, nil)
		require.ErrorIs(t, err, gterrors.ErrTransport)
	})
}
