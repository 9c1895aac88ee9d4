package git_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/stretchr/testify/require"

	gterrors "github.com/christianjann/gittasks/internal/errors"
	"github.com/christianjann/gittasks/internal/git"
	"github.com/christianjann/gittasks/testhelpers"
)

func TestInitAndOpen(t *testing.T) {
	t.Run("init creates an unborn main branch", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "notes")

		repo, err := git.Init(dir)
		require.NoError(t, err)

		branch, err := repo.CurrentBranch()
		require.NoError(t, err)
		require.Equal(t, "main", branch)

		_, ok, err := repo.HeadHash()
		require.NoError(t, err)
		require.False(t, ok, "HEAD should be unborn")
	})

	t.Run("init on an existing repository opens it", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)

		repo, err := git.Init(scene.Dir)
		require.NoError(t, err)

		head, ok, err := repo.HeadHash()
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, testhelpers.Must(scene.Repo.GetRevision("HEAD")), head.String())
	})

	t.Run("open fails outside a repository", func(t *testing.T) {
		_, err := git.Open(t.TempDir())
		require.Error(t, err)
	})

	t.Run("root and git dir are absolute", func(t *testing.T) {
		scene := testhelpers.NewScene(t, nil)

		repo, err := git.Open(scene.Dir)
		require.NoError(t, err)
		require.Equal(t, scene.Dir, repo.Root())
		require.Equal(t, filepath.Join(scene.Dir, ".git"), repo.GitDir())
	})
}

func TestCurrentBranch(t *testing.T) {
	t.Run("detached HEAD is an invalid state", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		require.NoError(t, scene.Repo.CheckoutDetached("HEAD"))

		repo, err := git.Open(scene.Dir)
		require.NoError(t, err)

		_, err = repo.CurrentBranch()
		require.ErrorIs(t, err, gterrors.ErrInvalidState)
	})
}

func TestUpdateRefAndSetHead(t *testing.T) {
	scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
	first := testhelpers.Must(scene.Repo.GetRevision("HEAD"))
	require.NoError(t, scene.Repo.CreateChangeAndCommit("2", "2"))

	repo, err := git.Open(scene.Dir)
	require.NoError(t, err)
	ctx := context.Background()

	head, _, err := repo.HeadHash()
	require.NoError(t, err)

	err = repo.UpdateRef(ctx, "refs/heads/archive", head, plumbing.ZeroHash, "Setting archive")
	require.NoError(t, err)
	require.NoError(t, repo.SetHead(ctx, "archive"))

	branch, err := repo.CurrentBranch()
	require.NoError(t, err)
	require.Equal(t, "archive", branch)

	firstHash, ok, err := repo.BranchTip("main")
	require.NoError(t, err)
	require.True(t, ok)
	isAncestor, err := repo.IsAncestor(firstHash, head)
	require.NoError(t, err)
	require.True(t, isAncestor)
	require.NotEqual(t, first, head.String())

	reflog, err := scene.Repo.RunGitCommandAndGetOutput("reflog", "show", "--format=%gs", "refs/heads/archive")
	require.NoError(t, err)
	require.Contains(t, reflog, "Setting archive")
}

func TestMarkers(t *testing.T) {
	scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
	repo, err := git.Open(scene.Dir)
	require.NoError(t, err)

	require.False(t, repo.HasAnyMarker(git.MergeMarkers))

	require.NoError(t, os.WriteFile(filepath.Join(repo.GitDir(), "MERGE_HEAD"), []byte("x\n"), 0600))
	require.NoError(t, os.MkdirAll(filepath.Join(repo.GitDir(), "rebase-merge"), 0750))
	require.True(t, repo.HasAnyMarker(git.MergeMarkers))
	require.True(t, repo.HasMarker("rebase-merge"))

	require.NoError(t, repo.RemoveMarkers(git.MergeMarkers))
	require.NoError(t, repo.RemoveMarkers(git.RebaseMarkers))
	require.False(t, repo.HasAnyMarker(git.MergeMarkers))
	require.False(t, repo.HasAnyMarker(git.RebaseMarkers))
}
