package session_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	gterrors "github.com/christianjann/gittasks/internal/errors"
	"github.com/christianjann/gittasks/internal/merge"
	"github.com/christianjann/gittasks/internal/output"
	"github.com/christianjann/gittasks/internal/sanitize"
	"github.com/christianjann/gittasks/internal/session"
	"github.com/christianjann/gittasks/testhelpers"
	"github.com/christianjann/gittasks/testhelpers/scenario"
)

func openSession(t *testing.T, dir string) *session.Session {
	t.Helper()
	s := session.New(output.Discard())
	require.NoError(t, s.Open(context.Background(), dir))
	t.Cleanup(s.Close)
	return s
}

func TestClosedSession(t *testing.T) {
	ctx := context.Background()
	s := session.New(nil)
	require.False(t, s.IsOpen())

	_, _, err := s.CommitAll(ctx, "a", "a@b", "msg")
	require.ErrorIs(t, err, gterrors.ErrNotInitialized)
	require.ErrorIs(t, s.Push(ctx, nil), gterrors.ErrNotInitialized)
	_, err = s.Pull(ctx, nil, "", "")
	require.ErrorIs(t, err, gterrors.ErrNotInitialized)
	_, err = s.Sync(ctx, nil)
	require.ErrorIs(t, err, gterrors.ErrNotInitialized)
	_, err = s.Cleanup(ctx)
	require.ErrorIs(t, err, gterrors.ErrNotInitialized)
	_, err = s.IsDirty(ctx)
	require.ErrorIs(t, err, gterrors.ErrNotInitialized)
	_, _, err = s.LastCommitID(ctx)
	require.ErrorIs(t, err, gterrors.ErrNotInitialized)
	_, err = s.Signature(ctx)
	require.ErrorIs(t, err, gterrors.ErrNotInitialized)
	_, err = s.FileLastModifiedTimes(ctx)
	require.ErrorIs(t, err, gterrors.ErrNotInitialized)
	_, err = s.RecentLog(ctx, 10)
	require.ErrorIs(t, err, gterrors.ErrNotInitialized)
	_, err = s.Root()
	require.ErrorIs(t, err, gterrors.ErrNotInitialized)
}

func TestOpenHealsInterruptedMerge(t *testing.T) {
	scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
	head, err := scene.Repo.GetRevision("HEAD")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(scene.Dir, ".git", "MERGE_HEAD"), []byte(head+"\n"), 0600))
	require.NoError(t, scene.Repo.WriteFile("1_test.md", "half merged"))

	openSession(t, scene.Dir)

	_, err = os.Stat(filepath.Join(scene.Dir, ".git", "MERGE_HEAD"))
	require.True(t, os.IsNotExist(err))
	testhelpers.ExpectFile(t, scene.Repo, "1_test.md", "1")
	testhelpers.ExpectClean(t, scene.Repo)
}

func TestOpenMissingRepository(t *testing.T) {
	s := session.New(output.Discard())
	err := s.Open(context.Background(), filepath.Join(t.TempDir(), "nothing"))
	require.Error(t, err)
	require.False(t, s.IsOpen())
}

func TestCreateThenQueryUnborn(t *testing.T) {
	testhelpers.NewScene(t, nil)
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "fresh")

	s := session.New(output.Discard())
	require.NoError(t, s.Create(ctx, dir))
	defer s.Close()

	id, ok, err := s.LastCommitID(ctx)
	require.NoError(t, err)
	require.False(t, ok)
	require.Empty(t, id)

	entries, err := s.RecentLog(ctx, 5)
	require.NoError(t, err)
	require.Empty(t, entries)

	times, err := s.FileLastModifiedTimes(ctx)
	require.NoError(t, err)
	require.Empty(t, times)

	sig, err := s.Signature(ctx)
	require.NoError(t, err)
	require.Nil(t, sig)

	dirty, err := s.IsDirty(ctx)
	require.NoError(t, err)
	require.False(t, dirty)
}

func TestCommitAll(t *testing.T) {
	scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
	ctx := context.Background()
	s := openSession(t, scene.Dir)

	_, committed, err := s.CommitAll(ctx, "Ada", "ada@example.com", "nothing to do")
	require.NoError(t, err)
	require.False(t, committed)

	require.NoError(t, scene.Repo.WriteFile("todo.md", "- [ ] write tests"))
	dirty, err := s.IsDirty(ctx)
	require.NoError(t, err)
	require.True(t, dirty)

	id, committed, err := s.CommitAll(ctx, "Ada", "ada@example.com", "add todo")
	require.NoError(t, err)
	require.True(t, committed)

	last, ok, err := s.LastCommitID(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, id, last)

	author, err := scene.Repo.RunGitCommandAndGetOutput("log", "-1", "--format=%an <%ae>")
	require.NoError(t, err)
	require.Equal(t, "Ada <ada@example.com>", author)

	entries, err := s.RecentLog(ctx, 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "add todo", entries[0].Message)
	require.Equal(t, "Ada", entries[0].Author)

	times, err := s.FileLastModifiedTimes(ctx)
	require.NoError(t, err)
	require.Contains(t, times, "todo.md")
	require.Contains(t, times, "1_test.md")
	require.GreaterOrEqual(t, times["todo.md"], times["1_test.md"])

	testhelpers.ExpectClean(t, scene.Repo)
}

func TestSignatureFallsBackToHeadAuthor(t *testing.T) {
	scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
	s := openSession(t, scene.Dir)

	sig, err := s.Signature(context.Background())
	require.NoError(t, err)
	require.NotNil(t, sig)
	require.Equal(t, "Test User", sig.Name)
	require.Equal(t, "test@example.com", sig.Email)
}

func TestRoundTripBetweenDevices(t *testing.T) {
	sc := scenario.NewScenario(t).WithOtherDevice()
	ctx := context.Background()
	s := openSession(t, sc.Scene.Dir)

	require.NoError(t, sc.Local().WriteFile("shopping.md", "milk"))
	_, committed, err := s.CommitAll(ctx, "", "", "add shopping list")
	require.NoError(t, err)
	require.True(t, committed)
	require.NoError(t, s.Push(ctx, nil))
	require.Equal(t, sc.Revision("main"), sc.RemoteRevision("main"))

	sc.RemoteCommits("shopping.md", "milk\neggs", "eggs")
	outcome, err := s.Pull(ctx, nil, "", "")
	require.NoError(t, err)
	require.Equal(t, merge.FastForwardable, outcome.Analysis)
	sc.ExpectFile("shopping.md", "milk\neggs").ExpectClean()
}

func TestPullResolvesConcurrentEdits(t *testing.T) {
	sc := scenario.NewScenario(t).
		RemoteCommits("1_test.md", "from the other device", "remote edit").
		LocalCommits("1_test.md", "from this device", "local edit")
	ctx := context.Background()
	s := openSession(t, sc.Scene.Dir)

	outcome, err := s.Pull(ctx, nil, "Ada", "ada@example.com")
	require.NoError(t, err)
	require.Equal(t, merge.Normal, outcome.Analysis)
	sc.ExpectFile("1_test.md", "from this device").ExpectClean()

	require.NoError(t, s.Push(ctx, nil))
	require.Equal(t, sc.Revision("main"), sc.RemoteRevision("main"))
}

func TestPushRejectedWhenBehind(t *testing.T) {
	sc := scenario.NewScenario(t).
		RemoteCommits("remote.md", "remote", "remote change").
		LocalCommits("local.md", "local", "local change")
	s := openSession(t, sc.Scene.Dir)

	err := s.Push(context.Background(), nil)
	require.ErrorIs(t, err, gterrors.ErrNonFastForward)
}

func TestSyncAndCleanup(t *testing.T) {
	sc := scenario.NewScenario(t).
		RemoteCommits("remote.md", "remote", "remote change").
		LocalEdits("draft.md", "draft")
	ctx := context.Background()
	s := openSession(t, sc.Scene.Dir)

	result, err := s.Sync(ctx, nil)
	require.NoError(t, err)
	require.True(t, result.Stashed)
	require.True(t, result.StashReapplied)
	sc.ExpectFile("remote.md", "remote").ExpectFile("draft.md", "draft")

	sc.LocalEdits("1_test.md", "scribbles")
	states, err := s.Status(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, states)

	report, err := s.Cleanup(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, report.Healed)
	sc.ExpectFile("1_test.md", "1")
	// untracked files survive cleanup
	sc.ExpectFile("draft.md", "draft")
}

func TestCloneOpensRepository(t *testing.T) {
	sc := scenario.NewScenario(t)
	ctx := context.Background()
	dest := filepath.Join(t.TempDir(), "clone")

	var last int
	s := session.New(output.Discard())
	defer s.Close()
	require.NoError(t, s.Clone(ctx, dest, sc.Scene.RemoteDir("origin"), nil, func(p int) { last = p }))
	require.True(t, s.IsOpen())

	root, err := s.Root()
	require.NoError(t, err)
	require.Equal(t, dest, root)

	id, ok, err := s.LastCommitID(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, sc.RemoteRevision("main"), id)
	require.True(t, last == 0 || last == 100)
}

func TestInitWritesSafeDirectory(t *testing.T) {
	home := t.TempDir()
	s := session.New(output.Discard())
	require.NoError(t, s.Init(home))

	data, err := os.ReadFile(filepath.Join(home, ".gitconfig"))
	require.NoError(t, err)
	require.Contains(t, string(data), "directory = *")
	require.False(t, s.IsOpen())
}

func TestErrorsAreClassified(t *testing.T) {
	s := session.New(nil)
	err := s.Push(context.Background(), nil)
	require.True(t, errors.Is(err, gterrors.ErrNotInitialized))
	require.Equal(t, "NotInitialized", gterrors.Kind(err))
}

func TestOpenWithoutCleanupLeavesStateAlone(t *testing.T) {
	scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
	require.NoError(t, scene.Repo.WriteFile("1_test.md", "unsaved"))

	s := session.New(output.Discard())
	require.NoError(t, s.OpenWithoutCleanup(context.Background(), scene.Dir))
	defer s.Close()

	testhelpers.ExpectFile(t, scene.Repo, "1_test.md", "unsaved")
	states, err := s.Status(context.Background())
	require.NoError(t, err)
	require.Contains(t, states, sanitize.WorkingTreeDirty)
}
