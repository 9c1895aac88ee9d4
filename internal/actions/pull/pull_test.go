package pull_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/christianjann/gittasks/internal/actions/pull"
	gterrors "github.com/christianjann/gittasks/internal/errors"
	"github.com/christianjann/gittasks/internal/git"
	"github.com/christianjann/gittasks/internal/merge"
	"github.com/christianjann/gittasks/internal/output"
	"github.com/christianjann/gittasks/internal/runtime"
	"github.com/christianjann/gittasks/testhelpers/scenario"
)

func newContext(t *testing.T, s *scenario.Scenario) *runtime.Context {
	t.Helper()
	repo, err := git.Open(s.Scene.Dir)
	require.NoError(t, err)
	return runtime.NewContext(context.Background(), repo, output.Discard())
}

var author = git.Signature{Name: "Puller", Email: "puller@example.com"}

func TestPullFastForward(t *testing.T) {
	s := scenario.NewScenario(t).RemoteCommits("remote.md", "remote", "remote change")

	outcome, err := pull.Action(newContext(t, s), pull.Options{Author: author})
	require.NoError(t, err)
	require.Equal(t, merge.FastForwardable, outcome.Analysis)
	require.Equal(t, s.RemoteRevision("main"), s.Revision("main"))
	s.ExpectFile("remote.md", "remote").ExpectClean()
}

func TestPullUpToDate(t *testing.T) {
	s := scenario.NewScenario(t)

	outcome, err := pull.Action(newContext(t, s), pull.Options{Author: author})
	require.NoError(t, err)
	require.Equal(t, merge.UpToDate, outcome.Analysis)
}

func TestPullOursWinsConflict(t *testing.T) {
	s := scenario.NewScenario(t).
		LocalCommits("f.md", "base", "base").
		RunGit("push", "-q", "origin", "main").
		RemoteCommits("f.md", "remote", "remote edit").
		LocalCommits("f.md", "local", "local edit")
	local := s.Revision("HEAD")

	outcome, err := pull.Action(newContext(t, s), pull.Options{Author: author})
	require.NoError(t, err)
	require.Equal(t, merge.Normal, outcome.Analysis)

	s.ExpectFile("f.md", "local").ExpectClean()
	parents, err := s.Local().GetParents("HEAD")
	require.NoError(t, err)
	require.Equal(t, []string{local, s.RemoteRevision("main")}, parents)

	name, err := s.Local().RunGitCommandAndGetOutput("log", "-1", "--format=%an")
	require.NoError(t, err)
	require.Equal(t, "Puller", name)
}

func TestPullDefaultsAuthorToRepositoryIdentity(t *testing.T) {
	s := scenario.NewScenario(t).
		RemoteCommits("remote.md", "remote", "remote change").
		LocalCommits("local.md", "local", "local change")

	_, err := pull.Action(newContext(t, s), pull.Options{})
	require.NoError(t, err)

	name, err := s.Local().RunGitCommandAndGetOutput("log", "-1", "--format=%an")
	require.NoError(t, err)
	require.Equal(t, "Test User", name)
}

func TestPullWithoutRemoteBranch(t *testing.T) {
	s := scenario.NewScenario(t).RunGit("checkout", "-q", "-b", "drafts")

	outcome, err := pull.Action(newContext(t, s), pull.Options{Author: author})
	require.NoError(t, err)
	require.Nil(t, outcome)
}

func TestPullTransportFailure(t *testing.T) {
	s := scenario.NewScenario(t).RunGit("remote", "set-url", "origin", "/nonexistent/notes.git")
	before := s.Revision("HEAD")

	_, err := pull.Action(newContext(t, s), pull.Options{Author: author})
	require.ErrorIs(t, err, gterrors.ErrTransport)
	require.Equal(t, before, s.Revision("HEAD"))
}

func TestPullHTTPRemoteWithoutCredentials(t *testing.T) {
	s := scenario.NewScenario(t).RunGit("remote", "set-url", "origin", "http://127.0.0.1:1/notes.git")

	_, err := pull.Action(newContext(t, s), pull.Options{Author: author})
	require.ErrorIs(t, err, gterrors.ErrTransport)
	require.NotContains(t, err.Error(), "credentials required")
}
