// Package scenario provides a high-level test scenario: a local working copy,
// a bare origin and a second device cloned from it, with a terse API for
// building divergent histories.
package scenario

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/christianjann/gittasks/testhelpers"
)

// Scenario combines a Scene with a bare origin and another device
type Scenario struct {
	T      *testing.T
	Scene  *testhelpers.Scene
	Remote *testhelpers.GitRepo
	Other  *testhelpers.GitRepo
}

// NewScenario creates a scene whose main branch is already published to origin.
// NOTE: This function is NOT safe for parallel tests as it uses t.Setenv.
func NewScenario(t *testing.T) *Scenario {
	t.Helper()
	scene := testhelpers.NewScene(t, testhelpers.RemoteSceneSetup)
	return &Scenario{
		T:      t,
		Scene:  scene,
		Remote: &testhelpers.GitRepo{Dir: scene.RemoteDir("origin")},
	}
}

// Local returns the working copy under test
func (s *Scenario) Local() *testhelpers.GitRepo {
	return s.Scene.Repo
}

// WithOtherDevice clones origin into a second working copy.
func (s *Scenario) WithOtherDevice() *Scenario {
	s.T.Helper()
	if s.Other == nil {
		s.Other = s.Scene.CloneRemote(s.T, "origin", "other-device")
	}
	return s
}

// RemoteCommits commits a file on the other device and pushes it to origin.
func (s *Scenario) RemoteCommits(name, content, message string) *Scenario {
	s.T.Helper()
	s.WithOtherDevice()
	require.NoError(s.T, s.Other.Pull("origin", "main"))
	require.NoError(s.T, s.Other.CommitFile(name, content, message))
	require.NoError(s.T, s.Other.PushBranch("origin", "main"))
	return s
}

// RemoteDeletes removes a file on the other device and pushes the deletion.
func (s *Scenario) RemoteDeletes(name, message string) *Scenario {
	s.T.Helper()
	s.WithOtherDevice()
	require.NoError(s.T, s.Other.Pull("origin", "main"))
	require.NoError(s.T, s.Other.DeleteFile(name))
	require.NoError(s.T, s.Other.CommitAll(message))
	require.NoError(s.T, s.Other.PushBranch("origin", "main"))
	return s
}

// LocalCommits commits a file in the working copy without pushing.
func (s *Scenario) LocalCommits(name, content, message string) *Scenario {
	s.T.Helper()
	require.NoError(s.T, s.Local().CommitFile(name, content, message))
	return s
}

// LocalDeletes removes a file in the working copy and commits the deletion.
func (s *Scenario) LocalDeletes(name, message string) *Scenario {
	s.T.Helper()
	require.NoError(s.T, s.Local().DeleteFile(name))
	require.NoError(s.T, s.Local().CommitAll(message))
	return s
}

// LocalEdits writes a file in the working copy without committing.
func (s *Scenario) LocalEdits(name, content string) *Scenario {
	s.T.Helper()
	require.NoError(s.T, s.Local().WriteFile(name, content))
	return s
}

// RunGit runs a git command in the working copy.
func (s *Scenario) RunGit(args ...string) *Scenario {
	s.T.Helper()
	require.NoError(s.T, s.Local().RunGitCommand(args...))
	return s
}

// Revision resolves rev in the working copy.
func (s *Scenario) Revision(rev string) string {
	s.T.Helper()
	sha, err := s.Local().GetRevision(rev)
	require.NoError(s.T, err)
	return sha
}

// RemoteRevision resolves rev in origin.
func (s *Scenario) RemoteRevision(rev string) string {
	s.T.Helper()
	sha, err := s.Remote.GetRevision(rev)
	require.NoError(s.T, err)
	return sha
}

// ExpectFile asserts the content of a file in the working copy.
func (s *Scenario) ExpectFile(name, expected string) *Scenario {
	s.T.Helper()
	testhelpers.ExpectFile(s.T, s.Local(), name, expected)
	return s
}

// ExpectNoFile asserts a file is absent from the working copy.
func (s *Scenario) ExpectNoFile(name string) *Scenario {
	s.T.Helper()
	_, err := s.Local().ReadFile(name)
	require.Error(s.T, err, "%s should not exist", name)
	return s
}

// ExpectClean asserts a clean working tree with no unmerged paths.
func (s *Scenario) ExpectClean() *Scenario {
	s.T.Helper()
	testhelpers.ExpectClean(s.T, s.Local())
	return s
}

// ExpectBranch asserts that the current branch is as expected.
func (s *Scenario) ExpectBranch(expected string) *Scenario {
	s.T.Helper()
	actual, err := s.Local().CurrentBranchName()
	require.NoError(s.T, err)
	require.Equal(s.T, expected, actual)
	return s
}
