package testhelpers

import (
	"os"
	"path/filepath"
	"testing"
)

// Scene represents a test scene with a temporary directory and Git repository.
type Scene struct {
	Dir  string
	Home string
	Repo *GitRepo
}

// SceneSetup is a function type for setting up a scene.
type SceneSetup func(*Scene) error

// NewScene creates a new test scene with a temporary directory and Git repository.
// It isolates HOME and git's global config through t.Setenv, so it cannot be
// used from parallel tests. Use NewSceneParallel there.
func NewScene(t *testing.T, setup SceneSetup) *Scene {
	t.Helper()

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("GIT_CONFIG_GLOBAL", "/dev/null")
	t.Setenv("GIT_CONFIG_NOSYSTEM", "1")

	scene := newScene(t, home)
	scene.runSetup(t, setup)
	return scene
}

// NewSceneParallel creates a scene without touching process environment.
// Git commands run by the code under test may then read the global config.
func NewSceneParallel(t *testing.T, setup SceneSetup) *Scene {
	t.Helper()
	scene := newScene(t, t.TempDir())
	scene.runSetup(t, setup)
	return scene
}

func newScene(t *testing.T, home string) *Scene {
	t.Helper()

	// Repo lives one level down so sibling bare remotes stay inside the temp dir
	dir := filepath.Join(t.TempDir(), "notes")
	if err := os.MkdirAll(dir, 0750); err != nil {
		t.Fatalf("Failed to create repo dir: %v", err)
	}

	repo, err := NewGitRepo(dir)
	if err != nil {
		t.Fatalf("Failed to create Git repo: %v", err)
	}

	return &Scene{Dir: dir, Home: home, Repo: repo}
}

func (s *Scene) runSetup(t *testing.T, setup SceneSetup) {
	t.Helper()
	if setup == nil {
		return
	}
	if err := setup(s); err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
}

// BasicSceneSetup is a setup function that creates a basic scene with a single commit.
func BasicSceneSetup(scene *Scene) error {
	return scene.Repo.CreateChangeAndCommit("1", "1")
}

// RemoteSceneSetup creates a single commit and publishes main to a bare origin.
func RemoteSceneSetup(scene *Scene) error {
	if err := BasicSceneSetup(scene); err != nil {
		return err
	}
	if _, err := scene.Repo.CreateBareRemote("origin"); err != nil {
		return err
	}
	return scene.Repo.PushBranch("origin", "main")
}

// RemoteDir returns the path of the bare remote created by CreateBareRemote
func (s *Scene) RemoteDir(name string) string {
	return s.Dir + "-" + name + ".git"
}

// CloneRemote clones the named bare remote into a sibling working copy,
// standing in for another device syncing the same notes.
func (s *Scene) CloneRemote(t *testing.T, name, device string) *GitRepo {
	t.Helper()
	dir := filepath.Join(filepath.Dir(s.Dir), device)
	repo, err := NewGitRepoFromURL(dir, s.RemoteDir(name))
	if err != nil {
		t.Fatalf("Failed to clone remote: %v", err)
	}
	return repo
}
