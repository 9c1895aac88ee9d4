package git

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/storage/filesystem"

	gterrors "github.com/christianjann/gittasks/internal/errors"
)

// DefaultRemoteName is the remote gittasks synchronizes with
const DefaultRemoteName = "origin"

// DefaultBranch is the branch created for new repositories
const DefaultBranch = "main"

// Repo wraps a go-git repository together with a CLI runner rooted at its worktree
type Repo struct {
	*git.Repository
	root   string
	gitDir string
	runner *CommandRunner
}

func newRepo(repo *git.Repository) (*Repo, error) {
	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("%w: repository has no working tree: %v", gterrors.ErrInvalidState, err)
	}
	root := wt.Filesystem.Root()

	gitDir := filepath.Join(root, ".git")
	if fs, ok := repo.Storer.(*filesystem.Storage); ok {
		gitDir = fs.Filesystem().Root()
	}

	return &Repo{
		Repository: repo,
		root:       root,
		gitDir:     gitDir,
		runner:     NewCommandRunner(root),
	}, nil
}

// Init creates a new repository at path with main as its initial branch
func Init(path string) (*Repo, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}
	if err := os.MkdirAll(absPath, 0750); err != nil {
		return nil, gterrors.NewIOError(absPath, err)
	}

	repo, err := git.PlainInitWithOptions(absPath, &git.PlainInitOptions{
		InitOptions: git.InitOptions{
			DefaultBranch: plumbing.NewBranchReferenceName(DefaultBranch),
		},
	})
	if errors.Is(err, git.ErrRepositoryAlreadyExists) {
		return Open(absPath)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to init repository: %w", err)
	}
	return newRepo(repo)
}

// Open opens the repository at path
func Open(path string) (*Repo, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	repo, err := git.PlainOpenWithOptions(absPath, &git.PlainOpenOptions{
		DetectDotGit: false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open repository %s: %w", absPath, err)
	}
	return newRepo(repo)
}

// Root returns the root directory of the working tree
func (r *Repo) Root() string {
	return r.root
}

// GitDir returns the repository metadata directory
func (r *Repo) GitDir() string {
	return r.gitDir
}

// Runner returns the CLI runner rooted at the working tree
func (r *Repo) Runner() *CommandRunner {
	return r.runner
}
