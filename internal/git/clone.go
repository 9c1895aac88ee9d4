package git

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"

	gterrors "github.com/christianjann/gittasks/internal/errors"
)

// keepFile is committed into empty clones so the branch has a first commit
const keepFile = ".gitkeep"

// InitialCommitMessage is used for the commit created in an empty clone
const InitialCommitMessage = "Initial commit"

// Clone clones url into path and prepares the default branch. progress, when
// non-nil, receives transfer percentages between 0 and 100.
func Clone(ctx context.Context, path, url string, auth transport.AuthMethod, progress func(int)) (*Repo, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	opts := &git.CloneOptions{
		URL:        url,
		RemoteName: DefaultRemoteName,
		Auth:       auth,
	}
	var pw *progressWriter
	if progress != nil {
		pw = newProgressWriter(progress)
		opts.Progress = pw
	}

	var repo *Repo
	cloned, err := git.PlainCloneContext(ctx, absPath, false, opts)
	switch {
	case err == nil:
		repo, err = newRepo(cloned)
		if err != nil {
			return nil, err
		}
	case errors.Is(err, transport.ErrEmptyRemoteRepository):
		// go-git refuses to clone an empty remote; start fresh and wire the remote
		repo, err = Init(absPath)
		if err != nil {
			return nil, err
		}
		if err := repo.AddRemote(DefaultRemoteName, url); err != nil {
			return nil, err
		}
	default:
		return nil, gterrors.NewTransportError("clone", url, err)
	}

	if err := repo.SetupAfterClone(ctx); err != nil {
		return nil, err
	}
	if pw != nil {
		pw.finish()
	}
	return repo, nil
}

// SetupAfterClone gives an empty repository an initial commit on main and
// makes sure a main or master branch exists otherwise.
func (r *Repo) SetupAfterClone(ctx context.Context) error {
	head, ok, err := r.HeadHash()
	if err != nil {
		return err
	}

	if !ok {
		path := filepath.Join(r.root, keepFile)
		if err := os.WriteFile(path, nil, 0644); err != nil {
			return gterrors.NewIOError(path, err)
		}
		if _, _, err := r.CommitAll(ctx, DefaultSignature, InitialCommitMessage); err != nil {
			return fmt.Errorf("failed to create initial commit: %w", err)
		}
		return nil
	}

	for _, name := range []string{"main", "master"} {
		if _, found, err := r.BranchTip(name); err != nil {
			return err
		} else if found {
			return nil
		}
	}

	ref := plumbing.NewBranchReferenceName(DefaultBranch)
	reason := fmt.Sprintf("Setting %s to %s", DefaultBranch, head)
	if err := r.UpdateRef(ctx, ref, head, plumbing.ZeroHash, reason); err != nil {
		return err
	}
	return r.SetHead(ctx, DefaultBranch)
}

// WriteSafeDirectoryConfig writes <home>/.gitconfig trusting every directory,
// unless the file already exists. Repositories on shared storage are often
// owned by another uid.
func WriteSafeDirectoryConfig(home string) error {
	path := filepath.Join(home, ".gitconfig")
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if err := os.MkdirAll(home, 0750); err != nil {
		return gterrors.NewIOError(home, err)
	}
	if err := os.WriteFile(path, []byte("[safe]\n\tdirectory = *\n"), 0644); err != nil {
		return gterrors.NewIOError(path, err)
	}
	return nil
}
