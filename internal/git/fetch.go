package git

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"

	gterrors "github.com/christianjann/gittasks/internal/errors"
)

// fetchHeadFile is the marker pull merges from
const fetchHeadFile = "FETCH_HEAD"

// ErrRemoteBranchMissing indicates the remote does not have the requested branch
var ErrRemoteBranchMissing = errors.New("remote branch not found")

// Fetch downloads branch from remote into refs/remotes/<remote>/<branch> and
// records it in FETCH_HEAD. An up to date fetch is a success.
func (r *Repo) Fetch(ctx context.Context, remote, branch string, auth transport.AuthMethod) error {
	url, err := r.RemoteURL(remote)
	if err != nil {
		return err
	}

	tracking := plumbing.NewRemoteReferenceName(remote, branch)
	refspec := config.RefSpec(fmt.Sprintf("+%s:%s", plumbing.NewBranchReferenceName(branch), tracking))

	err = r.FetchContext(ctx, &git.FetchOptions{
		RemoteName: remote,
		RefSpecs:   []config.RefSpec{refspec},
		Auth:       auth,
		Tags:       git.NoTags,
	})
	switch {
	case err == nil, errors.Is(err, git.NoErrAlreadyUpToDate):
	case isMissingRemoteBranch(err):
		return fmt.Errorf("%w: %s/%s", ErrRemoteBranchMissing, remote, branch)
	default:
		return gterrors.NewTransportError("fetch", url, err)
	}

	tip, ok, err := r.RemoteTrackingTip(remote, branch)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s/%s", ErrRemoteBranchMissing, remote, branch)
	}
	return r.writeFetchHead(tip, branch, url)
}

func isMissingRemoteBranch(err error) bool {
	var noMatch git.NoMatchingRefSpecError
	return errors.As(err, &noMatch) ||
		errors.Is(err, transport.ErrEmptyRemoteRepository) ||
		errors.Is(err, plumbing.ErrReferenceNotFound)
}

func (r *Repo) writeFetchHead(tip plumbing.Hash, branch, url string) error {
	path := filepath.Join(r.gitDir, fetchHeadFile)
	line := fmt.Sprintf("%s\t\tbranch '%s' of %s\n", tip, branch, url)
	if err := os.WriteFile(path, []byte(line), 0644); err != nil {
		return gterrors.NewIOError(path, err)
	}
	return nil
}

// FetchHead returns the first commit recorded in FETCH_HEAD. ok is false when
// the file is missing or holds no usable entry.
func (r *Repo) FetchHead() (plumbing.Hash, bool, error) {
	path := filepath.Join(r.gitDir, fetchHeadFile)
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return plumbing.ZeroHash, false, nil
	}
	if err != nil {
		return plumbing.ZeroHash, false, gterrors.NewIOError(path, err)
	}
	defer func() { _ = f.Close() }()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		id, rest, _ := strings.Cut(scanner.Text(), "\t")
		// entries marked not-for-merge are skipped
		if strings.HasPrefix(rest, "not-for-merge") || !plumbing.IsHash(id) {
			continue
		}
		hash := plumbing.NewHash(id)
		if _, err := r.CommitObject(hash); err != nil {
			return plumbing.ZeroHash, false, nil
		}
		return hash, true, nil
	}
	if err := scanner.Err(); err != nil {
		return plumbing.ZeroHash, false, gterrors.NewIOError(path, err)
	}
	return plumbing.ZeroHash, false, nil
}

// RemoveFetchHead deletes FETCH_HEAD if present
func (r *Repo) RemoveFetchHead() error {
	path := filepath.Join(r.gitDir, fetchHeadFile)
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return gterrors.NewIOError(path, err)
	}
	return nil
}
