package git

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"

	gterrors "github.com/christianjann/gittasks/internal/errors"
)

// Push pushes branch to the same name on remote. It never forces: a
// rejected update returns ErrNonFastForward. Nothing to push is a success.
func (r *Repo) Push(ctx context.Context, remote, branch string, auth transport.AuthMethod) error {
	url, err := r.RemoteURL(remote)
	if err != nil {
		return err
	}

	ref := plumbing.NewBranchReferenceName(branch)
	refspec := config.RefSpec(fmt.Sprintf("%s:%s", ref, ref))

	err = r.PushContext(ctx, &git.PushOptions{
		RemoteName: remote,
		RefSpecs:   []config.RefSpec{refspec},
		Auth:       auth,
		Force:      false,
	})
	switch {
	case err == nil, errors.Is(err, git.NoErrAlreadyUpToDate):
		return nil
	case isNonFastForward(err):
		return fmt.Errorf("push of %s to %s rejected: %w", branch, remote, gterrors.ErrNonFastForward)
	default:
		return gterrors.NewTransportError("push", url, err)
	}
}

func isNonFastForward(err error) bool {
	if errors.Is(err, git.ErrNonFastForwardUpdate) || errors.Is(err, git.ErrForceNeeded) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "non-fast-forward") || strings.Contains(msg, "fetch first")
}
