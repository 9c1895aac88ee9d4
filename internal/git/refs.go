package git

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5/plumbing"

	gterrors "github.com/christianjann/gittasks/internal/errors"
)

// CurrentBranch returns the branch HEAD points at. The branch may be unborn.
func (r *Repo) CurrentBranch() (string, error) {
	ref, err := r.Storer.Reference(plumbing.HEAD)
	if err != nil {
		return "", fmt.Errorf("%w: cannot read HEAD: %v", gterrors.ErrInvalidState, err)
	}
	if ref.Type() != plumbing.SymbolicReference || !ref.Target().IsBranch() {
		return "", fmt.Errorf("%w: HEAD is detached", gterrors.ErrInvalidState)
	}
	return ref.Target().Short(), nil
}

// HeadHash returns the commit HEAD resolves to. ok is false for an unborn HEAD.
func (r *Repo) HeadHash() (plumbing.Hash, bool, error) {
	ref, err := r.Head()
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return plumbing.ZeroHash, false, nil
	}
	if err != nil {
		return plumbing.ZeroHash, false, fmt.Errorf("%w: cannot resolve HEAD: %v", gterrors.ErrInvalidState, err)
	}
	return ref.Hash(), true, nil
}

// BranchTip returns the commit a local branch points at
func (r *Repo) BranchTip(branch string) (plumbing.Hash, bool, error) {
	return r.resolve(plumbing.NewBranchReferenceName(branch))
}

// RemoteTrackingTip returns the commit refs/remotes/<remote>/<branch> points at
func (r *Repo) RemoteTrackingTip(remote, branch string) (plumbing.Hash, bool, error) {
	return r.resolve(plumbing.NewRemoteReferenceName(remote, branch))
}

func (r *Repo) resolve(name plumbing.ReferenceName) (plumbing.Hash, bool, error) {
	ref, err := r.Reference(name, true)
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return plumbing.ZeroHash, false, nil
	}
	if err != nil {
		return plumbing.ZeroHash, false, fmt.Errorf("failed to resolve %s: %w", name, err)
	}
	return ref.Hash(), true, nil
}

// IsAncestor checks if ancestor is reachable from descendant. A commit is its own ancestor.
func (r *Repo) IsAncestor(ancestor, descendant plumbing.Hash) (bool, error) {
	if ancestor == descendant {
		return true, nil
	}

	ancestorCommit, err := r.CommitObject(ancestor)
	if err != nil {
		return false, fmt.Errorf("failed to get commit %s: %w", ancestor, err)
	}
	descendantCommit, err := r.CommitObject(descendant)
	if err != nil {
		return false, fmt.Errorf("failed to get commit %s: %w", descendant, err)
	}

	return ancestorCommit.IsAncestor(descendantCommit)
}

// UpdateRef points ref at newID, recording reason in the reflog. A non-zero
// oldID makes the update fail if ref moved in the meantime.
func (r *Repo) UpdateRef(ctx context.Context, ref plumbing.ReferenceName, newID, oldID plumbing.Hash, reason string) error {
	args := []string{"update-ref", "-m", reason, ref.String(), newID.String()}
	if !oldID.IsZero() {
		args = append(args, oldID.String())
	}
	if _, err := r.runner.Run(ctx, args...); err != nil {
		return fmt.Errorf("failed to update %s: %w", ref, err)
	}
	return nil
}

// SetHead attaches HEAD to a local branch
func (r *Repo) SetHead(ctx context.Context, branch string) error {
	ref := plumbing.NewBranchReferenceName(branch)
	if _, err := r.runner.Run(ctx, "symbolic-ref", "HEAD", ref.String()); err != nil {
		return fmt.Errorf("failed to set HEAD to %s: %w", ref, err)
	}
	return nil
}
