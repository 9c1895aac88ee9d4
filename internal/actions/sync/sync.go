// Package sync makes the local branch match the remote exactly.
//
// Uncommitted work is shelved before anything touches the network and
// reapplied after the branch has been reset to the fetched remote tip.
// Local commits that the remote does not have are discarded; sync never merges.
package sync

import (
	"errors"
	"fmt"

	"github.com/christianjann/gittasks/internal/actions"
	"github.com/christianjann/gittasks/internal/auth"
	gterrors "github.com/christianjann/gittasks/internal/errors"
	"github.com/christianjann/gittasks/internal/git"
	"github.com/christianjann/gittasks/internal/output"
	"github.com/christianjann/gittasks/internal/runtime"
)

// attachHead points HEAD at the branch after the reset; replaced in tests
var attachHead = (*git.Repo).SetHead

// Options contains options for the sync operation
type Options struct {
	Credential auth.Credential
}

// Result describes what happened to uncommitted work during a sync
type Result struct {
	// Stashed reports that uncommitted work was shelved before fetching
	Stashed bool
	// StashReapplied reports that the shelved work is back in the working tree.
	// When Stashed is true and this is false the work stays in the stash list.
	StashReapplied bool
	// RemoteMissing reports that the remote has no such branch yet
	RemoteMissing bool
}

// Action performs the sync operation
func Action(ctx *runtime.Context, opts Options) (*Result, error) {
	repo := ctx.Repo
	splog := ctx.Splog
	remote := ctx.Remote()
	result := &Result{}

	branch, err := repo.CurrentBranch()
	if err != nil {
		return nil, err
	}
	if _, ok, err := repo.BranchTip(branch); err != nil {
		return nil, err
	} else if !ok {
		return nil, fmt.Errorf("%w: branch %s has no commits yet", gterrors.ErrInvalidState, branch)
	}

	method, err := actions.Transport(ctx, "fetch", opts.Credential, false)
	if err != nil {
		return nil, err
	}

	result.Stashed = shelve(ctx)

	splog.Info("Fetching %s from %s...", branch, remote)
	if err := repo.Fetch(ctx.Context, remote, branch, method); err != nil {
		if errors.Is(err, git.ErrRemoteBranchMissing) {
			splog.Info("%s has no branch %s yet, nothing to sync.", remote, branch)
			result.RemoteMissing = true
			result.StashReapplied = unshelve(ctx, result.Stashed, "HEAD")
			return result, nil
		}
		result.StashReapplied = unshelve(ctx, result.Stashed, "HEAD")
		return result, err
	}

	target := fmt.Sprintf("refs/remotes/%s/%s", remote, branch)
	if err := repo.HardReset(ctx.Context, target); err != nil {
		result.StashReapplied = unshelve(ctx, result.Stashed, "HEAD")
		return result, err
	}
	if err := attachHead(repo, ctx.Context, branch); err != nil {
		result.StashReapplied = unshelve(ctx, result.Stashed, target)
		return result, err
	}

	tip, _, err := repo.RemoteTrackingTip(remote, branch)
	if err != nil {
		splog.Debug("Could not read %s: %v", target, err)
	}
	splog.Info("%s set to %s.", branch, output.ColorCommitID(tip.String()))

	result.StashReapplied = unshelve(ctx, result.Stashed, target)
	return result, nil
}
