// Package push publishes the current branch to the remote. It never forces:
// a remote that moved on must be pulled or synced first.
package push

import (
	"fmt"

	"github.com/christianjann/gittasks/internal/actions"
	"github.com/christianjann/gittasks/internal/auth"
	gterrors "github.com/christianjann/gittasks/internal/errors"
	"github.com/christianjann/gittasks/internal/runtime"
)

// Options contains options for the push operation
type Options struct {
	Credential auth.Credential
}

// Action performs the push operation
func Action(ctx *runtime.Context, opts Options) error {
	repo := ctx.Repo
	splog := ctx.Splog
	remote := ctx.Remote()

	branch, err := repo.CurrentBranch()
	if err != nil {
		return err
	}
	if _, ok, err := repo.BranchTip(branch); err != nil {
		return err
	} else if !ok {
		return fmt.Errorf("%w: branch %s has no commits to push", gterrors.ErrInvalidState, branch)
	}

	method, err := actions.Transport(ctx, "push", opts.Credential, true)
	if err != nil {
		return err
	}

	splog.Info("Pushing %s to %s...", branch, remote)
	if err := repo.Push(ctx.Context, remote, branch, method); err != nil {
		return err
	}
	splog.Info("Pushed %s.", branch)
	return nil
}
