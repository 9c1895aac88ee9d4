// Package pull brings remote commits into the current branch while keeping
// unpushed local commits, fast-forwarding when possible and merging otherwise.
package pull

import (
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"

	"github.com/christianjann/gittasks/internal/actions"
	"github.com/christianjann/gittasks/internal/auth"
	gterrors "github.com/christianjann/gittasks/internal/errors"
	"github.com/christianjann/gittasks/internal/git"
	"github.com/christianjann/gittasks/internal/merge"
	"github.com/christianjann/gittasks/internal/output"
	"github.com/christianjann/gittasks/internal/runtime"
)

// Options contains options for the pull operation
type Options struct {
	Credential auth.Credential
	// Author signs the merge commit, if one is needed
	Author git.Signature
}

// Action performs the pull operation. A nil outcome with a nil error means
// the remote does not have the branch yet.
func Action(ctx *runtime.Context, opts Options) (*merge.Outcome, error) {
	repo := ctx.Repo
	splog := ctx.Splog

	branch, err := repo.CurrentBranch()
	if err != nil {
		return nil, err
	}

	method, err := actions.Transport(ctx, "fetch", opts.Credential, false)
	if err != nil {
		return nil, err
	}

	if err := repo.RemoveFetchHead(); err != nil {
		splog.Debug("Could not remove stale FETCH_HEAD: %v", err)
	}

	incoming, err := fetchHead(ctx, branch, method)
	if errors.Is(err, git.ErrRemoteBranchMissing) {
		splog.Info("%s has no branch %s yet, nothing to pull.", ctx.Remote(), branch)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	author := opts.Author
	if author.Name == "" || author.Email == "" {
		author = repo.SignatureOrDefault()
	}

	outcome, err := merge.Merge(ctx, branch, incoming, author)
	if err != nil {
		return nil, err
	}

	switch outcome.Analysis {
	case merge.UpToDate:
		splog.Info("%s is up to date.", branch)
	case merge.FastForwardable, merge.Unborn:
		splog.Info("%s fast-forwarded to %s.", branch, output.ColorCommitID(outcome.Head.String()))
	case merge.Normal:
		splog.Info("Merged %s into %s (%d %s resolved automatically).",
			output.ColorCommitID(incoming.String()), branch,
			len(outcome.Resolutions), actions.Pluralize("conflict", len(outcome.Resolutions)))
	}
	return outcome, nil
}

// fetchHead fetches branch and resolves FETCH_HEAD, refetching exactly once
// when the marker is missing or unreadable
func fetchHead(ctx *runtime.Context, branch string, method transport.AuthMethod) (plumbing.Hash, error) {
	repo := ctx.Repo
	splog := ctx.Splog
	remote := ctx.Remote()

	for attempt := 1; attempt <= 2; attempt++ {
		splog.Info("Fetching %s from %s...", branch, remote)
		if err := repo.Fetch(ctx.Context, remote, branch, method); err != nil {
			return plumbing.ZeroHash, err
		}

		id, ok, err := repo.FetchHead()
		if err == nil && ok {
			return id, nil
		}
		splog.Warn("FETCH_HEAD missing or unreadable after fetch (attempt %d)", attempt)
		if err := repo.RemoveFetchHead(); err != nil {
			splog.Debug("Could not remove FETCH_HEAD: %v", err)
		}
	}
	return plumbing.ZeroHash, fmt.Errorf("%w: FETCH_HEAD unreadable after refetch", gterrors.ErrInvalidState)
}
