// Package merge reconciles a local branch with an incoming commit.
//
// A branch behind the incoming commit is fast-forwarded. Diverged histories
// get a three-way merge whose conflicts are settled per path without user
// input (see Resolve), followed by a two-parent merge commit. A merge that
// cannot be completed leaves the branch at its previous tip.
package merge

import (
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5/plumbing"

	gterrors "github.com/christianjann/gittasks/internal/errors"
	"github.com/christianjann/gittasks/internal/git"
	"github.com/christianjann/gittasks/internal/runtime"
)

// Outcome describes a completed merge
type Outcome struct {
	Analysis Analysis
	// Head is the branch tip after the merge
	Head plumbing.Hash
	// Resolutions lists the automatically settled conflicts of a Normal merge
	Resolutions []Resolution
}

// Merge brings incoming into branch, authoring any merge commit as author
func Merge(ctx *runtime.Context, branch string, incoming plumbing.Hash, author git.Signature) (*Outcome, error) {
	repo := ctx.Repo
	splog := ctx.Splog

	analysis, local, err := Analyze(repo, branch, incoming)
	if err != nil {
		return nil, err
	}
	splog.Debug("Merge analysis for %s against %s: %s", branch, incoming, analysis)

	outcome := &Outcome{Analysis: analysis, Head: local}
	switch analysis {
	case UpToDate:
		return outcome, nil
	case Unborn:
		if incoming.IsZero() {
			return outcome, nil
		}
		reason := fmt.Sprintf("Setting %s to %s", branch, incoming)
		if err := moveBranch(ctx, branch, incoming, plumbing.ZeroHash, reason); err != nil {
			return nil, err
		}
		outcome.Head = incoming
		return outcome, nil
	case FastForwardable:
		ref := plumbing.NewBranchReferenceName(branch)
		reason := fmt.Sprintf("Fast-Forward: Setting %s to id: %s", ref, incoming)
		if err := moveBranch(ctx, branch, incoming, local, reason); err != nil {
			return nil, err
		}
		splog.Debug("Fast-forwarded %s to %s", branch, incoming)
		outcome.Head = incoming
		return outcome, nil
	}

	head, resolutions, err := threeWay(ctx, branch, local, incoming, author)
	if err != nil {
		return nil, err
	}
	outcome.Head = head
	outcome.Resolutions = resolutions
	return outcome, nil
}

// moveBranch points branch at target, attaches HEAD and checks it out
func moveBranch(ctx *runtime.Context, branch string, target, expected plumbing.Hash, reason string) error {
	repo := ctx.Repo
	if err := repo.UpdateRef(ctx.Context, plumbing.NewBranchReferenceName(branch), target, expected, reason); err != nil {
		return err
	}
	if err := repo.SetHead(ctx.Context, branch); err != nil {
		return err
	}
	return repo.HardReset(ctx.Context, target.String())
}

func threeWay(ctx *runtime.Context, branch string, local, incoming plumbing.Hash, author git.Signature) (plumbing.Hash, []Resolution, error) {
	repo := ctx.Repo
	splog := ctx.Splog

	if err := repo.SetHead(ctx.Context, branch); err != nil {
		return plumbing.ZeroHash, nil, err
	}
	dirty, err := repo.HasTrackedChanges(ctx.Context)
	if err != nil {
		return plumbing.ZeroHash, nil, err
	}
	if dirty {
		splog.Warn("Discarding uncommitted changes to tracked files before merging")
		if err := repo.HardReset(ctx.Context, local.String()); err != nil {
			return plumbing.ZeroHash, nil, err
		}
	}

	if err := clearUntracked(ctx, local, incoming); err != nil {
		return plumbing.ZeroHash, nil, err
	}

	if mergeErr := repo.MergeNoCommit(ctx.Context, author, incoming); mergeErr != nil {
		conflicted, err := repo.HasConflicts(ctx.Context)
		if err != nil || !conflicted {
			abort(ctx, local)
			return plumbing.ZeroHash, nil, gterrors.NewConflictError(nil, mergeErr)
		}
	}

	resolutions, err := settleConflicts(ctx)
	if err != nil {
		abort(ctx, local)
		return plumbing.ZeroHash, nil, err
	}

	tree, err := repo.WriteTree(ctx.Context)
	if err != nil {
		abort(ctx, local)
		return plumbing.ZeroHash, nil, err
	}
	commit, err := repo.CreateCommit(tree, []plumbing.Hash{local, incoming}, author, git.MergeMessage(incoming, local))
	if err != nil {
		abort(ctx, local)
		return plumbing.ZeroHash, nil, err
	}

	reason := fmt.Sprintf("merge %s: Merge made by gittasks", incoming)
	if err := repo.UpdateRef(ctx.Context, plumbing.NewBranchReferenceName(branch), commit, local, reason); err != nil {
		abort(ctx, local)
		return plumbing.ZeroHash, nil, err
	}
	if err := repo.HardReset(ctx.Context, commit.String()); err != nil {
		return plumbing.ZeroHash, nil, err
	}
	if err := repo.RemoveMarkers(git.MergeMarkers); err != nil {
		splog.Warn("Could not remove merge markers: %v", err)
	}

	splog.Debug("Merged %s into %s as %s (%d conflicts resolved)", incoming, local, commit, len(resolutions))
	return commit, resolutions, nil
}

// clearUntracked removes untracked files that incoming would overwrite, the
// same way the fast-forward checkout replaces them
func clearUntracked(ctx *runtime.Context, local, incoming plumbing.Hash) error {
	repo := ctx.Repo
	added, err := repo.AddedPaths(ctx.Context, local, incoming)
	if err != nil {
		return err
	}
	removed, err := repo.RemoveUntracked(ctx.Context, added)
	for _, p := range removed {
		ctx.Splog.Warn("Replacing untracked %s with the incoming version", p)
	}
	return err
}

// settleConflicts resolves every unmerged path and verifies the index is
// conflict free afterwards
func settleConflicts(ctx *runtime.Context) ([]Resolution, error) {
	repo := ctx.Repo

	entries, err := repo.Conflicts(ctx.Context)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}

	resolutions := Resolve(entries)
	logResolutions(ctx, resolutions)

	if err := apply(ctx, resolutions); err != nil {
		return nil, gterrors.NewConflictError(conflictPaths(entries), err)
	}

	// `add -A` would silently stage leftover conflicts, so check first
	if err := verifyResolved(ctx); err != nil {
		return nil, err
	}
	if err := repo.StageAll(ctx.Context); err != nil {
		return nil, err
	}
	if err := verifyResolved(ctx); err != nil {
		return nil, err
	}
	return resolutions, nil
}

// apply materializes all resolutions, then stages them in one batch
func apply(ctx *runtime.Context, resolutions []Resolution) error {
	repo := ctx.Repo

	var written, removed []string
	for _, r := range resolutions {
		if r.Source == nil {
			removed = append(removed, r.Path)
			continue
		}
		if err := repo.WriteSide(r.Source); err != nil {
			return err
		}
		written = append(written, r.Path)
	}

	if err := repo.StagePaths(ctx.Context, written...); err != nil {
		return err
	}
	return repo.RemoveFromIndex(ctx.Context, removed...)
}

func verifyResolved(ctx *runtime.Context) error {
	remaining, err := ctx.Repo.Conflicts(ctx.Context)
	if err != nil {
		return err
	}
	if len(remaining) > 0 {
		return gterrors.NewConflictError(conflictPaths(remaining), nil)
	}
	return nil
}

// abort returns the branch to its pre-merge tip. Failures are logged; the
// original error is what the caller reports.
func abort(ctx *runtime.Context, local plumbing.Hash) {
	repo := ctx.Repo
	err := errors.Join(
		repo.HardReset(ctx.Context, local.String()),
		repo.RemoveMarkers(git.MergeMarkers),
	)
	if err != nil {
		ctx.Splog.Warn("Could not roll back merge to %s: %v", local, err)
		return
	}
	ctx.Splog.Debug("Rolled back merge to %s", local)
}

func conflictPaths(entries []git.ConflictEntry) []string {
	paths := make([]string, len(entries))
	for i, e := range entries {
		paths[i] = e.Path
	}
	return paths
}
