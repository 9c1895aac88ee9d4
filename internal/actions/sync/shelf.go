package sync

import (
	"github.com/christianjann/gittasks/internal/git"
	"github.com/christianjann/gittasks/internal/runtime"
)

// shelve stashes uncommitted work, untracked files included. Any failure
// is a warning: sync proceeds without a shelf.
func shelve(ctx *runtime.Context) bool {
	repo := ctx.Repo
	splog := ctx.Splog

	dirty, err := repo.IsDirty(ctx.Context)
	if err != nil {
		splog.Warn("Could not check for uncommitted changes: %v", err)
		return false
	}
	if !dirty {
		return false
	}

	created, err := repo.StashPush(ctx.Context, repo.SignatureOrDefault(), git.AutoStashMessage)
	if err != nil {
		splog.Warn("Could not stash uncommitted changes, they may be lost: %v", err)
		return false
	}
	if created {
		splog.Debug("Stashed uncommitted changes")
	}
	return created
}

// unshelve reapplies the shelf created by shelve. When the pop fails the
// working tree is reset to fallback so the repository stays clean, and the
// entry is kept in the stash list for manual recovery.
func unshelve(ctx *runtime.Context, stashed bool, fallback string) bool {
	if !stashed {
		return false
	}
	repo := ctx.Repo
	splog := ctx.Splog

	if err := repo.StashPop(ctx.Context); err != nil {
		splog.Warn("Could not reapply uncommitted changes, they are kept in the stash (%q): %v", git.AutoStashMessage, err)
		if resetErr := repo.HardReset(ctx.Context, fallback); resetErr != nil {
			splog.Warn("Could not reset after failed reapply: %v", resetErr)
		}
		return false
	}
	splog.Debug("Reapplied uncommitted changes")
	return true
}
