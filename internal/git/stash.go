package git

import (
	"context"
	"fmt"
)

// AutoStashMessage labels the shelf sync creates for uncommitted work
const AutoStashMessage = "Auto-stash before sync"

// StashPush shelves tracked and untracked changes. created reports whether a
// stash entry was actually recorded.
func (r *Repo) StashPush(ctx context.Context, sig Signature, message string) (bool, error) {
	before := r.stashTop(ctx)

	args := []string{"stash", "push", "-u"}
	if message != "" {
		args = append(args, "-m", message)
	}
	if _, err := r.runner.WithEnv(sig.env()...).Run(ctx, args...); err != nil {
		return false, fmt.Errorf("stash push failed: %w", err)
	}

	after := r.stashTop(ctx)
	return after != "" && after != before, nil
}

// StashPop reapplies the most recent stash and drops it on success.
// On a conflicting pop git keeps the entry in the stash list.
func (r *Repo) StashPop(ctx context.Context) error {
	if _, err := r.runner.Run(ctx, "stash", "pop"); err != nil {
		return fmt.Errorf("stash pop failed: %w", err)
	}
	return nil
}

// StashCount returns the number of entries in the stash list
func (r *Repo) StashCount(ctx context.Context) (int, error) {
	lines, err := r.runner.RunLines(ctx, "stash", "list")
	if err != nil {
		return 0, fmt.Errorf("stash list failed: %w", err)
	}
	return len(lines), nil
}

func (r *Repo) stashTop(ctx context.Context) string {
	out, err := r.runner.Run(ctx, "rev-parse", "-q", "--verify", "refs/stash")
	if err != nil {
		return ""
	}
	return out
}
