package git

import (
	"context"
	"fmt"
)

// HardReset resets the current branch, index and working tree to rev
func (r *Repo) HardReset(ctx context.Context, rev string) error {
	_, err := r.runner.Run(ctx, "reset", "--hard", "-q", rev)
	if err != nil {
		return fmt.Errorf("failed to hard reset to %s: %w", rev, err)
	}
	return nil
}
