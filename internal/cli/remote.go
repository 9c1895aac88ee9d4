package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/christianjann/gittasks/internal/cli/common"
	"github.com/christianjann/gittasks/internal/merge"
	"github.com/christianjann/gittasks/internal/output"
	"github.com/christianjann/gittasks/internal/session"
)

// newPushCmd creates the push command
func newPushCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "push",
		Short: "Publish the current branch to the remote",
		Long: `Publish the current branch to the remote. The push is never forced: when
the remote has commits this copy does not, run pull first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return common.Run(cmd, func(ctx context.Context, app *common.App, sess *session.Session) error {
				cred, err := app.Credential()
				if err != nil {
					return err
				}
				if err := sess.Push(ctx, cred); err != nil {
					return err
				}
				app.Splog.Info("Pushed.")
				return nil
			})
		},
	}
}

// newPullCmd creates the pull command
func newPullCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pull",
		Short: "Fetch the remote branch and merge it",
		Long: `Fetch the remote branch and merge it into the current branch. Conflicting
files are resolved automatically, keeping the local version when both sides
changed a file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return common.Run(cmd, func(ctx context.Context, app *common.App, sess *session.Session) error {
				cred, err := app.Credential()
				if err != nil {
					return err
				}
				outcome, err := sess.Pull(ctx, cred, app.User.AuthorName, app.User.AuthorEmail)
				if err != nil {
					return err
				}
				printOutcome(app, outcome)
				return nil
			})
		},
	}
}

// newSyncCmd creates the sync command
func newSyncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Make the current branch match the remote",
		Long: `Make the current branch match the remote exactly. Uncommitted changes are
stashed and reapplied on top; local commits that were never pushed are dropped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return common.Run(cmd, func(ctx context.Context, app *common.App, sess *session.Session) error {
				cred, err := app.Credential()
				if err != nil {
					return err
				}
				result, err := sess.Sync(ctx, cred)
				if err != nil {
					return err
				}
				switch {
				case result.RemoteMissing:
					app.Splog.Info("The remote branch does not exist yet.")
				case result.Stashed && !result.StashReapplied:
					app.Splog.Warn("Synced, but local changes could not be reapplied. They are kept in the stash.")
				default:
					app.Splog.Info("Synced.")
				}
				return nil
			})
		},
	}
}

func printOutcome(app *common.App, outcome *merge.Outcome) {
	if outcome == nil {
		app.Splog.Info("The remote branch does not exist yet.")
		return
	}
	switch outcome.Analysis {
	case merge.UpToDate:
		app.Splog.Info("Already up to date.")
	case merge.FastForwardable, merge.Unborn:
		app.Splog.Info("Fast-forwarded to %s.", output.ColorCommitID(outcome.Head.String()))
	default:
		app.Splog.Info("Merged into %s.", output.ColorCommitID(outcome.Head.String()))
		for _, r := range outcome.Resolutions {
			app.Splog.Info("  %s %s", output.ColorYellow(r.Side.String()), r.Path)
		}
	}
}
