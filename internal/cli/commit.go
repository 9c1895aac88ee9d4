package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/christianjann/gittasks/internal/cli/common"
	"github.com/christianjann/gittasks/internal/output"
	"github.com/christianjann/gittasks/internal/session"
)

// newCommitCmd creates the commit command
func newCommitCmd() *cobra.Command {
	var message string

	cmd := &cobra.Command{
		Use:   "commit",
		Short: "Commit every change in the working tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return common.Run(cmd, func(ctx context.Context, app *common.App, sess *session.Session) error {
				id, committed, err := sess.CommitAll(ctx, app.User.AuthorName, app.User.AuthorEmail, message)
				if err != nil {
					return err
				}
				if !committed {
					app.Splog.Info("Nothing to commit.")
					return nil
				}
				app.Splog.Info("Committed %s", output.ColorCommitID(id))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "gittasks changes", "Commit message")

	return cmd
}
