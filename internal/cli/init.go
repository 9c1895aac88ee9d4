package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/christianjann/gittasks/internal/cli/common"
	"github.com/christianjann/gittasks/internal/session"
)

// newInitCmd creates the init command
func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init [path]",
		Short: "Create an empty notes repository",
		Long: `Create an empty notes repository at path, or at --repo when no path is given.
An existing repository is opened instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := common.GetApp(cmd.Context())
			if err != nil {
				return err
			}
			path := app.RepoPath
			if len(args) == 1 {
				path = args[0]
			}

			sess := session.New(app.Splog)
			if err := initHome(sess); err != nil {
				return err
			}
			if err := sess.Create(cmd.Context(), path); err != nil {
				return err
			}
			defer sess.Close()

			root, err := sess.Root()
			if err != nil {
				return err
			}
			app.Splog.Info("Initialized notes repository in %s", root)
			return nil
		},
	}
}

// initHome prepares the user's git configuration
func initHome(sess *session.Session) error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to find home directory: %w", err)
	}
	return sess.Init(home)
}
