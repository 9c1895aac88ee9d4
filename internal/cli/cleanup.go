package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/christianjann/gittasks/internal/actions"
	"github.com/christianjann/gittasks/internal/cli/common"
	"github.com/christianjann/gittasks/internal/output"
	"github.com/christianjann/gittasks/internal/sanitize"
	"github.com/christianjann/gittasks/internal/session"
)

// newCleanupCmd creates the cleanup command
func newCleanupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup",
		Short: "Abort interrupted operations and discard uncommitted tracked changes",
		Long: `Abort any interrupted merge, rebase, cherry-pick or revert, clear index
conflicts and discard changes to tracked files. Untracked files are kept.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return common.Run(cmd, func(ctx context.Context, app *common.App, sess *session.Session) error {
				report, err := sess.Cleanup(ctx)
				if err != nil {
					return err
				}
				if report.Clean() {
					app.Splog.Info("Nothing to clean up.")
					return nil
				}
				app.Splog.Info("Healed %d %s: %s", len(report.Healed), actions.Pluralize("problem", len(report.Healed)), joinStates(report.Healed))
				for state, failure := range report.Failures {
					app.Splog.Warn("Could not heal %s: %v", state, failure)
				}
				return nil
			})
		},
	}
}

// newStatusCmd creates the status command
func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the repository state without changing anything",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := common.GetApp(cmd.Context())
			if err != nil {
				return err
			}
			// opening a session would heal the repository first
			return statusOf(cmd.Context(), app)
		},
	}
}

func statusOf(ctx context.Context, app *common.App) error {
	quiet := session.New(output.Discard())
	if err := quiet.OpenWithoutCleanup(ctx, app.RepoPath); err != nil {
		return err
	}
	defer quiet.Close()

	states, err := quiet.Status(ctx)
	if err != nil {
		return err
	}
	id, ok, err := quiet.LastCommitID(ctx)
	if err != nil {
		return err
	}

	if ok {
		app.Splog.Info("HEAD   %s", output.ColorCommitID(id))
	} else {
		app.Splog.Info("HEAD   %s", output.ColorDim("(no commits yet)"))
	}
	label := joinStates(states)
	if len(states) == 1 && states[0] == sanitize.Clean {
		label = output.ColorGreen(label)
	} else {
		label = output.ColorYellow(label)
	}
	app.Splog.Info("State  %s", label)
	return nil
}

func joinStates(states []sanitize.State) string {
	names := make([]string, len(states))
	for i, s := range states {
		names[i] = s.String()
	}
	return strings.Join(names, ", ")
}
