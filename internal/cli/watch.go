package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/christianjann/gittasks/internal/autosync"
	"github.com/christianjann/gittasks/internal/cli/common"
	"github.com/christianjann/gittasks/internal/config"
	"github.com/christianjann/gittasks/internal/git"
	"github.com/christianjann/gittasks/internal/output"
	"github.com/christianjann/gittasks/internal/session"
)

// newWatchCmd creates the watch command
func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Commit and synchronize edits in the background",
		Long: `Watch the working tree. Edits are committed after a quiet period, then pulled
and pushed. Network failures are retried with exponential backoff. Stop with Ctrl-C;
pending edits are flushed before exiting.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return common.Run(cmd, func(_ context.Context, app *common.App, sess *session.Session) error {
				return watch(ctx, app, sess)
			})
		},
	}
}

func watch(ctx context.Context, app *common.App, sess *session.Session) error {
	root, err := sess.Root()
	if err != nil {
		return err
	}
	cfg, err := config.GetRepoConfig(root)
	if err != nil {
		return err
	}
	cred, err := app.Credential()
	if err != nil {
		return err
	}

	syncer := autosync.New(ctx, sess, autosync.Options{
		Credential: cred,
		Author:     git.Signature{Name: app.User.AuthorName, Email: app.User.AuthorEmail},
		Debounce:   cfg.AutosyncDebounce(),
		Retries:    cfg.Retries(),
		OnState: func(state autosync.State) {
			switch state {
			case autosync.Ok:
				app.Splog.Info("%s", output.ColorGreen("● synced"))
			case autosync.Offline:
				app.Splog.Info("%s", output.ColorRed("● offline"))
			default:
				app.Splog.Debug("● %s", state)
			}
		},
		Splog: app.Splog,
	})

	watcher, err := autosync.NewWatcher(root, app.Splog)
	if err != nil {
		return err
	}
	defer watcher.Close()

	// catch up with the remote before reacting to edits
	if err := syncer.Flush(ctx); err != nil {
		app.Splog.Warn("Initial sync failed: %v", err)
	}

	app.Splog.Info("Watching %s", root)
	err = watcher.Run(ctx, func(c autosync.Change) {
		syncer.Record(c.Message())
	})

	// flush with a fresh context, the watch context is already cancelled
	if closeErr := syncer.Close(context.WithoutCancel(ctx)); closeErr != nil {
		app.Splog.Warn("Final sync failed: %v", closeErr)
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
