// Package common provides shared helpers for CLI commands.
package common

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/christianjann/gittasks/internal/auth"
	"github.com/christianjann/gittasks/internal/config"
	"github.com/christianjann/gittasks/internal/output"
	"github.com/christianjann/gittasks/internal/session"
)

type appKey struct{}

// App carries what every command needs: the logger, the user configuration
// and the repository path selected with --repo
type App struct {
	Splog    *output.Splog
	User     *config.UserConfig
	RepoPath string
}

// WithApp stores app in ctx
func WithApp(ctx context.Context, app *App) context.Context {
	return context.WithValue(ctx, appKey{}, app)
}

// GetApp returns the App stored by the root command
func GetApp(ctx context.Context) (*App, error) {
	app, ok := ctx.Value(appKey{}).(*App)
	if !ok || app == nil {
		return nil, fmt.Errorf("gittasks is not set up for this command")
	}
	return app, nil
}

// Run opens the repository, hands the session to fn and closes it afterwards
func Run(cmd *cobra.Command, fn func(ctx context.Context, app *App, sess *session.Session) error) error {
	app, err := GetApp(cmd.Context())
	if err != nil {
		return err
	}
	sess := session.New(app.Splog)
	if err := sess.Open(cmd.Context(), app.RepoPath); err != nil {
		return err
	}
	defer sess.Close()
	return fn(cmd.Context(), app, sess)
}

// Credential builds the credential configured by the user. nil means none.
func (a *App) Credential() (auth.Credential, error) {
	u := a.User
	if u.SSHKeyPath != "" {
		private, err := os.ReadFile(u.SSHKeyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read ssh key: %w", err)
		}
		publicPath := u.SSHPublicPath
		if publicPath == "" {
			publicPath = u.SSHKeyPath + ".pub"
		}
		// the public key is optional
		public, _ := os.ReadFile(publicPath)
		return auth.SSHKey{
			Username:   u.Username,
			PrivateKey: string(private),
			PublicKey:  string(public),
			Passphrase: u.SSHPassphrase,
		}, nil
	}
	if u.Username != "" || u.Password != "" {
		return auth.UserPass{Username: u.Username, Password: u.Password}, nil
	}
	return nil, nil
}
