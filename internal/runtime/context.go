// Package runtime provides a context type that holds the open repository and
// logger for use throughout the application. This avoids passing multiple parameters.
package runtime

import (
	"context"

	"github.com/christianjann/gittasks/internal/config"
	"github.com/christianjann/gittasks/internal/git"
	"github.com/christianjann/gittasks/internal/output"
)

// Context provides access to the repository and output for operations
type Context struct {
	Context context.Context
	Repo    *git.Repo
	Splog   *output.Splog
	Config  *config.RepoConfig
}

// NewContext creates a new context for repo. The repository configuration is
// loaded from disk, falling back to defaults when it cannot be read.
func NewContext(ctx context.Context, repo *git.Repo, splog *output.Splog) *Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if splog == nil {
		splog = output.Discard()
	}

	cfg, err := config.GetRepoConfig(repo.Root())
	if err != nil {
		splog.Warn("Ignoring unreadable repository config: %v", err)
		cfg = &config.RepoConfig{}
	}

	return &Context{
		Context: ctx,
		Repo:    repo,
		Splog:   splog,
		Config:  cfg,
	}
}

// RepoRoot returns the working tree root of the open repository
func (c *Context) RepoRoot() string {
	return c.Repo.Root()
}

// Remote returns the name of the remote to synchronize with
func (c *Context) Remote() string {
	return c.Config.RemoteName()
}
