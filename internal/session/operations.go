package session

import (
	"context"

	"github.com/christianjann/gittasks/internal/actions/pull"
	"github.com/christianjann/gittasks/internal/actions/push"
	"github.com/christianjann/gittasks/internal/actions/sync"
	"github.com/christianjann/gittasks/internal/auth"
	"github.com/christianjann/gittasks/internal/git"
	"github.com/christianjann/gittasks/internal/merge"
	"github.com/christianjann/gittasks/internal/runtime"
	"github.com/christianjann/gittasks/internal/sanitize"
)

// CommitAll stages every change and commits it as name <email>. An empty
// name or email falls back to the repository identity. committed is false
// when there was nothing to commit.
func (s *Session) CommitAll(ctx context.Context, name, email, message string) (id string, committed bool, err error) {
	err = s.with(ctx, func(rctx *runtime.Context) error {
		sig := signature(rctx.Repo, name, email)
		hash, ok, err := rctx.Repo.CommitAll(rctx.Context, sig, message)
		if err != nil {
			return err
		}
		if ok {
			id, committed = hash.String(), true
			rctx.Splog.Debug("Committed %s: %s", id, message)
		}
		return nil
	})
	return id, committed, err
}

// Push publishes the current branch
func (s *Session) Push(ctx context.Context, cred auth.Credential) error {
	return s.with(ctx, func(rctx *runtime.Context) error {
		return push.Action(rctx, push.Options{Credential: cred})
	})
}

// Pull fetches and merges the remote branch, authoring any merge commit as name <email>
func (s *Session) Pull(ctx context.Context, cred auth.Credential, name, email string) (*merge.Outcome, error) {
	var outcome *merge.Outcome
	err := s.with(ctx, func(rctx *runtime.Context) error {
		var err error
		outcome, err = pull.Action(rctx, pull.Options{
			Credential: cred,
			Author:     signature(rctx.Repo, name, email),
		})
		return err
	})
	return outcome, err
}

// Sync makes the branch match the remote, keeping uncommitted work
func (s *Session) Sync(ctx context.Context, cred auth.Credential) (*sync.Result, error) {
	var result *sync.Result
	err := s.with(ctx, func(rctx *runtime.Context) error {
		var err error
		result, err = sync.Action(rctx, sync.Options{Credential: cred})
		return err
	})
	return result, err
}

// Cleanup heals interrupted operations and discards tracked changes
func (s *Session) Cleanup(ctx context.Context) (*sanitize.Report, error) {
	var report *sanitize.Report
	err := s.with(ctx, func(rctx *runtime.Context) error {
		var err error
		report, err = sanitize.Run(rctx)
		return err
	})
	return report, err
}

// Status returns the repository states without changing anything
func (s *Session) Status(ctx context.Context) ([]sanitize.State, error) {
	var states []sanitize.State
	err := s.with(ctx, func(rctx *runtime.Context) error {
		var err error
		states, err = sanitize.Inspect(rctx)
		return err
	})
	return states, err
}

// IsDirty reports any uncommitted change, untracked files included
func (s *Session) IsDirty(ctx context.Context) (bool, error) {
	var dirty bool
	err := s.with(ctx, func(rctx *runtime.Context) error {
		var err error
		dirty, err = rctx.Repo.IsDirty(rctx.Context)
		return err
	})
	return dirty, err
}

// LastCommitID returns the id HEAD points at; ok is false for an unborn or
// unreadable HEAD
func (s *Session) LastCommitID(ctx context.Context) (id string, ok bool, err error) {
	err = s.with(ctx, func(rctx *runtime.Context) error {
		hash, born, headErr := rctx.Repo.HeadHash()
		if headErr != nil {
			rctx.Splog.Debug("Cannot read HEAD: %v", headErr)
			return nil
		}
		if born {
			id, ok = hash.String(), true
		}
		return nil
	})
	return id, ok, err
}

// Signature returns the configured identity or the author of HEAD; nil when neither exists
func (s *Session) Signature(ctx context.Context) (*git.Signature, error) {
	var sig *git.Signature
	err := s.with(ctx, func(rctx *runtime.Context) error {
		var sigErr error
		sig, sigErr = rctx.Repo.Signature()
		if sigErr != nil {
			rctx.Splog.Debug("Cannot determine signature: %v", sigErr)
			sig = nil
		}
		return nil
	})
	return sig, err
}

// FileLastModifiedTimes maps every note file in HEAD to the Unix millisecond
// time of the last commit that changed it
func (s *Session) FileLastModifiedTimes(ctx context.Context) (map[string]int64, error) {
	times := map[string]int64{}
	err := s.with(ctx, func(rctx *runtime.Context) error {
		found, walkErr := rctx.Repo.LastModifiedTimes(rctx.Config.IsNoteFile)
		if walkErr != nil {
			rctx.Splog.Debug("Cannot compute modification times: %v", walkErr)
			return nil
		}
		times = found
		return nil
	})
	return times, err
}

// RecentLog returns up to limit commits, newest first
func (s *Session) RecentLog(ctx context.Context, limit int) ([]git.LogEntry, error) {
	entries := []git.LogEntry{}
	err := s.with(ctx, func(rctx *runtime.Context) error {
		found, logErr := rctx.Repo.RecentLog(limit)
		if logErr != nil {
			rctx.Splog.Debug("Cannot read history: %v", logErr)
			return nil
		}
		entries = found
		return nil
	})
	return entries, err
}

func signature(repo *git.Repo, name, email string) git.Signature {
	if name != "" && email != "" {
		return git.Signature{Name: name, Email: email}
	}
	fallback := repo.SignatureOrDefault()
	if name != "" {
		fallback.Name = name
	}
	if email != "" {
		fallback.Email = email
	}
	return fallback
}
