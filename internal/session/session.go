// Package session exposes the host API: one optional open repository guarded
// by a mutex held for the duration of every operation.
//
// Open, Create and Clone replace the current repository; Close clears it.
// Every other operation on a closed session returns ErrNotInitialized.
package session

import (
	"context"
	gosync "sync"

	"github.com/christianjann/gittasks/internal/auth"
	gterrors "github.com/christianjann/gittasks/internal/errors"
	"github.com/christianjann/gittasks/internal/git"
	"github.com/christianjann/gittasks/internal/output"
	"github.com/christianjann/gittasks/internal/runtime"
	"github.com/christianjann/gittasks/internal/sanitize"
)

// ProgressFunc receives clone progress as a percentage between 0 and 100
type ProgressFunc func(percent int)

// Session owns the open repository
type Session struct {
	mu    gosync.Mutex
	repo  *git.Repo
	splog *output.Splog
}

// New creates a closed session logging to splog
func New(splog *output.Splog) *Session {
	if splog == nil {
		splog = output.Discard()
	}
	return &Session{splog: splog}
}

// Init prepares the git environment rooted at home. It does not open a repository.
func (s *Session) Init(home string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return git.WriteSafeDirectoryConfig(home)
}

// Create initializes a repository at path and opens it
func (s *Session) Create(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	repo, err := git.Init(path)
	if err != nil {
		return err
	}
	s.repo = repo
	s.splog.Debug("Created repository at %s", repo.Root())
	return nil
}

// Open opens the repository at path and heals any interrupted operation
func (s *Session) Open(ctx context.Context, path string) error {
	return s.open(ctx, path, true)
}

// OpenWithoutCleanup opens the repository at path leaving its state untouched
func (s *Session) OpenWithoutCleanup(ctx context.Context, path string) error {
	return s.open(ctx, path, false)
}

func (s *Session) open(ctx context.Context, path string, heal bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	repo, err := git.Open(path)
	if err != nil {
		return err
	}
	s.repo = repo
	if heal {
		s.sanitize(ctx)
	}
	return nil
}

// Clone clones url into path and opens the result
func (s *Session) Clone(ctx context.Context, path, url string, cred auth.Credential, progress ProgressFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	method, err := auth.Method(cred, url)
	if err != nil {
		return gterrors.NewTransportError("clone", url, err)
	}

	repo, err := git.Clone(ctx, path, url, method, progress)
	if err != nil {
		return err
	}
	s.repo = repo
	s.sanitize(ctx)
	return nil
}

// Close forgets the open repository
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.repo = nil
}

// IsOpen reports whether a repository is open
func (s *Session) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repo != nil
}

// Root returns the working tree root of the open repository
func (s *Session) Root() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.repo == nil {
		return "", gterrors.ErrNotInitialized
	}
	return s.repo.Root(), nil
}

// with runs fn under the lock against the open repository
func (s *Session) with(ctx context.Context, fn func(rctx *runtime.Context) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.repo == nil {
		return gterrors.ErrNotInitialized
	}
	return fn(runtime.NewContext(ctx, s.repo, s.splog))
}

// sanitize heals the freshly opened repository. Failures are logged only.
// Callers hold the lock.
func (s *Session) sanitize(ctx context.Context) {
	if _, err := sanitize.Run(runtime.NewContext(ctx, s.repo, s.splog)); err != nil {
		s.splog.Warn("Repository cleanup failed: %v", err)
	}
}
