package autosync

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/christianjann/gittasks/internal/actions"
	"github.com/christianjann/gittasks/internal/auth"
	gterrors "github.com/christianjann/gittasks/internal/errors"
	"github.com/christianjann/gittasks/internal/git"
	"github.com/christianjann/gittasks/internal/merge"
	"github.com/christianjann/gittasks/internal/output"
)

// Repository is the part of a session the syncer drives
type Repository interface {
	CommitAll(ctx context.Context, name, email, message string) (string, bool, error)
	Pull(ctx context.Context, cred auth.Credential, name, email string) (*merge.Outcome, error)
	Push(ctx context.Context, cred auth.Credential) error
}

// Options configures a Syncer
type Options struct {
	Credential auth.Credential
	Author     git.Signature
	// Debounce is the quiet period between the last recorded edit and a flush
	Debounce time.Duration
	// Retries is how many times a failed network step is tried again
	Retries int
	// RetryInterval is the first backoff delay
	RetryInterval time.Duration
	// OnState, when set, receives every state change
	OnState func(State)
	Splog   *output.Splog
}

// Syncer queues edits and flushes them to the remote
type Syncer struct {
	ctx  context.Context
	repo Repository
	opts Options

	mu       sync.Mutex
	messages []string
	state    State

	flushMu  sync.Mutex
	debounce *Debouncer
}

// New creates a Syncer. ctx bounds every background flush.
func New(ctx context.Context, repo Repository, opts Options) *Syncer {
	if opts.Splog == nil {
		opts.Splog = output.Discard()
	}
	if opts.RetryInterval <= 0 {
		opts.RetryInterval = time.Second
	}
	if opts.Retries < 0 {
		opts.Retries = 0
	}

	s := &Syncer{ctx: ctx, repo: repo, opts: opts}
	s.debounce = NewDebouncer(opts.Debounce, func() {
		if err := s.Flush(s.ctx); err != nil {
			s.opts.Splog.Warn("Background sync failed: %v", err)
		}
	})
	return s
}

// Record queues message for the next commit and schedules a flush
func (s *Syncer) Record(message string) {
	s.mu.Lock()
	if n := len(s.messages); n == 0 || s.messages[n-1] != message {
		s.messages = append(s.messages, message)
	}
	s.mu.Unlock()

	s.opts.Splog.Debug("Queued change: %s", message)
	s.debounce.Trigger()
}

// Pending returns the queued messages
func (s *Syncer) Pending() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.messages...)
}

// State returns the last reported state
func (s *Syncer) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Flush commits queued changes, pulls and pushes. Concurrent calls run one at a time.
func (s *Syncer) Flush(ctx context.Context) error {
	s.flushMu.Lock()
	defer s.flushMu.Unlock()

	if err := s.commit(ctx); err != nil {
		return err
	}

	s.setState(Pull)
	if err := s.pull(ctx); err != nil {
		s.setState(Offline)
		return err
	}

	s.setState(Push)
	err := retry(ctx, s.opts.RetryInterval, s.opts.Retries, func() error {
		return s.repo.Push(ctx, s.opts.Credential)
	})
	if errors.Is(err, gterrors.ErrNonFastForward) {
		// someone pushed between our pull and push
		s.opts.Splog.Debug("Push rejected, pulling again")
		if err = s.pull(ctx); err == nil {
			err = s.repo.Push(ctx, s.opts.Credential)
		}
	}
	if err != nil {
		s.setState(Offline)
		return err
	}

	s.setState(Ok)
	return nil
}

// Close cancels a scheduled flush, waits for a running one and flushes
// whatever is still queued
func (s *Syncer) Close(ctx context.Context) error {
	s.debounce.Stop()
	if len(s.Pending()) == 0 {
		return nil
	}
	return s.Flush(ctx)
}

func (s *Syncer) commit(ctx context.Context) error {
	s.mu.Lock()
	messages := s.messages
	s.messages = nil
	s.mu.Unlock()

	if len(messages) == 0 {
		return nil
	}

	message := ConsolidateMessages(messages)
	id, committed, err := s.repo.CommitAll(ctx, s.opts.Author.Name, s.opts.Author.Email, message)
	if err != nil {
		// keep the messages for the next attempt
		s.mu.Lock()
		s.messages = append(messages, s.messages...)
		s.mu.Unlock()
		return err
	}
	if committed {
		s.opts.Splog.Debug("Committed %d queued %s as %s", len(messages), actions.Pluralize("change", len(messages)), id)
	}
	return nil
}

func (s *Syncer) pull(ctx context.Context) error {
	return retry(ctx, s.opts.RetryInterval, s.opts.Retries, func() error {
		_, err := s.repo.Pull(ctx, s.opts.Credential, s.opts.Author.Name, s.opts.Author.Email)
		return err
	})
}

func (s *Syncer) setState(state State) {
	s.mu.Lock()
	changed := s.state != state
	s.state = state
	s.mu.Unlock()

	if changed {
		s.opts.Splog.Debug("Sync state: %s", state)
	}
	if s.opts.OnState != nil {
		s.opts.OnState(state)
	}
}
