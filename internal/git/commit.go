package git

import (
	"context"
	"fmt"
	"time"

	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Signature identifies an author or committer
type Signature struct {
	Name  string
	Email string
}

// DefaultSignature signs commits gittasks makes on its own behalf
var DefaultSignature = Signature{Name: "gittasks", Email: "gittasks@localhost"}

func (s Signature) env() []string {
	return []string{
		"GIT_AUTHOR_NAME=" + s.Name,
		"GIT_AUTHOR_EMAIL=" + s.Email,
		"GIT_COMMITTER_NAME=" + s.Name,
		"GIT_COMMITTER_EMAIL=" + s.Email,
	}
}

func (s Signature) object(when time.Time) object.Signature {
	return object.Signature{Name: s.Name, Email: s.Email, When: when}
}

// CommitAll stages every change, untracked files included, and commits it.
// committed is false when there was nothing to commit.
func (r *Repo) CommitAll(ctx context.Context, sig Signature, message string) (plumbing.Hash, bool, error) {
	if err := r.StageAll(ctx); err != nil {
		return plumbing.ZeroHash, false, err
	}

	staged, err := r.HasStagedChanges(ctx)
	if err != nil {
		return plumbing.ZeroHash, false, err
	}
	if !staged {
		return plumbing.ZeroHash, false, nil
	}

	args := []string{"commit", "-q", "--no-verify", "--allow-empty-message", "-m", message}
	if _, err := r.runner.WithEnv(sig.env()...).Run(ctx, args...); err != nil {
		return plumbing.ZeroHash, false, fmt.Errorf("failed to commit: %w", err)
	}

	head, _, err := r.HeadHash()
	if err != nil {
		return plumbing.ZeroHash, false, err
	}
	return head, true, nil
}

// CreateCommit writes a commit object for tree with the given parents.
// Author and committer are both sig, timestamped now. No ref is moved.
func (r *Repo) CreateCommit(tree plumbing.Hash, parents []plumbing.Hash, sig Signature, message string) (plumbing.Hash, error) {
	when := time.Now()
	commit := &object.Commit{
		Author:       sig.object(when),
		Committer:    sig.object(when),
		Message:      message,
		TreeHash:     tree,
		ParentHashes: parents,
	}

	obj := r.Storer.NewEncodedObject()
	if err := commit.Encode(obj); err != nil {
		return plumbing.ZeroHash, fmt.Errorf("failed to encode commit: %w", err)
	}
	hash, err := r.Storer.SetEncodedObject(obj)
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("failed to store commit: %w", err)
	}
	return hash, nil
}

// Signature returns the configured user identity, falling back to the
// author of HEAD. It returns nil when neither is available.
func (r *Repo) Signature() (*Signature, error) {
	cfg, err := r.ConfigScoped(config.GlobalScope)
	if err == nil && (cfg.User.Name != "" || cfg.User.Email != "") {
		return &Signature{Name: cfg.User.Name, Email: cfg.User.Email}, nil
	}

	head, ok, err := r.HeadHash()
	if err != nil || !ok {
		return nil, err
	}
	commit, err := r.CommitObject(head)
	if err != nil {
		return nil, fmt.Errorf("failed to read HEAD commit: %w", err)
	}
	return &Signature{Name: commit.Author.Name, Email: commit.Author.Email}, nil
}

// SignatureOrDefault is Signature with DefaultSignature as the last resort
func (r *Repo) SignatureOrDefault() Signature {
	sig, err := r.Signature()
	if err != nil || sig == nil {
		return DefaultSignature
	}
	if sig.Name == "" {
		sig.Name = DefaultSignature.Name
	}
	if sig.Email == "" {
		sig.Email = DefaultSignature.Email
	}
	return *sig
}
