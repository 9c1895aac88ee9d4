// Package errors provides sentinel errors and custom error types for gittasks.
// Use errors.Is() and errors.As() to check for specific error types.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the sync error taxonomy
var (
	// ErrNotInitialized indicates that no repository is open
	ErrNotInitialized = errors.New("no repository open")

	// ErrInvalidState indicates that HEAD could not be read or the repository is
	// stuck mid-operation in a way the sanitizer could not heal
	ErrInvalidState = errors.New("repository in invalid state")

	// ErrTransport indicates a network or authentication failure during fetch, push or clone
	ErrTransport = errors.New("transport failure")

	// ErrNonFastForward indicates that a push was rejected because the remote has
	// commits the local branch does not contain
	ErrNonFastForward = errors.New("non-fast-forward update, sync or pull first")

	// ErrUnresolvableConflict indicates that automatic conflict resolution left
	// at least one conflicting path
	ErrUnresolvableConflict = errors.New("unresolvable merge conflict")

	// ErrIO indicates a filesystem read or write failure
	ErrIO = errors.New("i/o failure")
)

// TransportError represents a failed network operation against a remote
type TransportError struct {
	Op   string
	URL  string
	Hint string
	Err  error
}

func (e *TransportError) Error() string {
	msg := fmt.Sprintf("%s %s failed", e.Op, e.URL)
	if e.Hint != "" {
		msg += " - " + e.Hint
	}
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

// Is returns true if the target error is ErrTransport
func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// NewTransportError creates a new TransportError, attaching host specific
// guidance derived from the remote URL
func NewTransportError(op, url string, err error) *TransportError {
	return &TransportError{
		Op:   op,
		URL:  url,
		Hint: HostHint(url),
		Err:  err,
	}
}

// HostHint returns credential guidance for well known git hosts
func HostHint(url string) string {
	switch {
	case strings.Contains(url, "github.com"):
		return "GitHub: check credentials (use a Personal Access Token, not your password)"
	case strings.Contains(url, "bitbucket.org"):
		return "Bitbucket: check credentials (use an App Password, not your password)"
	case strings.Contains(url, "gitlab.com"), strings.Contains(url, "gitlab."):
		return "GitLab: check credentials (use a Personal Access Token, not your password)"
	case strings.Contains(url, "azure.com"), strings.Contains(url, "visualstudio.com"):
		return "Azure DevOps: check credentials (use a Personal Access Token)"
	case strings.Contains(url, "codecommit."):
		return "AWS CodeCommit: check IAM permissions and credentials"
	default:
		return ""
	}
}

// ConflictError represents a merge that could not be resolved automatically
type ConflictError struct {
	Paths []string
	Err   error
}

func (e *ConflictError) Error() string {
	msg := fmt.Sprintf("could not resolve all merge conflicts automatically (%d remaining)", len(e.Paths))
	if len(e.Paths) > 0 {
		msg += ": " + strings.Join(e.Paths, ", ")
	}
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

// Is returns true if the target error is ErrUnresolvableConflict
func (e *ConflictError) Is(target error) bool {
	return target == ErrUnresolvableConflict
}

func (e *ConflictError) Unwrap() error {
	return e.Err
}

// NewConflictError creates a new ConflictError
func NewConflictError(paths []string, err error) *ConflictError {
	return &ConflictError{Paths: paths, Err: err}
}

// IOError represents a filesystem failure on a specific path
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("i/o failure on %s: %v", e.Path, e.Err)
}

// Is returns true if the target error is ErrIO
func (e *IOError) Is(target error) bool {
	return target == ErrIO
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates a new IOError
func NewIOError(path string, err error) *IOError {
	return &IOError{Path: path, Err: err}
}

// GitCommandError represents an error from a git command execution
type GitCommandError struct {
	Command string
	Args    []string
	Stdout  string
	Stderr  string
	Err     error
}

func (e *GitCommandError) Error() string {
	msg := fmt.Sprintf("git command failed: %s", e.Command)
	if len(e.Args) > 0 {
		msg += fmt.Sprintf(" %v", e.Args)
	}
	if e.Stderr != "" {
		msg += fmt.Sprintf("\nstderr: %s", e.Stderr)
	}
	if e.Stdout != "" {
		msg += fmt.Sprintf("\nstdout: %s", e.Stdout)
	}
	if e.Err != nil {
		msg += fmt.Sprintf("\n%v", e.Err)
	}
	return msg
}

func (e *GitCommandError) Unwrap() error {
	return e.Err
}

// NewGitCommandError creates a new GitCommandError
func NewGitCommandError(command string, args []string, stdout, stderr string, err error) *GitCommandError {
	return &GitCommandError{
		Command: command,
		Args:    args,
		Stdout:  stdout,
		Stderr:  stderr,
		Err:     err,
	}
}

// Kind returns the taxonomy name of err, or "Unknown" when err does not
// belong to any of the sentinel kinds
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotInitialized):
		return "NotInitialized"
	case errors.Is(err, ErrNonFastForward):
		return "NonFastForward"
	case errors.Is(err, ErrUnresolvableConflict):
		return "UnresolvableConflict"
	case errors.Is(err, ErrTransport):
		return "TransportFailure"
	case errors.Is(err, ErrIO):
		return "IOFailure"
	case errors.Is(err, ErrInvalidState):
		return "InvalidState"
	default:
		return "Unknown"
	}
}
