package integration

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/christianjann/gittasks/internal/testhelper"
	"github.com/christianjann/gittasks/testhelpers"
)

// =============================================================================
// Test Shell - A helper to make integration tests read like terminal sessions
// =============================================================================

// TestShell runs gittasks commands inside one working copy
type TestShell struct {
	t          *testing.T
	repo       *testhelpers.GitRepo
	binaryPath string
	logFile    string
	lastOutput string
}

// NewDevices creates a working copy published to a bare origin and a second
// device cloned from it.
func NewDevices(t *testing.T) (laptop, phone *TestShell) {
	t.Helper()
	scene := testhelpers.NewScene(t, testhelpers.RemoteSceneSetup)
	binary := testhelper.Binary(t)
	logFile := filepath.Join(t.TempDir(), "gittasks.log")

	laptop = &TestShell{t: t, repo: scene.Repo, binaryPath: binary, logFile: logFile}
	phone = &TestShell{t: t, repo: scene.CloneRemote(t, "origin", "phone"), binaryPath: binary, logFile: logFile}
	return laptop, phone
}

// Dir returns the working directory of the shell
func (s *TestShell) Dir() string {
	return s.repo.Dir
}

// =============================================================================
// Command Execution
// =============================================================================

func (s *TestShell) exec(args string) error {
	cmd := exec.Command(s.binaryPath, splitArgs(args)...)
	cmd.Dir = s.repo.Dir
	cmd.Env = append(os.Environ(), "GITTASKS_LOG_FILE="+s.logFile)
	output, err := cmd.CombinedOutput()
	s.lastOutput = string(output)
	return err
}

// Run executes a gittasks command (e.g. "commit -m 'Add list'")
func (s *TestShell) Run(args string) *TestShell {
	s.t.Helper()
	err := s.exec(args)
	require.NoError(s.t, err, "$ gittasks %s\n%s", args, s.lastOutput)
	return s
}

// RunExpectError executes a gittasks command and expects it to fail
func (s *TestShell) RunExpectError(args string) *TestShell {
	s.t.Helper()
	err := s.exec(args)
	require.Error(s.t, err, "$ gittasks %s (expected error)\n%s", args, s.lastOutput)
	return s
}

// Git executes a raw git command
func (s *TestShell) Git(args string) *TestShell {
	s.t.Helper()
	require.NoError(s.t, s.repo.RunGitCommand(splitArgs(args)...), "$ git %s", args)
	return s
}

// =============================================================================
// File Operations
// =============================================================================

// Write creates or replaces a file without committing it
func (s *TestShell) Write(filename, content string) *TestShell {
	s.t.Helper()
	require.NoError(s.t, s.repo.WriteFile(filename, content), "failed to write %s", filename)
	return s
}

// Delete removes a file without committing
func (s *TestShell) Delete(filename string) *TestShell {
	s.t.Helper()
	require.NoError(s.t, s.repo.DeleteFile(filename), "failed to delete %s", filename)
	return s
}

// =============================================================================
// Output Inspection
// =============================================================================

// Output returns the last command's output
func (s *TestShell) Output() string {
	return s.lastOutput
}

// OutputContains asserts the last output contains the given string
func (s *TestShell) OutputContains(substr string) *TestShell {
	s.t.Helper()
	require.Contains(s.t, s.lastOutput, substr)
	return s
}

// =============================================================================
// Assertions
// =============================================================================

// HasFile asserts the content of a file
func (s *TestShell) HasFile(filename, expected string) *TestShell {
	s.t.Helper()
	testhelpers.ExpectFile(s.t, s.repo, filename, expected)
	return s
}

// HasNoFile asserts a file is absent
func (s *TestShell) HasNoFile(filename string) *TestShell {
	s.t.Helper()
	_, err := s.repo.ReadFile(filename)
	require.Error(s.t, err, "%s should not exist", filename)
	return s
}

// IsClean asserts there is nothing to commit and nothing unmerged
func (s *TestShell) IsClean() *TestShell {
	s.t.Helper()
	testhelpers.ExpectClean(s.t, s.repo)
	return s
}

// SameHeadAs asserts both working copies point at the same commit
func (s *TestShell) SameHeadAs(other *TestShell) *TestShell {
	s.t.Helper()
	testhelpers.ExpectSameRevision(s.t, s.repo, other.repo, "HEAD")
	return s
}

// =============================================================================
// Utility Functions
// =============================================================================

// splitArgs splits a command string into args, respecting quotes
func splitArgs(s string) []string {
	var args []string
	var current strings.Builder
	inQuote := false
	quoteChar := rune(0)

	for _, r := range s {
		switch {
		case r == '"' || r == '\'':
			switch {
			case inQuote && r == quoteChar:
				inQuote = false
			case !inQuote:
				inQuote = true
				quoteChar = r
			default:
				current.WriteRune(r)
			}
		case r == ' ' && !inQuote:
			if current.Len() > 0 {
				args = append(args, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(r)
		}
	}
	if current.Len() > 0 {
		args = append(args, current.String())
	}
	return args
}
