// Package testhelper builds the gittasks binary once for end-to-end tests.
package testhelper

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"
)

var (
	binaryPath string
	binaryOnce sync.Once
	binaryErr  error
)

// Binary returns the path of a gittasks binary built from this module,
// building it on first use. The GITTASKS_TEST_BINARY environment variable
// points at a prebuilt binary instead.
func Binary(t testing.TB) string {
	t.Helper()
	binaryOnce.Do(func() {
		if prebuilt := os.Getenv("GITTASKS_TEST_BINARY"); prebuilt != "" {
			binaryPath = prebuilt
			return
		}
		binaryPath, binaryErr = buildBinary()
	})
	if binaryErr != nil {
		t.Fatalf("failed to build gittasks binary: %v", binaryErr)
	}
	return binaryPath
}

func buildBinary() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	moduleRoot := findModuleRoot(wd)
	if moduleRoot == "" {
		return "", fmt.Errorf("could not find module root (go.mod) starting from %s", wd)
	}

	tmpDir, err := os.MkdirTemp("", "gittasks-test-binary-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp directory: %w", err)
	}
	out := filepath.Join(tmpDir, "gittasks")

	cmd := exec.Command("go", "build", "-o", out, "./cmd/gittasks")
	cmd.Dir = moduleRoot
	if output, err := cmd.CombinedOutput(); err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", fmt.Errorf("failed to build: %s: %w", string(output), err)
	}
	return out, nil
}

// findModuleRoot walks up from startDir to the directory holding go.mod
func findModuleRoot(startDir string) string {
	for dir := startDir; ; {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
