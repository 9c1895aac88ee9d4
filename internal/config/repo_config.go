package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const repoConfigFile = ".gittasks_config"

// DefaultRemote is the only remote gittasks synchronizes with
const DefaultRemote = "origin"

// DefaultNoteExtensions lists the file extensions treated as notes when no
// override is configured
var DefaultNoteExtensions = []string{"markdown", "md", "mdown", "mkd", "org", "rst", "text", "txt"}

// RepoConfig represents the repository configuration
type RepoConfig struct {
	Remote             *string  `json:"remote,omitempty"`
	NoteExtensions     []string `json:"noteExtensions,omitempty"`
	AutosyncDebounceMs *int     `json:"autosync.debounceMs,omitempty"`
	NetworkRetries     *int     `json:"network.retries,omitempty"`
}

func configPath(repoRoot string) string {
	return filepath.Join(repoRoot, ".git", repoConfigFile)
}

// GetRepoConfig reads the repository configuration
func GetRepoConfig(repoRoot string) (*RepoConfig, error) {
	data, err := os.ReadFile(configPath(repoRoot))
	if err != nil {
		// Config doesn't exist - return default
		return &RepoConfig{}, nil
	}

	var config RepoConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse repo config: %w", err)
	}

	return &config, nil
}

// Save writes the configuration back to the repository
func (c *RepoConfig) Save(repoRoot string) error {
	configJSON, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return os.WriteFile(configPath(repoRoot), configJSON, 0600)
}

// RemoteName returns the configured remote, or "origin"
func (c *RepoConfig) RemoteName() string {
	if c.Remote != nil && *c.Remote != "" {
		return *c.Remote
	}
	return DefaultRemote
}

// Extensions returns the sorted note extensions, lower-cased and without dots
func (c *RepoConfig) Extensions() []string {
	src := c.NoteExtensions
	if len(src) == 0 {
		src = DefaultNoteExtensions
	}
	exts := make([]string, 0, len(src))
	for _, e := range src {
		e = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(e), "."))
		if e != "" {
			exts = append(exts, e)
		}
	}
	sort.Strings(exts)
	return exts
}

// IsNoteFile reports whether path has one of the note extensions
func (c *RepoConfig) IsNoteFile(path string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if ext == "" {
		return false
	}
	exts := c.Extensions()
	i := sort.SearchStrings(exts, ext)
	return i < len(exts) && exts[i] == ext
}

// AutosyncDebounce returns the delay between the last edit and the background pull
func (c *RepoConfig) AutosyncDebounce() time.Duration {
	if c.AutosyncDebounceMs != nil && *c.AutosyncDebounceMs >= 0 {
		return time.Duration(*c.AutosyncDebounceMs) * time.Millisecond
	}
	return 5 * time.Second
}

// Retries returns how many times a failed network step is retried in the background
func (c *RepoConfig) Retries() int {
	if c.NetworkRetries != nil && *c.NetworkRetries >= 0 {
		return *c.NetworkRetries
	}
	return 3
}
