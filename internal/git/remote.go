package git

import (
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
)

// RemoteURL returns the first URL configured for remote
func (r *Repo) RemoteURL(remote string) (string, error) {
	rem, err := r.Remote(remote)
	if err != nil {
		return "", fmt.Errorf("remote %s not found: %w", remote, err)
	}
	urls := rem.Config().URLs
	if len(urls) == 0 {
		return "", fmt.Errorf("remote %s has no URL", remote)
	}
	return urls[0], nil
}

// AddRemote registers remote with the default fetch refspec. An existing
// remote with the same name is left untouched.
func (r *Repo) AddRemote(remote, url string) error {
	_, err := r.CreateRemote(&config.RemoteConfig{
		Name: remote,
		URLs: []string{url},
	})
	if errors.Is(err, git.ErrRemoteExists) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to add remote %s: %w", remote, err)
	}
	return nil
}
