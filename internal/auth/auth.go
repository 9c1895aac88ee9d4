// Package auth translates gittasks credentials into go-git transport auth methods.
// Credentials are supplied per operation and never persisted.
package auth

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/plumbing/transport/ssh"
	gossh "golang.org/x/crypto/ssh"
)

const defaultSSHUser = "git"

// Credential is a closed set of credential kinds: UserPass or SSHKey.
type Credential interface {
	credential()
}

// UserPass is a plaintext username and password (or token)
type UserPass struct {
	Username string
	Password string
}

func (UserPass) credential() {}

// SSHKey is an in-memory key pair. Passphrase is empty for unencrypted keys.
type SSHKey struct {
	Username   string
	PrivateKey string
	PublicKey  string
	Passphrase string
}

func (SSHKey) credential() {}

// Scheme classifies a remote URL
type Scheme int

const (
	SchemeLocal Scheme = iota
	SchemeHTTP
	SchemeSSH
)

// SchemeOf returns the transport scheme of a remote URL. scp-like addresses
// (git@host:path) are SSH.
func SchemeOf(remoteURL string) Scheme {
	lower := strings.ToLower(remoteURL)
	switch {
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		return SchemeHTTP
	case strings.HasPrefix(lower, "ssh://"), strings.HasPrefix(lower, "git+ssh://"):
		return SchemeSSH
	case strings.HasPrefix(lower, "file://"):
		return SchemeLocal
	}
	if isSCPLike(remoteURL) {
		return SchemeSSH
	}
	return SchemeLocal
}

func isSCPLike(remoteURL string) bool {
	colon := strings.Index(remoteURL, ":")
	if colon <= 0 {
		return false
	}
	slash := strings.Index(remoteURL, "/")
	// "C:\..." and "/path:x" are paths, "host:path" and "user@host:path" are not
	return (slash == -1 || colon < slash) && colon > 1
}

// RequiresCredential reports whether pushing to remoteURL needs a credential
func RequiresCredential(remoteURL string) bool {
	return SchemeOf(remoteURL) == SchemeHTTP
}

// Method returns the go-git auth method for cred against remoteURL.
// A nil credential yields a nil method.
//
//nolint:ireturn // go-git requires returning transport.AuthMethod interface
func Method(cred Credential, remoteURL string) (transport.AuthMethod, error) {
	if cred == nil {
		return nil, nil
	}

	scheme := SchemeOf(remoteURL)
	switch c := cred.(type) {
	case UserPass:
		switch scheme {
		case SchemeSSH:
			return &ssh.Password{
				User:     sshUser(c.Username, remoteURL),
				Password: c.Password,
				HostKeyCallbackHelper: ssh.HostKeyCallbackHelper{
					HostKeyCallback: gossh.InsecureIgnoreHostKey(), //nolint:gosec // remotes are user-chosen, no known_hosts on device
				},
			}, nil
		case SchemeHTTP:
			return &http.BasicAuth{Username: c.Username, Password: c.Password}, nil
		default:
			return nil, nil
		}
	case SSHKey:
		if scheme != SchemeSSH {
			return nil, fmt.Errorf("ssh key credential cannot be used with %s", redact(remoteURL))
		}
		keys, err := ssh.NewPublicKeys(sshUser(c.Username, remoteURL), []byte(c.PrivateKey), c.Passphrase)
		if err != nil {
			return nil, fmt.Errorf("failed to parse ssh private key: %w", err)
		}
		keys.HostKeyCallback = gossh.InsecureIgnoreHostKey() //nolint:gosec // see above
		return keys, nil
	default:
		return nil, fmt.Errorf("unsupported credential type %T", cred)
	}
}

// sshUser picks the explicit username, then the one embedded in the URL, then "git"
func sshUser(username, remoteURL string) string {
	if username != "" {
		return username
	}
	if u, err := url.Parse(remoteURL); err == nil && u.User != nil && u.User.Username() != "" {
		return u.User.Username()
	}
	if at := strings.Index(remoteURL, "@"); at > 0 && isSCPLike(remoteURL) {
		return remoteURL[:at]
	}
	return defaultSSHUser
}

// redact strips userinfo from a URL for use in messages
func redact(remoteURL string) string {
	u, err := url.Parse(remoteURL)
	if err != nil || u.User == nil {
		return remoteURL
	}
	u.User = nil
	return u.String()
}
