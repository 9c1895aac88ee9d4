package auth

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"testing"

	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/plumbing/transport/ssh"
	"github.com/stretchr/testify/require"
	gossh "golang.org/x/crypto/ssh"
)

func generateKey(t *testing.T) string {
	t.Helper()
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	block, err := gossh.MarshalPrivateKey(priv, "")
	require.NoError(t, err)
	return string(pem.EncodeToMemory(block))
}

func TestSchemeOf(t *testing.T) {
	cases := map[string]Scheme{
		"https://github.com/me/notes.git": SchemeHTTP,
		"HTTP://example.com/notes.git":    SchemeHTTP,
		"ssh://git@example.com/notes.git": SchemeSSH,
		"git@github.com:me/notes.git":     SchemeSSH,
		"/srv/git/notes.git":              SchemeLocal,
		"file:///srv/git/notes.git":       SchemeLocal,
		"../notes.git":                    SchemeLocal,
	}
	for in, want := range cases {
		require.Equal(t, want, SchemeOf(in), in)
	}
}

func TestRequiresCredential(t *testing.T) {
	require.True(t, RequiresCredential("https://gitlab.com/me/notes.git"))
	require.False(t, RequiresCredential("git@gitlab.com:me/notes.git"))
	require.False(t, RequiresCredential("/tmp/remote.git"))
}

func TestMethod(t *testing.T) {
	t.Run("nil credential yields nil method", func(t *testing.T) {
		m, err := Method(nil, "https://example.com/r.git")
		require.NoError(t, err)
		require.Nil(t, m)
	})

	t.Run("user pass over https is basic auth", func(t *testing.T) {
		m, err := Method(UserPass{Username: "me", Password: "token"}, "https://example.com/r.git")
		require.NoError(t, err)
		basic, ok := m.(*http.BasicAuth)
		require.True(t, ok)
		require.Equal(t, "me", basic.Username)
		require.Equal(t, "token", basic.Password)
	})

	t.Run("user pass over ssh is password auth", func(t *testing.T) {
		m, err := Method(UserPass{Password: "pw"}, "git@example.com:me/r.git")
		require.NoError(t, err)
		pw, ok := m.(*ssh.Password)
		require.True(t, ok)
		require.Equal(t, "git", pw.User)
	})

	t.Run("user pass on a local path needs no auth", func(t *testing.T) {
		m, err := Method(UserPass{Username: "me"}, "/srv/git/r.git")
		require.NoError(t, err)
		require.Nil(t, m)
	})

	t.Run("ssh key over ssh", func(t *testing.T) {
		m, err := Method(SSHKey{PrivateKey: generateKey(t)}, "ssh://alice@example.com/r.git")
		require.NoError(t, err)
		keys, ok := m.(*ssh.PublicKeys)
		require.True(t, ok)
		require.Equal(t, "alice", keys.User)
	})

	t.Run("ssh key rejected for https", func(t *testing.T) {
		_, err := Method(SSHKey{PrivateKey: generateKey(t)}, "https://me:pw@example.com/r.git")
		require.Error(t, err)
		require.NotContains(t, err.Error(), "pw")
	})

	t.Run("malformed private key", func(t *testing.T) {
		_, err := Method(SSHKey{PrivateKey: "not a key"}, "git@example.com:r.git")
		require.Error(t, err)
	})
}
