package actions

import (
	"fmt"

	"github.com/go-git/go-git/v5/plumbing/transport"

	"github.com/christianjann/gittasks/internal/auth"
	gterrors "github.com/christianjann/gittasks/internal/errors"
	"github.com/christianjann/gittasks/internal/runtime"
)

// Transport validates the configured remote and translates cred into the
// auth method for it. A nil cred yields a nil method, so fetches from public
// remotes go out anonymously. With requireCredential set, a
// credential-requiring remote without cred fails with ErrTransport before
// any network traffic.
func Transport(ctx *runtime.Context, op string, cred auth.Credential, requireCredential bool) (transport.AuthMethod, error) {
	remote := ctx.Remote()
	url, err := ctx.Repo.RemoteURL(remote)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", gterrors.ErrInvalidState, err)
	}

	if requireCredential && cred == nil && auth.RequiresCredential(url) {
		return nil, gterrors.NewTransportError(op, url, fmt.Errorf("credentials required"))
	}

	method, err := auth.Method(cred, url)
	if err != nil {
		return nil, gterrors.NewTransportError(op, url, err)
	}
	return method, nil
}

// Pluralize returns word, followed by "s" unless count is 1
func Pluralize(word string, count int) string {
	if count == 1 {
		return word
	}
	return word + "s"
}
