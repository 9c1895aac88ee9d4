package autosync

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"

	gterrors "github.com/christianjann/gittasks/internal/errors"
)

// retryable reports whether err may go away by trying again. Only transport
// failures qualify; a rejected push or an unresolvable merge will not.
func retryable(err error) bool {
	if errors.Is(err, gterrors.ErrNonFastForward) || errors.Is(err, gterrors.ErrUnresolvableConflict) {
		return false
	}
	return errors.Is(err, gterrors.ErrTransport)
}

func newBackOff(initial time.Duration, retries int) backoff.BackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = initial
	bo.MaxInterval = 32 * initial
	bo.MaxElapsedTime = 0
	return backoff.WithMaxRetries(bo, uint64(retries))
}

// retry runs op until it succeeds, fails permanently, exhausts retries or ctx ends
func retry(ctx context.Context, initial time.Duration, retries int, op func() error) error {
	bo := backoff.WithContext(newBackOff(initial, retries), ctx)
	err := backoff.Retry(func() error {
		err := op()
		if err != nil && !retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}, bo)

	var permanent *backoff.PermanentError
	if errors.As(err, &permanent) {
		return permanent.Err
	}
	return err
}
