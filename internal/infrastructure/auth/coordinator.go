package auth

import (
	"context"
	"sync"

	"modelstash.io/cli/internal/auth"
)

// refreshCall is the handle for one in-flight refresh. Callers that arrive
// while it is outstanding park on done and read err after the close.
type refreshCall struct {
	done chan struct{}
	err  error
}

// RefreshCoordinator guarantees that at most one refresh network call is
// outstanding at a time. Concurrent callers attach to the stored in-flight
// call instead of starting a second one, and all observe the same outcome.
type RefreshCoordinator struct {
	store  auth.CredentialStore
	client auth.RefreshClient

	mu       sync.Mutex
	inflight *refreshCall
}

// NewRefreshCoordinator creates a coordinator over the given store and
// refresh client.
func NewRefreshCoordinator(store auth.CredentialStore, client auth.RefreshClient) *RefreshCoordinator {
	return &RefreshCoordinator{
		store:  store,
		client: client,
	}
}

// EnsureFreshToken refreshes the stored session, or waits on the refresh
// already in progress. On success the store holds the rotated token pair
// before any waiter is released; on failure every attached caller receives
// the same error and the store is left untouched.
func (c *RefreshCoordinator) EnsureFreshToken(ctx context.Context) error {
	c.mu.Lock()
	if call := c.inflight; call != nil {
		c.mu.Unlock()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-call.done:
			return call.err
		}
	}

	call := &refreshCall{done: make(chan struct{})}
	c.inflight = call
	c.mu.Unlock()

	// The in-flight handle must be cleared however the refresh settles,
	// and before waiters wake, so a later failure can be retried.
	defer func() {
		c.mu.Lock()
		c.inflight = nil
		c.mu.Unlock()
		close(call.done)
	}()

	call.err = c.refresh(ctx)
	return call.err
}

func (c *RefreshCoordinator) refresh(ctx context.Context) error {
	refreshToken, err := c.store.RefreshToken()
	if err != nil {
		return &auth.RefreshError{Err: err}
	}
	if refreshToken == "" {
		return auth.ErrNoRefreshToken
	}

	pair, err := c.client.Refresh(ctx, refreshToken)
	if err != nil {
		return &auth.RefreshError{Err: err}
	}

	// Both tokens land in one write so no waiter can observe a
	// half-refreshed session.
	if err := c.store.SetTokens(pair.AccessToken, pair.RefreshToken); err != nil {
		return &auth.RefreshError{Err: err}
	}

	return nil
}
