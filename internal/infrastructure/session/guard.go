// Package session owns teardown of an expired or revoked session: clearing
// persisted credentials and routing the user back to the login surface.
package session

import (
	"net/url"
	"sync"

	"modelstash.io/cli/internal/auth"
)

// LoginPath is the login entry point users are routed to after teardown.
const LoginPath = "/login"

// Navigator routes the user to a destination. The CLI implementation prints
// the login URL; a browser-backed one would navigate a window.
type Navigator interface {
	// Navigate routes to dest.
	Navigate(dest string)

	// CurrentPath reports where the user already is, so teardown can skip
	// redirecting a user who is on the login surface.
	CurrentPath() string
}

// Guard performs idempotent session teardown. Several in-flight requests may
// fail near-simultaneously and all invoke Teardown; only the first clears
// credentials and navigates.
type Guard struct {
	store     auth.CredentialStore
	navigator Navigator

	mu       sync.Mutex
	torndown bool
}

// NewGuard creates a teardown guard over the given store and navigator.
func NewGuard(store auth.CredentialStore, navigator Navigator) *Guard {
	return &Guard{
		store:     store,
		navigator: navigator,
	}
}

// Teardown clears credentials and routes to the login surface, preserving
// target as the post-login destination. Repeat invocations are no-ops until
// Reset re-arms the guard.
func (g *Guard) Teardown(target string) {
	g.mu.Lock()
	if g.torndown {
		g.mu.Unlock()
		return
	}
	g.torndown = true
	g.mu.Unlock()

	// Clear failure is not actionable here; the session is gone either way.
	_ = g.store.Clear()

	if g.navigator == nil || g.navigator.CurrentPath() == LoginPath {
		return
	}
	g.navigator.Navigate(LoginURL(target))
}

// Reset re-arms the guard after a successful login.
func (g *Guard) Reset() {
	g.mu.Lock()
	g.torndown = false
	g.mu.Unlock()
}

// LoginURL builds the login entry point with the intended destination
// preserved for post-login redirect.
func LoginURL(target string) string {
	if target == "" || target == LoginPath {
		return LoginPath
	}
	return LoginPath + "?redirect=" + url.QueryEscape(target)
}
