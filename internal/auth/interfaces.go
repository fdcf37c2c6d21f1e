package auth

import (
	"context"

	"modelstash.io/cli/internal/core/domain"
)

// CredentialStore handles durable storage of the session token pair. It is
// the only shared mutable state in the client layer; implementations must be
// safe for concurrent use.
type CredentialStore interface {
	// AccessToken returns the stored access token, or "" when none exists.
	AccessToken() (string, error)

	// RefreshToken returns the stored refresh token, or "" when none exists.
	RefreshToken() (string, error)

	// SetTokens replaces both tokens in a single write.
	SetTokens(access, refresh string) error

	// Clear removes all stored credentials.
	Clear() error
}

// RefreshClient exchanges a refresh token for a new token pair over the wire.
type RefreshClient interface {
	// Refresh calls the refresh endpoint. Any non-2xx response or transport
	// failure is an error; no partial pair is ever returned.
	Refresh(ctx context.Context, refreshToken string) (domain.TokenPair, error)
}

// TokenRefresher guarantees single-flight refresh semantics: at most one
// refresh call is outstanding at a time, and concurrent callers share its
// outcome.
type TokenRefresher interface {
	// EnsureFreshToken refreshes the stored session, or attaches to an
	// in-flight refresh and waits for it to settle.
	EnsureFreshToken(ctx context.Context) error
}

// SessionEnder tears down the session on unrecoverable auth failure.
// Implementations must be idempotent and safe to invoke concurrently.
type SessionEnder interface {
	// Teardown clears credentials and routes the user to the login surface,
	// preserving target as the post-login destination.
	Teardown(target string)
}
