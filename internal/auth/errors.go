package auth

import (
	"errors"
	"fmt"
)

// ErrNoRefreshToken is returned when a refresh is attempted with no refresh
// token in the store. No network call is made.
var ErrNoRefreshToken = errors.New("no refresh token available")

// RefreshError wraps a failed refresh network call. Every caller attached to
// the failed in-flight refresh receives the same RefreshError.
type RefreshError struct {
	Err error
}

func (e *RefreshError) Error() string {
	return fmt.Sprintf("token refresh failed: %v", e.Err)
}

func (e *RefreshError) Unwrap() error {
	return e.Err
}

// IsRefreshFailure reports whether err represents an unrecoverable refresh
// outcome, i.e. one that must tear down the session.
func IsRefreshFailure(err error) bool {
	if errors.Is(err, ErrNoRefreshToken) {
		return true
	}
	var re *RefreshError
	return errors.As(err, &re)
}
