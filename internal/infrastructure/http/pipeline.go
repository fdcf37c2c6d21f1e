package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"modelstash.io/cli/internal/auth"
)

// Pipeline wraps every outbound request with credential attachment and
// uniform failure handling: a single refresh-triggered replay on 401 and
// bounded backoff on 429. Everything else passes through untouched.
type Pipeline struct {
	base      http.RoundTripper
	store     auth.CredentialStore
	refresher auth.TokenRefresher
	ender     auth.SessionEnder
	policy    *BackoffPolicy

	// sleep is swapped out by tests to observe delays without waiting.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewPipeline creates a request pipeline over the default transport.
func NewPipeline(store auth.CredentialStore, refresher auth.TokenRefresher, ender auth.SessionEnder) *Pipeline {
	return &Pipeline{
		base:      http.DefaultTransport,
		store:     store,
		refresher: refresher,
		ender:     ender,
		policy:    DefaultBackoffPolicy(),
		sleep:     sleepContext,
	}
}

// WithTransport replaces the underlying transport.
func (p *Pipeline) WithTransport(rt http.RoundTripper) *Pipeline {
	p.base = rt
	return p
}

// WithPolicy replaces the backoff policy.
func (p *Pipeline) WithPolicy(policy *BackoffPolicy) *Pipeline {
	p.policy = policy
	return p
}

// Do sends the request through the pipeline. A 401 triggers one coordinated
// refresh and one replay; a 429 is retried per the backoff policy. The final
// response is returned as-is even when recovery is exhausted, so callers see
// the original status; transport failures return an error with no response.
func (p *Pipeline) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	// Replayed attempts need a fresh body.
	if req.Body != nil && req.GetBody == nil {
		return nil, fmt.Errorf("request body is not replayable")
	}

	attempt := 0 // 429 retries already performed
	authRetried := false

	for {
		resp, err := p.send(ctx, req)

		switch classify(resp, err) {
		case KindTransport:
			return nil, err

		case KindUnauthorized:
			// A request gets exactly one refresh-triggered replay; a 401
			// on the replay itself surfaces to the caller.
			if authRetried {
				return resp, nil
			}
			authRetried = true

			if refreshErr := p.refresher.EnsureFreshToken(ctx); refreshErr != nil {
				if p.ender != nil && auth.IsRefreshFailure(refreshErr) {
					p.ender.Teardown(req.URL.RequestURI())
				}
				if ctx.Err() != nil {
					resp.Body.Close()
					return nil, ctx.Err()
				}
				return resp, nil
			}

			resp.Body.Close()

		case KindRateLimited:
			if !p.policy.Grant(attempt) {
				return resp, nil
			}
			delay := p.policy.Delay(attempt, resp.Header.Get("Retry-After"))
			resp.Body.Close()
			attempt++

			if sleepErr := p.sleep(ctx, delay); sleepErr != nil {
				return nil, sleepErr
			}

		default:
			return resp, nil
		}
	}
}

// send issues one attempt, reading the access token fresh from the store so
// replays pick up a just-refreshed token.
func (p *Pipeline) send(ctx context.Context, req *http.Request) (*http.Response, error) {
	attempt := req.Clone(ctx)

	if req.Body != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, fmt.Errorf("failed to rewind request body: %w", err)
		}
		attempt.Body = body
	}

	token, err := p.store.AccessToken()
	if err != nil {
		return nil, fmt.Errorf("failed to read access token: %w", err)
	}
	// No token is not an error: the request goes out unauthenticated and
	// the server answers 401 if that is unacceptable.
	if token != "" {
		attempt.Header.Set("Authorization", "Bearer "+token)
	}

	return p.base.RoundTrip(attempt)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
