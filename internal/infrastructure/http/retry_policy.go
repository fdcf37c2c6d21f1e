package http

import (
	"strconv"
	"time"
)

// BackoffPolicy decides whether a rate-limited request may be retried and
// how long to wait first. The policy is stateless across requests; the
// per-request attempt counter lives with the request, so concurrent requests
// back off independently.
type BackoffPolicy struct {
	// MaxRetries caps retries per logical request. 0 uses DefaultMaxRetries.
	MaxRetries int
	// BaseDelay is the first backoff step. 0 uses DefaultBaseDelay.
	BaseDelay time.Duration
	// MaxDelay caps the exponential schedule. 0 uses DefaultMaxDelay.
	MaxDelay time.Duration
}

const (
	DefaultMaxRetries = 3
	DefaultBaseDelay  = 1 * time.Second
	DefaultMaxDelay   = 30 * time.Second
)

// DefaultBackoffPolicy returns the policy used by the pipeline unless
// overridden.
func DefaultBackoffPolicy() *BackoffPolicy {
	return &BackoffPolicy{
		MaxRetries: DefaultMaxRetries,
		BaseDelay:  DefaultBaseDelay,
		MaxDelay:   DefaultMaxDelay,
	}
}

// Grant reports whether one more retry is allowed given the zero-based count
// of retries already performed for this request.
func (p *BackoffPolicy) Grant(attempt int) bool {
	return attempt+1 <= p.maxRetries()
}

// Delay computes the wait before the next retry. A Retry-After header value
// (integer seconds) overrides the exponential schedule verbatim; otherwise
// the delay is BaseDelay * 2^attempt capped at MaxDelay.
func (p *BackoffPolicy) Delay(attempt int, retryAfter string) time.Duration {
	if retryAfter != "" {
		if secs, err := strconv.Atoi(retryAfter); err == nil && secs >= 0 {
			return time.Duration(secs) * time.Second
		}
	}

	delay := p.baseDelay()
	for i := 0; i < attempt; i++ {
		delay *= 2
		if delay >= p.maxDelay() {
			return p.maxDelay()
		}
	}
	if delay > p.maxDelay() {
		return p.maxDelay()
	}
	return delay
}

func (p *BackoffPolicy) maxRetries() int {
	if p.MaxRetries <= 0 {
		return DefaultMaxRetries
	}
	return p.MaxRetries
}

func (p *BackoffPolicy) baseDelay() time.Duration {
	if p.BaseDelay <= 0 {
		return DefaultBaseDelay
	}
	return p.BaseDelay
}

func (p *BackoffPolicy) maxDelay() time.Duration {
	if p.MaxDelay <= 0 {
		return DefaultMaxDelay
	}
	return p.MaxDelay
}
