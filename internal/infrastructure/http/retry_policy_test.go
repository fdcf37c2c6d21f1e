package http

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestBackoffPolicy_Grant(t *testing.T) {
	policy := DefaultBackoffPolicy()

	tests := []struct {
		name    string
		attempt int
		granted bool
	}{
		{name: "first retry", attempt: 0, granted: true},
		{name: "second retry", attempt: 1, granted: true},
		{name: "third retry", attempt: 2, granted: true},
		{name: "fourth retry denied", attempt: 3, granted: false},
		{name: "far past ceiling", attempt: 10, granted: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.granted, policy.Grant(tc.attempt))
		})
	}
}

func TestBackoffPolicy_ExponentialSchedule(t *testing.T) {
	policy := DefaultBackoffPolicy()

	tests := []struct {
		name    string
		attempt int
		want    time.Duration
	}{
		{name: "attempt 0", attempt: 0, want: 1 * time.Second},
		{name: "attempt 1", attempt: 1, want: 2 * time.Second},
		{name: "attempt 2", attempt: 2, want: 4 * time.Second},
		{name: "attempt 4", attempt: 4, want: 16 * time.Second},
		{name: "capped at max", attempt: 5, want: 30 * time.Second},
		{name: "stays capped", attempt: 20, want: 30 * time.Second},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, policy.Delay(tc.attempt, ""))
		})
	}
}

func TestBackoffPolicy_RetryAfterPrecedence(t *testing.T) {
	policy := DefaultBackoffPolicy()

	// Retry-After wins regardless of attempt count.
	for attempt := 0; attempt < 4; attempt++ {
		assert.Equal(t, 5*time.Second, policy.Delay(attempt, "5"), "attempt %d", attempt)
	}

	// Omitting the header on attempt 2 falls back to the schedule.
	assert.Equal(t, 4*time.Second, policy.Delay(2, ""))
}

func TestBackoffPolicy_MalformedRetryAfter(t *testing.T) {
	policy := DefaultBackoffPolicy()

	tests := []struct {
		name       string
		retryAfter string
	}{
		{name: "non-numeric", retryAfter: "soon"},
		{name: "negative", retryAfter: "-3"},
		{name: "http date ignored", retryAfter: "Wed, 21 Oct 2026 07:28:00 GMT"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// Falls back to the exponential schedule.
			assert.Equal(t, 2*time.Second, policy.Delay(1, tc.retryAfter))
		})
	}
}

func TestBackoffPolicy_ZeroValueUsesDefaults(t *testing.T) {
	var policy BackoffPolicy

	assert.True(t, policy.Grant(2))
	assert.False(t, policy.Grant(3))
	assert.Equal(t, 1*time.Second, policy.Delay(0, ""))
	assert.Equal(t, 30*time.Second, policy.Delay(10, ""))
}

func TestBackoffPolicy_DelayNeverExceedsCap(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		policy := DefaultBackoffPolicy()
		attempt := rapid.IntRange(0, 63).Draw(t, "attempt")

		delay := policy.Delay(attempt, "")

		if delay < policy.BaseDelay || delay > policy.MaxDelay {
			t.Fatalf("delay %v outside [%v, %v] for attempt %d", delay, policy.BaseDelay, policy.MaxDelay, attempt)
		}
	})
}

func TestBackoffPolicy_DelayMonotonic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		policy := DefaultBackoffPolicy()
		attempt := rapid.IntRange(0, 62).Draw(t, "attempt")

		if policy.Delay(attempt, "") > policy.Delay(attempt+1, "") {
			t.Fatalf("delay decreased from attempt %d to %d", attempt, attempt+1)
		}
	})
}

func TestBackoffPolicy_RetryAfterVerbatim(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		policy := DefaultBackoffPolicy()
		attempt := rapid.IntRange(0, 10).Draw(t, "attempt")
		secs := rapid.IntRange(0, 3600).Draw(t, "secs")

		delay := policy.Delay(attempt, strconv.Itoa(secs))

		if delay != time.Duration(secs)*time.Second {
			t.Fatalf("Retry-After %d not honored verbatim: got %v", secs, delay)
		}
	})
}
