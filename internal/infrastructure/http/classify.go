package http

import (
	"fmt"
	"io"
	"net/http"
)

// Kind discriminates failure classes at the transport boundary. Downstream
// logic switches on the tag instead of probing response shape.
type Kind int

const (
	// KindOK is a successful response.
	KindOK Kind = iota
	// KindUnauthorized is an HTTP 401 response.
	KindUnauthorized
	// KindRateLimited is an HTTP 429 response.
	KindRateLimited
	// KindTransport is a network-level failure with no HTTP status.
	KindTransport
	// KindOther is any other error status; the pipeline passes these
	// through without interception.
	KindOther
)

func (k Kind) String() string {
	switch k {
	case KindOK:
		return "ok"
	case KindUnauthorized:
		return "unauthorized"
	case KindRateLimited:
		return "rate_limited"
	case KindTransport:
		return "transport"
	case KindOther:
		return "error"
	default:
		return "unknown"
	}
}

// classify maps the outcome of one transport round trip to a Kind. It is the
// single place that inspects status codes.
func classify(resp *http.Response, err error) Kind {
	if err != nil || resp == nil {
		return KindTransport
	}
	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return KindUnauthorized
	case resp.StatusCode == http.StatusTooManyRequests:
		return KindRateLimited
	case resp.StatusCode >= 400:
		return KindOther
	default:
		return KindOK
	}
}

// StatusError is the typed error produced from a final non-2xx response.
type StatusError struct {
	Kind       Kind
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API error %d (%s): %s", e.StatusCode, e.Kind, e.Body)
}

// CheckResponse converts a final response into a StatusError when its status
// is not 2xx, draining and closing the body. Successful responses are left
// untouched for the caller to consume.
func CheckResponse(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	resp.Body.Close()

	kind := KindOther
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		kind = KindUnauthorized
	case http.StatusTooManyRequests:
		kind = KindRateLimited
	}

	return &StatusError{
		Kind:       kind,
		StatusCode: resp.StatusCode,
		Body:       string(body),
	}
}
