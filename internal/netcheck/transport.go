package netcheck

import (
	"net/http"
	"time"
)

// retryTransport retries idempotent requests on throttling and transient
// server errors (429, 500, 502, 503, 504) with doubling backoff, up to
// MaxRetries extra attempts. Non-idempotent methods pass through untouched.
type retryTransport struct {
	base       http.RoundTripper
	maxRetries int
	backoff    time.Duration
}

var retryStatus = map[int]bool{
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

func idempotent(method string) bool {
	switch method {
	case http.MethodHead, http.MethodGet, http.MethodOptions:
		return true
	}
	return false
}

func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	if !idempotent(req.Method) || t.maxRetries < 1 {
		return base.RoundTrip(req)
	}

	var (
		resp *http.Response
		err  error
	)
	delay := t.backoff
	for attempt := 0; attempt <= t.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-req.Context().Done():
				if resp != nil {
					resp.Body.Close()
				}
				return nil, req.Context().Err()
			case <-time.After(delay):
			}
			delay *= 2
		}

		resp, err = base.RoundTrip(req.Clone(req.Context()))
		if err != nil {
			continue
		}
		if !retryStatus[resp.StatusCode] {
			return resp, nil
		}
		if attempt < t.maxRetries {
			resp.Body.Close()
		}
	}
	return resp, err
}
