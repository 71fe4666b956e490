package horizon

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// FetchKind classifies a page level failure
type FetchKind uint8

const (
	// FetchTransport covers DNS, connect, timeout and body read failures
	FetchTransport FetchKind = iota + 1
	// FetchHTTP is a non 2xx response
	FetchHTTP
	// FetchDecode is a body that is not the expected page shape
	FetchDecode
)

func (k FetchKind) String() string {
	switch k {
	case FetchTransport:
		return "transport"
	case FetchHTTP:
		return "http"
	case FetchDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// FetchError wraps any failure of a single Horizon request
type FetchError struct {
	Kind   FetchKind
	URL    string
	Status int    // set for FetchHTTP
	Body   string // first bytes of the error body for FetchHTTP
	// RetryAfter is the server requested wait, zero when absent
	RetryAfter time.Duration
	Err        error
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case FetchHTTP:
		return fmt.Sprintf("horizon: http %d from %s", e.Status, e.URL)
	case FetchDecode:
		return fmt.Sprintf("horizon: decode %s: %v", e.URL, e.Err)
	default:
		return fmt.Sprintf("horizon: transport %s: %v", e.URL, e.Err)
	}
}

// Unwrap returns the underlying cause
func (e *FetchError) Unwrap() error { return e.Err }

// HTTPStatus returns the upstream status, zero when not an http failure
func (e *FetchError) HTTPStatus() int { return e.Status }

// AsFetchError unwraps err into a *FetchError
func AsFetchError(err error) (*FetchError, bool) {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

// IsRateLimited reports a 429 from Horizon
func IsRateLimited(err error) bool {
	fe, ok := AsFetchError(err)
	return ok && fe.Kind == FetchHTTP && fe.Status == http.StatusTooManyRequests
}

// Retryable reports whether the same request may succeed if repeated
// transport failures, 429 and 5xx are retryable, decode and other 4xx are not
func Retryable(err error) bool {
	fe, ok := AsFetchError(err)
	if !ok {
		return false
	}
	switch fe.Kind {
	case FetchTransport:
		return true
	case FetchHTTP:
		return fe.Status == http.StatusTooManyRequests || fe.Status >= 500
	default:
		return false
	}
}

// retryAfter reads Retry-After as seconds or an http date
func retryAfter(h http.Header, now time.Time) time.Duration {
	v := h.Get("Retry-After")
	if v == "" {
		return 0
	}
	if sec, err := strconv.Atoi(v); err == nil && sec > 0 {
		return time.Duration(sec) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil && t.After(now) {
		return t.Sub(now)
	}
	return 0
}

func uintStr(v uint32) string { return strconv.FormatUint(uint64(v), 10) }
