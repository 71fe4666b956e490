package httpkit

import (
	"compress/flate"
	"net/http"
	"time"

	"sdexindex/internal/platform/net/middleware"
)

// StackOptions tunes CommonStack, the zero value is a sane default
type StackOptions struct {
	// Timeout bounds each request, default 30s
	Timeout time.Duration
	// SlowRequest marks access log lines as warn, 0 disables
	SlowRequest time.Duration
	// MaxInFlight caps concurrent requests, 0 is unlimited
	MaxInFlight int
	CORS        middleware.CORSOptions
}

// CommonStack returns the baseline middleware slice for the versioned API
// order matters: request id before the logger, recover before anything that writes
func CommonStack(o StackOptions) []func(http.Handler) http.Handler {
	if o.Timeout <= 0 {
		o.Timeout = 30 * time.Second
	}
	return []func(http.Handler) http.Handler{
		// tracing / correlation
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.RealIP(),

		// safety
		middleware.RecoverJSON,

		// cache / freshness
		middleware.NoCache(),

		// observability
		middleware.AccessLogZerolog(middleware.AccessLogOptions{Slow: o.SlowRequest}),

		middleware.CORS(o.CORS),
		middleware.Compress(flate.BestSpeed),
		middleware.Heartbeat("/health"),
		middleware.StripSlashes(),
		middleware.Throttle(o.MaxInFlight),
		middleware.Timeout(o.Timeout),
	}
}
