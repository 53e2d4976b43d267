package httpkit

import (
	"compress/flate"
	"net/http"
	"time"

	"gitevents/internal/platform/metrics"
	phttp "gitevents/internal/platform/net/http"
	"gitevents/internal/platform/net/middleware"
)

// CommonStack returns a baseline per module middleware slice
// webhook modules add Signature on their own route group
func CommonStack() []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		// tracing / correlation
		middleware.RequestID(),
		middleware.RealIP(),
		middleware.Delivery(),

		// safety
		middleware.Recover(phttp.RespondError),

		// cache / freshness
		middleware.NoCache(),

		// observability
		middleware.AccessLogZerolog(middleware.AccessLogOptions{
			Slow:    2 * time.Second,
			Observe: metrics.ObserveHTTP,
		}),

		// cross-origin (tweak config in main if needed)
		middleware.CORS(middleware.CORSOptions{}),
		middleware.Compress(flate.BestSpeed),
		middleware.Heartbeat("/health"),
		middleware.RedirectSlashes(),
		middleware.StripSlashes(),
		middleware.Timeout(30 * time.Second),
	}
}

// Signature wires webhook HMAC verification to the platform JSON writer
// an empty secret turns verification off
func Signature(secret string) func(http.Handler) http.Handler {
	return middleware.Signature([]byte(secret), phttp.JSON)
}
