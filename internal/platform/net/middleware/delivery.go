package middleware

import (
	"net/http"

	"gitevents/internal/platform/logger"
	pnet "gitevents/internal/platform/net"

	"github.com/google/uuid"
)

// DeliveryHeader carries GitHub's per-delivery GUID on webhook requests
const DeliveryHeader = "X-GitHub-Delivery"

// Delivery stamps the request context with the request id and a delivery id
// the delivery id comes from X-GitHub-Delivery, or a fresh uuid when the caller sent none
// place it after RequestID so the chi request id is already set
func Delivery() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			did := r.Header.Get(DeliveryHeader)
			if did == "" {
				did = uuid.NewString()
			}
			reqID := pnet.RequestID(r.Context())

			ctx := pnet.WithRequest(r.Context(), reqID, did)
			ctx = logger.WithRequest(ctx, reqID, did)

			w.Header().Set(DeliveryHeader, did)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
