package middleware

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"strings"

	perr "gitevents/internal/platform/errors"
	"gitevents/internal/platform/logger"
	pnet "gitevents/internal/platform/net"
)

// SignatureHeader is where GitHub puts the hex HMAC-SHA256 of the body, prefixed "sha256="
const SignatureHeader = "X-Hub-Signature-256"

// MaxSignedBody is the largest body Signature reads; larger deliveries are rejected with 413
const MaxSignedBody = 5 << 20

type signatureWire struct {
	StatusCode int            `json:"status_code"`
	Status     string         `json:"status"`
	Code       perr.ErrorCode `json:"code"`
	Error      string         `json:"error"`
	RequestID  string         `json:"request_id,omitempty"`
	DeliveryID string         `json:"delivery_id,omitempty"`
}

// Signature verifies webhook bodies against a shared secret
// an empty secret disables verification. The body is restored for downstream handlers
func Signature(secret []byte, write func(w http.ResponseWriter, status int, body any)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if len(secret) == 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, err := io.ReadAll(io.LimitReader(r.Body, MaxSignedBody+1))
			_ = r.Body.Close()
			if err != nil {
				reject(w, r, write, perr.Wrap(err, perr.ErrorCodeUnauthorized, "unreadable body"))
				return
			}
			if len(body) > MaxSignedBody {
				reject(w, r, write, perr.Newf(perr.ErrorCodeTooLarge, "body exceeds %d bytes", MaxSignedBody))
				return
			}
			if !VerifySignature(secret, body, r.Header.Get(SignatureHeader)) {
				reject(w, r, write, perr.Unauthorizedf("signature mismatch"))
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))
			r.ContentLength = int64(len(body))
			next.ServeHTTP(w, r)
		})
	}
}

// VerifySignature reports whether header is the sha256 HMAC of body under secret
func VerifySignature(secret, body []byte, header string) bool {
	hexSig, ok := strings.CutPrefix(header, "sha256=")
	if !ok {
		return false
	}
	got, err := hex.DecodeString(hexSig)
	if err != nil {
		return false
	}
	return hmac.Equal(got, Sign(secret, body))
}

// Sign returns the raw HMAC-SHA256 of body
func Sign(secret, body []byte) []byte {
	m := hmac.New(sha256.New, secret)
	_, _ = m.Write(body)
	return m.Sum(nil)
}

func reject(w http.ResponseWriter, r *http.Request, write func(http.ResponseWriter, int, any), err error) {
	logger.C(r.Context()).Warn().Err(err).Msg("webhook signature rejected")
	status := perr.HTTPStatus(err)
	write(w, status, signatureWire{
		StatusCode: status,
		Status:     http.StatusText(status),
		Code:       perr.CodeOf(err),
		Error:      perr.WireFrom(err).Message,
		RequestID:  pnet.RequestID(r.Context()),
		DeliveryID: pnet.DeliveryID(r.Context()),
	})
}
