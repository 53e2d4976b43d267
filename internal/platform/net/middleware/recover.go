package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	perr "gitevents/internal/platform/errors"
	"gitevents/internal/platform/logger"
)

// Recover turns a panic in a handler into a 500 written by fail
// the panic value and stack are logged; clients only see "panic recovered"
// http.ErrAbortHandler is re-raised so net/http can drop the connection
func Recover(fail func(http.ResponseWriter, *http.Request, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				v := recover()
				if v == nil {
					return
				}
				if v == http.ErrAbortHandler {
					panic(v)
				}
				logger.C(r.Context()).Error().
					Str("panic", fmt.Sprint(v)).
					Bytes("stack", debug.Stack()).
					Msg("panic recovered")
				fail(w, r, perr.PanicErrf("panic recovered"))
			}()
			next.ServeHTTP(w, r)
		})
	}
}
