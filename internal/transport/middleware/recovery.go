package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"

	errors "github.com/frahmantamala/campus-ops/internal"
	"github.com/frahmantamala/campus-ops/pkg/logger"
	"github.com/getsentry/sentry-go"
)

// Recovery turns a panic into a 500 with the usual error body. When Sentry
// is initialised the panic is reported there too.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			logger.From(r.Context()).Error("panic recovered",
				"panic", fmt.Sprint(rec),
				"method", r.Method,
				"path", r.URL.Path,
				"stack", string(debug.Stack()))

			if hub := sentry.CurrentHub(); hub.Client() != nil {
				hub = hub.Clone()
				hub.Scope().SetRequest(r)
				hub.RecoverWithContext(r.Context(), rec)
			}

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(errors.ErrorResponse{Error: "Internal server error."})
		}()

		next.ServeHTTP(w, r)
	})
}
