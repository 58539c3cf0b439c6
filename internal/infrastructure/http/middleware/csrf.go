package middleware

import (
	"net/http"

	"github.com/questkitchen/backend/internal/infrastructure/config"
	"github.com/questkitchen/backend/pkg/errors"
)

// CSRF enforces double-submit CSRF protection on state-changing requests.
// The client reads the csrf_token cookie and echoes it in the X-CSRF-Token
// header; the value is compared against the token stored server-side in the
// session. Safe methods, configured exempt paths, and anonymous requests
// pass through untouched.
func CSRF(cfg *config.Config) func(next http.Handler) http.Handler {
	exempt := make(map[string]struct{}, len(cfg.CSRF.ExemptPaths))
	for _, path := range cfg.CSRF.ExemptPaths {
		exempt[path] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet || r.Method == http.MethodHead || r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			if _, ok := exempt[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			// Anonymous requests carry no session to forge; handlers reject
			// them with 401 where authentication is required.
			sess, ok := SessionFromContext(r.Context())
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			supplied := r.Header.Get(cfg.CSRF.Header)
			if !sess.ValidateCSRF(supplied) {
				appErr := errors.NewCSRFMismatchError()
				writeDetail(w, appErr.StatusCode(), appErr.Message)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
