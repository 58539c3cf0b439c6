package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/questkitchen/backend/internal/domain/session"
	"github.com/questkitchen/backend/internal/ports/inbound"
)

// contextKey is a private type so session context values cannot collide with
// keys set by other packages.
type contextKey int

const sessionContextKey contextKey = iota

// Session resolves the session cookie on every request and, when it names a
// live session, attaches the session record to the request context. Requests
// without a valid session proceed anonymously; rejecting them is up to the
// handlers that require authentication.
func Session(auth inbound.AuthService, cookieName string, logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			sess, err := auth.ResolveSession(r.Context(), cookie.Value)
			if err != nil {
				if !errors.Is(err, session.ErrNotFound) {
					logger.Error("Session lookup failed", zap.Error(err))
				}
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithSession(r.Context(), sess)))
		})
	}
}

// ContextWithSession returns a copy of ctx carrying the resolved session
func ContextWithSession(ctx context.Context, sess *session.Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, sess)
}

// SessionFromContext returns the session attached by the Session middleware
func SessionFromContext(ctx context.Context) (*session.Session, bool) {
	sess, ok := ctx.Value(sessionContextKey).(*session.Session)
	return sess, ok
}

// UserIDFromContext returns the authenticated user's id, if any
func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	sess, ok := SessionFromContext(ctx)
	if !ok {
		return uuid.Nil, false
	}
	return sess.UserID, true
}
