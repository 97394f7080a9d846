package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/hastilong/storefront/api/responses"
	"github.com/hastilong/storefront/internal/session"
	pkgerrors "github.com/hastilong/storefront/pkg/errors"
	"github.com/hastilong/storefront/pkg/logger"
)

const sessionIDHeader = "X-Session-Id"

type ctxKey string

const ctxSession ctxKey = "session"

// SessionSource resolves a session by id, creating it when unknown.
type SessionSource interface {
	Get(ctx context.Context, id string) (*session.Session, error)
}

// Session attaches the caller's session to the request context. A missing or
// malformed X-Session-Id is replaced with a fresh id, which is echoed back.
func Session(source SessionSource, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			id := strings.TrimSpace(r.Header.Get(sessionIDHeader))
			if !session.ValidID(id) {
				id = session.NewID()
			}
			w.Header().Set(sessionIDHeader, id)

			if logg != nil {
				ctx = logg.WithSessionID(ctx, id)
			}

			sess, err := source.Get(ctx, id)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load session"))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSession(ctx, sess)))
		})
	}
}

// WithSession stores sess on ctx.
func WithSession(ctx context.Context, sess *session.Session) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxSession, sess)
}

// SessionFromContext returns the session attached by the Session middleware.
func SessionFromContext(ctx context.Context) *session.Session {
	if ctx == nil {
		return nil
	}
	if sess, ok := ctx.Value(ctxSession).(*session.Session); ok {
		return sess
	}
	return nil
}

// RequestSession returns the request's session or writes an internal error
// when the Session middleware did not run.
func RequestSession(w http.ResponseWriter, r *http.Request, logg *logger.Logger) (*session.Session, bool) {
	sess := SessionFromContext(r.Context())
	if sess == nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session context missing"))
		return nil, false
	}
	return sess, true
}
