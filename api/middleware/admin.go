package middleware

import (
	"net/http"

	"github.com/hastilong/storefront/api/responses"
	"github.com/hastilong/storefront/internal/admin"
	pkgerrors "github.com/hastilong/storefront/pkg/errors"
	"github.com/hastilong/storefront/pkg/logger"
)

// RequireAdmin rejects requests whose session does not carry the admin flag.
func RequireAdmin(svc admin.Service, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			sess := SessionFromContext(ctx)
			if sess == nil {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "session required"))
				return
			}

			ok, err := svc.IsAdmin(ctx, sess.Store)
			if err != nil {
				responses.WriteSessionError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read admin flag"), sess.Feed.Drain())
				return
			}
			if !ok {
				responses.WriteSessionError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "admin access required"), sess.Feed.Drain())
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
