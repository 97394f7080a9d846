package controllers

import (
	"errors"
	"net/http"

	"github.com/hastilong/storefront/api/middleware"
	"github.com/hastilong/storefront/api/responses"
	"github.com/hastilong/storefront/internal/users"
	pkgerrors "github.com/hastilong/storefront/pkg/errors"
	"github.com/hastilong/storefront/pkg/logger"
)

// Me returns the user record persisted by the last completed sign-in.
func Me(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := middleware.RequestSession(w, r, logg)
		if !ok {
			return
		}
		rec, err := sess.Users.Load(r.Context())
		if errors.Is(err, users.ErrNoUser) {
			responses.WriteSessionError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "no signed in user"), sess.Feed.Drain())
			return
		}
		if err != nil {
			responses.WriteSessionError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user"), sess.Feed.Drain())
			return
		}
		responses.WriteSessionSuccess(w, http.StatusOK, rec, sess.Feed.Drain())
	}
}
