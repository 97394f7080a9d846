package controllers

import (
	"net/http"

	"github.com/hastilong/storefront/api/controllers/dto"
	"github.com/hastilong/storefront/api/middleware"
	"github.com/hastilong/storefront/api/responses"
	"github.com/hastilong/storefront/api/validators"
	"github.com/hastilong/storefront/internal/admin"
	"github.com/hastilong/storefront/pkg/logger"
	"github.com/hastilong/storefront/pkg/money"
)

type adminLoginRequest struct {
	Password string `json:"password" validate:"required"`
}

type updatePriceRequest struct {
	Price string `json:"price" validate:"required,price"`
}

func AdminLogin(svc admin.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := middleware.RequestSession(w, r, logg)
		if !ok {
			return
		}
		var payload adminLoginRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteSessionError(r.Context(), logg, w, err, sess.Feed.Drain())
			return
		}
		if err := svc.Login(r.Context(), sess.Store, payload.Password); err != nil {
			responses.WriteSessionError(r.Context(), logg, w, err, sess.Feed.Drain())
			return
		}
		responses.WriteSessionSuccess(w, http.StatusOK, map[string]bool{"admin": true}, sess.Feed.Drain())
	}
}

func AdminLogout(svc admin.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := middleware.RequestSession(w, r, logg)
		if !ok {
			return
		}
		if err := svc.Logout(r.Context(), sess.Store, sess.Notifier()); err != nil {
			responses.WriteSessionError(r.Context(), logg, w, err, sess.Feed.Drain())
			return
		}
		responses.WriteSessionSuccess(w, http.StatusOK, map[string]bool{"admin": false}, sess.Feed.Drain())
	}
}

// AdminUpdatePrice edits a catalog price. The route is gated by RequireAdmin.
func AdminUpdatePrice(svc admin.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := middleware.RequestSession(w, r, logg)
		if !ok {
			return
		}
		id, err := validators.ParsePathInt(r, "productId")
		if err != nil {
			responses.WriteSessionError(r.Context(), logg, w, err, sess.Feed.Drain())
			return
		}
		var payload updatePriceRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteSessionError(r.Context(), logg, w, err, sess.Feed.Drain())
			return
		}
		price, err := money.Parse(payload.Price)
		if err != nil {
			responses.WriteSessionError(r.Context(), logg, w, err, sess.Feed.Drain())
			return
		}
		product, err := svc.UpdatePrice(r.Context(), sess.Notifier(), id, price)
		if err != nil {
			responses.WriteSessionError(r.Context(), logg, w, err, sess.Feed.Drain())
			return
		}
		responses.WriteSessionSuccess(w, http.StatusOK, dto.NewProduct(product), sess.Feed.Drain())
	}
}
