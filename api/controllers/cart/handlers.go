package cart

import (
	"net/http"

	"github.com/hastilong/storefront/api/middleware"
	"github.com/hastilong/storefront/api/responses"
	"github.com/hastilong/storefront/api/validators"
	"github.com/hastilong/storefront/internal/catalog"
	"github.com/hastilong/storefront/pkg/logger"
)

// CartFetch returns the session cart.
func CartFetch(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := middleware.RequestSession(w, r, logg)
		if !ok {
			return
		}
		responses.WriteSessionSuccess(w, http.StatusOK, newCartResponse(sess.Cart.Snapshot()), sess.Feed.Drain())
	}
}

// CartAddItem looks the product up in the catalog and adds one unit.
func CartAddItem(products catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := middleware.RequestSession(w, r, logg)
		if !ok {
			return
		}
		var payload addItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteSessionError(r.Context(), logg, w, err, sess.Feed.Drain())
			return
		}
		product, err := products.ByID(r.Context(), payload.ProductID)
		if err != nil {
			responses.WriteSessionError(r.Context(), logg, w, err, sess.Feed.Drain())
			return
		}
		sess.Cart.AddToCart(r.Context(), product)
		responses.WriteSessionSuccess(w, http.StatusOK, newCartResponse(sess.Cart.Snapshot()), sess.Feed.Drain())
	}
}

func CartUpdateItem(logg *logger.Logger) http.HandlerFunc {
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
		var payload updateItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteSessionError(r.Context(), logg, w, err, sess.Feed.Drain())
			return
		}
		sess.Cart.UpdateQuantity(r.Context(), id, *payload.Quantity)
		responses.WriteSessionSuccess(w, http.StatusOK, newCartResponse(sess.Cart.Snapshot()), sess.Feed.Drain())
	}
}

func CartRemoveItem(logg *logger.Logger) http.HandlerFunc {
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
		sess.Cart.RemoveFromCart(r.Context(), id)
		responses.WriteSessionSuccess(w, http.StatusOK, newCartResponse(sess.Cart.Snapshot()), sess.Feed.Drain())
	}
}

func CartClear(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := middleware.RequestSession(w, r, logg)
		if !ok {
			return
		}
		sess.Cart.ClearCart(r.Context())
		responses.WriteSessionSuccess(w, http.StatusOK, newCartResponse(sess.Cart.Snapshot()), sess.Feed.Drain())
	}
}

// CartApplyCoupon answers 200 whether or not the code was accepted; the
// outcome is in "applied" and the notification feed.
func CartApplyCoupon(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := middleware.RequestSession(w, r, logg)
		if !ok {
			return
		}
		var payload couponRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteSessionError(r.Context(), logg, w, err, sess.Feed.Drain())
			return
		}
		applied := sess.Cart.ApplyCoupon(r.Context(), payload.Code)
		responses.WriteSessionSuccess(w, http.StatusOK, couponResponse{
			Applied: applied,
			Cart:    newCartResponse(sess.Cart.Snapshot()),
		}, sess.Feed.Drain())
	}
}
