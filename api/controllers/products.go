package controllers

import (
	"net/http"
	"strings"

	"github.com/hastilong/storefront/api/controllers/dto"
	"github.com/hastilong/storefront/api/responses"
	"github.com/hastilong/storefront/api/validators"
	"github.com/hastilong/storefront/internal/catalog"
	"github.com/hastilong/storefront/pkg/enums"
	pkgerrors "github.com/hastilong/storefront/pkg/errors"
	"github.com/hastilong/storefront/pkg/logger"
)

// ListProducts returns the catalog, optionally narrowed by ?category= and
// ?featured=true.
func ListProducts(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var filter catalog.ListFilter

		if raw := strings.TrimSpace(r.URL.Query().Get("category")); raw != "" {
			category, err := enums.ParseProductCategory(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown category").
					WithDetails(map[string]any{"category": raw}))
				return
			}
			filter.Category = &category
		}

		featured, err := validators.ParseQueryBool(r, "featured")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filter.FeaturedOnly = featured

		responses.WriteSuccess(w, dto.NewProducts(svc.List(r.Context(), filter)))
	}
}

func GetProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathInt(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := svc.ByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto.NewProduct(product))
	}
}

func ListCategories(svc catalog.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, dto.NewCategories(svc.Categories(r.Context())))
	}
}
