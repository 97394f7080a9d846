package validators

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	pkgerrors "github.com/hastilong/storefront/pkg/errors"
)

type priceRequest struct {
	Price string `json:"price" validate:"required,price"`
}

type backRequest struct {
	To string `json:"to" validate:"omitempty,oneof=choice mobile"`
}

func TestDecodeJSONBodyValidatesPrice(t *testing.T) {
	req := httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"price":"$79.50"}`))
	var body priceRequest
	if err := DecodeJSONBody(req, &body); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req = httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"price":"-3"}`))
	err := DecodeJSONBody(req, &body)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	details, ok := typed.Details().(map[string]string)
	if !ok || details["price"] == "" {
		t.Fatalf("expected price detail, got %#v", typed.Details())
	}
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"price":"1","extra":true}`))
	var body priceRequest
	if err := DecodeJSONBody(req, &body); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDecodeOptionalJSONBodyAcceptsEmpty(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	var body backRequest
	if err := DecodeOptionalJSONBody(req, &body); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	if err := DecodeJSONBody(req, &body); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected required body error, got %v", err)
	}

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"to":"otp"}`))
	if err := DecodeOptionalJSONBody(req, &body); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected oneof error, got %v", err)
	}
}

func TestParsePathInt(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/products/12", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("productId", "12")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	got, err := ParsePathInt(req, "productId")
	if err != nil || got != 12 {
		t.Fatalf("expected 12, got %d (%v)", got, err)
	}

	rctx.URLParams = chi.RouteParams{}
	rctx.URLParams.Add("productId", "zero")
	if _, err := ParsePathInt(req, "productId"); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestParseQueryBool(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/products?featured=true", nil)
	if v, err := ParseQueryBool(req, "featured"); err != nil || !v {
		t.Fatalf("expected true, got %v (%v)", v, err)
	}
	req = httptest.NewRequest(http.MethodGet, "/products?featured=maybe", nil)
	if _, err := ParseQueryBool(req, "featured"); err == nil {
		t.Fatal("expected error")
	}
}
