package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hastilong/storefront/api/middleware"
	"github.com/hastilong/storefront/internal/admin"
	"github.com/hastilong/storefront/internal/catalog"
	"github.com/hastilong/storefront/internal/session"
	"github.com/hastilong/storefront/internal/signin"
	"github.com/hastilong/storefront/internal/users"
	"github.com/hastilong/storefront/pkg/config"
	"github.com/hastilong/storefront/pkg/kv"
	"github.com/hastilong/storefront/pkg/logger"
	"github.com/hastilong/storefront/pkg/security"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Notifications []struct {
		Kind    string `json:"kind"`
		Message string `json:"message"`
	} `json:"notifications"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard})
}

func testSession(t *testing.T) *session.Session {
	t.Helper()
	reg, err := session.NewRegistry(session.Options{
		Store:      kv.NewMemory(),
		Dispatcher: signin.NewMockDispatcher(0),
		IdleTTL:    time.Minute,
	})
	require.NoError(t, err)
	sess, err := reg.Get(context.Background(), session.NewID())
	require.NoError(t, err)
	return sess
}

func withRoute(req *http.Request, sess *session.Session, params map[string]string) *http.Request {
	ctx := req.Context()
	if sess != nil {
		ctx = middleware.WithSession(ctx, sess)
	}
	routeCtx := chi.NewRouteContext()
	for k, v := range params {
		routeCtx.URLParams.Add(k, v)
	}
	ctx = context.WithValue(ctx, chi.RouteCtxKey, routeCtx)
	return req.WithContext(ctx)
}

func testCatalog(t *testing.T) catalog.Service {
	t.Helper()
	svc, err := catalog.NewService(catalog.SeedProducts())
	require.NoError(t, err)
	return svc
}

type pinger func(context.Context) error

func (p pinger) Ping(ctx context.Context) error { return p(ctx) }

func TestHealth(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Env: "dev"}}

	rec := httptest.NewRecorder()
	HealthLive(cfg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "dev", rec.Header().Get(envHeader))

	healthy := map[string]kv.Pinger{"storage": kv.NewMemory()}
	rec = httptest.NewRecorder()
	HealthReady(cfg, testLogger(), healthy).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ready","checks":{"storage":"ok"}}`, string(decode(t, rec).Data))

	failing := map[string]kv.Pinger{"storage": pinger(func(context.Context) error { return errors.New("down") })}
	rec = httptest.NewRecorder()
	HealthReady(cfg, testLogger(), failing).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestListProducts(t *testing.T) {
	svc := testCatalog(t)
	handler := ListProducts(svc, testLogger())

	cases := []struct {
		name   string
		query  string
		status int
		count  int
	}{
		{name: "all", query: "", status: http.StatusOK, count: len(catalog.SeedProducts())},
		{name: "featured", query: "?featured=true", status: http.StatusOK, count: 4},
		{name: "category slug", query: "?category=arts-crafts", status: http.StatusOK, count: 1},
		{name: "category name", query: "?category=Puja", status: http.StatusOK, count: 4},
		{name: "unknown category", query: "?category=garden", status: http.StatusBadRequest},
		{name: "bad featured", query: "?featured=sometimes", status: http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/products"+tc.query, nil))
			require.Equal(t, tc.status, rec.Code, rec.Body.String())
			if tc.status != http.StatusOK {
				return
			}
			var products []map[string]any
			require.NoError(t, json.Unmarshal(decode(t, rec).Data, &products))
			assert.Len(t, products, tc.count)
		})
	}
}

func TestGetProduct(t *testing.T) {
	svc := testCatalog(t)
	handler := GetProduct(svc, testLogger())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, withRoute(httptest.NewRequest(http.MethodGet, "/api/v1/products/1", nil), nil, map[string]string{"productId": "1"}))
	require.Equal(t, http.StatusOK, rec.Code)
	var product map[string]any
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &product))
	assert.Equal(t, "Artisan Ceramic Vase", product["name"])
	assert.Equal(t, "$89.99", product["price"])
	assert.Equal(t, "home-decor", product["category_slug"])

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, withRoute(httptest.NewRequest(http.MethodGet, "/api/v1/products/999", nil), nil, map[string]string{"productId": "999"}))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, withRoute(httptest.NewRequest(http.MethodGet, "/api/v1/products/abc", nil), nil, map[string]string{"productId": "abc"}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListCategories(t *testing.T) {
	rec := httptest.NewRecorder()
	ListCategories(testCatalog(t)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/categories", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var categories []struct {
		Slug         string `json:"slug"`
		ProductCount int    `json:"product_count"`
	}
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &categories))
	counts := map[string]int{}
	for _, c := range categories {
		counts[c.Slug] = c.ProductCount
	}
	assert.Equal(t, 1, counts["toys"])
	assert.Equal(t, 4, counts["puja"])
}

func TestMe(t *testing.T) {
	sess := testSession(t)
	handler := Me(testLogger())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, withRoute(httptest.NewRequest(http.MethodGet, "/api/v1/me", nil), sess, nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	require.NoError(t, sess.Users.Save(context.Background(), users.MobileRecord("Asha", "9876543210")))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, withRoute(httptest.NewRequest(http.MethodGet, "/api/v1/me", nil), sess, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"provider":"mobile","name":"Asha","mobile":"9876543210"}`, string(decode(t, rec).Data))
}

func TestMeWithoutSession(t *testing.T) {
	rec := httptest.NewRecorder()
	Me(testLogger()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/me", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestAdminFlow(t *testing.T) {
	products := testCatalog(t)
	hash, err := security.HashPassword("letmein", config.PasswordConfig{
		ArgonMemoryKB: 8192, ArgonTime: 1, ArgonParallelism: 1, ArgonSaltLen: 16, ArgonKeyLen: 32,
	})
	require.NoError(t, err)
	svc, err := admin.NewService(hash, products)
	require.NoError(t, err)
	sess := testSession(t)
	logg := testLogger()

	rec := httptest.NewRecorder()
	AdminLogin(svc, logg).ServeHTTP(rec, withRoute(httptest.NewRequest(http.MethodPost, "/api/v1/admin/login", strings.NewReader(`{"password":"nope"}`)), sess, nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	AdminLogin(svc, logg).ServeHTTP(rec, withRoute(httptest.NewRequest(http.MethodPost, "/api/v1/admin/login", strings.NewReader(`{"password":"letmein"}`)), sess, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	ok, err := svc.IsAdmin(context.Background(), sess.Store)
	require.NoError(t, err)
	assert.True(t, ok)

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/api/admin/v1/products/2", strings.NewReader(`{"price":"$39.50"}`))
	AdminUpdatePrice(svc, logg).ServeHTTP(rec, withRoute(req, sess, map[string]string{"productId": "2"}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	env := decode(t, rec)
	require.Len(t, env.Notifications, 1)
	assert.Equal(t, "Price updated! (Note: Changes are temporary without a backend)", env.Notifications[0].Message)
	updated, err := products.ByID(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "39.5", updated.Price.String())

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPatch, "/api/admin/v1/products/2", strings.NewReader(`{"price":"-1"}`))
	AdminUpdatePrice(svc, logg).ServeHTTP(rec, withRoute(req, sess, map[string]string{"productId": "2"}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	AdminLogout(svc, logg).ServeHTTP(rec, withRoute(httptest.NewRequest(http.MethodPost, "/api/v1/admin/logout", nil), sess, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	env = decode(t, rec)
	require.Len(t, env.Notifications, 1)
	assert.Equal(t, "success", env.Notifications[0].Kind)
	assert.Equal(t, "Logged out successfully!", env.Notifications[0].Message)
}
