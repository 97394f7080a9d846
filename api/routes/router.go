package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hastilong/storefront/api/controllers"
	cartcontrollers "github.com/hastilong/storefront/api/controllers/cart"
	signincontrollers "github.com/hastilong/storefront/api/controllers/signin"
	"github.com/hastilong/storefront/api/middleware"
	"github.com/hastilong/storefront/internal/admin"
	"github.com/hastilong/storefront/internal/catalog"
	"github.com/hastilong/storefront/pkg/config"
	"github.com/hastilong/storefront/pkg/kv"
	"github.com/hastilong/storefront/pkg/logger"
)

// Deps are the services the router wires into handlers.
type Deps struct {
	Sessions  middleware.SessionSource
	Catalog   catalog.Service
	Admin     admin.Service
	RateStore middleware.RateLimitStore
	Pingers   map[string]kv.Pinger
	Metrics   prometheus.Gatherer
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Deps) http.Handler {
	r := chi.NewRouter()
	if cfg.App.TrustProxyHeaders {
		r.Use(chimiddleware.RealIP)
	}
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	otpPolicy := middleware.NewRateLimitPolicy(
		"otp",
		cfg.SignIn.RateLimitWindow,
		cfg.SignIn.RateLimit*2,
		cfg.SignIn.RateLimit,
	)
	adminLoginPolicy := middleware.NewRateLimitPolicy(
		"admin_login",
		cfg.SignIn.RateLimitWindow,
		cfg.SignIn.RateLimit*2,
		cfg.SignIn.RateLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.Pingers))
	})

	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Metrics, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", controllers.ListProducts(deps.Catalog, logg))
		r.Get("/products/{productId}", controllers.GetProduct(deps.Catalog, logg))
		r.Get("/categories", controllers.ListCategories(deps.Catalog))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Session(deps.Sessions, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", cartcontrollers.CartFetch(logg))
				r.Delete("/", cartcontrollers.CartClear(logg))
				r.Post("/items", cartcontrollers.CartAddItem(deps.Catalog, logg))
				r.Patch("/items/{productId}", cartcontrollers.CartUpdateItem(logg))
				r.Delete("/items/{productId}", cartcontrollers.CartRemoveItem(logg))
				r.Post("/coupon", cartcontrollers.CartApplyCoupon(logg))
			})

			r.Route("/signin", func(r chi.Router) {
				r.Get("/", signincontrollers.SignInView(logg))
				r.Post("/mode", signincontrollers.SignInToggleMode(logg))
				r.Post("/mobile", signincontrollers.SignInChooseMobile(logg))
				r.Post("/back", signincontrollers.SignInBack(logg))
				r.Post("/reset", signincontrollers.SignInReset(logg))
				r.Put("/form", signincontrollers.SignInUpdateForm(logg))
				r.Get("/otp/link", signincontrollers.SignInDeepLink(logg))
				r.With(middleware.RateLimit(otpPolicy, deps.RateStore, logg)).Post("/otp", signincontrollers.SignInSubmit(logg))
				r.With(middleware.RateLimit(otpPolicy, deps.RateStore, logg)).Post("/otp/resend", signincontrollers.SignInResend(logg))
				r.Post("/finalize", signincontrollers.SignInFinalize(logg))
				r.Post("/google", signincontrollers.SignInGoogle(logg))
			})

			r.Get("/me", controllers.Me(logg))

			r.Route("/admin", func(r chi.Router) {
				r.With(middleware.RateLimit(adminLoginPolicy, deps.RateStore, logg)).Post("/login", controllers.AdminLogin(deps.Admin, logg))
				r.Post("/logout", controllers.AdminLogout(deps.Admin, logg))
			})
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Session(deps.Sessions, logg))
		r.Use(middleware.RequireAdmin(deps.Admin, logg))
		r.Patch("/products/{productId}", controllers.AdminUpdatePrice(deps.Admin, logg))
	})

	return r
}
