package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/furnora-labs/furnora-backend/api/controllers"
	"github.com/furnora-labs/furnora-backend/api/middleware"
	"github.com/furnora-labs/furnora-backend/internal/analytics"
	"github.com/furnora-labs/furnora-backend/internal/auth"
	"github.com/furnora-labs/furnora-backend/internal/cart"
	"github.com/furnora-labs/furnora-backend/internal/orders"
	"github.com/furnora-labs/furnora-backend/internal/products"
	"github.com/furnora-labs/furnora-backend/internal/reviews"
	"github.com/furnora-labs/furnora-backend/internal/wishlist"
	"github.com/furnora-labs/furnora-backend/pkg/auth/session"
	"github.com/furnora-labs/furnora-backend/pkg/config"
	"github.com/furnora-labs/furnora-backend/pkg/logger"
	"github.com/furnora-labs/furnora-backend/pkg/metrics"
	pkgredis "github.com/furnora-labs/furnora-backend/pkg/redis"
)

type pinger interface {
	Ping(ctx context.Context) error
}

// Deps bundles everything the router wires into handlers.
type Deps struct {
	Config  *config.Config
	Logger  *logger.Logger
	DB      pinger
	Redis   *pkgredis.Client
	Session session.AccessSessionChecker

	AuthService      auth.Service
	ProductService   products.Service
	CartService      cart.Service
	OrderService     orders.Service
	ReviewService    reviews.Service
	WishlistService  wishlist.Service
	AnalyticsService analytics.Service

	HTTPMetrics *metrics.HTTPMetrics
	Registry    *prometheus.Registry
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.Client.BaseURL),
		middleware.Metrics(deps.HTTPMetrics),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, deps.DB, deps.Redis, logg))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	// Product images and other assets uploaded through the admin panel.
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.Static.Dir))))

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(
				middleware.AuthRateLimit(registerPolicy, deps.Redis, logg),
				middleware.Idempotency(deps.Redis, logg),
			).Post("/register", controllers.Register(deps.AuthService, logg))
			r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).Post("/login", controllers.Login(deps.AuthService, logg))
			r.Post("/refresh", controllers.Refresh(deps.AuthService, logg))
			r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).Post("/forgot-password", controllers.ForgotPassword(deps.AuthService, !cfg.App.IsProd(), logg))
			r.Post("/reset-password", controllers.ResetPassword(deps.AuthService, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductsList(deps.ProductService, logg))
			r.Get("/{productID}", controllers.ProductGet(deps.ProductService, logg))
			r.Get("/{productID}/reviews", controllers.ReviewsList(deps.ReviewService, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, deps.Session, logg))
			r.Use(middleware.Idempotency(deps.Redis, logg))

			r.Get("/auth/me", controllers.Me(deps.AuthService, logg))
			r.Post("/auth/logout", controllers.Logout(deps.AuthService, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartGet(deps.CartService, logg))
				r.Delete("/", controllers.CartClear(deps.CartService, logg))
				r.Post("/items", controllers.CartAddItem(deps.CartService, logg))
				r.Put("/items/{itemID}", controllers.CartUpdateItem(deps.CartService, logg))
				r.Delete("/items/{itemID}", controllers.CartRemoveItem(deps.CartService, logg))
			})

			r.Post("/checkout", controllers.Checkout(deps.OrderService, logg))

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.OrdersList(deps.OrderService, logg))
				r.Get("/{orderID}", controllers.OrderGet(deps.OrderService, logg))
				r.Post("/{orderID}/pay", controllers.OrderPay(deps.OrderService, logg))
				r.Post("/{orderID}/cancel", controllers.OrderCancel(deps.OrderService, logg))
			})

			r.Route("/wishlist", func(r chi.Router) {
				r.Get("/", controllers.WishlistList(deps.WishlistService, logg))
				r.Get("/ids", controllers.WishlistIDs(deps.WishlistService, logg))
				r.Post("/", controllers.WishlistAdd(deps.WishlistService, logg))
				r.Delete("/{productID}", controllers.WishlistRemove(deps.WishlistService, logg))
			})

			r.Post("/products/{productID}/reviews", controllers.ReviewCreate(deps.ReviewService, logg))
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, deps.Session, logg))
			r.Use(middleware.RequireRole("admin", logg))
			r.Use(middleware.Idempotency(deps.Redis, logg))

			r.Route("/products", func(r chi.Router) {
				r.Post("/", controllers.ProductCreate(deps.ProductService, logg))
				r.Patch("/{productID}", controllers.ProductUpdate(deps.ProductService, logg))
				r.Delete("/{productID}", controllers.ProductDelete(deps.ProductService, logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.OrdersList(deps.OrderService, logg))
				r.Get("/export", controllers.AdminOrdersExport(deps.OrderService, logg))
				r.Patch("/{orderID}", controllers.AdminOrderUpdate(deps.OrderService, logg))
				r.Delete("/{orderID}", controllers.AdminOrderDelete(deps.OrderService, logg))
			})

			r.Route("/dashboard", func(r chi.Router) {
				r.Get("/stats", controllers.DashboardStats(deps.AnalyticsService, logg))
				r.Get("/timeseries", controllers.DashboardTimeseries(deps.AnalyticsService, cfg.Analytics, logg))
				r.Get("/abandoned", controllers.DashboardAbandoned(deps.AnalyticsService, cfg.Analytics, logg))
				r.Get("/top-products", controllers.DashboardTopProducts(deps.AnalyticsService, logg))
			})
		})
	})

	return r
}
