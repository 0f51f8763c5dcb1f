package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/priyansupat/farmdirect-backend/api/controllers"
	"github.com/priyansupat/farmdirect-backend/api/middleware"
	"github.com/priyansupat/farmdirect-backend/internal/auth"
	"github.com/priyansupat/farmdirect-backend/internal/cart"
	"github.com/priyansupat/farmdirect-backend/internal/catalog"
	"github.com/priyansupat/farmdirect-backend/internal/checkout"
	"github.com/priyansupat/farmdirect-backend/internal/orders"
	"github.com/priyansupat/farmdirect-backend/internal/recommend"
	"github.com/priyansupat/farmdirect-backend/internal/reviews"
	"github.com/priyansupat/farmdirect-backend/pkg/auth/session"
	"github.com/priyansupat/farmdirect-backend/pkg/config"
	"github.com/priyansupat/farmdirect-backend/pkg/db"
	"github.com/priyansupat/farmdirect-backend/pkg/enums"
	"github.com/priyansupat/farmdirect-backend/pkg/logger"
	redisclient "github.com/priyansupat/farmdirect-backend/pkg/redis"
)

// Dependencies carries everything the HTTP surface needs.
type Dependencies struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       *db.Client
	Redis    *redisclient.Client
	Sessions *session.Manager

	Auth      auth.Service
	Catalog   catalog.Service
	Cart      cart.Service
	Checkout  checkout.Service
	Orders    orders.Service
	Reviews   reviews.Service
	Recommend recommend.Service
}

// New assembles the full route tree.
func New(deps Dependencies) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()

	r.Use(middleware.Recoverer(logg))
	r.Use(middleware.RequestID(logg))
	r.Use(chimw.RealIP)
	r.Use(middleware.Metrics())
	r.Use(middleware.Logging(logg))

	r.Get("/health/live", controllers.HealthLive(cfg))
	r.Get("/health/ready", controllers.HealthReady(cfg, deps.DB, deps.Redis, logg))
	r.Handle("/metrics", promhttp.Handler())

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginUserLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterUserLimit,
	)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(registerPolicy, deps.Redis, logg)).
				Post("/register", controllers.Register(deps.Auth, logg))
			r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).
				Post("/login", controllers.Login(deps.Auth, logg))
			r.Post("/refresh", controllers.Refresh(deps.Auth, logg))
			r.Post("/logout", controllers.Logout(deps.Auth, logg))
		})

		// Browsing is open; anything that mutates requires a session.
		r.Get("/products", controllers.ListProducts(deps.Catalog, logg))
		r.Get("/products/{productID}", controllers.GetProduct(deps.Catalog, deps.Reviews, logg))

		r.Post("/recommend", controllers.Recommend(deps.Recommend, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))

			r.Patch("/me", controllers.UpdateProfile(deps.Auth, logg))
			r.Get("/orders/{orderID}/items", controllers.GetOrderItems(deps.Orders, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(enums.UserRoleConsumer.String(), logg))

				r.Get("/cart", controllers.GetCart(deps.Cart, logg))
				r.Post("/cart/items", controllers.AddCartItem(deps.Cart, logg))
				r.Patch("/cart/items/{productID}", controllers.SetCartItemQuantity(deps.Cart, logg))
				r.Post("/checkout", controllers.Checkout(deps.Cart, deps.Checkout, logg))
				r.Get("/orders", controllers.ListConsumerOrders(deps.Orders, logg))
				r.Post("/products/{productID}/reviews", controllers.AddReview(deps.Reviews, logg))
			})

			r.Route("/farmer", func(r chi.Router) {
				r.Use(middleware.RequireRole(enums.UserRoleFarmer.String(), logg))

				r.Get("/products", controllers.ListFarmerProducts(deps.Catalog, logg))
				r.Post("/products", controllers.CreateProduct(deps.Catalog, logg))
				r.Patch("/products/{productID}", controllers.UpdateProduct(deps.Catalog, logg))
				r.Delete("/products/{productID}", controllers.DeleteProduct(deps.Catalog, logg))
				r.Get("/orders", controllers.ListFarmerOrders(deps.Orders, logg))
				r.Post("/orders/{orderID}/status", controllers.UpdateOrderStatus(deps.Orders, logg))
				r.Get("/stats", controllers.GetFarmerStats(deps.Orders, logg))
			})
		})
	})

	return r
}
