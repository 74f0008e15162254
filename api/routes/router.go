package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rohanmahajan/furnimart-backend/api/controllers"
	"github.com/rohanmahajan/furnimart-backend/api/middleware"
	authsvc "github.com/rohanmahajan/furnimart-backend/internal/auth"
	cartsvc "github.com/rohanmahajan/furnimart-backend/internal/cart"
	checkoutsvc "github.com/rohanmahajan/furnimart-backend/internal/checkout"
	ordersvc "github.com/rohanmahajan/furnimart-backend/internal/orders"
	paymentsvc "github.com/rohanmahajan/furnimart-backend/internal/payments"
	productsvc "github.com/rohanmahajan/furnimart-backend/internal/products"
	usersvc "github.com/rohanmahajan/furnimart-backend/internal/users"
	wishlistsvc "github.com/rohanmahajan/furnimart-backend/internal/wishlist"
	"github.com/rohanmahajan/furnimart-backend/pkg/config"
	"github.com/rohanmahajan/furnimart-backend/pkg/db"
	"github.com/rohanmahajan/furnimart-backend/pkg/logger"
	"github.com/rohanmahajan/furnimart-backend/pkg/metrics"
	pkgredis "github.com/rohanmahajan/furnimart-backend/pkg/redis"
)

// Services bundles the service layer handed to the router.
type Services struct {
	Auth     authsvc.Service
	Users    usersvc.Service
	Products productsvc.Service
	Cart     cartsvc.Service
	Wishlist wishlistsvc.Service
	Checkout checkoutsvc.Service
	Orders   ordersvc.Service
	Payments paymentsvc.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *pkgredis.Client,
	httpMetrics *metrics.HTTPMetrics,
	services Services,
) http.Handler {
	r := chi.NewRouter()

	// A typed-nil client must not reach the middleware as a non-nil interface.
	var idemStore pkgredis.IdempotencyStore
	if redisClient != nil {
		idemStore = redisClient
	}
	idempotency := middleware.Idempotency(idemStore, logg)

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(cfg.App.FrontendURL),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	if httpMetrics != nil {
		r.Method(http.MethodGet, "/metrics", httpMetrics.Handler())
	}

	// Public surface: registration, login, catalog reads, and the gateway
	// payment callback (authenticated by signature, not by session).
	r.Route("/api/auth", func(r chi.Router) {
		r.With(idempotency).Post("/register", controllers.AuthRegister(services.Auth, logg))
		r.Post("/login", controllers.AuthLogin(services.Auth, logg))
	})

	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", controllers.ProductsList(services.Products, logg))
		r.Get("/{productID}", controllers.ProductsGet(services.Products, logg))
	})

	r.Post("/api/payments/verify", controllers.PaymentsVerify(services.Payments, logg))

	// Authenticated customer surface.
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(idempotency)

		r.Route("/api/users/me", func(r chi.Router) {
			r.Get("/", controllers.UsersGetProfile(services.Users, logg))
			r.Put("/", controllers.UsersUpdateProfile(services.Users, logg))
			r.Route("/addresses", func(r chi.Router) {
				r.Get("/", controllers.UsersListAddresses(services.Users, logg))
				r.Post("/", controllers.UsersAddAddress(services.Users, logg))
				r.Put("/{addressID}", controllers.UsersUpdateAddress(services.Users, logg))
				r.Delete("/{addressID}", controllers.UsersDeleteAddress(services.Users, logg))
			})
		})

		r.Route("/api/cart", func(r chi.Router) {
			r.Get("/", controllers.CartGet(services.Cart, logg))
			r.Post("/items", controllers.CartAddItem(services.Cart, logg))
			r.Put("/items/{productID}", controllers.CartUpdateItem(services.Cart, logg))
			r.Delete("/items/{productID}", controllers.CartRemoveItem(services.Cart, logg))
			r.Delete("/", controllers.CartClear(services.Cart, logg))
		})

		r.Route("/api/wishlist", func(r chi.Router) {
			r.Get("/", controllers.WishlistList(services.Wishlist, logg))
			r.Post("/{productID}", controllers.WishlistAdd(services.Wishlist, logg))
			r.Delete("/{productID}", controllers.WishlistRemove(services.Wishlist, logg))
		})

		r.Post("/api/checkout", controllers.Checkout(services.Checkout, logg))

		r.Route("/api/orders", func(r chi.Router) {
			r.Get("/", controllers.OrdersListMine(services.Orders, logg))
			r.Get("/{orderID}", controllers.OrdersGet(services.Orders, logg))
			r.Post("/{orderID}/cancel", controllers.OrdersRequestCancellation(services.Orders, logg))
		})
	})

	// Admin surface.
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireAdmin(logg))
		r.Use(idempotency)

		r.Route("/api/admin/products", func(r chi.Router) {
			r.Post("/", controllers.ProductsCreate(services.Products, logg))
			r.Put("/{productID}", controllers.ProductsUpdate(services.Products, logg))
			r.Delete("/{productID}", controllers.ProductsDelete(services.Products, logg))
		})

		r.Get("/api/admin/users", controllers.AdminUsersList(services.Users, logg))

		r.Route("/api/admin/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminOrdersList(services.Orders, logg))
			r.Get("/cancellations", controllers.AdminOrdersPendingCancellations(services.Orders, logg))
			r.Put("/{orderID}/status", controllers.AdminOrdersSetStatus(services.Orders, logg))
			r.Post("/{orderID}/cancellation", controllers.AdminOrdersResolveCancellation(services.Orders, logg))
		})
	})

	return r
}
