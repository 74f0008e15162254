package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/rohanmahajan/furnimart-backend/api/routes"
	"github.com/rohanmahajan/furnimart-backend/internal/auth"
	"github.com/rohanmahajan/furnimart-backend/internal/cart"
	"github.com/rohanmahajan/furnimart-backend/internal/checkout"
	"github.com/rohanmahajan/furnimart-backend/internal/inventory"
	"github.com/rohanmahajan/furnimart-backend/internal/orders"
	"github.com/rohanmahajan/furnimart-backend/internal/payments"
	"github.com/rohanmahajan/furnimart-backend/internal/products"
	"github.com/rohanmahajan/furnimart-backend/internal/users"
	"github.com/rohanmahajan/furnimart-backend/internal/wishlist"
	"github.com/rohanmahajan/furnimart-backend/pkg/config"
	"github.com/rohanmahajan/furnimart-backend/pkg/db"
	"github.com/rohanmahajan/furnimart-backend/pkg/logger"
	"github.com/rohanmahajan/furnimart-backend/pkg/metrics"
	"github.com/rohanmahajan/furnimart-backend/pkg/migrate"
	"github.com/rohanmahajan/furnimart-backend/pkg/razorpay"
	"github.com/rohanmahajan/furnimart-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	gateway, err := razorpay.NewClient(context.Background(), cfg.Razorpay, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap payment gateway", err)
		os.Exit(1)
	}

	gormDB := dbClient.DB()

	usersRepo := users.NewRepository(gormDB)
	productsRepo := products.NewRepository(gormDB)
	cartRepo := cart.NewRepository(gormDB)
	wishlistRepo := wishlist.NewRepository(gormDB)
	ordersRepo := orders.NewRepository(gormDB)
	paymentsRepo := payments.NewRepository(gormDB)

	ledger, err := inventory.NewLedger(logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create inventory ledger", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(usersRepo, cfg.JWT, cfg.Password)
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}
	usersService, err := users.NewService(usersRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create users service", err)
		os.Exit(1)
	}
	productsService, err := products.NewService(productsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create products service", err)
		os.Exit(1)
	}
	cartService, err := cart.NewService(cartRepo, productsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}
	wishlistService, err := wishlist.NewService(wishlistRepo, productsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create wishlist service", err)
		os.Exit(1)
	}
	ordersService, err := orders.NewService(ordersRepo, dbClient, ledger, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}
	paymentsService, err := payments.NewService(paymentsRepo, ordersRepo, dbClient, gateway.Secret(), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create payments service", err)
		os.Exit(1)
	}
	checkoutService, err := checkout.NewService(
		dbClient,
		cartRepo,
		ordersRepo,
		paymentsRepo,
		usersRepo,
		productsRepo,
		gateway,
		cfg.Razorpay.KeyID,
		cfg.Razorpay.Currency,
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	httpMetrics := metrics.NewHTTPMetrics()

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, httpMetrics, routes.Services{
			Auth:     authService,
			Users:    usersService,
			Products: productsService,
			Cart:     cartService,
			Wishlist: wishlistService,
			Checkout: checkoutService,
			Orders:   ordersService,
			Payments: paymentsService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
