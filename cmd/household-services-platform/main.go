package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/servease/household-services-platform/internal/api/handlers"
	"github.com/servease/household-services-platform/internal/api/middleware"
	"github.com/servease/household-services-platform/internal/cache"
	"github.com/servease/household-services-platform/internal/config"
	"github.com/servease/household-services-platform/internal/health"
	"github.com/servease/household-services-platform/internal/metrics"
	"github.com/servease/household-services-platform/internal/pricing"
	repository "github.com/servease/household-services-platform/internal/repositories"
	"github.com/servease/household-services-platform/internal/resolver"
	service "github.com/servease/household-services-platform/internal/services"
	"github.com/servease/household-services-platform/internal/telemetry"
	"github.com/servease/household-services-platform/pkg/lookup"
	"github.com/servease/household-services-platform/pkg/sendgrid"
)

func main() {

	// Logger setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load config
	cfg := config.MustLoad()

	ctx := context.Background()

	// Tracing setup
	if cfg.Telemetry.OTLPEndpoint != "" {
		shutdownTracing, err := telemetry.SetupTracing(ctx, cfg.Telemetry.OTLPEndpoint, cfg.Env)
		if err != nil {
			slog.Error("❌ Error setting up tracing", "error", err.Error())
			os.Exit(1)
		}

		defer func() {
			flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := shutdownTracing(flushCtx); err != nil {
				slog.Warn("⚠️ Error flushing traces", slog.String("error", err.Error()))
			}
		}()
	}

	// Database setup
	repos, err := repository.New(cfg)
	if err != nil {
		slog.Error("❌ Error accessing the database", "error", err.Error())
		os.Exit(1)
	}

	defer func() {
		if err := repos.Close(); err != nil {
			slog.Error("⚠️ Error closing database connection", slog.String("error", err.Error()))
		} else {
			slog.Info("✅ Database connection closed")
		}
	}()

	// Redis setup
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisConnect.Host,
		Username: cfg.RedisConnect.Username,
		Password: cfg.RedisConnect.Password,
		DB:       cfg.RedisConnect.DB,
	})

	if err := redisClient.Ping(ctx).Err(); err != nil {
		slog.Error("❌ Error accessing the redis instance", "error", err.Error())
		os.Exit(1)
	}

	cacheStore := cache.NewRedisCache(redisClient)

	defer func() {
		if err := cacheStore.Close(); err != nil {
			slog.Error("⚠️ Error closing redis connection", slog.String("error", err.Error()))
		}
	}()

	// Resolution lookup: remote config service when configured, otherwise
	// the local catalog.
	var refLookup resolver.Lookup
	if cfg.Resolver.BaseURL != "" {
		refLookup = lookup.NewClient(cfg.Resolver.BaseURL, cfg.Resolver.Timeout)
	} else {
		refLookup = resolver.NewCatalogLookup(repos.Catalog)
	}

	refResolver := resolver.New(refLookup, cacheStore, cfg.Cache.ResolutionTTL, cfg.Resolver.Timeout, cfg.Resolver.MaxConcurrency)

	// Services and handlers
	aggregator := pricing.NewAggregator(&cfg.Pricing)
	couponService := service.NewCouponService(repos.Coupon, cacheStore, cfg.Cache.CouponTTL, aggregator)
	cartService := service.NewCartService(repos.Cart, repos.Catalog, couponService, aggregator)
	orderService := service.NewOrderService(repos.Order)

	var notificationService *service.NotificationService
	if cfg.SendGrid.APIKey != "" {
		emailClient := sendgrid.NewEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)
		notificationService = service.NewNotificationService(emailClient)
	}

	checkoutService := service.NewCheckoutService(cartService, repos.Address, refResolver, orderService, notificationService, cfg.Checkout.SubmitTimeout)

	cartHandler := handlers.NewCartHandler(cartService)
	couponHandler := handlers.NewCouponHandler(couponService)
	orderHandler := handlers.NewOrderHandler(orderService)
	checkoutHandler := handlers.NewCheckoutHandler(checkoutService)
	configHandler := handlers.NewConfigHandler(repos.Catalog)
	addressHandler := handlers.NewAddressHandler(repos.Address)
	authMiddleware := middleware.NewAuthMiddleware([]byte(cfg.Security.JWTKey))

	healthHandler, err := health.NewHealthHandler(cfg)
	if err != nil {
		slog.Error("❌ Error creating health handler", "error", err.Error())
		os.Exit(1)
	}

	slog.Info("storage initialized", slog.String("env", cfg.Env), slog.String("version", "1.0.0"))

	// Setup router
	routerMux := http.NewServeMux()
	routerMux.HandleFunc("GET /api/cart", authMiddleware.Authenticate(cartHandler.GetCart()))
	routerMux.HandleFunc("POST /api/cart/items", authMiddleware.Authenticate(cartHandler.AddItem()))
	routerMux.HandleFunc("PUT /api/cart/items/{id}", authMiddleware.Authenticate(cartHandler.UpdateQuantity()))
	routerMux.HandleFunc("DELETE /api/cart/items/{id}", authMiddleware.Authenticate(cartHandler.RemoveItem()))
	routerMux.HandleFunc("DELETE /api/cart", authMiddleware.Authenticate(cartHandler.ClearCart()))
	routerMux.HandleFunc("POST /api/cart/coupon", authMiddleware.Authenticate(cartHandler.ApplyCoupon()))
	routerMux.HandleFunc("DELETE /api/cart/coupon", authMiddleware.Authenticate(cartHandler.RemoveCoupon()))
	routerMux.HandleFunc("GET /api/coupons", couponHandler.ListCoupons())
	routerMux.HandleFunc("POST /api/coupons/validate", couponHandler.ValidateCoupon())
	routerMux.HandleFunc("POST /api/checkout", authMiddleware.Authenticate(checkoutHandler.Submit()))
	routerMux.HandleFunc("POST /api/orders", authMiddleware.Authenticate(orderHandler.CreateOrder()))
	routerMux.HandleFunc("GET /api/orders", authMiddleware.Authenticate(orderHandler.ListOrders()))
	routerMux.HandleFunc("GET /api/orders/{id}", authMiddleware.Authenticate(orderHandler.GetOrder()))
	routerMux.HandleFunc("PUT /api/orders/{id}", authMiddleware.Authenticate(orderHandler.UpdateOrderStatus()))
	routerMux.HandleFunc("PUT /api/orders/{id}/cancel", authMiddleware.Authenticate(orderHandler.CancelOrder()))
	routerMux.HandleFunc("GET /api/addresses", authMiddleware.Authenticate(addressHandler.ListAddresses()))
	routerMux.HandleFunc("GET /api/config/resolve/{kind}/{ref}", configHandler.ResolveRef())
	routerMux.HandleFunc("GET /api/config/time-slots", configHandler.ListTimeSlots())
	routerMux.Handle("GET /metrics", metrics.Handler())
	routerMux.Handle("GET /health", healthHandler.Handler())

	// Middleware chaining
	var handler http.Handler = routerMux
	handler = middleware.Logging(handler)
	handler = metrics.Middleware(handler)
	handler = otelhttp.NewHandler(handler, "household-services-platform")

	// Setup http server
	server := http.Server{
		Addr:    cfg.Addr,
		Handler: handler,
	}

	slog.Info("🚀 Server is starting...", slog.String("address", cfg.Addr))

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("❌ Failed to start server", slog.Any("error", err.Error()))
		}
	}()

	<-done

	slog.Warn("🛑 Shutdown signal received. Preparing to stop the server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("⚠️ Server shutdown encountered an issue", slog.String("error", err.Error()))
	} else {
		slog.Info("✅ Server shut down gracefully. All connections closed.")
	}
}
