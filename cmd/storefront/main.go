package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/zahrabeauty/storefront/internal/api"
	"github.com/zahrabeauty/storefront/internal/config"
	"github.com/zahrabeauty/storefront/internal/health"
	"github.com/zahrabeauty/storefront/internal/kvstore"
	"github.com/zahrabeauty/storefront/internal/metrics"
	service "github.com/zahrabeauty/storefront/internal/services"
	"github.com/zahrabeauty/storefront/internal/telemetry"
)

func main() {

	// Logger setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load config
	cfg := config.MustLoad()

	ctx := context.Background()

	shutdownTracing, err := telemetry.Setup(ctx, &cfg.Telemetry)
	if err != nil {
		slog.Error("❌ Error setting up tracing", "error", err.Error())
		os.Exit(1)
	}

	// Redis-backed key-value store
	redisClient, err := kvstore.NewRedisClient(ctx, &cfg.RedisConnect)
	if err != nil {
		slog.Error("❌ Error accessing the redis instance", "error", err.Error())
		os.Exit(1)
	}

	store := kvstore.NewRedisStore(redisClient)

	defer func() {
		if err := store.Close(); err != nil {
			slog.Error("⚠️ Error closing redis connection", slog.String("error", err.Error()))
		} else {
			slog.Info("✅ Redis connection closed")
		}
	}()

	// Commerce API client
	client, err := api.New(&cfg.CommerceAPI)
	if err != nil {
		slog.Error("❌ Error building the commerce API client", "error", err.Error())
		os.Exit(1)
	}

	// Services, constructed once and passed by reference
	favoritesService := service.NewFavoritesService(store)
	basketService := service.NewBasketService(store)
	sellingPointService := service.NewSellingPointService(client, store)
	userService := service.NewUserService(client)
	checkoutService := service.NewCheckoutService(client, basketService, sellingPointService, userService, cfg.Checkout)

	// Restore persisted state
	favoritesService.Load(ctx)
	basketService.Load(ctx)
	sellingPointService.Load(ctx)

	// Update gate: log-only, the embedding front end decides what to do
	if cfg.CommerceAPI.ClientVersion != "" {
		valid, err := client.ValidateClientVersion(ctx, cfg.CommerceAPI.ClientVersion)
		if err != nil {
			slog.Warn("⚠️ Client version validation failed", slog.String("error", err.Error()))
		} else if !valid {
			slog.Warn("⚠️ Client build is outdated", slog.String("version", cfg.CommerceAPI.ClientVersion))
		}
	}

	// Session probe and store list
	if user := userService.RefreshSession(ctx); user != nil {
		slog.Info("Session restored", slog.String("email", user.Email))
	} else {
		slog.Info("No active session")
	}

	sellingPointService.Refresh(ctx)

	slog.Info("storefront initialized",
		slog.String("env", cfg.Env),
		slog.String("checkout_state", string(checkoutService.State())),
		slog.Int("selling_points", len(sellingPointService.Points())),
		slog.Int("basket_items", basketService.TotalItems()))

	// Status listener: health + metrics
	healthHandler, err := health.NewHealthHandler(cfg)
	if err != nil {
		slog.Error("❌ Error building the health handler", "error", err.Error())
		os.Exit(1)
	}

	statusMux := http.NewServeMux()
	statusMux.Handle("GET /healthz", healthHandler.Handler())
	statusMux.Handle("GET /metrics", metrics.Handler())

	server := http.Server{
		Addr:    cfg.StatusServer.Addr,
		Handler: statusMux,
	}

	slog.Info("🚀 Status server is starting...", slog.String("address", cfg.StatusServer.Addr))

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("❌ Failed to start status server", slog.Any("error", err.Error()))
		}
	}()

	<-done

	slog.Warn("🛑 Shutdown signal received. Preparing to stop...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Let in-flight persistence writes land before the store closes.
	favoritesService.Flush()
	basketService.Flush()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("⚠️ Status server shutdown encountered an issue", slog.String("error", err.Error()))
	}

	if err := shutdownTracing(shutdownCtx); err != nil {
		slog.Error("⚠️ Tracing shutdown encountered an issue", slog.String("error", err.Error()))
	} else {
		slog.Info("✅ Shut down gracefully. All connections closed.")
	}
}
