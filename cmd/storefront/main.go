package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/crumbsugar/storefront/config"
	"github.com/crumbsugar/storefront/internal/auth"
	"github.com/crumbsugar/storefront/internal/cart"
	"github.com/crumbsugar/storefront/internal/catalog"
	"github.com/crumbsugar/storefront/internal/catalog/contentapi"
	"github.com/crumbsugar/storefront/internal/checkout"
	"github.com/crumbsugar/storefront/internal/httpx"
	"github.com/crumbsugar/storefront/internal/localstore"
	lssqlite "github.com/crumbsugar/storefront/internal/localstore/sqlite"
	"github.com/crumbsugar/storefront/internal/order"
	slsqlite "github.com/crumbsugar/storefront/internal/order/statuslog/sqlite"
	"github.com/crumbsugar/storefront/internal/pkg/cache"
	"github.com/crumbsugar/storefront/internal/pkg/telemetry"
	"github.com/crumbsugar/storefront/internal/profile"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	telemetry.InitLogger(cfg.Telemetry.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := telemetry.SetupTracer(ctx, cfg.Telemetry.ServiceName)
	if err != nil {
		slog.Error("failed to initialise tracer", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracer(shutdownCtx); err != nil {
			slog.Error("tracer shutdown error", "error", err)
		}
	}()

	backend, err := lssqlite.Open(cfg.Store.Path)
	if err != nil {
		slog.Error("failed to open local store", "path", cfg.Store.Path, "error", err)
		os.Exit(1)
	}
	defer backend.Close()

	store := localstore.NewAdapter(backend, slog.Default())
	if err := store.Hydrate(ctx); err != nil {
		slog.Error("failed to hydrate local store", "error", err)
		os.Exit(1)
	}

	statusLog, err := slsqlite.Open(cfg.Store.StatusLogPath)
	if err != nil {
		slog.Error("failed to open status log", "path", cfg.Store.StatusLogPath, "error", err)
		os.Exit(1)
	}
	defer statusLog.Close()

	redisCache := cache.NewRedisCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Telemetry.ServiceName)
	contentClient := contentapi.New(cfg.ContentAPI.BaseURL, cfg.ContentAPI.Token, cfg.ContentAPI.Timeout)
	catalogSvc := catalog.NewService(contentClient, redisCache, cfg.ContentAPI.CacheTTL, slog.Default())

	authClient := auth.NewHTTPClient(cfg.Auth.BaseURL, cfg.Auth.APIKey, cfg.Auth.Timeout)

	cartSvc := cart.NewService(store, catalogSvc, slog.Default())
	orderSvc := order.NewService(order.NewStoreRepository(store), slog.Default(), statusLog)
	profileSvc := profile.NewService(store, authClient, slog.Default())
	checkoutSvc := checkout.NewService(
		cartSvc, catalogSvc, orderSvc, profileSvc, slog.Default(),
		checkout.WithConfirmationDelay(cfg.Checkout.ConfirmationDelay),
	)

	handler := httpx.NewHandler(catalogSvc, cartSvc, checkoutSvc, orderSvc, profileSvc, authClient)
	router := httpx.NewRouter(handler, authClient)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		slog.Info("storefront running", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}
}
