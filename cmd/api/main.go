package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/angelmondragon/supplychain-backend/api/routes"
	"github.com/angelmondragon/supplychain-backend/internal/auth"
	"github.com/angelmondragon/supplychain-backend/internal/categories"
	"github.com/angelmondragon/supplychain-backend/internal/inventory"
	"github.com/angelmondragon/supplychain-backend/internal/products"
	"github.com/angelmondragon/supplychain-backend/internal/purchaseorders"
	"github.com/angelmondragon/supplychain-backend/internal/suppliers"
	"github.com/angelmondragon/supplychain-backend/internal/users"
	"github.com/angelmondragon/supplychain-backend/pkg/auth/session"
	"github.com/angelmondragon/supplychain-backend/pkg/config"
	"github.com/angelmondragon/supplychain-backend/pkg/db"
	"github.com/angelmondragon/supplychain-backend/pkg/logger"
	"github.com/angelmondragon/supplychain-backend/pkg/metrics"
	"github.com/angelmondragon/supplychain-backend/pkg/migrate"
	"github.com/angelmondragon/supplychain-backend/pkg/redis"
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
		Env:         cfg.App.Env,
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      logger.ParseFormat(cfg.App.LogFormat),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, db.Options{UseSQLite: cfg.FeatureFlags.UseSQLite}, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap redis", err)
		os.Exit(1)
	}

	defer func() {
		if err := multierr.Combine(redisClient.Close(), dbClient.Close()); err != nil {
			logg.Error(context.Background(), "error closing clients", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(ctx, "failed to create session manager", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	services, err := buildServices(cfg, logg, dbClient, sessionManager, metrics.NewOrderMetrics(registry))
	if err != nil {
		logg.Error(ctx, "failed to build services", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx = logg.WithFields(ctx, map[string]any{
		"addr":    addr,
		"dialect": dbClient.Dialect(),
	})

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, routes.Infra{
			DB:          dbClient,
			Redis:       redisClient,
			Sessions:    sessionManager,
			HTTPMetrics: metrics.NewHTTPMetrics(registry),
			Gatherer:    registry,
		}, services),
		ReadTimeout:  cfg.App.ReadTimeout,
		WriteTimeout: cfg.App.WriteTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		logg.Info(ctx, "starting api server")
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
		}
		return
	case <-ctx.Done():
	}

	logg.Info(ctx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logg.Error(ctx, "graceful shutdown failed", err)
	}
}

func buildServices(cfg *config.Config, logg *logger.Logger, dbClient *db.Client, sessions *session.Manager, orderMetrics *metrics.OrderMetrics) (routes.Services, error) {
	conn := dbClient.DB()

	supplierRepo := suppliers.NewRepository(conn)
	categoryRepo := categories.NewRepository(conn)
	productRepo := products.NewRepository(conn)
	orderRepo := purchaseorders.NewRepository(conn)
	inventoryRepo := inventory.NewRepository(conn)

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       users.NewRepository(conn),
		SessionManager: sessions,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		return routes.Services{}, err
	}
	userService, err := users.NewService(dbClient, cfg.Password)
	if err != nil {
		return routes.Services{}, err
	}
	supplierService, err := suppliers.NewService(supplierRepo)
	if err != nil {
		return routes.Services{}, err
	}
	categoryService, err := categories.NewService(categoryRepo)
	if err != nil {
		return routes.Services{}, err
	}
	productService, err := products.NewService(productRepo, supplierRepo, categoryRepo)
	if err != nil {
		return routes.Services{}, err
	}
	orderService, err := purchaseorders.NewService(orderRepo, dbClient, supplierRepo, productRepo, inventoryRepo, purchaseorders.Options{
		StrictTransitions: cfg.FeatureFlags.StrictOrderTransitions,
		Metrics:           orderMetrics,
		Logger:            logg,
	})
	if err != nil {
		return routes.Services{}, err
	}
	itemService, err := purchaseorders.NewItemService(purchaseorders.NewItemRepository(conn), orderRepo, productRepo)
	if err != nil {
		return routes.Services{}, err
	}
	inventoryService, err := inventory.NewService(inventoryRepo, productRepo)
	if err != nil {
		return routes.Services{}, err
	}

	return routes.Services{
		Auth:           authService,
		Users:          userService,
		Suppliers:      supplierService,
		Categories:     categoryService,
		Products:       productService,
		PurchaseOrders: orderService,
		OrderItems:     itemService,
		Inventory:      inventoryService,
	}, nil
}
