package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/supplychain-backend/api/controllers"
	"github.com/angelmondragon/supplychain-backend/api/middleware"
	"github.com/angelmondragon/supplychain-backend/internal/auth"
	"github.com/angelmondragon/supplychain-backend/internal/categories"
	"github.com/angelmondragon/supplychain-backend/internal/inventory"
	"github.com/angelmondragon/supplychain-backend/internal/products"
	"github.com/angelmondragon/supplychain-backend/internal/purchaseorders"
	"github.com/angelmondragon/supplychain-backend/internal/suppliers"
	"github.com/angelmondragon/supplychain-backend/internal/users"
	"github.com/angelmondragon/supplychain-backend/pkg/auth/session"
	"github.com/angelmondragon/supplychain-backend/pkg/config"
	"github.com/angelmondragon/supplychain-backend/pkg/enums"
	"github.com/angelmondragon/supplychain-backend/pkg/logger"
	"github.com/angelmondragon/supplychain-backend/pkg/metrics"
	"github.com/angelmondragon/supplychain-backend/pkg/redis"
)

// Services groups the domain services exposed over HTTP.
type Services struct {
	Auth           auth.Service
	Users          users.Service
	Suppliers      suppliers.Service
	Categories     categories.Service
	Products       products.Service
	PurchaseOrders purchaseorders.Service
	OrderItems     purchaseorders.ItemService
	Inventory      inventory.Service
}

// Infra carries the shared clients the middleware chain depends on.
type Infra struct {
	DB          controllers.Pinger
	Redis       *redis.Client
	Sessions    session.AccessSessionChecker
	HTTPMetrics *metrics.HTTPMetrics
	Gatherer    prometheus.Gatherer
}

func NewRouter(cfg *config.Config, logg *logger.Logger, infra Infra, svc Services) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(infra.HTTPMetrics),
		middleware.CORS(cfg.CORS.AllowedOrigins),
		chimw.StripSlashes,
	)

	// the middlewares take interfaces; a nil client must not become a non-nil interface
	var (
		idempotency = passthrough
		loginLimit  = func(middleware.LoginRateLimitPolicy) func(http.Handler) http.Handler { return passthrough }
		deps        = map[string]controllers.Pinger{"db": infra.DB}
	)
	if infra.Redis != nil {
		idempotency = middleware.Idempotency(infra.Redis, logg)
		loginLimit = func(policy middleware.LoginRateLimitPolicy) func(http.Handler) http.Handler {
			return middleware.LoginRateLimit(policy, infra.Redis, logg)
		}
		deps["redis"] = infra.Redis
	}

	loginPolicy := middleware.NewLoginRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginUsernameLimit,
	)
	refreshPolicy := middleware.NewLoginRateLimitPolicy(
		"refresh",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		0,
	)
	authenticated := middleware.Auth(cfg.JWT, infra.Sessions, logg)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps))
	})

	if cfg.Metrics.Enabled && infra.Gatherer != nil {
		r.Method(http.MethodGet, cfg.Metrics.Path, promhttp.HandlerFor(infra.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(loginLimit(loginPolicy)).Post("/login", controllers.AuthLogin(svc.Auth, logg))
		r.With(loginLimit(refreshPolicy)).Post("/refresh", controllers.AuthRefresh(svc.Auth, logg))
		r.With(authenticated).Post("/logout", controllers.AuthLogout(svc.Auth, logg))
		r.With(authenticated).Get("/me", controllers.AuthMe(svc.Auth, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(authenticated)

		r.With(middleware.RequireRole(enums.UserRoleStaff, logg)).Post("/users", controllers.UserCreate(svc.Users, logg))

		r.Route("/suppliers", func(r chi.Router) {
			r.Get("/", controllers.SupplierList(svc.Suppliers, logg))
			r.Post("/", controllers.SupplierCreate(svc.Suppliers, logg))
			r.Get("/search", controllers.SupplierSearch(svc.Suppliers, logg))
			r.Route("/{supplierId}", func(r chi.Router) {
				r.Get("/", controllers.SupplierDetail(svc.Suppliers, logg))
				r.Put("/", controllers.SupplierUpdate(svc.Suppliers, logg))
				r.Patch("/", controllers.SupplierUpdate(svc.Suppliers, logg))
				r.Delete("/", controllers.SupplierDelete(svc.Suppliers, logg))
			})
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", controllers.CategoryList(svc.Categories, logg))
			r.Post("/", controllers.CategoryCreate(svc.Categories, logg))
			r.Route("/{categoryId}", func(r chi.Router) {
				r.Get("/", controllers.CategoryDetail(svc.Categories, logg))
				r.Put("/", controllers.CategoryUpdate(svc.Categories, logg))
				r.Patch("/", controllers.CategoryUpdate(svc.Categories, logg))
				r.Delete("/", controllers.CategoryDelete(svc.Categories, logg))
			})
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(svc.Products, logg))
			r.Post("/", controllers.ProductCreate(svc.Products, logg))
			r.Get("/search", controllers.ProductSearch(svc.Products, logg))
			r.Get("/low_stock", controllers.ProductLowStock(svc.Products, logg))
			r.Route("/{productId}", func(r chi.Router) {
				r.Get("/", controllers.ProductDetail(svc.Products, logg))
				r.Put("/", controllers.ProductUpdate(svc.Products, logg))
				r.Patch("/", controllers.ProductUpdate(svc.Products, logg))
				r.Delete("/", controllers.ProductDelete(svc.Products, logg))
			})
		})

		r.Route("/purchase-orders", func(r chi.Router) {
			r.Get("/", controllers.PurchaseOrderList(svc.PurchaseOrders, logg))
			r.With(idempotency).Post("/", controllers.PurchaseOrderCreate(svc.PurchaseOrders, logg))
			r.Get("/dashboard", controllers.PurchaseOrderDashboard(svc.PurchaseOrders, logg))
			r.Route("/{orderId}", func(r chi.Router) {
				r.Get("/", controllers.PurchaseOrderDetail(svc.PurchaseOrders, logg))
				r.Put("/", controllers.PurchaseOrderUpdate(svc.PurchaseOrders, logg))
				r.Patch("/", controllers.PurchaseOrderUpdate(svc.PurchaseOrders, logg))
				r.Delete("/", controllers.PurchaseOrderDelete(svc.PurchaseOrders, logg))
				r.Post("/approve", controllers.PurchaseOrderAction(svc.PurchaseOrders, "approve", logg))
				r.Post("/ship", controllers.PurchaseOrderAction(svc.PurchaseOrders, "ship", logg))
				r.With(idempotency).Post("/receive", controllers.PurchaseOrderAction(svc.PurchaseOrders, "receive", logg))
				r.Post("/cancel", controllers.PurchaseOrderAction(svc.PurchaseOrders, "cancel", logg))
			})
		})

		r.Route("/purchase-order-items", func(r chi.Router) {
			r.Get("/", controllers.OrderItemList(svc.OrderItems, logg))
			r.Post("/", controllers.OrderItemCreate(svc.OrderItems, logg))
			r.Route("/{itemId}", func(r chi.Router) {
				r.Get("/", controllers.OrderItemDetail(svc.OrderItems, logg))
				r.Put("/", controllers.OrderItemUpdate(svc.OrderItems, logg))
				r.Patch("/", controllers.OrderItemUpdate(svc.OrderItems, logg))
				r.Delete("/", controllers.OrderItemDelete(svc.OrderItems, logg))
			})
		})

		r.Route("/inventory", func(r chi.Router) {
			r.Get("/", controllers.InventoryList(svc.Inventory, logg))
			r.Post("/", controllers.InventoryCreate(svc.Inventory, logg))
			r.Get("/low_stock", controllers.InventoryLowStock(svc.Inventory, logg))
			r.Get("/dashboard", controllers.InventoryDashboard(svc.Inventory, logg))
			r.Route("/{inventoryId}", func(r chi.Router) {
				r.Get("/", controllers.InventoryDetail(svc.Inventory, logg))
				r.Put("/", controllers.InventoryUpdate(svc.Inventory, logg))
				r.Patch("/", controllers.InventoryUpdate(svc.Inventory, logg))
				r.Delete("/", controllers.InventoryDelete(svc.Inventory, logg))
			})
		})
	})

	return r
}

func passthrough(next http.Handler) http.Handler {
	return next
}
