package v1

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"garmentpos/internal/core/id"
	"garmentpos/internal/core/types"
	"garmentpos/internal/domain/auth"
	"garmentpos/internal/domain/billing/checkout"
	"garmentpos/internal/domain/billing/returns"
	"garmentpos/internal/domain/catalogs"
	"garmentpos/internal/domain/catalogs/brand"
	"garmentpos/internal/domain/catalogs/dealer"
	"garmentpos/internal/domain/catalogs/product"
	"garmentpos/internal/domain/customer"
	"garmentpos/internal/domain/inventory"
	"garmentpos/internal/domain/notify"
	"garmentpos/internal/domain/reports"
	"garmentpos/internal/infrastructure/http/v1/handlers"
	"garmentpos/internal/infrastructure/http/v1/middleware"
	"garmentpos/internal/infrastructure/storage/postgres"
	"garmentpos/internal/infrastructure/storage/postgres/billing_repo"
	"garmentpos/internal/infrastructure/storage/postgres/catalog_repo"
	"garmentpos/internal/infrastructure/storage/postgres/customer_repo"
	"garmentpos/internal/infrastructure/storage/postgres/inventory_repo"
	"garmentpos/internal/infrastructure/storage/postgres/report_repo"
	"garmentpos/pkg/logger"
	"garmentpos/pkg/numerator"
)

// RouterConfig holds everything the HTTP layer needs to serve requests.
type RouterConfig struct {
	// Pool is the database connection pool (used by health checks)
	Pool *postgres.Pool

	// TxManager routes queries through the transaction in context
	TxManager *postgres.TxManager

	// Logger for request logging
	Logger *logger.Logger

	// JWTValidator for token validation
	JWTValidator middleware.JWTValidator

	// AuthService for authentication endpoints
	AuthService *auth.Service

	// Audit records invoice/return/catalog mutations. Optional.
	Audit *postgres.AuditService

	// Cache backs the dashboard report. Optional.
	Cache reports.Cache

	// CachePinger reports cache health on /health/ready. Optional.
	CachePinger handlers.Pinger

	// Notifier delivers invoice confirmation messages. Required;
	// pass notify.Noop{} when messaging is disabled.
	Notifier notify.Notifier

	// AllowedOrigins for CORS. Empty means same-origin only.
	AllowedOrigins []string

	// DefaultGSTRate applies to products without an explicit rate.
	DefaultGSTRate types.Money
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	if len(cfg.AllowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
			ExposeHeaders:    []string{"X-Request-ID", "X-Trace-ID"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Health endpoints (no auth required)
	healthHandler := handlers.NewHealthHandler(cfg.Pool, cfg.CachePinger)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
	}

	// Shared services used across route groups
	num := numerator.New(cfg.TxManager)

	brandRepo := catalog_repo.NewBrandRepo(cfg.TxManager)
	brandService := brand.NewService(brandRepo, num, cfg.TxManager)

	productRepo := catalog_repo.NewProductRepo(cfg.TxManager)
	productService := product.NewService(productRepo, brandService, num, cfg.TxManager)

	inventoryRepo := inventory_repo.NewRepo(cfg.TxManager)
	inventoryService := inventory.NewService(inventoryRepo)

	customerRepo := customer_repo.NewRepo(cfg.TxManager)
	ledger := customer.NewLedger(customerRepo)

	invoiceRepo := billing_repo.NewInvoiceRepo(cfg.TxManager)
	reportService := reports.NewService(report_repo.NewReportRepo(cfg.TxManager), cfg.Cache)

	// API v1
	v1 := router.Group("/api/v1")
	{
		registerAuthRoutes(v1, cfg)

		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.JWTValidator))

		registerCatalogRoutes(protected, cfg, num, brandService, productService)
		registerInventoryRoutes(protected, inventoryService, productService)
		registerCustomerRoutes(protected, ledger)
		registerBillingRoutes(protected, cfg, num, inventoryService, productService, ledger, invoiceRepo, reportService)
		registerReportRoutes(protected, reportService)
	}

	return router
}

// registerAuthRoutes registers authentication endpoints.
func registerAuthRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	if cfg.AuthService == nil {
		return
	}

	baseHandler := handlers.NewBaseHandler()
	authHandler := handlers.NewAuthHandler(baseHandler, cfg.AuthService)

	public := rg.Group("/auth")
	public.POST("/login", authHandler.Login)

	protected := rg.Group("/auth")
	protected.Use(middleware.Auth(cfg.JWTValidator))
	protected.GET("/me", authHandler.Me)
	protected.POST("/change-password", authHandler.ChangePassword)

	admin := protected.Group("")
	admin.Use(middleware.RequireAdmin())
	admin.POST("/register", authHandler.Register)
	admin.GET("/users", authHandler.ListUsers)
	admin.POST("/users/:id/active", authHandler.SetActive)
}

// registerCatalogRoutes registers brand, dealer and product endpoints.
func registerCatalogRoutes(
	rg *gin.RouterGroup,
	cfg RouterConfig,
	num *numerator.Service,
	brandService *brand.Service,
	productService *product.Service,
) {
	catalogGroup := rg.Group("/catalog")
	baseHandler := handlers.NewBaseHandler()

	// --- BRANDS ---
	{
		registerCatalogAudit(cfg.Audit, brandService.Hooks(), "brand", func(b *brand.Brand) auditTarget {
			return auditTarget{ID: b.ID, Code: b.Code, Name: b.Name}
		})
		handler := handlers.NewBrandHandler(baseHandler, brandService)
		RegisterCatalogRoutes(catalogGroup.Group("/brands"), handler)
	}

	// --- DEALERS ---
	{
		repo := catalog_repo.NewDealerRepo(cfg.TxManager)
		service := dealer.NewService(repo, num, cfg.TxManager)
		registerCatalogAudit(cfg.Audit, service.Hooks(), "dealer", func(d *dealer.Dealer) auditTarget {
			return auditTarget{ID: d.ID, Code: d.Code, Name: d.Name}
		})
		handler := handlers.NewDealerHandler(baseHandler, service)
		RegisterCatalogRoutes(catalogGroup.Group("/dealers"), handler)
	}

	// --- PRODUCTS ---
	{
		registerCatalogAudit(cfg.Audit, productService.Hooks(), "product", func(p *product.Product) auditTarget {
			return auditTarget{ID: p.ID, Code: p.Code, Name: p.Name}
		})
		handler := handlers.NewProductHandler(baseHandler, productService)
		RegisterCatalogRoutes(catalogGroup.Group("/products"), handler)
	}
}

// auditTarget is the minimal snapshot recorded for catalog mutations.
type auditTarget struct {
	ID   id.ID
	Code string
	Name string
}

// registerCatalogAudit attaches audit hooks to a catalog service.
func registerCatalogAudit[T any](
	audit *postgres.AuditService,
	hooks *catalogs.HookRegistry[T],
	entityType string,
	snapshot func(T) auditTarget,
) {
	if audit == nil {
		return
	}

	logFn := func(action postgres.AuditAction) catalogs.Hook[T] {
		return func(ctx context.Context, e T) error {
			t := snapshot(e)
			if err := audit.LogChange(ctx, entityType, t.ID, action, map[string]any{
				"code": t.Code,
				"name": t.Name,
			}); err != nil {
				logger.Warn(ctx, "audit log failed", "entity", entityType, "error", err)
			}
			return nil
		}
	}

	hooks.On(catalogs.AfterCreate, logFn(postgres.AuditActionCreate))
	hooks.On(catalogs.AfterUpdate, logFn(postgres.AuditActionUpdate))
	hooks.On(catalogs.AfterDelete, logFn(postgres.AuditActionDelete))
}

// registerInventoryRoutes registers stock endpoints.
func registerInventoryRoutes(rg *gin.RouterGroup, inventoryService *inventory.Service, productService *product.Service) {
	baseHandler := handlers.NewBaseHandler()
	handler := handlers.NewInventoryHandler(baseHandler, inventoryService, productService)

	group := rg.Group("/inventory")
	group.GET("", handler.List)
	group.POST("", handler.Register)
	group.GET("/barcode/:barcode", handler.GetByBarcode)
	group.POST("/:id/restock", handler.Restock)
}

// registerCustomerRoutes registers customer and loyalty endpoints.
func registerCustomerRoutes(rg *gin.RouterGroup, ledger *customer.Ledger) {
	baseHandler := handlers.NewBaseHandler()
	handler := handlers.NewCustomerHandler(baseHandler, ledger)

	group := rg.Group("/customers")
	group.GET("", handler.List)
	group.GET("/:id", handler.Get)
	group.GET("/:id/loyalty", handler.History)
	group.GET("/phone/:phone", handler.GetByPhone)
}

// registerBillingRoutes registers checkout, invoice and return endpoints.
func registerBillingRoutes(
	rg *gin.RouterGroup,
	cfg RouterConfig,
	num *numerator.Service,
	inventoryService *inventory.Service,
	productService *product.Service,
	ledger *customer.Ledger,
	invoiceRepo *billing_repo.InvoiceRepo,
	reportService *reports.Service,
) {
	baseHandler := handlers.NewBaseHandler()
	billingGroup := rg.Group("/billing")

	// --- CHECKOUT ---
	checkoutService := checkout.NewService(
		invoiceRepo,
		inventoryService,
		productService,
		ledger,
		num,
		cfg.TxManager,
		cfg.Notifier,
		cfg.DefaultGSTRate,
	)
	billingHandler := handlers.NewBillingHandler(baseHandler, checkoutService, reportService, cfg.Audit)

	billingGroup.POST("/checkout", billingHandler.Checkout)
	billingGroup.GET("/invoices", billingHandler.List)
	billingGroup.GET("/invoices/:id", billingHandler.Get)
	billingGroup.GET("/invoices/number/:number", billingHandler.GetByNumber)

	// --- RETURNS ---
	returnRepo := billing_repo.NewReturnRepo(cfg.TxManager)
	returnService := returns.NewService(returnRepo, invoiceRepo, inventoryService, num, cfg.TxManager)
	returnsHandler := handlers.NewReturnsHandler(baseHandler, returnService, reportService, cfg.Audit)

	billingGroup.POST("/returns", returnsHandler.Process)
	billingGroup.GET("/returns", returnsHandler.List)
	billingGroup.GET("/returns/number/:number", returnsHandler.GetByNumber)
	billingGroup.GET("/returns/preview/:number", returnsHandler.Preview)
}

// registerReportRoutes registers report endpoints.
func registerReportRoutes(rg *gin.RouterGroup, reportService *reports.Service) {
	baseHandler := handlers.NewBaseHandler()
	handler := handlers.NewReportsHandler(baseHandler, reportService)

	group := rg.Group("/reports")
	group.GET("/dashboard", handler.Dashboard)
	group.GET("/sales", handler.Sales)
	group.GET("/top-sellers", handler.TopSellers)
	group.GET("/gst", handler.GST)
}
