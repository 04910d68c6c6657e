package router

import (
	"time"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"khatapos/internal/config"
	"khatapos/internal/handler"
	"khatapos/internal/infra"
	"khatapos/internal/middleware"
	"khatapos/internal/service"
	"khatapos/internal/store"
	"khatapos/internal/worker"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← LedgerStore ← KV backend.
// rdb is nil on sqlite-only deployments; async jobs are then unavailable.
func New(cfg *config.Config, ledger *store.LedgerStore, rdb *redis.Client, parserCB *infra.CircuitBreaker) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute))

	parserClient := infra.NewParserClient(cfg.OpenAIAPIKey, cfg.OpenAIModel)

	var dispatcher *worker.Dispatcher
	if rdb != nil {
		dispatcher = worker.NewDispatcher(rdb)
	}

	authSvc := service.NewAuthService(cfg)
	inventorySvc := service.NewInventoryService(ledger)
	salesSvc := service.NewSalesService(ledger, dispatcher)
	khataSvc := service.NewKhataService(ledger, dispatcher)
	reportSvc := service.NewReportService(ledger, salesSvc, khataSvc)
	parseSvc := service.NewParseService(parserClient, parserCB, ledger)
	settingsSvc := service.NewSettingsService(ledger)

	authH := handler.NewAuthHandler(authSvc)
	inventoryH := handler.NewInventoryHandler(inventorySvc)
	salesH := handler.NewSalesHandler(salesSvc)
	khataH := handler.NewKhataHandler(khataSvc)
	reportsH := handler.NewReportsHandler(reportSvc)
	parseH := handler.NewParseHandler(parseSvc)
	settingsH := handler.NewSettingsHandler(settingsSvc)

	// Public
	r.GET("/health", handler.Health(ledger, rdb, parseSvc))

	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
	}

	// Protected routes
	v1 := r.Group("/v1", middleware.JWTAuth(cfg.JWTSecret))
	{
		inv := v1.Group("/inventory")
		{
			inv.POST("", inventoryH.CreateItem)
			inv.GET("", inventoryH.List)
			inv.POST("/stock", inventoryH.AddStock)
			inv.PATCH("/:id/price", inventoryH.UpdatePrice)
		}

		sales := v1.Group("/sales")
		{
			sales.POST("", salesH.ConfirmSale)
			sales.GET("", salesH.ListSales)
			sales.DELETE("/:id", salesH.DeleteSale)
		}

		khata := v1.Group("/khata/customers")
		{
			khata.POST("", khataH.CreateCustomer)
			khata.GET("", khataH.ListCustomers)
			khata.GET("/:id", khataH.GetCustomer)
			khata.PUT("/:id", khataH.UpdateCustomer)
			khata.POST("/:id/settle", khataH.Settle)
			khata.POST("/:id/items", khataH.AddItems)
			khata.DELETE("/:id/entries/:entryId", khataH.DeleteEntry)
			khata.POST("/:id/statement", khataH.SendStatement)
		}

		v1.GET("/transactions", reportsH.Unified)
		v1.DELETE("/transactions/:id", reportsH.DeleteUnified)
		v1.GET("/reports/summary", reportsH.Summary)

		parse := v1.Group("/parse")
		{
			parse.POST("/voice", parseH.ParseVoice)
			parse.POST("/image", parseH.ParseImage)
		}

		settings := v1.Group("/settings")
		{
			settings.GET("/language", settingsH.GetLanguage)
			settings.PUT("/language", settingsH.SetLanguage)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
