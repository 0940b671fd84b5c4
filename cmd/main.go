package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/hibiken/asynq"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/random"
	"github.com/redis/go-redis/v9"

	"salonstock/internal/caching"
	"salonstock/internal/common"
	"salonstock/internal/config"
	"salonstock/internal/handlers"
	"salonstock/internal/jobs"
	"salonstock/internal/jobs/background"
	"salonstock/internal/middleware"
	"salonstock/internal/repositories"
	"salonstock/internal/services"
	"salonstock/pkg/database"
)

const version = "1.0.0"

func main() {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := database.NewPool(databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = random.String(32) // Generate random secret for development
		log.Printf("WARNING: Using generated JWT secret")
	}

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	redisPassword := os.Getenv("REDIS_PASSWORD")
	redisDB := 0
	if redisDBStr := os.Getenv("REDIS_DB"); redisDBStr != "" {
		if db, err := strconv.Atoi(redisDBStr); err == nil {
			redisDB = db
		}
	}

	minioEndpoint := os.Getenv("MINIO_ENDPOINT")
	if minioEndpoint == "" {
		minioEndpoint = "localhost:9000"
	}
	minioAccessKey := os.Getenv("MINIO_ACCESS_KEY")
	if minioAccessKey == "" {
		minioAccessKey = "minioadmin"
	}
	minioSecretKey := os.Getenv("MINIO_SECRET_KEY")
	if minioSecretKey == "" {
		minioSecretKey = "minioadmin"
	}
	minioBucket := os.Getenv("MINIO_BUCKET")
	if minioBucket == "" {
		minioBucket = "receiving-documents"
	}
	minioUseSSL := os.Getenv("MINIO_USE_SSL") == "true"

	cfg := config.DefaultConfig()
	if configFile := os.Getenv("CONFIG_FILE"); configFile != "" {
		cfg, err = config.LoadConfig(configFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}

	// Repositories
	itemRepo := repositories.NewStockItemRepository(pool)
	ledgerRepo := repositories.NewLedgerRepository(pool)
	orderRepo := repositories.NewPurchaseOrderRepository(pool)
	receivingRepo := repositories.NewReceivingRepository(pool)
	stocktakeRepo := repositories.NewStocktakeRepository(pool)
	transferRepo := repositories.NewTransferRepository(pool)
	alertRepo := repositories.NewAlertRepository(pool)

	// Cache
	cacheSvc := caching.NewRedisCacheService(redisAddr, redisPassword, redisDB)
	redisClient := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: redisPassword,
		DB:       redisDB,
	})

	// Task queue client
	asynqRedis := asynq.RedisClientOpt{Addr: redisAddr, Password: redisPassword, DB: redisDB}
	asynqClient := asynq.NewClient(asynqRedis)
	defer asynqClient.Close()
	alertQueue := jobs.NewAlertQueue(asynqClient)

	// Services
	locks := services.NewItemLockMap()
	ledgerSvc := services.NewLedgerService(itemRepo, ledgerRepo, cacheSvc, alertQueue, locks)
	itemSvc := services.NewStockItemService(itemRepo, cacheSvc)
	orderSvc := services.NewPurchaseOrderService(orderRepo, receivingRepo, ledgerSvc)
	stocktakeSvc := services.NewStocktakeService(stocktakeRepo, itemRepo, ledgerSvc)
	transferSvc := services.NewTransferService(transferRepo, itemRepo, ledgerRepo, cacheSvc, locks)
	alertSvc := services.NewAlertService(alertRepo, itemRepo, orderSvc, cacheSvc)

	documentSvc, err := services.NewDocumentService(minioEndpoint, minioAccessKey, minioSecretKey,
		minioBucket, minioUseSSL, receivingRepo)
	if err != nil {
		log.Fatalf("Failed to initialize document service: %v", err)
	}
	if err := documentSvc.EnsureBucketExists(context.Background()); err != nil {
		log.Printf("WARNING: Failed to ensure document bucket %s exists: %v", minioBucket, err)
	}

	// Task queue worker
	asynqServer := asynq.NewServer(asynqRedis, asynq.Config{
		Concurrency: cfg.Queuing.Concurrency,
		Queues:      cfg.Queuing.QueuePriorities,
	})
	scanner := jobs.NewAlertScanner(alertSvc)
	mux := asynq.NewServeMux()
	mux.HandleFunc(jobs.TypeAlertScan, scanner.AlertScanHandler)
	go func() {
		if err := asynqServer.Run(mux); err != nil {
			log.Fatalf("Task worker failed: %v", err)
		}
	}()

	// Periodic jobs
	scheduler := background.NewJobScheduler(alertSvc, cacheSvc, cfg.ScanInterval(), cfg.StatsRefreshInterval())
	if err := scheduler.Start(); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}
	defer scheduler.Stop()

	// Handlers
	stockHandlers := handlers.NewStockHandlers(itemSvc, ledgerSvc)
	orderHandlers := handlers.NewPurchaseOrderHandlers(orderSvc, documentSvc)
	stocktakeHandlers := handlers.NewStocktakeHandlers(stocktakeSvc)
	transferHandlers := handlers.NewTransferHandlers(transferSvc)
	alertHandlers := handlers.NewAlertHandlers(alertSvc)
	healthHandlers := handlers.NewHealthHandlers(pool, redisClient, scheduler)

	e := echo.New()

	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())

	// Health endpoints (no auth required)
	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/health/ready", healthHandlers.ReadinessCheck)
	e.GET("/health/live", healthHandlers.LivenessCheck)

	v1 := e.Group("/v1")
	v1.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(jwtSecret),
		ErrorHandler: func(c echo.Context, err error) error {
			return common.SendUnauthorizedError(c)
		},
	}))
	v1.Use(middleware.ActorContext())

	// Item registry and ledger
	v1.GET("/items", stockHandlers.ListItems)
	v1.POST("/items", stockHandlers.CreateItem)
	v1.GET("/items/:id", stockHandlers.GetItem)
	v1.PUT("/items/:id", stockHandlers.UpdateItem)
	v1.GET("/items/:id/locations", transferHandlers.GetItemLocations)
	v1.POST("/stock/adjustments", stockHandlers.AdjustStock)
	v1.GET("/stock/adjustments", stockHandlers.ListAdjustments)
	v1.GET("/stock/movements", stockHandlers.ListMovements)

	// Purchase orders
	v1.GET("/purchase-orders", orderHandlers.ListPurchaseOrders)
	v1.POST("/purchase-orders", orderHandlers.CreatePurchaseOrder)
	v1.GET("/purchase-orders/:id", orderHandlers.GetPurchaseOrder)
	v1.POST("/purchase-orders/:id/send", orderHandlers.SendPurchaseOrder)
	v1.POST("/purchase-orders/:id/receive", orderHandlers.ReceivePurchaseOrder)
	v1.POST("/purchase-orders/:id/cancel", orderHandlers.CancelPurchaseOrder)
	v1.GET("/purchase-orders/:id/receivings", orderHandlers.ListReceivings)
	v1.POST("/receivings/:recordId/document", orderHandlers.AttachReceivingDocument)
	v1.GET("/receivings/:recordId/document", orderHandlers.GetReceivingDocumentURL)

	// Stocktakes
	v1.GET("/stocktakes", stocktakeHandlers.ListStocktakes)
	v1.POST("/stocktakes", stocktakeHandlers.CreateStocktake)
	v1.GET("/stocktakes/:id", stocktakeHandlers.GetStocktake)
	v1.PUT("/stocktakes/:id/items/:itemId", stocktakeHandlers.UpdateStocktakeItem)
	v1.POST("/stocktakes/:id/complete", stocktakeHandlers.CompleteStocktake)
	v1.POST("/stocktakes/:id/cancel", stocktakeHandlers.CancelStocktake)

	// Transfers
	v1.GET("/transfers", transferHandlers.ListTransfers)
	v1.POST("/transfers", transferHandlers.CreateTransfer)
	v1.GET("/transfers/:id", transferHandlers.GetTransfer)
	v1.POST("/transfers/:id/complete", transferHandlers.CompleteTransfer)
	v1.POST("/transfers/:id/cancel", transferHandlers.CancelTransfer)

	// Alerts and stats
	v1.GET("/alerts", alertHandlers.ListActiveAlerts)
	v1.POST("/alerts/scan", alertHandlers.RunAlertScan)
	v1.POST("/alerts/:id/acknowledge", alertHandlers.AcknowledgeAlert)
	v1.POST("/alerts/reorder", alertHandlers.CreateReorderDrafts)
	v1.GET("/stock/low", alertHandlers.ListLowStockItems)
	v1.GET("/stock/out", alertHandlers.ListOutOfStockItems)
	v1.GET("/stats", alertHandlers.GetInventoryStats)

	portStr := os.Getenv("PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		log.Fatalf("Invalid port %s: %v", portStr, err)
	}

	log.Printf("Salonstock server v%s starting on port %d", version, port)

	e.Logger.Fatal(e.Start(fmt.Sprintf(":%d", port)))
}
