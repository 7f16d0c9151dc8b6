package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"catalog-service/internal/clients"
	"catalog-service/internal/config"
	"catalog-service/internal/handlers"
	"catalog-service/internal/ingest"
	"catalog-service/internal/middleware"
	"catalog-service/internal/repository"
)

// @title Catalog Service API
// @version 1.0.0
// @description Product catalog management with bulk image ingestion and multi-tenant support

// @host localhost:8087
// @BasePath /api/v1

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Initialize configuration
	cfg := config.Load()

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	if cfg.Environment == "production" {
		logger.SetLevel(logrus.InfoLevel)
	} else {
		logger.SetLevel(logrus.DebugLevel)
	}

	// Initialize Redis client
	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Printf("WARNING: Failed to parse Redis URL: %v (continuing without Redis)", err)
		redisOpts = &redis.Options{
			Addr: "localhost:6379",
		}
	}
	redisClient := redis.NewClient(redisOpts)

	// Test Redis connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Printf("WARNING: Failed to connect to Redis: %v (caching will be disabled)", err)
	} else {
		log.Println("✓ Redis connected successfully")
	}
	cancel()

	// Initialize repository
	catalogRepo := repository.NewCatalogRepository(db, redisClient)

	// Initialize Cloudinary client
	cloudinaryClient := clients.NewCloudinaryClient()
	if cloudinaryClient.Configured() {
		log.Println("✓ Cloudinary client configured")
	} else {
		log.Println("WARNING: Cloudinary credentials missing, ingested images will keep embedded payloads")
	}

	// Initialize ingestion pipeline
	jobStore := ingest.NewMemoryJobStore()
	orchestrator := ingest.NewOrchestrator(catalogRepo, cloudinaryClient, jobStore, logger, cfg.UploadConcurrency)

	// Initialize handlers
	productsHandler := handlers.NewProductsHandler(catalogRepo, logger)
	categoriesHandler := handlers.NewCategoriesHandler(catalogRepo, logger)
	ingestHandler := handlers.NewIngestHandler(orchestrator, logger)

	// Initialize Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.MaxMultipartMemory = 64 << 20

	// Add CORS middleware
	router.Use(middleware.CORS())

	// Health check endpoints (no auth required)
	router.GET("/health", handlers.HealthCheck)
	router.GET("/ready", handlers.HealthCheck)

	// Protected API routes
	api := router.Group("/api/v1")
	api.Use(middleware.DevelopmentAuthMiddleware())
	api.Use(middleware.TenantMiddleware())

	v1 := api.Group("")
	{
		catalog := v1.Group("/catalog")
		{
			catalog.POST("/ingest", ingestHandler.StartIngestion)
			catalog.GET("/ingest/:jobId", ingestHandler.GetIngestionStatus)
			catalog.POST("/ingest/preview", ingestHandler.PreviewIngestion)
		}

		products := v1.Group("/products")
		{
			products.GET("", productsHandler.GetProducts)
			products.GET("/export", productsHandler.ExportProducts)
			products.GET("/:id", productsHandler.GetProduct)
			products.POST("", productsHandler.CreateProduct)
			products.PUT("/:id/status", productsHandler.UpdateProductStatus)
			products.DELETE("/:id", productsHandler.DeleteProduct)
		}

		categories := v1.Group("/categories")
		{
			categories.GET("", categoriesHandler.GetCategories)
			categories.POST("", categoriesHandler.CreateCategory)
			categories.DELETE("/:id", categoriesHandler.DeleteCategory)
		}
	}

	// Public storefront endpoints (no auth required, only tenant context)
	storefront := router.Group("/api/v1/storefront")
	storefront.Use(middleware.TenantMiddleware())
	{
		storefront.GET("/products", productsHandler.GetProducts)
		storefront.GET("/products/:id", productsHandler.GetProduct)
		storefront.GET("/categories", categoriesHandler.GetCategories)
	}

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Catalog service starting on port %s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server:", err)
		}
	}()

	// Wait for interrupt signal
	<-quit
	log.Println("Shutting down catalog-service...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error shutting down HTTP server: %v", err)
	}

	// Let in-flight ingestion jobs finish before exiting
	orchestrator.Wait()

	log.Println("Catalog service stopped")
}
