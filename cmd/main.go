package main

import (
	"log"

	"lootmart-backend/configs"
	"lootmart-backend/internal/handlers"
	"lootmart-backend/internal/middleware"
	"lootmart-backend/internal/models"
	"lootmart-backend/internal/repositories"
	"lootmart-backend/internal/services"
	"lootmart-backend/pkg/cache"
	"lootmart-backend/pkg/database"
	"lootmart-backend/pkg/messaging"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	config := configs.LoadConfig()

	// Set Gin mode
	gin.SetMode(config.Server.Mode)

	// Initialize database connection
	db, err := database.NewDatabase(config.Database.PostgresURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	// Auto-migrate catalog tables
	if err := autoMigratePostgres(db); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize Redis cache
	redisCache := cache.NewRedisCache(config.Redis.URL, config.Redis.Password, config.Redis.DB)
	if redisCache == nil {
		log.Fatal("Failed to connect to Redis")
	}
	defer redisCache.Close()

	// Initialize Kafka
	kafkaProducer := messaging.NewKafkaProducer(config.Kafka.Brokers)
	defer kafkaProducer.Close()

	// Initialize repositories
	storeRepo := repositories.NewStoreRepository(db.Postgres)
	productRepo := repositories.NewProductRepository(db.Postgres)

	// Initialize services
	storeService := services.NewStoreService(storeRepo, redisCache)
	catalogService := services.NewCatalogService(storeRepo, productRepo, redisCache, kafkaProducer)
	checkoutService := services.NewCheckoutService(storeRepo, productRepo)

	// Initialize handlers
	storeHandler := handlers.NewStoreHandler(storeService)
	productHandler := handlers.NewProductHandler(catalogService)
	checkoutHandler := handlers.NewCheckoutHandler(checkoutService)

	// Initialize Gin router
	router := gin.Default()

	// Global middleware
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.RecoveryMiddleware())

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "lootmart-backend",
		})
	})

	// Optional per-route rate limiting
	var productsLimiter, quoteLimiter gin.HandlerFunc
	if config.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(config.RateLimit.Limit, config.RateLimit.Window)
		productsLimiter = limiter.Middleware("products")
		quoteLimiter = limiter.Middleware("checkout_quote")
	}

	// API routes
	api := router.Group("/api/v1")

	storeHandler.RegisterRoutes(api)
	productHandler.RegisterRoutes(api, productsLimiter)
	checkoutHandler.RegisterRoutes(api, quoteLimiter)

	log.Printf("Server starting on port %s", config.Server.Port)
	log.Fatal(router.Run(":" + config.Server.Port))
}

func autoMigratePostgres(db *database.Database) error {
	return db.Postgres.AutoMigrate(
		&models.Store{},
		&models.Brand{},
		&models.Category{},
		&models.Product{},
		&models.ProductImage{},
		&models.ProductCategory{},
	)
}
