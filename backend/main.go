package main

import (
	"log"

	"github.com/Poornima1010/SmartLearning/backend/config"
	"github.com/Poornima1010/SmartLearning/backend/genai"
	"github.com/Poornima1010/SmartLearning/backend/metrics"
	"github.com/Poornima1010/SmartLearning/backend/middleware"
	"github.com/Poornima1010/SmartLearning/backend/routes"
	"github.com/Poornima1010/SmartLearning/backend/session"
	"github.com/Poornima1010/SmartLearning/backend/store"
	"github.com/Poornima1010/SmartLearning/backend/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// Initialize database
	db, err := utils.InitDB(cfg)
	if err != nil {
		log.Fatalf("Error initializing database: %v", err)
	}

	// Initialize logger
	logger := utils.InitLogger()

	// Session stores and manager: durable sessions live in the database,
	// non-remembered sessions only in memory.
	accounts := store.NewAccountStore(db)
	sessions := session.NewManager(accounts,
		session.NewDurableStore(db, logger),
		session.NewMemoryStore(),
		logger)

	// Generation client with telemetry
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)
	ai := genai.NewClient(genai.Config{
		APIKey:  cfg.GeminiAPIKey,
		BaseURL: cfg.GeminiBaseURL,
		Model:   cfg.GeminiModel,
	}, logger, collector)

	// Create Fiber app
	app := fiber.New()

	// Middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(middleware.LoggingMiddleware(logger))

	// Operational endpoints
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	// Setup routes
	routes.SetupRoutes(app, db, cfg, sessions, ai, logger)

	// Start server
	log.Fatal(app.Listen(":" + cfg.ServerPort))
}
