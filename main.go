package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/kubera-fin/kubera-loan-backend/database"
	"github.com/kubera-fin/kubera-loan-backend/internal/logger"
	"github.com/kubera-fin/kubera-loan-backend/internal/models"
	"github.com/kubera-fin/kubera-loan-backend/internal/routes"
	"github.com/kubera-fin/kubera-loan-backend/internal/storage"
)

func main() {
	// Load .env file for local development
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found - checking environment variables")
	}

	zlog := logger.New(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
	defer zlog.Sync()

	// Initialize storage
	var store storage.Store

	if os.Getenv("USE_MEMORY_STORE") == "true" {
		zlog.Warn("using in-memory storage (not for production!)")
		store = storage.NewMemoryStore()
	} else {
		zlog.Info("connecting to PostgreSQL database")
		database.Connect()

		if err := database.DB.AutoMigrate(
			&models.Application{},
			&models.Document{},
		); err != nil {
			zlog.Fatal("failed to migrate database", zap.Error(err))
		}
		zlog.Info("database migrations completed")

		store = storage.NewDatabaseStore(database.DB)
	}

	storage.SetStore(store)

	// Create fiber app
	app := fiber.New(fiber.Config{
		AppName: "Kubera Loan Backend v1.0.0",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"success": false,
				"message": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))

	routes.SetupRoutes(app, store, zlog)

	// Get port from environment or use default
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// Handle graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		zlog.Info("gracefully shutting down")
		_ = app.Shutdown()
	}()

	zlog.Info("🚀 Kubera Loan Backend starting",
		zap.String("port", port),
		zap.String("storage", storageType()))

	if err := app.Listen(":" + port); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}

func storageType() string {
	if os.Getenv("USE_MEMORY_STORE") == "true" {
		return "in-memory"
	}
	return "postgresql"
}
