package routes

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/kubera-fin/kubera-loan-backend/internal/handlers"
	"github.com/kubera-fin/kubera-loan-backend/internal/middleware"
	"github.com/kubera-fin/kubera-loan-backend/internal/services"
	"github.com/kubera-fin/kubera-loan-backend/internal/storage"
)

// SetupRoutes configures all API routes
func SetupRoutes(app *fiber.App, store storage.Store, log *zap.Logger) {
	svc := services.NewApplicationService(store, services.DefaultUploadConfig(), log)
	appHandler := handlers.NewApplicationHandler(svc)
	healthHandler := handlers.NewHealthHandler("1.0.0")

	app.Get("/health", healthHandler.Check)

	api := app.Group("/api")
	loans := api.Group("/loans", middleware.Identity())

	loans.Post("/applications", appHandler.CreateApplication)
	loans.Get("/applications", appHandler.ListApplications)
	loans.Get("/applications/:id", appHandler.GetApplication)
	loans.Put("/applications/:id", appHandler.UpdateApplication)
	loans.Post("/applications/:id/submit", appHandler.SubmitApplication)
	loans.Post("/applications/:id/save-draft", appHandler.SaveDraft)
	loans.Post("/applications/:id/documents/:type", appHandler.UploadDocument)
}
