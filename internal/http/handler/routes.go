package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"filevault/internal/service"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Handlers stay thin; every decision lives in the services.
func RegisterRoutes(app *fiber.App, db *sql.DB, authSvc service.AuthService, fileSvc service.FileService, statsSvc service.StatsService) {
	app.Get("/status", Status(statsSvc))
	app.Get("/stats", Stats(statsSvc))

	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	app.Post("/users", CreateUser(authSvc))
	app.Get("/connect", Connect(authSvc))
	app.Get("/disconnect", Disconnect(authSvc))
	app.Get("/users/me", Me(authSvc))

	app.Post("/files", UploadFile(fileSvc))
	app.Get("/files", ListFiles(fileSvc))
	app.Get("/files/:id", GetFile(fileSvc))
	app.Put("/files/:id/publish", PublishFile(fileSvc))
	app.Put("/files/:id/unpublish", UnpublishFile(fileSvc))
	app.Get("/files/:id/data", DownloadFile(fileSvc))
}
