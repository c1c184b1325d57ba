package routes

import (
	"github.com/vleclerc/guildhall/handlers"
	"github.com/gofiber/fiber/v2"
)

func PublicRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	api.Get("/stats", handlers.GetFooterStats)
}
