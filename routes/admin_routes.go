package routes

import (
	"github.com/vleclerc/guildhall/handlers"
	"github.com/vleclerc/guildhall/middleware"
	"github.com/gofiber/fiber/v2"
)

func AdminRoutes(app *fiber.App) {
	admin := app.Group("/api/v1/admin", middleware.Protected(), middleware.AdminRequired())

	admin.Get("/conversations", handlers.AdminListConversations)
	admin.Delete("/conversations/:conversationId", handlers.AdminDeleteConversation)
}
