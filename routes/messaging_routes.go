package routes

import (
	"github.com/vleclerc/guildhall/handlers"
	"github.com/vleclerc/guildhall/middleware"
	"github.com/gofiber/fiber/v2"
)

func MessagingRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	conversations := api.Group("/conversations", middleware.Protected())
	conversations.Get("", handlers.GetInbox)
	conversations.Post("", handlers.StartConversation)
	conversations.Get("/:conversationId", handlers.OpenConversation)
	conversations.Post("/:conversationId/messages", handlers.SendMessage)

	messages := api.Group("/messages", middleware.Protected())
	messages.Get("/unread-count", handlers.GetUnreadCount)
}
