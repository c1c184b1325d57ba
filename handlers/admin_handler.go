package handlers

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/vleclerc/guildhall/database"
	"github.com/vleclerc/guildhall/models"
	"github.com/vleclerc/guildhall/services"
	"github.com/gofiber/fiber/v2"
)

type AdminConversationRow struct {
	ID            uint      `json:"id"`
	LowHandle     string    `json:"low_handle"`
	HighHandle    string    `json:"high_handle"`
	CreatedAt     time.Time `json:"created_at"`
	LastMessageAt time.Time `json:"last_message_at"`
}

// AdminListConversations lists every conversation, optionally filtered by
// participant handle or email, newest activity first.
func AdminListConversations(c *fiber.Ctx) error {
	q := strings.TrimSpace(c.Query("q"))

	query := database.DB.Model(&models.Conversation{}).
		Select("conversations.id, u1.handle AS low_handle, u2.handle AS high_handle, conversations.created_at, conversations.last_message_at").
		Joins("JOIN users u1 ON u1.id = conversations.user_low_id").
		Joins("JOIN users u2 ON u2.id = conversations.user_high_id").
		Order("conversations.last_message_at DESC")

	if q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where(
			"LOWER(u1.handle) LIKE ? OR LOWER(u2.handle) LIKE ? OR LOWER(u1.email) LIKE ? OR LOWER(u2.email) LIKE ?",
			like, like, like, like,
		)
	}

	var rows []AdminConversationRow
	if err := query.Scan(&rows).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list conversations"})
	}

	return c.JSON(fiber.Map{"conversations": rows})
}

// AdminDeleteConversation removes a conversation and all of its messages.
// The only path in the system that deletes messaging data.
func AdminDeleteConversation(c *fiber.Ctx) error {
	conversationID, err := strconv.ParseUint(c.Params("conversationId"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid conversation id"})
	}

	err = services.NewConversationService(database.DB).Delete(uint(conversationID))
	if errors.Is(err, services.ErrConversationNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Conversation not found"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete conversation"})
	}

	return c.JSON(fiber.Map{"message": "Conversation deleted"})
}
