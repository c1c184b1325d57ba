package handlers

import (
	"errors"
	"strconv"

	"github.com/vleclerc/guildhall/database"
	"github.com/vleclerc/guildhall/middleware"
	"github.com/vleclerc/guildhall/services"
	"github.com/gofiber/fiber/v2"
)

type StartConversationRequest struct {
	Recipient string `json:"recipient" validate:"required"`
	Content   string `json:"content" validate:"required"`
}

type SendMessageRequest struct {
	Content string `json:"content" validate:"required"`
}

// GetInbox lists the member's conversations with last-message preview and
// unread counts. Listing never marks anything read.
func GetInbox(c *fiber.Ctx) error {
	userID := middleware.CurrentUserID(c)

	rows, err := services.NewInboxService(database.DB).ListForUser(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load conversations"})
	}

	return c.JSON(fiber.Map{"conversations": rows})
}

// StartConversation sends a message to a member addressed by handle or id,
// creating the conversation on first contact.
func StartConversation(c *fiber.Ctx) error {
	userID := middleware.CurrentUserID(c)

	var req StartConversationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	conv, err := services.NewMessagingService(database.DB).StartOrContinue(userID, req.Recipient, req.Content)
	if err != nil {
		return messagingError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(conv)
}

// OpenConversation marks the member's unread messages in the conversation as
// read, then returns one page of history, oldest first.
func OpenConversation(c *fiber.Ctx) error {
	userID := middleware.CurrentUserID(c)

	conversationID, err := strconv.ParseUint(c.Params("conversationId"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid conversation id"})
	}
	page, _ := strconv.Atoi(c.Query("page", "1"))
	pageSize, _ := strconv.Atoi(c.Query("page_size", "20"))

	conv, err := services.NewConversationService(database.DB).FindForUser(uint(conversationID), userID)
	if err != nil {
		return messagingError(c, err)
	}

	messageService := services.NewMessageService(database.DB)
	if _, err := messageService.MarkAllRead(conv, userID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update read state"})
	}

	messages, err := messageService.Paginate(conv, page, pageSize)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch messages"})
	}

	return c.JSON(fiber.Map{
		"conversation": conv,
		"messages":     messages,
	})
}

// SendMessage appends to an existing conversation the member participates in.
func SendMessage(c *fiber.Ctx) error {
	userID := middleware.CurrentUserID(c)

	conversationID, err := strconv.ParseUint(c.Params("conversationId"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid conversation id"})
	}

	var req SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	msg, err := services.NewMessagingService(database.DB).SendToConversation(userID, uint(conversationID), req.Content)
	if err != nil {
		return messagingError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(msg)
}

// GetUnreadCount serves the aggregate unread badge.
func GetUnreadCount(c *fiber.Ctx) error {
	userID := middleware.CurrentUserID(c)

	count, err := services.NewMessageService(database.DB).CountUnreadForUser(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to count unread messages"})
	}

	return c.JSON(fiber.Map{"unread_count": count})
}

// messagingError maps the expected messaging failures onto status codes.
// Anything unrecognized is an infrastructure failure.
func messagingError(c *fiber.Ctx, err error) error {
	var notFound *services.RecipientNotFoundError
	switch {
	case errors.As(err, &notFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":       "Recipient not found",
			"suggestions": notFound.Suggestions,
		})
	case errors.Is(err, services.ErrSelfMessaging):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "You cannot message yourself"})
	case errors.Is(err, services.ErrEmptyContent):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Message content cannot be empty"})
	case errors.Is(err, services.ErrConversationNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Conversation not found"})
	case errors.Is(err, services.ErrNotAParticipant):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "You are not part of this conversation"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Something went wrong"})
	}
}
