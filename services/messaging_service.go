package services

import (
	"errors"
	"strconv"
	"strings"

	"github.com/vleclerc/guildhall/models"
	"gorm.io/gorm"
)

const maxHandleSuggestions = 5

// MessagingService orchestrates the messaging entry points used by the rest
// of the application: recipient resolution, conversation identity and the
// actual append.
type MessagingService struct {
	directory     *UserDirectory
	conversations *ConversationService
	messages      *MessageService
}

func NewMessagingService(db *gorm.DB) *MessagingService {
	return &MessagingService{
		directory:     NewUserDirectory(db),
		conversations: NewConversationService(db),
		messages:      NewMessageService(db),
	}
}

// StartOrContinue resolves the recipient (numeric id or handle), finds or
// creates the conversation and appends the message. Returns the conversation
// so the caller can jump straight into it.
func (m *MessagingService) StartOrContinue(senderID uint, recipient, content string) (*models.Conversation, error) {
	recipient = strings.TrimSpace(recipient)
	if recipient == "" {
		return nil, &RecipientNotFoundError{Recipient: recipient}
	}

	user, err := m.resolveRecipient(recipient)
	if err != nil {
		return nil, err
	}

	// Reject empty content before touching conversation identity: a failed
	// first send must not leave an empty conversation behind.
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyContent
	}

	conv, err := m.conversations.FindOrCreate(senderID, user.ID)
	if err != nil {
		return nil, err
	}

	if _, err := m.messages.Append(conv, senderID, content); err != nil {
		return nil, err
	}
	return conv, nil
}

// SendToConversation appends to an existing conversation. A sender who is not
// a participant gets the same answer as for a conversation that does not
// exist.
func (m *MessagingService) SendToConversation(senderID, conversationID uint, content string) (*models.Message, error) {
	conv, err := m.conversations.FindForUser(conversationID, senderID)
	if err != nil {
		return nil, err
	}
	return m.messages.Append(conv, senderID, content)
}

func (m *MessagingService) resolveRecipient(recipient string) (*models.User, error) {
	if id, err := strconv.ParseUint(recipient, 10, 64); err == nil {
		user, err := m.directory.ResolveByID(uint(id))
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &RecipientNotFoundError{Recipient: recipient}
		}
		if err != nil {
			return nil, err
		}
		return user, nil
	}

	user, err := m.directory.ResolveByHandle(recipient)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		suggestions, sErr := m.directory.SuggestHandles(recipient, maxHandleSuggestions)
		if sErr != nil {
			return nil, sErr
		}
		return nil, &RecipientNotFoundError{Recipient: recipient, Suggestions: suggestions}
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}
