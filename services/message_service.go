package services

import (
	"strings"
	"time"

	"github.com/vleclerc/guildhall/models"
	"gorm.io/gorm"
)

// MessageService is the ledger: it appends messages, tracks read state and
// serves paginated history.
type MessageService struct {
	db *gorm.DB
}

func NewMessageService(db *gorm.DB) *MessageService {
	return &MessageService{db: db}
}

// MessagePage is one slice of a conversation's history, oldest first.
type MessagePage struct {
	Items      []models.Message `json:"items"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	TotalPages int              `json:"total_pages"`
}

// Append records a message and bumps the conversation's activity timestamp in
// the same transaction, so no reader sees one without the other.
func (s *MessageService) Append(conv *models.Conversation, senderID uint, content string) (*models.Message, error) {
	if !conv.HasParticipant(senderID) {
		return nil, ErrNotAParticipant
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyContent
	}

	now := time.Now()
	msg := models.Message{
		ConversationID: conv.ID,
		SenderID:       senderID,
		Content:        content,
		CreatedAt:      now,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&msg).Error; err != nil {
			return err
		}
		return tx.Model(&models.Conversation{}).
			Where("id = ?", conv.ID).
			Update("last_message_at", now).Error
	})
	if err != nil {
		return nil, err
	}

	conv.LastMessageAt = now
	return &msg, nil
}

// MarkAllRead flags every message addressed to recipientID in the
// conversation as read. One conditional bulk update, so it stays correct
// under concurrent sends and repeated calls are no-ops. Messages the
// recipient sent are never touched, and read_at is never cleared.
func (s *MessageService) MarkAllRead(conv *models.Conversation, recipientID uint) (int64, error) {
	res := s.db.Model(&models.Message{}).
		Where("conversation_id = ? AND sender_id <> ? AND read_at IS NULL", conv.ID, recipientID).
		Update("read_at", time.Now())
	return res.RowsAffected, res.Error
}

// Paginate returns one page of the conversation's messages in chronological
// order, ties broken by insertion order. Out-of-range pages yield an empty
// slice rather than an error.
func (s *MessageService) Paginate(conv *models.Conversation, page, pageSize int) (*MessagePage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 1
	} else if pageSize > 100 {
		pageSize = 100
	}

	var total int64
	if err := s.db.Model(&models.Message{}).
		Where("conversation_id = ?", conv.ID).
		Count(&total).Error; err != nil {
		return nil, err
	}

	var items []models.Message
	err := s.db.
		Where("conversation_id = ?", conv.ID).
		Order("created_at ASC, id ASC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&items).Error
	if err != nil {
		return nil, err
	}

	pages := int((total + int64(pageSize) - 1) / int64(pageSize))
	if pages < 1 {
		pages = 1
	}

	return &MessagePage{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: pages,
	}, nil
}

// CountUnreadForUser counts unread messages addressed to the user across all
// of their conversations. Backs the "you have N unread" badge.
func (s *MessageService) CountUnreadForUser(userID uint) (int64, error) {
	var count int64
	err := s.db.Model(&models.Message{}).
		Joins("JOIN conversations ON conversations.id = messages.conversation_id").
		Where("messages.read_at IS NULL AND messages.sender_id <> ?", userID).
		Where("conversations.user_low_id = ? OR conversations.user_high_id = ?", userID, userID).
		Count(&count).Error
	return count, err
}
