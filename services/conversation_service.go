package services

import (
	"errors"
	"time"

	"github.com/vleclerc/guildhall/models"
	"gorm.io/gorm"
)

// ConversationService owns conversation identity: there is at most one
// conversation row per unordered pair of users.
type ConversationService struct {
	db *gorm.DB
}

func NewConversationService(db *gorm.DB) *ConversationService {
	return &ConversationService{db: db}
}

// FindOrCreate returns the conversation between two users, creating it on
// first contact. Idempotent for either argument order.
func (s *ConversationService) FindOrCreate(userA, userB uint) (*models.Conversation, error) {
	if userA == userB {
		return nil, ErrSelfMessaging
	}

	low, high := models.Canonicalize(userA, userB)

	conv, err := s.findByPair(low, high)
	if err == nil {
		return conv, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	return s.createPair(low, high)
}

// createPair inserts the canonical pair row. Two users messaging each other
// for the first time can race here; the unique index rejects the loser, who
// recovers by re-reading the winner's row instead of failing the send.
func (s *ConversationService) createPair(low, high uint) (*models.Conversation, error) {
	now := time.Now()
	conv := models.Conversation{
		UserLowID:     low,
		UserHighID:    high,
		CreatedAt:     now,
		LastMessageAt: now,
	}

	err := s.db.Create(&conv).Error
	if err == nil {
		return &conv, nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return s.findByPair(low, high)
	}
	return nil, err
}

func (s *ConversationService) findByPair(low, high uint) (*models.Conversation, error) {
	var conv models.Conversation
	err := s.db.Where("user_low_id = ? AND user_high_id = ?", low, high).First(&conv).Error
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

// FindForUser returns the conversation only when userID is one of its two
// participants. A conversation the caller is not part of looks exactly like a
// missing one, so its existence never leaks.
func (s *ConversationService) FindForUser(conversationID, userID uint) (*models.Conversation, error) {
	var conv models.Conversation
	err := s.db.
		Where("id = ? AND (user_low_id = ? OR user_high_id = ?)", conversationID, userID, userID).
		First(&conv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrConversationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

// Delete removes a conversation and, through the cascade, its messages.
// Administrative use only.
func (s *ConversationService) Delete(conversationID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("conversation_id = ?", conversationID).Delete(&models.Message{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Conversation{}, conversationID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrConversationNotFound
		}
		return nil
	})
}
