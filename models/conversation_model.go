package models

import (
	"time"
)

// Conversation is the single persistent channel between two users. The pair is
// stored in canonical order (UserLowID < UserHighID) so the unique index holds
// regardless of who initiated contact.
type Conversation struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	UserLowID  uint `gorm:"not null;uniqueIndex:uniq_conversation_pair" json:"user_low_id"`
	UserHighID uint `gorm:"not null;uniqueIndex:uniq_conversation_pair" json:"user_high_id"`

	UserLow  User `gorm:"foreignKey:UserLowID;constraint:OnDelete:CASCADE" json:"-"`
	UserHigh User `gorm:"foreignKey:UserHighID;constraint:OnDelete:CASCADE" json:"-"`

	Messages []Message `gorm:"constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt     time.Time `json:"created_at"`
	LastMessageAt time.Time `json:"last_message_at"`
}

// Canonicalize orders a participant pair. Every code path that looks up or
// creates a conversation goes through here.
func Canonicalize(a, b uint) (low, high uint) {
	if a < b {
		return a, b
	}
	return b, a
}

func (c *Conversation) HasParticipant(userID uint) bool {
	return c.UserLowID == userID || c.UserHighID == userID
}

// OtherParticipant returns the participant that is not userID. Zero when
// userID is not part of the conversation.
func (c *Conversation) OtherParticipant(userID uint) uint {
	switch userID {
	case c.UserLowID:
		return c.UserHighID
	case c.UserHighID:
		return c.UserLowID
	}
	return 0
}
