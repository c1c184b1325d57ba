package services

import (
	"sort"
	"time"

	"github.com/samber/lo"
	"github.com/vleclerc/guildhall/models"
	"gorm.io/gorm"
)

const previewRunes = 80

// InboxService builds the per-user conversation list. Read-only: opening a
// conversation, not listing the inbox, is what marks messages read.
type InboxService struct {
	db *gorm.DB
}

func NewInboxService(db *gorm.DB) *InboxService {
	return &InboxService{db: db}
}

// ConversationSummary is one inbox row.
type ConversationSummary struct {
	Conversation       models.Conversation `json:"conversation"`
	OtherHandle        string              `json:"other_handle"`
	LastMessageAt      *time.Time          `json:"last_message_at"`
	LastMessagePreview *string             `json:"last_message_preview"`
	UnreadCount        int64               `json:"unread_count"`
}

// ListForUser returns a summary row for every conversation the user is in,
// most recent activity first. Conversations without any messages sort last,
// newest created first. Built from a fixed number of batched queries
// regardless of how many conversations the user has.
func (s *InboxService) ListForUser(userID uint) ([]ConversationSummary, error) {
	var convs []models.Conversation
	err := s.db.
		Where("user_low_id = ? OR user_high_id = ?", userID, userID).
		Find(&convs).Error
	if err != nil {
		return nil, err
	}
	if len(convs) == 0 {
		return []ConversationSummary{}, nil
	}

	convIDs := lo.Map(convs, func(c models.Conversation, _ int) uint { return c.ID })

	lastByConv, err := s.lastMessages(convIDs)
	if err != nil {
		return nil, err
	}

	unreadByConv, err := s.unreadCounts(convIDs, userID)
	if err != nil {
		return nil, err
	}

	handleByUser, err := s.handles(lo.Map(convs, func(c models.Conversation, _ int) uint {
		return c.OtherParticipant(userID)
	}))
	if err != nil {
		return nil, err
	}

	rows := make([]ConversationSummary, 0, len(convs))
	for _, conv := range convs {
		row := ConversationSummary{
			Conversation: conv,
			OtherHandle:  handleByUser[conv.OtherParticipant(userID)],
			UnreadCount:  unreadByConv[conv.ID],
		}
		if last, ok := lastByConv[conv.ID]; ok {
			at := last.CreatedAt
			preview := truncatePreview(last.Content)
			row.LastMessageAt = &at
			row.LastMessagePreview = &preview
		}
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i].LastMessageAt, rows[j].LastMessageAt
		switch {
		case a != nil && b != nil:
			return a.After(*b)
		case a != nil:
			return true
		case b != nil:
			return false
		default:
			return rows[i].Conversation.CreatedAt.After(rows[j].Conversation.CreatedAt)
		}
	})

	return rows, nil
}

// lastMessages fetches the newest message of each conversation in one query.
// Message ids are monotonic and are the tie-break for created_at, so the row
// with MAX(id) is the latest one.
func (s *InboxService) lastMessages(convIDs []uint) (map[uint]models.Message, error) {
	var msgs []models.Message
	err := s.db.
		Where("id IN (?)", s.db.Model(&models.Message{}).
			Select("MAX(id)").
			Where("conversation_id IN ?", convIDs).
			Group("conversation_id"),
		).
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}

	out := make(map[uint]models.Message, len(msgs))
	for _, m := range msgs {
		out[m.ConversationID] = m
	}
	return out, nil
}

func (s *InboxService) unreadCounts(convIDs []uint, userID uint) (map[uint]int64, error) {
	type row struct {
		ConversationID uint
		Count          int64
	}
	var counts []row
	err := s.db.Model(&models.Message{}).
		Select("conversation_id, COUNT(*) AS count").
		Where("conversation_id IN ? AND sender_id <> ? AND read_at IS NULL", convIDs, userID).
		Group("conversation_id").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}

	out := make(map[uint]int64, len(counts))
	for _, r := range counts {
		out[r.ConversationID] = r.Count
	}
	return out, nil
}

func (s *InboxService) handles(userIDs []uint) (map[uint]string, error) {
	var users []models.User
	if err := s.db.Where("id IN ?", lo.Uniq(userIDs)).Find(&users).Error; err != nil {
		return nil, err
	}

	out := make(map[uint]string, len(users))
	for _, u := range users {
		out[u.ID] = u.Handle
	}
	return out, nil
}

func truncatePreview(content string) string {
	runes := []rune(content)
	if len(runes) <= previewRunes {
		return content
	}
	return string(runes[:previewRunes]) + "…"
}
