package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInboxService_ListForUser(t *testing.T) {
	req := require.New(t)
	db := newTestDB(t)

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	carol := createUser(t, db, "carol")

	convSvc := NewConversationService(db)
	msgSvc := NewMessageService(db)

	// Given two active conversations and one that never got a message
	convAB, err := convSvc.FindOrCreate(alice.ID, bob.ID)
	req.NoError(err)
	convAC, err := convSvc.FindOrCreate(alice.ID, carol.ID)
	req.NoError(err)
	_, err = convSvc.FindOrCreate(bob.ID, carol.ID)
	req.NoError(err)

	_, err = msgSvc.Append(convAB, bob.ID, "hey alice")
	req.NoError(err)
	_, err = msgSvc.Append(convAB, bob.ID, "you there?")
	req.NoError(err)
	_, err = msgSvc.Append(convAC, carol.ID, "raid tonight?")
	req.NoError(err)

	rows, err := NewInboxService(db).ListForUser(alice.ID)
	req.NoError(err)
	req.Len(rows, 2)

	// Most recent activity first
	req.Equal(convAC.ID, rows[0].Conversation.ID)
	req.Equal("carol", rows[0].OtherHandle)
	req.NotNil(rows[0].LastMessagePreview)
	req.Equal("raid tonight?", *rows[0].LastMessagePreview)
	req.NotNil(rows[0].LastMessageAt)
	req.EqualValues(1, rows[0].UnreadCount)

	req.Equal(convAB.ID, rows[1].Conversation.ID)
	req.Equal("bob", rows[1].OtherHandle)
	req.Equal("you there?", *rows[1].LastMessagePreview)
	req.EqualValues(2, rows[1].UnreadCount)
}

func TestInboxService_ListForUser_EmptyConversationsSortLast(t *testing.T) {
	req := require.New(t)
	db := newTestDB(t)

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	carol := createUser(t, db, "carol")

	convSvc := NewConversationService(db)
	msgSvc := NewMessageService(db)

	// The message-less conversation is created after the active one
	convAB, err := convSvc.FindOrCreate(alice.ID, bob.ID)
	req.NoError(err)
	_, err = msgSvc.Append(convAB, bob.ID, "hello")
	req.NoError(err)

	convAC, err := convSvc.FindOrCreate(alice.ID, carol.ID)
	req.NoError(err)

	rows, err := NewInboxService(db).ListForUser(alice.ID)
	req.NoError(err)
	req.Len(rows, 2)

	// Activity beats recency of creation
	req.Equal(convAB.ID, rows[0].Conversation.ID)
	req.Equal(convAC.ID, rows[1].Conversation.ID)
	req.Nil(rows[1].LastMessageAt)
	req.Nil(rows[1].LastMessagePreview)
	req.Zero(rows[1].UnreadCount)
}

func TestInboxService_ListForUser_IsReadOnly(t *testing.T) {
	req := require.New(t)
	db := newTestDB(t)

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	conv, err := NewConversationService(db).FindOrCreate(alice.ID, bob.ID)
	req.NoError(err)
	msgSvc := NewMessageService(db)
	_, err = msgSvc.Append(conv, bob.ID, "still unread")
	req.NoError(err)

	// Listing the inbox twice must not flip read state
	inbox := NewInboxService(db)
	_, err = inbox.ListForUser(alice.ID)
	req.NoError(err)
	_, err = inbox.ListForUser(alice.ID)
	req.NoError(err)

	unread, err := msgSvc.CountUnreadForUser(alice.ID)
	req.NoError(err)
	req.EqualValues(1, unread)
}

func TestInboxService_PreviewTruncation(t *testing.T) {
	req := require.New(t)
	db := newTestDB(t)

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	conv, err := NewConversationService(db).FindOrCreate(alice.ID, bob.ID)
	req.NoError(err)

	long := strings.Repeat("é", 200)
	_, err = NewMessageService(db).Append(conv, bob.ID, long)
	req.NoError(err)

	rows, err := NewInboxService(db).ListForUser(alice.ID)
	req.NoError(err)
	req.Len(rows, 1)

	preview := *rows[0].LastMessagePreview
	req.Equal(strings.Repeat("é", previewRunes)+"…", preview)
}
