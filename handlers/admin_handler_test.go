package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vleclerc/guildhall/database"
	"github.com/vleclerc/guildhall/models"
)

func TestAdminConversationManagement(t *testing.T) {
	req := require.New(t)
	app := newTestApp(t)

	aliceToken := registerAndLogin(t, app, "alice")
	registerAndLogin(t, app, "bob")

	// Promote gm to admin before logging in, the role rides in the token
	email := "guildmaster@guildhall.test"
	status, _ := doJSON(t, app, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"handle":   "guildmaster",
		"email":    email,
		"password": "hunter22",
	})
	req.Equal(http.StatusCreated, status)
	req.NoError(database.DB.Model(&models.User{}).Where("email = ?", email).Update("role", "admin").Error)

	status, body := doJSON(t, app, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    email,
		"password": "hunter22",
	})
	req.Equal(http.StatusOK, status)
	adminToken := body["token"].(string)

	status, conv := doJSON(t, app, http.MethodPost, "/api/v1/conversations", aliceToken, map[string]string{
		"recipient": "bob",
		"content":   "this will be moderated",
	})
	req.Equal(http.StatusCreated, status)
	convID := int(conv["id"].(float64))

	// A regular member is refused
	status, _ = doJSON(t, app, http.MethodGet, "/api/v1/admin/conversations", aliceToken, nil)
	req.Equal(http.StatusForbidden, status)

	// The admin sees the conversation, filter included
	status, body = doJSON(t, app, http.MethodGet, "/api/v1/admin/conversations?q=bob", adminToken, nil)
	req.Equal(http.StatusOK, status)
	rows := body["conversations"].([]any)
	req.Len(rows, 1)

	// Deleting removes the conversation and its messages
	status, _ = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/v1/admin/conversations/%d", convID), adminToken, nil)
	req.Equal(http.StatusOK, status)

	var convCount, msgCount int64
	req.NoError(database.DB.Model(&models.Conversation{}).Count(&convCount).Error)
	req.NoError(database.DB.Model(&models.Message{}).Count(&msgCount).Error)
	req.Zero(convCount)
	req.Zero(msgCount)

	status, _ = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/v1/admin/conversations/%d", convID), adminToken, nil)
	req.Equal(http.StatusNotFound, status)
}
