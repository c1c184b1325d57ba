package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vleclerc/guildhall/database"
	"github.com/vleclerc/guildhall/models"
	"github.com/vleclerc/guildhall/routes"
	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Conversation{}, &models.Message{}))
	database.DB = db

	app := fiber.New()
	routes.PublicRoutes(app)
	routes.AuthRoutes(app)
	routes.MessagingRoutes(app)
	routes.AdminRoutes(app)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp.StatusCode, decoded
}

func registerAndLogin(t *testing.T, app *fiber.App, handle string) string {
	t.Helper()

	email := fmt.Sprintf("%s@guildhall.test", handle)
	status, _ := doJSON(t, app, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"handle":   handle,
		"email":    email,
		"password": "hunter22",
	})
	require.Equal(t, http.StatusCreated, status)

	status, body := doJSON(t, app, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    email,
		"password": "hunter22",
	})
	require.Equal(t, http.StatusOK, status)
	token, ok := body["token"].(string)
	require.True(t, ok)
	return token
}

func TestMessagingFlow(t *testing.T) {
	req := require.New(t)
	app := newTestApp(t)

	aliceToken := registerAndLogin(t, app, "alice")
	bobToken := registerAndLogin(t, app, "bob")
	carolToken := registerAndLogin(t, app, "carol")

	// Alice opens a conversation with bob by handle
	status, conv := doJSON(t, app, http.MethodPost, "/api/v1/conversations", aliceToken, map[string]string{
		"recipient": "bob",
		"content":   "hi bob",
	})
	req.Equal(http.StatusCreated, status)
	convID := int(conv["id"].(float64))
	req.EqualValues(1, conv["user_low_id"])
	req.EqualValues(2, conv["user_high_id"])

	// Bob has one unread, alice none
	status, body := doJSON(t, app, http.MethodGet, "/api/v1/messages/unread-count", bobToken, nil)
	req.Equal(http.StatusOK, status)
	req.EqualValues(1, body["unread_count"])

	status, body = doJSON(t, app, http.MethodGet, "/api/v1/messages/unread-count", aliceToken, nil)
	req.Equal(http.StatusOK, status)
	req.EqualValues(0, body["unread_count"])

	// Bob's inbox shows the preview
	status, body = doJSON(t, app, http.MethodGet, "/api/v1/conversations", bobToken, nil)
	req.Equal(http.StatusOK, status)
	rows := body["conversations"].([]any)
	req.Len(rows, 1)
	row := rows[0].(map[string]any)
	req.Equal("alice", row["other_handle"])
	req.Equal("hi bob", row["last_message_preview"])
	req.EqualValues(1, row["unread_count"])

	// Opening the conversation marks it read
	status, body = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/v1/conversations/%d", convID), bobToken, nil)
	req.Equal(http.StatusOK, status)
	messages := body["messages"].(map[string]any)
	req.EqualValues(1, messages["total"])

	status, body = doJSON(t, app, http.MethodGet, "/api/v1/messages/unread-count", bobToken, nil)
	req.Equal(http.StatusOK, status)
	req.EqualValues(0, body["unread_count"])

	// Bob replies into the existing conversation
	status, _ = doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/v1/conversations/%d/messages", convID), bobToken, map[string]string{
		"content": "hey alice",
	})
	req.Equal(http.StatusCreated, status)

	// Carol is not a participant and cannot see or post
	status, _ = doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/v1/conversations/%d/messages", convID), carolToken, map[string]string{
		"content": "let me in",
	})
	req.Equal(http.StatusNotFound, status)

	status, _ = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/v1/conversations/%d", convID), carolToken, nil)
	req.Equal(http.StatusNotFound, status)

	// Whitespace-only content is rejected
	status, _ = doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/v1/conversations/%d/messages", convID), aliceToken, map[string]string{
		"content": "   ",
	})
	req.Equal(http.StatusBadRequest, status)
}

func TestMessagingFlow_RecipientSuggestions(t *testing.T) {
	req := require.New(t)
	app := newTestApp(t)

	aliceToken := registerAndLogin(t, app, "alice")
	registerAndLogin(t, app, "bobette")

	status, body := doJSON(t, app, http.MethodPost, "/api/v1/conversations", aliceToken, map[string]string{
		"recipient": "bob",
		"content":   "hi",
	})
	req.Equal(http.StatusNotFound, status)

	suggestions := body["suggestions"].([]any)
	req.Len(suggestions, 1)
	req.Equal("bobette", suggestions[0])
}

func TestMessagingFlow_SelfMessagingRejected(t *testing.T) {
	req := require.New(t)
	app := newTestApp(t)

	aliceToken := registerAndLogin(t, app, "alice")

	status, _ := doJSON(t, app, http.MethodPost, "/api/v1/conversations", aliceToken, map[string]string{
		"recipient": "alice",
		"content":   "dear diary",
	})
	req.Equal(http.StatusBadRequest, status)
}
