package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vleclerc/guildhall/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a fresh in-memory database per test, mirroring the
// production gorm config (TranslateError in particular, the conversation
// service depends on it).
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Conversation{}, &models.Message{}))
	return db
}

func createUser(t *testing.T, db *gorm.DB, handle string) models.User {
	t.Helper()

	user := models.User{
		Handle:   handle,
		Email:    fmt.Sprintf("%s@guildhall.test", handle),
		Password: "not-a-real-hash",
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}
