package utils

import (
	"strings"

	"github.com/google/uuid"
	"github.com/vleclerc/guildhall/models"
	"gorm.io/gorm"
)

// GenerateResetToken produces a password-reset token that is not already in
// use. Collisions are practically impossible, the retry is for the unique
// column's sake.
func GenerateResetToken(db *gorm.DB) (string, error) {
	for {
		token := strings.ReplaceAll(uuid.NewString(), "-", "")

		var count int64
		if err := db.Model(&models.User{}).
			Where("reset_password_token = ?", token).
			Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return token, nil
		}
	}
}
