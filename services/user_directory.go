package services

import (
	"strings"

	"github.com/vleclerc/guildhall/models"
	"gorm.io/gorm"
)

// UserDirectory resolves members by id or display handle. Handles compare
// case-insensitively everywhere.
type UserDirectory struct {
	db *gorm.DB
}

func NewUserDirectory(db *gorm.DB) *UserDirectory {
	return &UserDirectory{db: db}
}

func (d *UserDirectory) ResolveByID(id uint) (*models.User, error) {
	var user models.User
	if err := d.db.First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (d *UserDirectory) ResolveByHandle(handle string) (*models.User, error) {
	var user models.User
	err := d.db.
		Where("LOWER(handle) = ?", strings.ToLower(strings.TrimSpace(handle))).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// SuggestHandles returns up to limit handles containing the partial text,
// used when an exact handle lookup comes up empty.
func (d *UserDirectory) SuggestHandles(partial string, limit int) ([]string, error) {
	var handles []string
	err := d.db.Model(&models.User{}).
		Where("LOWER(handle) LIKE ?", "%"+strings.ToLower(strings.TrimSpace(partial))+"%").
		Order("handle ASC").
		Limit(limit).
		Pluck("handle", &handles).Error
	if err != nil {
		return nil, err
	}
	return handles, nil
}
