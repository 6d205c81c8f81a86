package services

import (
	"campuslink-server/models"

	"gorm.io/gorm"
)

// UserDirectory reads the identity-owned users table. Absence of a record is
// returned as gorm.ErrRecordNotFound and mapped to a plain 404 at the
// boundary; this service never writes the table.
type UserDirectory struct {
	db *gorm.DB
}

func NewUserDirectory(db *gorm.DB) *UserDirectory {
	return &UserDirectory{db: db}
}

func (d *UserDirectory) GetByID(userID string) (*models.User, error) {
	var user models.User
	if err := d.db.First(&user, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetMiniCard returns the public card shape used in previews.
func (d *UserDirectory) GetMiniCard(userID string) (*models.UserCard, error) {
	user, err := d.GetByID(userID)
	if err != nil {
		return nil, err
	}
	card := user.Card()
	return &card, nil
}
