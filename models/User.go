package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// Plan tiers sourced from the billing subsystem. Consumed here only for the
// cross-college messaging gate.
const (
	PlanFree    = "FREE"
	PlanBasic   = "BASIC"
	PlanPremium = "PREMIUM"
)

// User mirrors the directory record owned by the identity subsystem. This
// service only ever reads it: registration, verification, plan changes and
// college assignment all happen elsewhere.
type User struct {
	UserID      string  `json:"userID" gorm:"primaryKey;size:64"`
	CollegeID   *string `json:"collegeID" gorm:"size:64;index"`
	PlanTier    string  `json:"planTier" gorm:"size:16;default:FREE"`
	DisplayName string  `json:"displayName" gorm:"size:128"`
	Handle      string  `json:"handle" gorm:"size:64;uniqueIndex"`
	AvatarURL   string  `json:"avatarURL" gorm:"size:512"`

	PushTokens          datatypes.JSON `json:"-"`
	AllowsNotifications *bool          `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UserCard is the public shape of a user embedded in thread payloads and
// inbox previews.
type UserCard struct {
	UserID      string `json:"userID"`
	DisplayName string `json:"displayName"`
	Handle      string `json:"handle"`
	AvatarURL   string `json:"avatarURL"`
	PlanTier    string `json:"planTier"`
}

func (u *User) Card() UserCard {
	return UserCard{
		UserID:      u.UserID,
		DisplayName: u.DisplayName,
		Handle:      u.Handle,
		AvatarURL:   u.AvatarURL,
		PlanTier:    u.PlanTier,
	}
}

// PushTokenList decodes the user's registered device tokens.
func (u *User) PushTokenList() ([]string, error) {
	var tokens []string
	if u.PushTokens == nil {
		return tokens, nil
	}
	if err := json.Unmarshal(u.PushTokens, &tokens); err != nil {
		return nil, err
	}
	return tokens, nil
}
