package services

import (
	"encoding/json"
	"testing"

	"campuslink-server/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB builds an isolated in-memory database exercising the same gorm
// code paths as postgres. A single connection keeps :memory: stable across
// the pool.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&models.User{}, &models.Thread{}, &models.Message{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, userID, collegeID, planTier string) *models.User {
	t.Helper()

	user := models.User{
		UserID:      userID,
		PlanTier:    planTier,
		DisplayName: "User " + userID,
		Handle:      "@" + userID,
	}
	if collegeID != "" {
		user.CollegeID = &collegeID
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user %s: %v", userID, err)
	}
	return &user
}

func textBody(text string) models.MessageBody {
	return models.MessageBody{Type: models.MessageTypeText, Text: text}
}

func decodeReadBy(t *testing.T, msg *models.Message) []string {
	t.Helper()

	var readers []string
	if err := json.Unmarshal(msg.ReadBy, &readers); err != nil {
		t.Fatalf("decode readBy: %v", err)
	}
	return readers
}
