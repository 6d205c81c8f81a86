package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"campuslink-server/models"

	"gorm.io/gorm"
)

const defaultExpoPushURL = "https://exp.host/--/api/v2/push/send"

// NotificationService handles push delivery for new direct messages.
type NotificationService struct {
	db      *gorm.DB
	pushURL string
	client  *http.Client
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	pushURL := os.Getenv("EXPO_PUSH_URL")
	if pushURL == "" {
		pushURL = defaultExpoPushURL
	}
	return &NotificationService{
		db:      db,
		pushURL: pushURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// userPushTokens retrieves the recipient's device tokens, respecting the
// notification opt-out.
func (ns *NotificationService) userPushTokens(userID string) ([]string, error) {
	var user models.User
	if err := ns.db.First(&user, "user_id = ?", userID).Error; err != nil {
		return nil, fmt.Errorf("user not found: %v", err)
	}
	if user.AllowsNotifications == nil || !*user.AllowsNotifications {
		return nil, fmt.Errorf("user has notifications disabled")
	}
	tokens, err := user.PushTokenList()
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal push tokens: %v", err)
	}
	if len(tokens) == 0 {
		return nil, fmt.Errorf("user has no push tokens")
	}
	return tokens, nil
}

// SendNewMessageNotification pushes a preview of a fresh direct message to
// the recipient's devices. Run from a goroutine: delivery failures are
// logged, never surfaced to the sender.
func (ns *NotificationService) SendNewMessageNotification(recipientID, senderName, preview, threadID string) {
	tokens, err := ns.userPushTokens(recipientID)
	if err != nil {
		log.Printf("push skipped for user %s: %v", recipientID, err)
		return
	}

	payload := map[string]interface{}{
		"to":    tokens,
		"sound": "default",
		"title": senderName,
		"body":  preview,
		"data": map[string]string{
			"type":     "new_message",
			"threadID": threadID,
			"screen":   "Thread",
		},
	}
	buf, err := json.Marshal(payload)
	if err != nil {
		log.Printf("push payload marshal failed: %v", err)
		return
	}

	resp, err := ns.client.Post(ns.pushURL, "application/json", bytes.NewReader(buf))
	if err != nil {
		log.Printf("push delivery to user %s failed: %v", recipientID, err)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		log.Printf("push delivery to user %s returned status %d", recipientID, resp.StatusCode)
	}
}
