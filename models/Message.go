package models

import (
	"encoding/json"
	"time"
	"unicode/utf8"

	"golang.org/x/exp/slices"
	"gorm.io/datatypes"
)

const (
	MessageTypeText  = "text"
	MessageTypeImage = "image"
)

const previewMaxLen = 140

// MessageBody is the tagged payload of a message: text carries Text, image
// carries MediaURL.
type MessageBody struct {
	Type     string `json:"type" validate:"required,oneof=text image"`
	Text     string `json:"text" validate:"required_if=Type text,max=5000"`
	MediaURL string `json:"mediaURL" validate:"required_if=Type image,omitempty,url"`
}

// Message is one immutable entry in a thread's log. Seq is allocated by the
// store and strictly increases within a thread; MessageID embeds it so ids
// compare as opaque strings in log order.
type Message struct {
	MessageID string `json:"messageID" gorm:"primaryKey;size:192"`
	ThreadID  string `json:"threadID" gorm:"size:160;index:idx_messages_thread_seq,priority:1;not null"`
	Seq       uint64 `json:"-" gorm:"index:idx_messages_thread_seq,priority:2;not null"`
	SenderID  string `json:"senderID" gorm:"size:64;not null"`

	BodyType string `json:"-" gorm:"size:16;not null"`
	Text     string `json:"-" gorm:"type:text"`
	MediaURL string `json:"-" gorm:"size:512"`

	// ReadBy is seeded with the sender at creation. Nothing marks messages
	// read by the recipient yet.
	ReadBy datatypes.JSON `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
}

// MarshalJSON renders the tagged body and the readBy set in the wire shape
// clients expect.
func (m Message) MarshalJSON() ([]byte, error) {
	body := map[string]string{"type": m.BodyType}
	switch m.BodyType {
	case MessageTypeImage:
		body["mediaURL"] = m.MediaURL
	default:
		body["text"] = m.Text
	}

	readBy := []string{}
	if m.ReadBy != nil {
		if err := json.Unmarshal(m.ReadBy, &readBy); err != nil {
			readBy = []string{}
		}
	}

	return json.Marshal(map[string]interface{}{
		"messageID": m.MessageID,
		"threadID":  m.ThreadID,
		"senderID":  m.SenderID,
		"body":      body,
		"createdAt": m.CreatedAt,
		"readBy":    readBy,
	})
}

// ReadByUser reports whether userID is in the message's read set.
func (m Message) ReadByUser(userID string) bool {
	var readers []string
	if m.ReadBy != nil {
		if err := json.Unmarshal(m.ReadBy, &readers); err != nil {
			return false
		}
	}
	return slices.Contains(readers, userID)
}

// Preview returns the short body snapshot cached on the thread and used in
// push notifications.
func (m Message) Preview() string {
	if m.BodyType == MessageTypeImage {
		return "Sent a photo"
	}
	if len(m.Text) <= previewMaxLen {
		return m.Text
	}
	// Back off to a rune boundary so the truncated snapshot stays valid UTF-8.
	cut := previewMaxLen
	for cut > 0 && !utf8.RuneStart(m.Text[cut]) {
		cut--
	}
	return m.Text[:cut]
}
