package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"campuslink-server/models"

	"gorm.io/gorm"
)

const (
	MessagePageLimitDefault = 30
	MessagePageLimitMax     = 100
)

// ErrInvalidCursor marks a cursor that does not belong to the thread being
// paginated; the boundary maps it to 400.
var ErrInvalidCursor = errors.New("invalid cursor")

// MessageStore is the append-only, per-thread ordered message log with
// forward cursor pagination.
type MessageStore struct {
	db *gorm.DB
}

func NewMessageStore(db *gorm.DB) *MessageStore {
	return &MessageStore{db: db}
}

// FormatMessageID renders a message id that is opaque to clients but orders
// lexicographically within its thread, so an id doubles as a list cursor.
func FormatMessageID(threadID string, seq uint64) string {
	return fmt.Sprintf("%s.%016d", threadID, seq)
}

func parseCursor(threadID, cursor string) (uint64, error) {
	raw, ok := strings.CutPrefix(cursor, threadID+".")
	if !ok {
		return 0, ErrInvalidCursor
	}
	seq, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, ErrInvalidCursor
	}
	return seq, nil
}

// Append writes one immutable message. The per-thread sequence bump and the
// message insert share a transaction, so ordering holds across restarts and
// concurrent instances. The caller has already verified that the sender is a
// participant.
func (s *MessageStore) Append(threadID, senderID string, body models.MessageBody) (*models.Message, error) {
	var msg models.Message
	err := s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Thread{}).
			Where("thread_id = ?", threadID).
			UpdateColumn("message_seq", gorm.Expr("message_seq + ?", 1))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		var thread models.Thread
		if err := tx.First(&thread, "thread_id = ?", threadID).Error; err != nil {
			return err
		}

		readBy, err := json.Marshal([]string{senderID})
		if err != nil {
			return err
		}

		msg = models.Message{
			MessageID: FormatMessageID(threadID, thread.MessageSeq),
			ThreadID:  threadID,
			Seq:       thread.MessageSeq,
			SenderID:  senderID,
			BodyType:  body.Type,
			Text:      body.Text,
			MediaURL:  body.MediaURL,
			ReadBy:    readBy,
			CreatedAt: time.Now().UTC(),
		}
		return tx.Create(&msg).Error
	})
	if err != nil {
		return nil, err
	}

	s.touchPreview(&msg)
	return &msg, nil
}

// touchPreview refreshes the thread's denormalized last-message cache. The
// cache is a display optimization, not the system of record: a failure here
// leaves it stale but never fails the send.
func (s *MessageStore) touchPreview(msg *models.Message) {
	err := s.db.Model(&models.Thread{}).
		Where("thread_id = ?", msg.ThreadID).
		UpdateColumns(map[string]interface{}{
			"last_message_at":      msg.CreatedAt,
			"last_message_type":    msg.BodyType,
			"last_message_preview": msg.Preview(),
		}).Error
	if err != nil {
		log.Printf("thread %s: last-message cache update failed, preview is stale: %v", msg.ThreadID, err)
	}
}

// List returns messages with seq strictly greater than afterCursor, seq
// ascending, capped at limit. nextCursor is the last returned id when the
// page is exactly limit long, empty otherwise. Messages inserted while
// paginating may or may not appear in a given page.
func (s *MessageStore) List(threadID, afterCursor string, limit int) ([]models.Message, string, error) {
	if limit <= 0 || limit > MessagePageLimitMax {
		limit = MessagePageLimitDefault
	}

	q := s.db.Where("thread_id = ?", threadID)
	if afterCursor != "" {
		seq, err := parseCursor(threadID, afterCursor)
		if err != nil {
			return nil, "", err
		}
		q = q.Where("seq > ?", seq)
	}

	var msgs []models.Message
	if err := q.Order("seq ASC").Limit(limit).Find(&msgs).Error; err != nil {
		return nil, "", err
	}

	nextCursor := ""
	if len(msgs) == limit {
		nextCursor = msgs[len(msgs)-1].MessageID
	}
	return msgs, nextCursor, nil
}
