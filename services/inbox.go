package services

import (
	"errors"
	"log"
	"strconv"
	"time"

	"campuslink-server/models"

	"gorm.io/gorm"
)

const (
	InboxPageLimitDefault = 20
	InboxPageLimitMax     = 100
)

// Conversation is the derived inbox item: computed on every read from the
// thread row plus the directory, never persisted.
type Conversation struct {
	ThreadID    string               `json:"threadID"`
	Other       models.UserCard      `json:"other"`
	LastMessage *ConversationPreview `json:"lastMessage"`
	Unread      int                  `json:"unread"`
}

type ConversationPreview struct {
	Type    string    `json:"type"`
	Preview string    `json:"preview"`
	At      time.Time `json:"at"`
}

// InboxProjector builds a user's recency-ordered conversation list.
type InboxProjector struct {
	db        *gorm.DB
	directory *UserDirectory
}

func NewInboxProjector(db *gorm.DB, directory *UserDirectory) *InboxProjector {
	return &InboxProjector{db: db, directory: directory}
}

// List pages through the user's threads, most recent activity first. Threads
// that have no messages yet sort by creation time. The cursor is the
// recency timestamp of the last item of the previous page.
func (p *InboxProjector) List(userID, cursor string, limit int) ([]Conversation, string, error) {
	if limit <= 0 || limit > InboxPageLimitMax {
		limit = InboxPageLimitDefault
	}

	q := p.db.Where("user_a_id = ? OR user_b_id = ?", userID, userID)
	if cursor != "" {
		nanos, err := strconv.ParseInt(cursor, 10, 64)
		if err != nil {
			return nil, "", ErrInvalidCursor
		}
		q = q.Where("COALESCE(last_message_at, created_at) < ?", time.Unix(0, nanos).UTC())
	}

	var threads []models.Thread
	if err := q.Order("COALESCE(last_message_at, created_at) DESC").Limit(limit).Find(&threads).Error; err != nil {
		return nil, "", err
	}

	items := make([]Conversation, 0, len(threads))
	for _, thread := range threads {
		otherID := thread.OtherParticipant(userID)
		card, err := p.directory.GetMiniCard(otherID)
		if err != nil {
			// A directory gap must not break the whole inbox; drop the row.
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, "", err
			}
			log.Printf("inbox: user %s missing from directory, skipping thread %s", otherID, thread.ThreadID)
			continue
		}

		conv := Conversation{
			ThreadID: thread.ThreadID,
			Other:    *card,
			Unread:   0, // read tracking beyond the sender seed is not implemented
		}
		if thread.LastMessageAt != nil {
			conv.LastMessage = &ConversationPreview{
				Type:    thread.LastMessageType,
				Preview: thread.LastMessagePreview,
				At:      *thread.LastMessageAt,
			}
		}
		items = append(items, conv)
	}

	nextCursor := ""
	if len(threads) == limit {
		last := threads[len(threads)-1]
		ts := last.CreatedAt
		if last.LastMessageAt != nil {
			ts = *last.LastMessageAt
		}
		nextCursor = strconv.FormatInt(ts.UnixNano(), 10)
	}
	return items, nextCursor, nil
}
