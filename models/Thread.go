package models

import "time"

// Thread is the persistent identity of a two-party conversation. UserAID and
// UserBID hold the participant ids in lexicographic order so the pair (A,B)
// and (B,A) always resolve to the same row; ThreadID is derived from that
// ordering. Threads are created lazily and never deleted.
type Thread struct {
	ThreadID string `json:"threadID" gorm:"primaryKey;size:160"`
	UserAID  string `json:"-" gorm:"size:64;index;not null"`
	UserBID  string `json:"-" gorm:"size:64;index;not null"`

	// MessageSeq is the last sequence number handed out for this thread's
	// log. It is bumped inside the append transaction and never reset, so
	// message order survives restarts and multiple running instances.
	MessageSeq uint64 `json:"-" gorm:"not null;default:0"`

	// Denormalized last-message cache for cheap inbox listing. Recomputable
	// from the message log; may lag a send briefly.
	LastMessageAt      *time.Time `json:"lastMessageAt"`
	LastMessageType    string     `json:"-" gorm:"size:16"`
	LastMessagePreview string     `json:"-" gorm:"size:256"`

	CreatedAt time.Time `json:"createdAt"`
}

func (t *Thread) ParticipantIDs() []string {
	return []string{t.UserAID, t.UserBID}
}

func (t *Thread) HasParticipant(userID string) bool {
	return t.UserAID == userID || t.UserBID == userID
}

// OtherParticipant returns the participant that is not userID. The caller
// must already have checked participancy.
func (t *Thread) OtherParticipant(userID string) string {
	if t.UserAID == userID {
		return t.UserBID
	}
	return t.UserAID
}
