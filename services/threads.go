package services

import (
	"fmt"

	"campuslink-server/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ThreadRegistry owns the identity and lifecycle of two-party threads:
// exactly one thread exists per unordered pair of participants.
type ThreadRegistry struct {
	db *gorm.DB
}

func NewThreadRegistry(db *gorm.DB) *ThreadRegistry {
	return &ThreadRegistry{db: db}
}

// CanonicalPair orders two participant ids lexicographically.
func CanonicalPair(userA, userB string) (string, string) {
	if userB < userA {
		return userB, userA
	}
	return userA, userB
}

// ThreadIDFor derives the stable composite key for a pair of users,
// independent of argument order. User ids are opaque, so a separator
// alone cannot split the key back into its parts; the first id's length
// is baked in to keep distinct pairs from colliding.
func ThreadIDFor(userA, userB string) string {
	lo, hi := CanonicalPair(userA, userB)
	return fmt.Sprintf("%d_%s__%s", len(lo), lo, hi)
}

// GetOrCreate resolves the canonical thread for a pair, inserting it if
// absent. The insert-if-absent on the primary key is the only concurrency
// control: racing callers all converge on the single persisted row, with no
// application-level locking.
func (r *ThreadRegistry) GetOrCreate(userA, userB string) (*models.Thread, error) {
	lo, hi := CanonicalPair(userA, userB)
	thread := models.Thread{
		ThreadID: ThreadIDFor(userA, userB),
		UserAID:  lo,
		UserBID:  hi,
	}
	if err := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&thread).Error; err != nil {
		return nil, err
	}
	// Read back so losers of the race see the winner's row (and its preview
	// cache) rather than their unsaved struct.
	return r.GetByID(thread.ThreadID)
}

// GetByID returns gorm.ErrRecordNotFound for unknown ids; callers treat that
// as a normal 404 outcome, not an internal failure.
func (r *ThreadRegistry) GetByID(threadID string) (*models.Thread, error) {
	var thread models.Thread
	if err := r.db.First(&thread, "thread_id = ?", threadID).Error; err != nil {
		return nil, err
	}
	return &thread, nil
}
