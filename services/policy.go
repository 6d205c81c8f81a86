package services

import "campuslink-server/models"

// Reason code surfaced in DM_NOT_ALLOWED responses.
const ReasonBothUsersMustBePaid = "BOTH_USERS_MUST_BE_PAID_FOR_CROSS_COLLEGE"

type PolicyDecision struct {
	Allowed bool
	Reason  string
}

// AccessPolicy decides whether two accounts may start a direct-message
// thread. Implementations must be pure and stateless: the gate runs fresh on
// every thread-creation attempt (plan and college can change between
// attempts) and is never consulted again for sends on an existing thread.
type AccessPolicy interface {
	CanMessage(me, other *models.User) PolicyDecision
}

// CollegePlanPolicy is the production rule: students of the same college can
// always message each other; across colleges both sides must be on a paid
// tier.
type CollegePlanPolicy struct{}

func (CollegePlanPolicy) CanMessage(me, other *models.User) PolicyDecision {
	if me.CollegeID != nil && other.CollegeID != nil && *me.CollegeID == *other.CollegeID {
		return PolicyDecision{Allowed: true}
	}
	if me.PlanTier != models.PlanFree && other.PlanTier != models.PlanFree {
		return PolicyDecision{Allowed: true}
	}
	return PolicyDecision{Allowed: false, Reason: ReasonBothUsersMustBePaid}
}
