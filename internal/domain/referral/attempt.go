package referral

import (
	"time"

	"github.com/google/uuid"
)

type AttemptOutcome string

const (
	AttemptSuccess         AttemptOutcome = "success"
	AttemptAlreadyReferred AttemptOutcome = "already_referred"
	AttemptCodeNotFound    AttemptOutcome = "code_not_found"
	AttemptSelfReferral    AttemptOutcome = "self_referral"
	AttemptInternalError   AttemptOutcome = "internal_error"
)

// Attempt is one row of the referral audit log. Every code use is
// recorded, success or failure, before the outcome is reported to the
// caller, so the trail is authoritative even on rejection paths.
type Attempt struct {
	ID        uuid.UUID
	Code      string
	UserID    uuid.UUID
	Outcome   AttemptOutcome
	CreatedAt time.Time
}

func NewAttempt(code string, userID uuid.UUID, outcome AttemptOutcome, now time.Time) Attempt {
	return Attempt{
		ID:        uuid.New(),
		Code:      code,
		UserID:    userID,
		Outcome:   outcome,
		CreatedAt: now,
	}
}
