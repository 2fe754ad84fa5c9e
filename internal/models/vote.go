package models

import (
	"time"

	"github.com/google/uuid"
)

// Vote is one user's vote on one poll. The database enforces at most one
// vote per (poll_id, user_id) pair.
type Vote struct {
	ID        uuid.UUID `json:"id"`
	PollID    uuid.UUID `json:"poll_id"`
	OptionID  uuid.UUID `json:"option_id"`
	UserID    uuid.UUID `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
