package models

import (
	"time"

	"github.com/google/uuid"
)

// Poll represents a poll with a variable set of options. The owner is set at
// creation and never changes; only the owner may close or delete the poll.
type Poll struct {
	ID          uuid.UUID    `json:"id"`
	OwnerID     uuid.UUID    `json:"owner_id"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Active      bool         `json:"active"`
	CreatedAt   time.Time    `json:"created_at"`
	Options     []PollOption `json:"options,omitempty"`
	TotalVotes  int          `json:"total_votes"`
}

// PollOption is one choice within a poll. VoteCount is a denormalized cache
// of the vote rows referencing the option, maintained by a database trigger;
// application code only ever reads it.
type PollOption struct {
	ID        uuid.UUID `json:"id"`
	PollID    uuid.UUID `json:"poll_id"`
	Text      string    `json:"text"`
	VoteCount int       `json:"vote_count"`
	Position  int       `json:"position"`
}
