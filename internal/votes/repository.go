package votes

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/BethelHills/Alx-Polly/internal/models"
)

// Repository handles vote persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a votes repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Insert records a vote with a single unconditional insert. There is
// deliberately no prior "has this user voted" read: the UNIQUE (poll_id,
// user_id) constraint is the serialization point, so concurrent duplicates
// from the same voter cannot both land no matter how requests interleave.
// The option counter update is a database trigger inside the same
// transaction as this statement.
//
// Returns ErrDuplicateVote or ErrInvalidReference for the constraint
// outcomes; any other error is a server fault.
func (r *Repository) Insert(ctx context.Context, pollID, optionID, userID uuid.UUID) (*models.Vote, error) {
	const q = `INSERT INTO votes (poll_id, option_id, user_id)
		VALUES ($1, $2, $3)
		RETURNING id, poll_id, option_id, user_id, created_at`
	var v models.Vote
	err := r.pool.QueryRow(ctx, q, pollID, optionID, userID).
		Scan(&v.ID, &v.PollID, &v.OptionID, &v.UserID, &v.CreatedAt)
	if err != nil {
		return nil, classifyInsertError(err)
	}
	return &v, nil
}
