package polls

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/BethelHills/Alx-Polly/internal/models"
)

// Repository handles poll and option persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a polls repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a poll and its options in one transaction.
func (r *Repository) Create(ctx context.Context, ownerID uuid.UUID, in *SanitizedPoll) (*models.Poll, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	const pollQuery = `INSERT INTO polls (owner_id, title, description)
		VALUES ($1, $2, $3)
		RETURNING id, owner_id, title, description, active, created_at`
	var p models.Poll
	err = tx.QueryRow(ctx, pollQuery, ownerID, in.Title, in.Description).
		Scan(&p.ID, &p.OwnerID, &p.Title, &p.Description, &p.Active, &p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert poll: %w", err)
	}

	const optionQuery = `INSERT INTO poll_options (poll_id, option_text, position)
		VALUES ($1, $2, $3)
		RETURNING id, poll_id, option_text, vote_count, position`
	p.Options = make([]models.PollOption, 0, len(in.Options))
	for i, text := range in.Options {
		var o models.PollOption
		err = tx.QueryRow(ctx, optionQuery, p.ID, text, i).
			Scan(&o.ID, &o.PollID, &o.Text, &o.VoteCount, &o.Position)
		if err != nil {
			return nil, fmt.Errorf("insert option: %w", err)
		}
		p.Options = append(p.Options, o)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return &p, nil
}

// GetByID returns a poll row by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Poll, error) {
	const q = `SELECT id, owner_id, title, description, active, created_at
		FROM polls WHERE id = $1`
	var p models.Poll
	err := r.pool.QueryRow(ctx, q, id).
		Scan(&p.ID, &p.OwnerID, &p.Title, &p.Description, &p.Active, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetWithOptions returns a poll with its options in creation order.
func (r *Repository) GetWithOptions(ctx context.Context, id uuid.UUID) (*models.Poll, error) {
	p, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Options, err = r.ListOptions(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, o := range p.Options {
		p.TotalVotes += o.VoteCount
	}
	return p, nil
}

// ListActive returns active polls, newest first, with total vote counts.
func (r *Repository) ListActive(ctx context.Context) ([]models.Poll, error) {
	const q = `SELECT p.id, p.owner_id, p.title, p.description, p.active, p.created_at,
			COALESCE(SUM(o.vote_count), 0)
		FROM polls p
		LEFT JOIN poll_options o ON o.poll_id = p.id
		WHERE p.active
		GROUP BY p.id
		ORDER BY p.created_at DESC`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.Poll
	for rows.Next() {
		var p models.Poll
		if err := rows.Scan(&p.ID, &p.OwnerID, &p.Title, &p.Description, &p.Active, &p.CreatedAt, &p.TotalVotes); err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// GetOption returns an option row by ID.
func (r *Repository) GetOption(ctx context.Context, id uuid.UUID) (*models.PollOption, error) {
	const q = `SELECT id, poll_id, option_text, vote_count, position
		FROM poll_options WHERE id = $1`
	var o models.PollOption
	err := r.pool.QueryRow(ctx, q, id).
		Scan(&o.ID, &o.PollID, &o.Text, &o.VoteCount, &o.Position)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// ListOptions returns a poll's options in creation order.
func (r *Repository) ListOptions(ctx context.Context, pollID uuid.UUID) ([]models.PollOption, error) {
	const q = `SELECT id, poll_id, option_text, vote_count, position
		FROM poll_options WHERE poll_id = $1 ORDER BY position`
	rows, err := r.pool.Query(ctx, q, pollID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var options []models.PollOption
	for rows.Next() {
		var o models.PollOption
		if err := rows.Scan(&o.ID, &o.PollID, &o.Text, &o.VoteCount, &o.Position); err != nil {
			return nil, err
		}
		options = append(options, o)
	}
	return options, rows.Err()
}

// Close sets a poll inactive. Inactive polls reject all new votes.
func (r *Repository) Close(ctx context.Context, id uuid.UUID) error {
	const q = `UPDATE polls SET active = FALSE WHERE id = $1`
	_, err := r.pool.Exec(ctx, q, id)
	return err
}

// Delete removes a poll; options and votes cascade at the database.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM polls WHERE id = $1`
	_, err := r.pool.Exec(ctx, q, id)
	return err
}
