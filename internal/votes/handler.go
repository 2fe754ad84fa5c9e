// Package votes implements the vote submission protocol: a guard read for
// friendly errors, then one constraint-checked insert that is the actual
// correctness mechanism.
package votes

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/BethelHills/Alx-Polly/internal/audit"
	"github.com/BethelHills/Alx-Polly/internal/middleware"
	"github.com/BethelHills/Alx-Polly/internal/models"
	"github.com/BethelHills/Alx-Polly/internal/polls"
	"github.com/BethelHills/Alx-Polly/pkg/response"
)

// SubmitRequest is the body for POST /polls/:id/vote.
type SubmitRequest struct {
	OptionID uuid.UUID `json:"option_id" binding:"required"`
}

// Store persists votes.
type Store interface {
	Insert(ctx context.Context, pollID, optionID, userID uuid.UUID) (*models.Vote, error)
}

// PollStore is the read surface the existence guard needs.
type PollStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Poll, error)
	GetOption(ctx context.Context, id uuid.UUID) (*models.PollOption, error)
	ListOptions(ctx context.Context, pollID uuid.UUID) ([]models.PollOption, error)
}

// Handler handles vote HTTP endpoints.
type Handler struct {
	store  Store
	polls  PollStore
	audit  *audit.Recorder
	logger *zap.Logger
}

// NewHandler creates a votes handler.
func NewHandler(store Store, pollStore PollStore, rec *audit.Recorder, logger *zap.Logger) *Handler {
	return &Handler{store: store, polls: pollStore, audit: rec, logger: logger}
}

// Submit handles POST /polls/:id/vote (authenticated).
func (h *Handler) Submit(c *gin.Context) {
	pollID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid poll id")
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			response.PayloadTooLarge(c, "request body too large")
			return
		}
		response.BadRequest(c, "invalid request: option_id is required")
		return
	}

	// Guard reads for early, specific errors. The insert below stays
	// authoritative: a poll deactivated between this read and the write can
	// collect one late vote, but never a duplicate.
	poll, err := h.polls.GetByID(c.Request.Context(), pollID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.NotFound(c, "poll not found")
			return
		}
		h.logger.Error("load poll", zap.Error(err))
		response.Internal(c, "failed to load poll")
		return
	}
	if !poll.Active {
		response.BadRequest(c, "poll is no longer active")
		return
	}

	option, err := h.polls.GetOption(c.Request.Context(), req.OptionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.BadRequest(c, "invalid option for this poll")
			return
		}
		h.logger.Error("load option", zap.Error(err))
		response.Internal(c, "failed to load option")
		return
	}
	if option.PollID != pollID {
		response.BadRequest(c, "invalid option for this poll")
		return
	}

	vote, err := h.store.Insert(c.Request.Context(), pollID, req.OptionID, userID)
	switch {
	case errors.Is(err, ErrDuplicateVote):
		response.Conflict(c, "already voted on this poll")
		return
	case errors.Is(err, ErrInvalidReference):
		response.BadRequest(c, "invalid poll or option")
		return
	case err != nil:
		// Not retried: if the failure was a post-commit network error a
		// retry could double-vote. The caller decides whether to resubmit.
		h.logger.Error("insert vote",
			zap.String("poll_id", pollID.String()),
			zap.Error(err),
		)
		response.Internal(c, "failed to record vote")
		return
	}

	h.audit.Record(audit.Entry{
		ActorID:   &userID,
		Action:    audit.ActionVoteCast,
		TargetID:  &pollID,
		ClientIP:  c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		Detail:    map[string]interface{}{"option_id": req.OptionID.String()},
	})

	// Refresh tallies for the response. The vote is already committed, so a
	// failed read here degrades the payload rather than the outcome.
	body := gin.H{"vote": vote}
	options, err := h.polls.ListOptions(c.Request.Context(), pollID)
	if err != nil {
		h.logger.Warn("refresh results after vote", zap.Error(err))
	} else {
		body["results"] = polls.ComputeResults(options)
	}
	response.Created(c, body)
}
