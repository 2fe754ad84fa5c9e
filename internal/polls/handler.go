package polls

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/BethelHills/Alx-Polly/internal/audit"
	"github.com/BethelHills/Alx-Polly/internal/middleware"
	"github.com/BethelHills/Alx-Polly/internal/models"
	"github.com/BethelHills/Alx-Polly/pkg/response"
)

// CreateRequest is the body for POST /polls.
type CreateRequest struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description"`
	Options     []string `json:"options" binding:"required"`
}

// Store is the persistence surface the handler needs.
type Store interface {
	Create(ctx context.Context, ownerID uuid.UUID, in *SanitizedPoll) (*models.Poll, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Poll, error)
	GetWithOptions(ctx context.Context, id uuid.UUID) (*models.Poll, error)
	ListActive(ctx context.Context) ([]models.Poll, error)
	Close(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Handler handles poll HTTP endpoints.
type Handler struct {
	store  Store
	audit  *audit.Recorder
	logger *zap.Logger
}

// NewHandler creates a polls handler.
func NewHandler(store Store, rec *audit.Recorder, logger *zap.Logger) *Handler {
	return &Handler{store: store, audit: rec, logger: logger}
}

// Create handles POST /polls (authenticated).
func (h *Handler) Create(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			response.PayloadTooLarge(c, "request body too large")
			return
		}
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	in, verrs := sanitizePollInput(req.Title, req.Description, req.Options)
	if verrs != nil {
		response.BadRequest(c, strings.Join(verrs, "; "))
		return
	}

	poll, err := h.store.Create(c.Request.Context(), userID, in)
	if err != nil {
		h.logger.Error("create poll", zap.Error(err))
		response.Internal(c, "failed to create poll")
		return
	}

	h.audit.Record(audit.Entry{
		ActorID:   &userID,
		Action:    audit.ActionPollCreated,
		TargetID:  &poll.ID,
		ClientIP:  c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		Detail:    map[string]interface{}{"title": poll.Title, "options": len(poll.Options)},
	})

	response.Created(c, poll)
}

// List handles GET /polls. Returns active polls with total vote counts.
func (h *Handler) List(c *gin.Context) {
	list, err := h.store.ListActive(c.Request.Context())
	if err != nil {
		h.logger.Error("list polls", zap.Error(err))
		response.Internal(c, "failed to list polls")
		return
	}
	response.OK(c, list)
}

// Get handles GET /polls/:id. Returns the poll with its options.
func (h *Handler) Get(c *gin.Context) {
	pollID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid poll id")
		return
	}
	poll, err := h.store.GetWithOptions(c.Request.Context(), pollID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.NotFound(c, "poll not found")
			return
		}
		h.logger.Error("get poll", zap.Error(err))
		response.Internal(c, "failed to load poll")
		return
	}
	response.OK(c, poll)
}

// Results handles GET /polls/:id/results. Returns per-option counts and
// percentages.
func (h *Handler) Results(c *gin.Context) {
	pollID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid poll id")
		return
	}
	poll, err := h.store.GetWithOptions(c.Request.Context(), pollID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.NotFound(c, "poll not found")
			return
		}
		h.logger.Error("poll results", zap.Error(err))
		response.Internal(c, "failed to load results")
		return
	}
	results := ComputeResults(poll.Options)
	response.OK(c, gin.H{
		"poll_id": poll.ID,
		"title":   poll.Title,
		"active":  poll.Active,
		"results": results,
	})
}

// Close handles POST /polls/:id/close (owner only). Closed polls reject all
// new votes.
func (h *Handler) Close(c *gin.Context) {
	poll, userID, ok := h.ownedPoll(c)
	if !ok {
		return
	}
	if err := h.store.Close(c.Request.Context(), poll.ID); err != nil {
		h.logger.Error("close poll", zap.Error(err))
		response.Internal(c, "failed to close poll")
		return
	}

	h.audit.Record(audit.Entry{
		ActorID:   &userID,
		Action:    audit.ActionPollClosed,
		TargetID:  &poll.ID,
		ClientIP:  c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	})

	response.OK(c, gin.H{"id": poll.ID, "active": false})
}

// Delete handles DELETE /polls/:id (owner only). Options and votes cascade.
func (h *Handler) Delete(c *gin.Context) {
	poll, userID, ok := h.ownedPoll(c)
	if !ok {
		return
	}
	if err := h.store.Delete(c.Request.Context(), poll.ID); err != nil {
		h.logger.Error("delete poll", zap.Error(err))
		response.Internal(c, "failed to delete poll")
		return
	}

	h.audit.Record(audit.Entry{
		ActorID:   &userID,
		Action:    audit.ActionPollDeleted,
		TargetID:  &poll.ID,
		ClientIP:  c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	})

	response.NoContent(c)
}

// ownedPoll loads the poll from the path and enforces that the caller owns
// it. Responds and returns ok=false on any failure.
func (h *Handler) ownedPoll(c *gin.Context) (*models.Poll, uuid.UUID, bool) {
	pollID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid poll id")
		return nil, uuid.Nil, false
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	poll, err := h.store.GetByID(c.Request.Context(), pollID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.NotFound(c, "poll not found")
			return nil, uuid.Nil, false
		}
		h.logger.Error("load poll", zap.Error(err))
		response.Internal(c, "failed to load poll")
		return nil, uuid.Nil, false
	}
	if poll.OwnerID != userID {
		response.Forbidden(c, "only the poll owner can modify it")
		return nil, uuid.Nil, false
	}
	return poll, userID, true
}
