package polls

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BethelHills/Alx-Polly/internal/audit"
	"github.com/BethelHills/Alx-Polly/internal/middleware"
	"github.com/BethelHills/Alx-Polly/internal/models"
)

type nopAuditStore struct{}

func (nopAuditStore) Insert(context.Context, audit.Entry) error { return nil }

// fakeStore is an in-memory Store for handler tests.
type fakeStore struct {
	mu    sync.Mutex
	polls map[uuid.UUID]*models.Poll
}

func newFakeStore() *fakeStore {
	return &fakeStore{polls: make(map[uuid.UUID]*models.Poll)}
}

func (s *fakeStore) Create(_ context.Context, ownerID uuid.UUID, in *SanitizedPoll) (*models.Poll, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := &models.Poll{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Title:       in.Title,
		Description: in.Description,
		Active:      true,
		CreatedAt:   time.Now(),
	}
	for i, text := range in.Options {
		p.Options = append(p.Options, models.PollOption{
			ID: uuid.New(), PollID: p.ID, Text: text, Position: i,
		})
	}
	s.polls[p.ID] = p
	return p, nil
}

func (s *fakeStore) GetByID(_ context.Context, id uuid.UUID) (*models.Poll, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.polls[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *p
	return &cp, nil
}

func (s *fakeStore) GetWithOptions(ctx context.Context, id uuid.UUID) (*models.Poll, error) {
	return s.GetByID(ctx, id)
}

func (s *fakeStore) ListActive(context.Context) ([]models.Poll, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Poll
	for _, p := range s.polls {
		if p.Active {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (s *fakeStore) Close(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.polls[id]; ok {
		p.Active = false
	}
	return nil
}

func (s *fakeStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.polls, id)
	return nil
}

func newTestRouter(h *Handler, userID uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	authed := func(c *gin.Context) { c.Set(middleware.ContextUserID, userID) }
	r.POST("/polls", authed, h.Create)
	r.GET("/polls", h.List)
	r.GET("/polls/:id", h.Get)
	r.GET("/polls/:id/results", h.Results)
	r.POST("/polls/:id/close", authed, h.Close)
	r.DELETE("/polls/:id", authed, h.Delete)
	return r
}

func postJSON(r *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreatePollSanitizesInput(t *testing.T) {
	store := newFakeStore()
	h := NewHandler(store, audit.NewRecorder(nopAuditStore{}, zap.NewNop()), zap.NewNop())
	r := newTestRouter(h, uuid.New())

	w := postJSON(r, "/polls", CreateRequest{
		Title:   "<script>alert(1)</script>Vote Now",
		Options: []string{"<b>Go</b>", "Rust"},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var body struct {
		Data models.Poll `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "alert(1)Vote Now", body.Data.Title)
	require.Len(t, body.Data.Options, 2)
	assert.Equal(t, "Go", body.Data.Options[0].Text)
}

func TestCreatePollValidationErrors(t *testing.T) {
	store := newFakeStore()
	h := NewHandler(store, audit.NewRecorder(nopAuditStore{}, zap.NewNop()), zap.NewNop())
	r := newTestRouter(h, uuid.New())

	w := postJSON(r, "/polls", CreateRequest{Title: "ab", Options: []string{"only one"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "title")
	assert.Contains(t, w.Body.String(), "options")

	// Nothing persisted on validation failure.
	assert.Empty(t, store.polls)
}

func TestGetPollNotFound(t *testing.T) {
	h := NewHandler(newFakeStore(), audit.NewRecorder(nopAuditStore{}, zap.NewNop()), zap.NewNop())
	r := newTestRouter(h, uuid.New())

	req := httptest.NewRequest(http.MethodGet, "/polls/"+uuid.NewString(), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestResultsEndpoint(t *testing.T) {
	store := newFakeStore()
	owner := uuid.New()
	poll, err := store.Create(context.Background(), owner, &SanitizedPoll{
		Title: "Scores", Options: []string{"A", "B"},
	})
	require.NoError(t, err)
	store.polls[poll.ID].Options[0].VoteCount = 5
	store.polls[poll.ID].Options[1].VoteCount = 3

	h := NewHandler(store, audit.NewRecorder(nopAuditStore{}, zap.NewNop()), zap.NewNop())
	r := newTestRouter(h, owner)

	req := httptest.NewRequest(http.MethodGet, "/polls/"+poll.ID.String()+"/results", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data struct {
			Results Results `json:"results"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 8, body.Data.Results.TotalVotes)
	require.Len(t, body.Data.Results.Options, 2)
	assert.Equal(t, 63, body.Data.Results.Options[0].Percentage)
	assert.Equal(t, 38, body.Data.Results.Options[1].Percentage)
}

func TestClosePollOwnerOnly(t *testing.T) {
	store := newFakeStore()
	owner := uuid.New()
	poll, err := store.Create(context.Background(), owner, &SanitizedPoll{
		Title: "Mine", Options: []string{"A", "B"},
	})
	require.NoError(t, err)

	h := NewHandler(store, audit.NewRecorder(nopAuditStore{}, zap.NewNop()), zap.NewNop())

	// A different user may not close it.
	stranger := newTestRouter(h, uuid.New())
	w := postJSON(stranger, "/polls/"+poll.ID.String()+"/close", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	got, err := store.GetByID(context.Background(), poll.ID)
	require.NoError(t, err)
	assert.True(t, got.Active)

	// The owner may.
	r := newTestRouter(h, owner)
	w = postJSON(r, "/polls/"+poll.ID.String()+"/close", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	got, err = store.GetByID(context.Background(), poll.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)
}

func TestDeletePollOwnerOnly(t *testing.T) {
	store := newFakeStore()
	owner := uuid.New()
	poll, err := store.Create(context.Background(), owner, &SanitizedPoll{
		Title: "Mine", Options: []string{"A", "B"},
	})
	require.NoError(t, err)

	h := NewHandler(store, audit.NewRecorder(nopAuditStore{}, zap.NewNop()), zap.NewNop())

	stranger := newTestRouter(h, uuid.New())
	req := httptest.NewRequest(http.MethodDelete, "/polls/"+poll.ID.String(), nil)
	w := httptest.NewRecorder()
	stranger.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	r := newTestRouter(h, owner)
	req = httptest.NewRequest(http.MethodDelete, "/polls/"+poll.ID.String(), nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)

	_, err = store.GetByID(context.Background(), poll.ID)
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}
