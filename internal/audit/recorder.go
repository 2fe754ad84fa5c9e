// Package audit records security-relevant events as a best-effort side
// channel. Writes never block the request that triggered them and their
// failures never reach the caller.
package audit

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Action tags for recorded events.
const (
	ActionUserRegistered = "user.registered"
	ActionPollCreated    = "poll.created"
	ActionPollClosed     = "poll.closed"
	ActionPollDeleted    = "poll.deleted"
	ActionVoteCast       = "vote.cast"
)

const writeTimeout = 5 * time.Second

// Entry describes one event to record.
type Entry struct {
	ActorID   *uuid.UUID
	Action    string
	TargetID  *uuid.UUID
	ClientIP  string
	UserAgent string
	Detail    map[string]interface{}
}

// Store persists audit entries.
type Store interface {
	Insert(ctx context.Context, e Entry) error
}

// Recorder dispatches audit writes without joining the caller's error path.
// Construct one at startup and pass it to handlers; it is not a global.
type Recorder struct {
	store  Store
	logger *zap.Logger
	wg     sync.WaitGroup
}

// NewRecorder creates a recorder over the given store.
func NewRecorder(store Store, logger *zap.Logger) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{store: store, logger: logger}
}

// Record writes the entry in a detached goroutine with its own deadline,
// decoupled from the request context so an already-finished request cannot
// cancel the write. Failures are logged and swallowed.
func (r *Recorder) Record(e Entry) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		defer cancel()
		if err := r.store.Insert(ctx, e); err != nil {
			r.logger.Warn("audit write failed",
				zap.String("action", e.Action),
				zap.Error(err),
			)
		}
	}()
}

// Wait blocks until all in-flight writes finish. Called at shutdown.
func (r *Recorder) Wait() {
	r.wg.Wait()
}
