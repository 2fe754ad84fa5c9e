package audit

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memStore struct {
	mu      sync.Mutex
	entries []Entry
	err     error
}

func (s *memStore) Insert(_ context.Context, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.entries = append(s.entries, e)
	return nil
}

func (s *memStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func TestRecorderWritesEntry(t *testing.T) {
	store := &memStore{}
	rec := NewRecorder(store, zap.NewNop())

	actor := uuid.New()
	rec.Record(Entry{ActorID: &actor, Action: ActionVoteCast})
	rec.Wait()

	require.Equal(t, 1, store.count())
	assert.Equal(t, ActionVoteCast, store.entries[0].Action)
	assert.Equal(t, &actor, store.entries[0].ActorID)
}

// A failing store must never surface to the caller; Record has no error
// return and Wait must still come back.
func TestRecorderSwallowsStoreFailure(t *testing.T) {
	store := &memStore{err: errors.New("database down")}
	rec := NewRecorder(store, zap.NewNop())

	rec.Record(Entry{Action: ActionPollCreated})
	rec.Wait()

	assert.Equal(t, 0, store.count())
}

func TestRecorderConcurrentRecords(t *testing.T) {
	store := &memStore{}
	rec := NewRecorder(store, zap.NewNop())

	const n = 32
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec.Record(Entry{Action: ActionVoteCast})
		}()
	}
	wg.Wait()
	rec.Wait()

	assert.Equal(t, n, store.count())
}
