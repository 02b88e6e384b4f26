// Package memstate provides an in-memory batch state store for development
// and tests. It is process-local; production deployments use redisstate.
package memstate

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/autobmg/processdocs/internal/core"
	"github.com/autobmg/processdocs/internal/domain/model"
)

type entry struct {
	data      []byte
	expiresAt time.Time
}

// Store is a mutex-guarded map with per-entry expiry. Snapshots are stored as
// JSON so Get never aliases a snapshot the pipeline is still mutating.
type Store struct {
	mu  sync.Mutex
	ttl time.Duration
	now func() time.Time

	entries map[string]entry
}

var _ core.BatchStateRepo = (*Store)(nil)

// New creates an in-memory batch state store.
func New(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Store{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]entry),
	}
}

// NewWithClock creates a store with an injected clock for expiry tests.
func NewWithClock(ttl time.Duration, now func() time.Time) *Store {
	s := New(ttl)
	s.now = now
	return s
}

// Save stores the snapshot, resetting its TTL.
func (s *Store) Save(_ context.Context, status *model.BatchStatus) error {
	if status == nil || status.ID == "" {
		return errors.New("batch ID cannot be empty")
	}

	data, err := json.Marshal(status)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.prune()
	s.entries[status.ID] = entry{data: data, expiresAt: s.now().Add(s.ttl)}
	return nil
}

// Get returns the snapshot for id, or core.ErrBatchNotFound.
func (s *Store) Get(_ context.Context, id string) (*model.BatchStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok || s.now().After(e.expiresAt) {
		return nil, core.ErrBatchNotFound
	}

	var status model.BatchStatus
	if err := json.Unmarshal(e.data, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// prune drops expired entries. Called with the lock held.
func (s *Store) prune() {
	now := s.now()
	for id, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, id)
		}
	}
}
