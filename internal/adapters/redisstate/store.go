// Package redisstate provides the Redis-backed batch state store.
package redisstate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/autobmg/processdocs/internal/core"
	"github.com/autobmg/processdocs/internal/domain/model"
)

const defaultPrefix = "batch:"

// Store keeps batch snapshots in Redis with a TTL matching the archive
// retention window. Snapshots are presentation state only; losing them never
// loses documents, which live in the object store.
type Store struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

var _ core.BatchStateRepo = (*Store)(nil)

// New creates a Redis-backed batch state store.
func New(client redis.UniversalClient, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Store{
		client: client,
		prefix: defaultPrefix,
		ttl:    ttl,
	}
}

// Save stores the snapshot, resetting its TTL.
func (s *Store) Save(ctx context.Context, status *model.BatchStatus) error {
	if status == nil || status.ID == "" {
		return errors.New("batch ID cannot be empty")
	}

	data, err := json.Marshal(status)
	if err != nil {
		return fmt.Errorf("marshal batch status: %w", err)
	}

	return s.client.Set(ctx, s.prefix+status.ID, data, s.ttl).Err()
}

// Get returns the snapshot for id, or core.ErrBatchNotFound when the key is
// unknown or already expired.
func (s *Store) Get(ctx context.Context, id string) (*model.BatchStatus, error) {
	if id == "" {
		return nil, core.ErrBatchNotFound
	}

	data, err := s.client.Get(ctx, s.prefix+id).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, core.ErrBatchNotFound
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var status model.BatchStatus
	if err := json.Unmarshal([]byte(data), &status); err != nil {
		return nil, fmt.Errorf("unmarshal batch status: %w", err)
	}
	return &status, nil
}
