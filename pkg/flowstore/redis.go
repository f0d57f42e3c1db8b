package flowstore

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "payflow:flow:"

// RedisStore persists snapshots in Redis as JSON values. A TTL bounds how
// long an abandoned flow stays resumable.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// RedisOption configures a RedisStore.
type RedisOption func(*RedisStore)

// WithTTL sets the snapshot expiry. Zero disables expiry.
func WithTTL(ttl time.Duration) RedisOption {
	return func(s *RedisStore) {
		if ttl >= 0 {
			s.ttl = ttl
		}
	}
}

// NewRedisStore creates a Redis-backed store. Panics on a nil client to fail
// fast during initialization.
func NewRedisStore(client *redis.Client, opts ...RedisOption) *RedisStore {
	if client == nil {
		panic("flowstore: redis client is required")
	}

	s := &RedisStore{
		client: client,
		ttl:    24 * time.Hour,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *RedisStore) Save(ctx context.Context, snap Snapshot) error {
	if err := snap.Validate(); err != nil {
		return err
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return errors.Join(ErrInvalidSnapshot, err)
	}

	return s.client.Set(ctx, redisKeyPrefix+snap.FlowID.String(), data, s.ttl).Err()
}

func (s *RedisStore) Load(ctx context.Context, flowID uuid.UUID) (Snapshot, error) {
	data, err := s.client.Get(ctx, redisKeyPrefix+flowID.String()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Snapshot{}, ErrSnapshotNotFound
		}
		return Snapshot{}, err
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, errors.Join(ErrInvalidSnapshot, err)
	}
	return snap, nil
}

func (s *RedisStore) Delete(ctx context.Context, flowID uuid.UUID) error {
	return s.client.Del(ctx, redisKeyPrefix+flowID.String()).Err()
}
