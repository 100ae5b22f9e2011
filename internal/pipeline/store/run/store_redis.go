package run

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"skyvault/internal/pipeline"
	"skyvault/pkg/platform/sentinel"
)

const (
	runKeyPrefix = "kyc:run:"

	// DefaultRunTTL bounds how long run status is queryable. Compliance
	// artifacts live in the rendered filing and the notification email, not
	// here, so expiry is safe.
	DefaultRunTTL = 24 * time.Hour
)

// RedisStore is a Redis-backed RunStore for multi-instance deployments.
// States are JSON values under TTL'd keys.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

type RedisStoreOption func(*RedisStore)

// WithTTL overrides the run-state retention period.
func WithTTL(ttl time.Duration) RedisStoreOption {
	return func(s *RedisStore) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

func NewRedisStore(client *redis.Client, opts ...RedisStoreOption) *RedisStore {
	s := &RedisStore{client: client, ttl: DefaultRunTTL}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStore) Save(ctx context.Context, state pipeline.RunState) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal run state: %w", err)
	}
	if err := s.client.Set(ctx, runKeyPrefix+state.RunID, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("save run state: %w", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, runID string) (pipeline.RunState, error) {
	payload, err := s.client.Get(ctx, runKeyPrefix+runID).Bytes()
	if errors.Is(err, redis.Nil) {
		return pipeline.RunState{}, sentinel.ErrNotFound
	}
	if err != nil {
		return pipeline.RunState{}, fmt.Errorf("get run state: %w", err)
	}

	var state pipeline.RunState
	if err := json.Unmarshal(payload, &state); err != nil {
		return pipeline.RunState{}, fmt.Errorf("unmarshal run state: %w", err)
	}
	return state, nil
}
