package settings

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/sweeney/sleep-controller/internal/logger"
)

// Redis hashes read by RedisStore.
const (
	HashSettings = "settings"
	HashRF       = "rf"
)

// hashReader is the subset of the Redis client used here.
type hashReader interface {
	HGetAll(ctx context.Context, key string) *redis.MapStringStringCmd
	Ping(ctx context.Context) *redis.StatusCmd
}

// RedisStore caches settings read from Redis.
type RedisStore struct {
	*Store
	client hashReader
	closer func() error
	log    *logger.Logger
}

// NewRedisStore creates a store backed by the Redis server at addr.
// Nothing is read until Refresh is called; until then sleep is disabled.
func NewRedisStore(addr string, l *logger.Logger) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   0,
	})
	return &RedisStore{
		Store:  &Store{},
		client: client,
		closer: client.Close,
		log:    l,
	}
}

// Ping checks connectivity.
func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

// Refresh reloads the settings and the link phase. On error the cached
// values are left untouched.
func (s *RedisStore) Refresh(ctx context.Context) error {
	values, err := s.client.HGetAll(ctx, HashSettings).Result()
	if err != nil {
		return fmt.Errorf("read %s: %w", HashSettings, err)
	}
	cfg, errs := Parse(values)
	for _, e := range errs {
		s.log.Warnf("ignoring setting: %v", e)
	}

	rf, err := s.client.HGetAll(ctx, HashRF).Result()
	if err != nil {
		return fmt.Errorf("read %s: %w", HashRF, err)
	}

	s.Set(cfg)
	if state, ok := rf[FieldRFState]; ok {
		phase, err := ParsePhase(state)
		if err != nil {
			s.log.Warnf("rf: %v", err)
		}
		s.SetPhase(phase)
	}
	return nil
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer()
}
