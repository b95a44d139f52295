package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/extra/redisotel/v8"
	"github.com/go-redis/redis/v8"

	"github.com/devotedslingers/devotedslingers/internal/telemetry"
)

// Default TTL values
const (
	DefaultTTL       = time.Hour
	CandidatePoolTTL = 5 * time.Minute
)

// RedisClient is the subset of the go-redis client used by the service,
// extracted for test substitution.
type RedisClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
	Ping(ctx context.Context) *redis.StatusCmd
	Close() error
}

// RedisService provides cache and pub/sub operations over a shared Redis
// connection.
type RedisService struct {
	client RedisClient
}

// NewRedisService connects to Redis using a redis:// URL and instruments the
// client with OpenTelemetry tracing hooks.
func NewRedisService(redisURL string) (*RedisService, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := redis.NewClient(opts)
	client.AddHook(redisotel.NewTracingHook())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	telemetry.LogFromContext(ctx).WithField("operation", "redis_connection").
		Info("Redis connection established")

	return &RedisService{client: client}, nil
}

// NewRedisServiceWithClient wraps an existing client. Used by tests.
func NewRedisServiceWithClient(client RedisClient) *RedisService {
	return &RedisService{client: client}
}

// Set stores a JSON-encoded value under key with the given TTL.
func (r *RedisService) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

// Get retrieves a JSON-encoded value into dest. Returns redis.Nil when the
// key is absent.
func (r *RedisService) Get(ctx context.Context, key string, dest interface{}) error {
	data, err := r.client.Get(ctx, key).Result()
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(data), dest)
}

// Delete removes keys.
func (r *RedisService) Delete(ctx context.Context, keys ...string) error {
	return r.client.Del(ctx, keys...).Err()
}

// Publish emits a message on a channel.
func (r *RedisService) Publish(ctx context.Context, channel string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}
	return r.client.Publish(ctx, channel, data).Err()
}

func candidatePoolKey(userID string) string {
	return fmt.Sprintf("matchmaking:pool:%s", userID)
}

// GetCandidatePool returns the cached candidate pool for a user, or
// (nil, false) on a miss. Cache failures degrade to a miss.
func (r *RedisService) GetCandidatePool(ctx context.Context, userID string) ([]string, bool) {
	var ids []string
	err := r.Get(ctx, candidatePoolKey(userID), &ids)
	if err != nil {
		if err != redis.Nil {
			telemetry.LogFromContext(ctx).WithError(err).
				WithField("operation", "candidate_pool_get").
				Warn("Cache read failed")
		}
		return nil, false
	}
	return ids, true
}

// SetCandidatePool caches the candidate pool for a user.
func (r *RedisService) SetCandidatePool(ctx context.Context, userID string, ids []string) {
	if err := r.Set(ctx, candidatePoolKey(userID), ids, CandidatePoolTTL); err != nil {
		telemetry.LogFromContext(ctx).WithError(err).
			WithField("operation", "candidate_pool_set").
			Warn("Cache write failed")
	}
}

// InvalidateCandidatePool drops a user's cached candidate pool. Called after
// every swipe so an already-swiped candidate never reappears.
func (r *RedisService) InvalidateCandidatePool(ctx context.Context, userID string) {
	if err := r.Delete(ctx, candidatePoolKey(userID)); err != nil {
		telemetry.LogFromContext(ctx).WithError(err).
			WithField("operation", "candidate_pool_invalidate").
			Warn("Cache invalidation failed")
	}
}

// HealthCheck reports whether Redis answers a ping.
func (r *RedisService) HealthCheck(ctx context.Context) bool {
	return r.client.Ping(ctx).Err() == nil
}

func (r *RedisService) Close() error {
	return r.client.Close()
}
