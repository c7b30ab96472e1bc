package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// redisClient is the subset of go-redis the store uses.
type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisStore keeps session data under shelfsmart:session:<name>.
type RedisStore struct {
	client redisClient
	key    string
	ttl    time.Duration
}

// NewRedisClient builds a client, accepting addresses with a redis:// or rediss:// prefix.
func NewRedisClient(addr, password string, db int, logger *zap.Logger) *redis.Client {
	parsedAddr := strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://")

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if logger != nil {
		if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
			logger.Warn("Redis ping failed on initialization", zap.Error(pingErr), zap.String("address", parsedAddr))
		} else {
			logger.Debug("Redis connection established", zap.String("address", parsedAddr))
		}
	}
	return client
}

// NewRedisStore stores the session named name. A zero ttl keeps it until cleared.
func NewRedisStore(client redisClient, name string, ttl time.Duration) *RedisStore {
	if name == "" {
		name = "default"
	}
	return &RedisStore{client: client, key: fmt.Sprintf("shelfsmart:session:%s", name), ttl: ttl}
}

func (r *RedisStore) Load(ctx context.Context) (*Data, error) {
	raw, err := r.client.Get(ctx, r.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var data Data
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

func (r *RedisStore) Save(ctx context.Context, data Data) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.key, raw, r.ttl).Err()
}

func (r *RedisStore) Clear(ctx context.Context) error {
	return r.client.Del(ctx, r.key).Err()
}
