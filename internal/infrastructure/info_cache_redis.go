package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/yourusername/audio-extract-go/internal/domain"
)

const infoKeyPrefix = "info:"

// RedisInfoCache implements domain.InfoCache with Redis string keys holding JSON
type RedisInfoCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisInfoCache connects to Redis and verifies the connection with a PING
func NewRedisInfoCache(ctx context.Context, config *domain.CacheConfig) (*RedisInfoCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        config.Addr,
		Password:    config.Password,
		DB:          config.DB,
		DialTimeout: 2 * time.Second,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis not available at %s: %w", config.Addr, err)
	}

	return NewRedisInfoCacheWithClient(client, config.TTL), nil
}

// NewRedisInfoCacheWithClient wraps an existing client
func NewRedisInfoCacheWithClient(client *redis.Client, ttl time.Duration) *RedisInfoCache {
	return &RedisInfoCache{client: client, ttl: ttl}
}

// Get returns the cached metadata for url, or nil on a miss
func (c *RedisInfoCache) Get(ctx context.Context, url string) (*domain.MediaInfo, error) {
	val, err := c.client.Get(ctx, infoKey(url)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var info domain.MediaInfo
	if err := json.Unmarshal(val, &info); err != nil {
		return nil, fmt.Errorf("corrupt cache entry for %s: %w", url, err)
	}
	return &info, nil
}

// Set stores metadata for url with the configured TTL
func (c *RedisInfoCache) Set(ctx context.Context, url string, info *domain.MediaInfo) error {
	data, err := json.Marshal(info)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, infoKey(url), data, c.ttl).Err()
}

// Close closes the underlying client
func (c *RedisInfoCache) Close() error {
	return c.client.Close()
}

func infoKey(url string) string {
	return infoKeyPrefix + url
}

var _ domain.InfoCache = (*RedisInfoCache)(nil)
