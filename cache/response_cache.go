package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"time"

	"VinylX/logger"

	"github.com/go-redis/redis/v8"
	gocache "github.com/patrickmn/go-cache"
)

const responseKeyPrefix = "vinylx:http:"

// ResponseCache 外部 HTTP 响应体缓存，按完整 URL 做键
type ResponseCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, body []byte, ttl time.Duration)
}

// MemoryResponseCache 进程内缓存，单实例部署的默认后端
type MemoryResponseCache struct {
	store *gocache.Cache
}

// NewMemoryResponseCache 创建进程内响应缓存
func NewMemoryResponseCache(cleanupInterval time.Duration) *MemoryResponseCache {
	return &MemoryResponseCache{store: gocache.New(gocache.NoExpiration, cleanupInterval)}
}

func (c *MemoryResponseCache) Get(_ context.Context, key string) ([]byte, bool) {
	v, ok := c.store.Get(key)
	if !ok {
		return nil, false
	}
	body, ok := v.([]byte)
	return body, ok
}

func (c *MemoryResponseCache) Set(_ context.Context, key string, body []byte, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	c.store.Set(key, body, ttl)
}

// ItemCount 当前缓存条目数（包含尚未清理的过期项）
func (c *MemoryResponseCache) ItemCount() int {
	return c.store.ItemCount()
}

// RedisResponseCache 多实例共享的响应缓存，Redis 故障只记录日志，按未命中处理
type RedisResponseCache struct {
	client *redis.Client
}

// NewRedisResponseCache 基于已连接的客户端创建响应缓存
func NewRedisResponseCache(client *redis.Client) *RedisResponseCache {
	return &RedisResponseCache{client: client}
}

// redisKey URL 可能很长，统一哈希后加前缀
func redisKey(key string) string {
	sum := sha1.Sum([]byte(key))
	return responseKeyPrefix + hex.EncodeToString(sum[:])
}

func (c *RedisResponseCache) Get(ctx context.Context, key string) ([]byte, bool) {
	body, err := c.client.Get(ctx, redisKey(key)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Warn("[Cache] redis get failed", logger.String("key", key), logger.ErrorField(err))
		}
		return nil, false
	}
	return body, true
}

func (c *RedisResponseCache) Set(ctx context.Context, key string, body []byte, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	if err := c.client.Set(ctx, redisKey(key), body, ttl).Err(); err != nil {
		logger.Warn("[Cache] redis set failed", logger.String("key", key), logger.ErrorField(err))
	}
}
