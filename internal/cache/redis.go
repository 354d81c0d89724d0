package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// viewKeyPrefix namespaces view-cache keys inside Redis so Clear can
	// never touch unrelated keys.
	viewKeyPrefix = "view:"

	// viewTTL is a safety bound for the Redis backend. Invalidation is
	// still mutation-driven; the TTL only keeps abandoned keys from
	// accumulating across deploys.
	viewTTL = 24 * time.Hour
)

// RedisStore implements Store on Redis, for running several gateway
// instances behind a balancer with a shared view cache.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a Store backed by the given Redis client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// NewRedisClient dials Redis from a URL and verifies the connection.
// URL format: redis://[:password@]host:port[/db]
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

func viewKey(key string) string {
	return viewKeyPrefix + key
}

func (s *RedisStore) Set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode cache value: %w", err)
	}

	if err := s.client.Set(ctx, viewKey(key), data, viewTTL).Err(); err != nil {
		log.Printf("[Cache] Set FAILED: key=%s err=%v", key, err)
		return fmt.Errorf("cache set: %w", err)
	}

	log.Printf("[Cache] Set OK: key=%s bytes=%d", key, len(data))
	return nil
}

func (s *RedisStore) Get(ctx context.Context, key string, out any) (bool, error) {
	data, err := s.client.Get(ctx, viewKey(key)).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		log.Printf("[Cache] Get FAILED: key=%s err=%v", key, err)
		return false, fmt.Errorf("cache get: %w", err)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("decode cache value: %w", err)
	}

	log.Printf("[Cache] Get HIT: key=%s", key)
	return true, nil
}

// Clear removes equal-or-prefixed keys with SCAN + DEL. MATCH needs glob
// escaping for anything that could be a metacharacter in a key.
func (s *RedisStore) Clear(ctx context.Context, keyOrPrefix string) error {
	pattern := escapeGlob(viewKey(keyOrPrefix)) + "*"
	startTime := time.Now()

	var removed int64
	iter := s.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		n, err := s.client.Del(ctx, iter.Val()).Result()
		if err != nil {
			log.Printf("[Cache] Clear FAILED: prefix=%s key=%s err=%v", keyOrPrefix, iter.Val(), err)
			return fmt.Errorf("cache clear: %w", err)
		}
		removed += n
	}
	if err := iter.Err(); err != nil {
		log.Printf("[Cache] Clear FAILED: prefix=%s err=%v", keyOrPrefix, err)
		return fmt.Errorf("cache scan: %w", err)
	}

	log.Printf("[Cache] Clear OK: prefix=%s removed=%d duration=%v",
		keyOrPrefix, removed, time.Since(startTime))
	return nil
}

func escapeGlob(s string) string {
	r := strings.NewReplacer(`*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`, `\`, `\\`)
	return r.Replace(s)
}
