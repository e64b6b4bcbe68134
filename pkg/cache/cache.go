// Package cache implements a cache-aside helper over Redis: get-or-compute
// reads with a fixed TTL and pattern-based invalidation for listing keys.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/mlazarev/tracknest/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// ErrMiss is returned by Conn.Get when a key is absent.
var ErrMiss = errors.New("cache: miss")

// Conn is the minimal command set the helper needs. It exists so tests
// can run against an in-memory implementation instead of a live server.
type Conn interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Keys(ctx context.Context, pattern string) ([]string, error)
	Del(ctx context.Context, key string) error
}

type redisConn struct {
	rdb *redis.Client
}

func (c *redisConn) Get(ctx context.Context, key string) (string, error) {
	val, err := c.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrMiss
	}
	return val, err
}

func (c *redisConn) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return c.rdb.Set(ctx, key, value, ttl).Err()
}

func (c *redisConn) Keys(ctx context.Context, pattern string) ([]string, error) {
	return c.rdb.Keys(ctx, pattern).Result()
}

func (c *redisConn) Del(ctx context.Context, key string) error {
	return c.rdb.Del(ctx, key).Err()
}

// Cache is a cache-aside front for JSON-serializable values. A nil
// *Cache is valid and computes everything directly.
type Cache struct {
	conn Conn
	ttl  time.Duration
}

// New connects to Redis and returns a Cache with the given entry TTL.
func New(addr, password string, db int, ttl time.Duration) (*Cache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Cache{conn: &redisConn{rdb: rdb}, ttl: ttl}, nil
}

// NewWithConn builds a Cache over an arbitrary Conn.
func NewWithConn(conn Conn, ttl time.Duration) *Cache {
	return &Cache{conn: conn, ttl: ttl}
}

// GetOrCompute looks up key and deserializes a well-formed hit into dest.
// On a miss, or a stored value that fails to parse, it calls compute,
// stores the serialized result with the configured TTL and fills dest.
func (c *Cache) GetOrCompute(ctx context.Context, key string, dest interface{}, compute func() (interface{}, error)) error {
	if c == nil || c.conn == nil {
		return computeInto(dest, compute)
	}

	raw, err := c.conn.Get(ctx, key)
	if err == nil {
		if jsonErr := json.Unmarshal([]byte(raw), dest); jsonErr == nil {
			return nil
		}
		// An unparseable entry is treated as absent, not as a failure.
	} else if !errors.Is(err, ErrMiss) {
		logger.Warnf("[Cache] get %s failed: %v", key, err)
	}

	result, err := compute()
	if err != nil {
		return err
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return err
	}

	if err := c.conn.Set(ctx, key, string(payload), c.ttl); err != nil {
		logger.Warnf("[Cache] set %s failed: %v", key, err)
	}

	return json.Unmarshal(payload, dest)
}

// Invalidate deletes every key matching pattern, best-effort per key.
func (c *Cache) Invalidate(ctx context.Context, pattern string) {
	if c == nil || c.conn == nil {
		return
	}

	keys, err := c.conn.Keys(ctx, pattern)
	if err != nil {
		logger.Warnf("[Cache] keys %s failed: %v", pattern, err)
		return
	}

	for _, key := range keys {
		if err := c.conn.Del(ctx, key); err != nil {
			logger.Warnf("[Cache] del %s failed: %v", key, err)
		}
	}
}

func computeInto(dest interface{}, compute func() (interface{}, error)) error {
	result, err := compute()
	if err != nil {
		return err
	}
	payload, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return json.Unmarshal(payload, dest)
}
