package helpers

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient returns the client shared by rate limiting, session checks
// and the unread-count cache.
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})
}

// RedisSetJSON stores value as JSON under key for ttl.
func RedisSetJSON(ctx context.Context, rdb *redis.Client, key string, value any, ttl time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return rdb.Set(ctx, key, b, ttl).Err()
}

// RedisGetJSON decodes key into dest. A missing key reports false and no error.
func RedisGetJSON[T any](ctx context.Context, rdb *redis.Client, key string, dest *T) (bool, error) {
	b, err := rdb.Get(ctx, key).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return false, nil
	case err != nil:
		return false, err
	}
	return true, json.Unmarshal(b, dest)
}

// Versioned entries: RedisInvalidate bumps a key's version, and a fill made with
// RedisSetJSONIfVersion only lands while the version still matches the one read
// before the source of truth was queried.

const redisVersionTTL = 24 * time.Hour

func redisVersionKey(key string) string { return key + ":v" }

var setIfVersionScript = redis.NewScript(`
local v = redis.call("GET", KEYS[2]) or ""
if v ~= ARGV[1] then
  return 0
end
redis.call("SET", KEYS[1], ARGV[2], "PX", ARGV[3])
return 1
`)

// RedisVersion returns key's current version, "" when it was never invalidated.
func RedisVersion(ctx context.Context, rdb *redis.Client, key string) (string, error) {
	v, err := rdb.Get(ctx, redisVersionKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return v, err
}

// RedisSetJSONIfVersion stores value as JSON under key for ttl unless key was
// invalidated after version was read. It reports whether the value was stored.
func RedisSetJSONIfVersion(ctx context.Context, rdb *redis.Client, key, version string, value any, ttl time.Duration) (bool, error) {
	b, err := json.Marshal(value)
	if err != nil {
		return false, err
	}
	n, err := setIfVersionScript.Run(ctx, rdb, []string{key, redisVersionKey(key)}, version, b, ttl.Milliseconds()).Int()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// RedisInvalidate deletes keys and bumps their versions in one MULTI block.
func RedisInvalidate(ctx context.Context, rdb *redis.Client, keys ...string) error {
	if rdb == nil || len(keys) == 0 {
		return nil
	}
	_, err := rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, keys...)
		for _, k := range keys {
			p.Incr(ctx, redisVersionKey(k))
			p.Expire(ctx, redisVersionKey(k), redisVersionTTL)
		}
		return nil
	})
	return err
}
