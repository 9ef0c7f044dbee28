package middleware

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/blood-donation-service/pkg/response"
)

// KeyFunc builds the Redis counter key for a request.
type KeyFunc func(c *gin.Context) string

// AllowFunc reports whether a request bypasses the limiter.
type AllowFunc func(*gin.Context) bool

func routeOf(c *gin.Context) string {
	if fp := c.FullPath(); fp != "" {
		return fp
	}
	return c.Request.URL.Path
}

// KeyByIP limits by client IP only.
func KeyByIP() KeyFunc {
	return func(c *gin.Context) string {
		return "rl:ip:" + ipFromCtx(c)
	}
}

// KeyByIPAndPath limits by client IP per route.
func KeyByIPAndPath() KeyFunc {
	return func(c *gin.Context) string {
		return "rl:path:" + routeOf(c) + ":ip:" + ipFromCtx(c)
	}
}

// KeyByUserID limits per authenticated user and route. Anonymous callers fall
// back to their IP.
func KeyByUserID() KeyFunc {
	return func(c *gin.Context) string {
		uid := c.GetInt64(ctxUserID)
		if uid <= 0 {
			return "rl:user:anon:path:" + routeOf(c) + ":ip:" + ipFromCtx(c)
		}
		return "rl:user:" + strconv.FormatInt(uid, 10) + ":path:" + routeOf(c)
	}
}

var errUnexpectedReply = errors.New("rate limit: unexpected script reply")

// fixed window counter: returns {hits, pttl}
var windowScript = redis.NewScript(`
local hits = redis.call("INCR", KEYS[1])
if hits == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return {hits, redis.call("PTTL", KEYS[1])}
`)

type window struct {
	rdb    *redis.Client
	limit  int
	length time.Duration
}

func (w window) hit(ctx context.Context, key string) (hits int, reset time.Duration, err error) {
	res, err := windowScript.Run(ctx, w.rdb, []string{key}, w.length.Milliseconds()).Int64Slice()
	if err != nil {
		return 0, 0, err
	}
	if len(res) != 2 {
		return 0, 0, errUnexpectedReply
	}
	if res[1] > 0 {
		reset = time.Duration(res[1]) * time.Millisecond
	}
	return int(res[0]), reset, nil
}

// RateLimit caps requests per key to limit within each window. Redis errors fail
// open. OPTIONS requests and callers accepted by allow are never counted.
func RateLimit(rdb *redis.Client, limit int, length time.Duration, keyFn KeyFunc, allow AllowFunc) gin.HandlerFunc {
	if rdb == nil || limit <= 0 || length <= 0 || keyFn == nil {
		return func(c *gin.Context) { c.Next() }
	}
	w := window{rdb: rdb, limit: limit, length: length}
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions || (allow != nil && allow(c)) {
			c.Next()
			return
		}

		hits, reset, err := w.hit(c.Request.Context(), keyFn(c))
		if err != nil {
			c.Next()
			return
		}

		resetSec := strconv.Itoa(int(reset.Round(time.Second) / time.Second))
		c.Header("X-RateLimit-Limit", strconv.Itoa(w.limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(max(0, w.limit-hits)))
		c.Header("X-RateLimit-Reset", resetSec)

		if hits > w.limit {
			c.Header("Retry-After", resetSec)
			response.Error[any](c, http.StatusTooManyRequests, "rate limit exceeded", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}
