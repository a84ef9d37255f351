package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimitConfig holds rate limiting configuration for a public endpoint.
type RateLimitConfig struct {
	// Requests per second per IP
	RequestsPerSecond int
	// Burst size (token bucket capacity)
	BurstSize int
	// Redis client for distributed limiting; nil falls back to in-process
	RedisClient *redis.Client
	// Key prefix for Redis
	KeyPrefix string
	// Entry TTL for the local limiter
	EntryTTL time.Duration
}

// DefaultCheckInRateLimit is sized for the public check-in endpoint, which
// doubles as a weak authentication proxy and must not be brute-forceable.
func DefaultCheckInRateLimit(rdb *redis.Client) RateLimitConfig {
	return RateLimitConfig{
		RequestsPerSecond: 2,
		BurstSize:         5,
		RedisClient:       rdb,
		KeyPrefix:         "ratelimit:checkin:",
		EntryTTL:          time.Minute,
	}
}

type rateLimitEntry struct {
	tokens     float64
	lastUpdate time.Time
	mu         sync.Mutex
}

// localRateLimiter implements an in-memory token bucket per key.
type localRateLimiter struct {
	config  RateLimitConfig
	entries sync.Map
}

func (rl *localRateLimiter) allow(key string) bool {
	now := time.Now()

	entry, _ := rl.entries.LoadOrStore(key, &rateLimitEntry{
		tokens:     float64(rl.config.BurstSize),
		lastUpdate: now,
	})
	e := entry.(*rateLimitEntry)

	e.mu.Lock()
	defer e.mu.Unlock()

	elapsed := now.Sub(e.lastUpdate).Seconds()
	e.tokens = min(float64(rl.config.BurstSize), e.tokens+elapsed*float64(rl.config.RequestsPerSecond))
	e.lastUpdate = now

	if e.tokens >= 1 {
		e.tokens--
		return true
	}
	return false
}

func (rl *localRateLimiter) cleanup(ttl time.Duration) {
	ticker := time.NewTicker(ttl)
	defer ticker.Stop()
	for range ticker.C {
		cutoff := time.Now().Add(-ttl)
		rl.entries.Range(func(key, value interface{}) bool {
			e := value.(*rateLimitEntry)
			e.mu.Lock()
			if e.lastUpdate.Before(cutoff) {
				rl.entries.Delete(key)
			}
			e.mu.Unlock()
			return true
		})
	}
}

// Lua script for an atomic token bucket shared across instances.
const rateLimitScript = `
local key = KEYS[1]
local rate = tonumber(ARGV[1])
local burst = tonumber(ARGV[2])
local now = tonumber(ARGV[3])

local data = redis.call("HMGET", key, "tokens", "last_update")
local tokens = tonumber(data[1]) or burst
local last_update = tonumber(data[2]) or now

local elapsed = now - last_update
tokens = math.min(burst, tokens + elapsed * rate)

local allowed = 0
if tokens >= 1 then
    tokens = tokens - 1
    allowed = 1
end
redis.call("HMSET", key, "tokens", tokens, "last_update", now)
redis.call("EXPIRE", key, 60)
return allowed
`

func redisAllow(ctx context.Context, config RateLimitConfig, key string) (bool, error) {
	now := float64(time.Now().UnixNano()) / 1e9
	result := config.RedisClient.Eval(ctx, rateLimitScript,
		[]string{config.KeyPrefix + key},
		float64(config.RequestsPerSecond),
		float64(config.BurstSize),
		now,
	)
	if result.Err() != nil {
		return false, result.Err()
	}
	allowed, err := result.Int64()
	if err != nil {
		return false, err
	}
	return allowed == 1, nil
}

// RateLimiter returns a per-IP token bucket middleware. With a Redis client
// configured the bucket is shared across instances; Redis errors fail open.
func RateLimiter(config RateLimitConfig) gin.HandlerFunc {
	var local *localRateLimiter
	if config.RedisClient == nil {
		local = &localRateLimiter{config: config}
		if config.EntryTTL > 0 {
			go local.cleanup(config.EntryTTL)
		}
	}

	return func(c *gin.Context) {
		clientIP := c.ClientIP()

		var allowed bool
		if config.RedisClient != nil {
			var err error
			allowed, err = redisAllow(c.Request.Context(), config, clientIP)
			if err != nil {
				allowed = true
			}
		} else {
			allowed = local.allow(clientIP)
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(config.RequestsPerSecond))
		if !allowed {
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Too many check-in attempts. Please retry shortly.",
			})
			return
		}
		c.Next()
	}
}

func min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
