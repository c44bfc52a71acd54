package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/Esyonel/vural-enerji-sub001/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Limiter counts requests per key in fixed windows
type Limiter interface {
	// Allow records one request for key and reports whether it is within the
	// limit, together with the requests left in the current window
	Allow(ctx context.Context, key string) (allowed bool, remaining int, err error)
	// Limit returns the number of requests allowed per window
	Limit() int
}

// MemoryLimiter is a process-local fixed window limiter
type MemoryLimiter struct {
	mu      sync.Mutex
	windows map[string]*window
	limit   int
	period  time.Duration
	now     func() time.Time
	stop    chan struct{}
	once    sync.Once
}

type window struct {
	count   int
	resetAt time.Time
}

// NewMemoryLimiter creates a limiter and starts its cleanup loop. Call Stop to end it.
func NewMemoryLimiter(limit int, period time.Duration) *MemoryLimiter {
	l := &MemoryLimiter{
		windows: make(map[string]*window),
		limit:   limit,
		period:  period,
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	go l.cleanup(period * 2)
	return l
}

func (l *MemoryLimiter) cleanup(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
			l.mu.Lock()
			now := l.now()
			for key, w := range l.windows {
				if now.After(w.resetAt) {
					delete(l.windows, key)
				}
			}
			l.mu.Unlock()
		}
	}
}

// Stop ends the cleanup loop
func (l *MemoryLimiter) Stop() {
	l.once.Do(func() { close(l.stop) })
}

// Allow implements Limiter
func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.windows[key]
	if !ok || !now.Before(w.resetAt) {
		w = &window{resetAt: now.Add(l.period)}
		l.windows[key] = w
	}
	if w.count >= l.limit {
		return false, 0, nil
	}
	w.count++
	return true, l.limit - w.count, nil
}

// Limit implements Limiter
func (l *MemoryLimiter) Limit() int {
	return l.limit
}

// RedisLimiter shares fixed windows between instances through Redis
type RedisLimiter struct {
	client *redis.Client
	prefix string
	limit  int
	period time.Duration
}

// NewRedisLimiter creates a Redis backed limiter
func NewRedisLimiter(client *redis.Client, prefix string, limit int, period time.Duration) *RedisLimiter {
	if prefix == "" {
		prefix = "solar:ratelimit:"
	}
	return &RedisLimiter{client: client, prefix: prefix, limit: limit, period: period}
}

// Allow implements Limiter. The window starts with the first request of a key.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, int, error) {
	redisKey := l.prefix + key

	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return true, l.limit, err
	}
	if count == 1 {
		if err := l.client.Expire(ctx, redisKey, l.period).Err(); err != nil {
			return true, l.limit, err
		}
	}

	if int(count) > l.limit {
		return false, 0, nil
	}
	return true, l.limit - int(count), nil
}

// Limit implements Limiter
func (l *RedisLimiter) Limit() int {
	return l.limit
}

// RateLimit limits requests per client IP. Limiter errors are logged and the
// request is let through.
func RateLimit(limiter Limiter, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	limit := strconv.Itoa(limiter.Limit())

	return func(c *gin.Context) {
		allowed, remaining, err := limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			logger.Warn("Rate limiter unavailable", zap.Error(err))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", limit)
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeRateLimited,
				"Too many requests. Please try again later.",
				c.GetString("request_id"),
			))
			return
		}
		c.Next()
	}
}
