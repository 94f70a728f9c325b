package rate_limiter

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// 超限时不再计数，首次计数时设置过期时间
var allowScript = redis.NewScript(`
local current = tonumber(redis.call('GET', KEYS[1]) or '0')
local max_requests = tonumber(ARGV[1])
if current >= max_requests then
	return current + 1
end
local n = redis.call('INCR', KEYS[1])
if n == 1 then
	redis.call('EXPIRE', KEYS[1], ARGV[2])
end
return n
`)

// RedisLimiter 基于Redis的分布式限流器，多实例共享计数
type RedisLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	now    func() time.Time
}

// NewRedisLimiter 创建Redis限流器
func NewRedisLimiter(client *redis.Client, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{client: client, limit: limit, window: window, now: time.Now}
}

// Allow 原子计数并判断是否超限
func (r *RedisLimiter) Allow(ctx context.Context, key string) (*Result, error) {
	k, resetAt := windowKey(key, r.window, r.now())
	ttl := int64(r.window / time.Second)
	if ttl <= 0 {
		ttl = 1
	}
	count, err := allowScript.Run(ctx, r.client, []string{k}, r.limit, ttl).Int()
	if err != nil {
		return nil, fmt.Errorf("限流检查失败: %w", err)
	}
	return newResult(count, r.limit, resetAt), nil
}
